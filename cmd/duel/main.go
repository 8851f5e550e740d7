package main

import (
	"context"
	"errors"
	"os"

	"github.com/joho/godotenv"

	"github.com/fsdevblog/groph-duel/internal/logger"

	"github.com/fsdevblog/groph-duel/internal/app"
	"github.com/fsdevblog/groph-duel/internal/config"
)

func main() {
	// .env опционален, его отсутствие не ошибка.
	_ = godotenv.Load()

	conf := config.MustLoadConfig()
	l := logger.New(os.Stdout, conf.LogLevel)

	if err := app.New(conf, l).Run(); err != nil {
		if errors.Is(err, context.Canceled) {
			l.Info("graceful shutdown")
			os.Exit(0)
		}
		panic(err)
	}
}
