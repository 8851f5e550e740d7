package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"
)

type Config struct {
	RunAddress    string `env:"RUN_ADDRESS"`
	DatabaseDSN   string `env:"DATABASE_DSN"`
	MigrationsDir string `env:"MIGRATIONS_DIR"`
	JWTUserSecret string `env:"JWT_USER_SECRET"`

	// PlatformSecret ключ HMAC генератора исходов. Без него сервис не стартует:
	// молчаливый пустой ключ означал бы предсказуемые исходы.
	PlatformSecret string `env:"PLATFORM_SECRET"`

	// ExchangeAddress адрес внешнего сервиса обмена. Пустое значение выключает
	// обработку депозитных тикетов.
	ExchangeAddress string `env:"EXCHANGE_ADDRESS"`

	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"2s"`
	ConfirmWindow time.Duration `env:"CONFIRM_WINDOW" envDefault:"2m"`
	SubmitWindow  time.Duration `env:"SUBMIT_WINDOW" envDefault:"10s"`
	RoundCeiling  time.Duration `env:"ROUND_CEILING" envDefault:"5m"`

	WelcomeBonus decimal.Decimal `env:"WELCOME_BONUS" envDefault:"500"`

	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
	LogLevel         string `env:"LOG_LEVEL"`
}

func LoadConfig() (*Config, error) {
	var flagsConfig, envConfig Config

	if envParseErr := env.Parse(&envConfig); envParseErr != nil {
		return nil, fmt.Errorf("parse env config: %s", envParseErr.Error())
	}

	loadFlags(&flagsConfig)

	conf := mergeConfig(&envConfig, &flagsConfig)
	if validateErr := validateConfig(conf); validateErr != nil {
		return nil, validateErr
	}
	return conf, nil
}

func MustLoadConfig() *Config {
	config, err := LoadConfig()
	if err != nil {
		panic(err)
	}
	return config
}

func loadFlags(flagConfig *Config) {
	flag.StringVar(&flagConfig.RunAddress, "a", ":8080", "Run address in format host:port")
	flag.StringVar(&flagConfig.DatabaseDSN, "d", "", "Database DSN")
	flag.StringVar(&flagConfig.MigrationsDir, "m", "internal/db/migrations", "Database migrations directory")
	flag.StringVar(&flagConfig.JWTUserSecret, "j", "", "Secret key for signing user JWT")
	flag.StringVar(&flagConfig.ExchangeAddress, "r", "", "Exchange service address")

	flag.Parse()
}

func mergeConfig(envConfig, flagsConfig *Config) *Config {
	// Нестроковые параметры задаются только окружением, дефолты у них в env тегах.
	merged := *envConfig
	merged.RunAddress = defaultIfBlank(envConfig.RunAddress, flagsConfig.RunAddress)
	merged.DatabaseDSN = defaultIfBlank(envConfig.DatabaseDSN, flagsConfig.DatabaseDSN)
	merged.MigrationsDir = defaultIfBlank(envConfig.MigrationsDir, flagsConfig.MigrationsDir)
	merged.JWTUserSecret = defaultIfBlank(envConfig.JWTUserSecret, flagsConfig.JWTUserSecret)
	merged.ExchangeAddress = defaultIfBlank(envConfig.ExchangeAddress, flagsConfig.ExchangeAddress)
	return &merged
}

func validateConfig(conf *Config) error {
	if conf.DatabaseDSN == "" {
		return errors.New("database DSN is not set")
	}
	if conf.JWTUserSecret == "" {
		return errors.New("JWT user secret is not set")
	}
	if conf.PlatformSecret == "" {
		return errors.New("platform secret is not set")
	}
	if conf.RoundCeiling < conf.SubmitWindow {
		return fmt.Errorf("round ceiling %s is below submit window %s", conf.RoundCeiling, conf.SubmitWindow)
	}
	if conf.WelcomeBonus.IsNegative() {
		return errors.New("welcome bonus must not be negative")
	}
	return nil
}

func defaultIfBlank(value string, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
