package app

import (
	"context"
	"fmt"

	"github.com/fsdevblog/groph-duel/internal/fair"
	"github.com/fsdevblog/groph-duel/internal/repository/repoargs"
	"github.com/fsdevblog/groph-duel/internal/service/psswd"

	"github.com/fsdevblog/groph-duel/internal/transport/exchange"
	"github.com/fsdevblog/groph-duel/internal/transport/notify"
	"github.com/fsdevblog/groph-duel/internal/transport/sweep"

	"github.com/fsdevblog/groph-duel/pkg/uow"

	"github.com/fsdevblog/groph-duel/internal/config"
	"github.com/fsdevblog/groph-duel/internal/repository/pgrepo"
	"github.com/fsdevblog/groph-duel/internal/service"
	"github.com/fsdevblog/groph-duel/internal/transport/api"
	"github.com/sirupsen/logrus"

	// driver for migration applying postgres.
	_ "github.com/golang-migrate/migrate/v4/database/postgres" //nolint:revive
	// driver to get migrations from files (*.sql in our case).
	"os/signal"
	"syscall"

	_ "github.com/golang-migrate/migrate/v4/source/file" //nolint:revive
	"github.com/jackc/pgx/v5/pgxpool"
)

type App struct {
	Config *config.Config
	Logger *logrus.Logger
}

func New(conf *config.Config, l *logrus.Logger) *App {
	return &App{
		Config: conf,
		Logger: l,
	}
}

func (a *App) Run() error {
	notifyCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.Logger.WithFields(logrus.Fields{
		"runAddress":    a.Config.RunAddress,
		"sweepInterval": a.Config.SweepInterval.String(),
		"confirmWindow": a.Config.ConfirmWindow.String(),
		"submitWindow":  a.Config.SubmitWindow.String(),
	}).Info("Starting app")

	conn, connErr := pgrepo.Connect(notifyCtx, a.Config.MigrationsDir, a.Config.DatabaseDSN, a.Logger)
	if connErr != nil {
		return fmt.Errorf("app run: %s", connErr.Error())
	}
	defer conn.Close()

	unitOfWork, uowErr := initUOW(conn)
	if uowErr != nil {
		return fmt.Errorf("app run: %s", uowErr.Error())
	}

	fairEngine, fairErr := fair.New([]byte(a.Config.PlatformSecret))
	if fairErr != nil {
		return fmt.Errorf("app run: %s", fairErr.Error())
	}

	dispatcher := a.initNotify(conn)
	go dispatcher.Run(notifyCtx)

	services, sErr := service.Factory(unitOfWork, service.FactoryArgs{
		Hasher:        psswd.PasswordHash(""),
		Notifier:      dispatcher,
		FairEngine:    fairEngine,
		JWTSecret:     []byte(a.Config.JWTUserSecret),
		WelcomeBonus:  a.Config.WelcomeBonus,
		ConfirmWindow: a.Config.ConfirmWindow,
		SubmitWindow:  a.Config.SubmitWindow,
	})

	if sErr != nil {
		return fmt.Errorf("app run: %s", sErr.Error())
	}

	router := api.New(api.RouterArgs{
		Logger:         a.Logger,
		UserService:    services.UserService,
		OrderService:   services.OrderService,
		MatchService:   services.MatchService,
		BlService:      services.BlService,
		DepositService: services.DepositService,
		JWTSecretKey:   []byte(a.Config.JWTUserSecret),
	})

	errChan := make(chan error, 1)

	go func() {
		if runErr := router.Run(a.Config.RunAddress); runErr != nil {
			errChan <- runErr
		}
	}()

	sweeper := sweep.New(services.OrderService, services.MatchService, a.Config.SweepInterval, a.Logger)
	go func() {
		if runErr := sweeper.Run(notifyCtx); runErr != nil {
			errChan <- runErr
		}
	}()

	if a.Config.ExchangeAddress != "" {
		processor := exchange.New(services.DepositService, a.Config.ExchangeAddress, a.Logger).
			SetExchangeWorkers(5).   //nolint:mnd
			SetLimitPerIteration(50) //nolint:mnd

		go processor.Run(notifyCtx)
	}

	select {
	case <-notifyCtx.Done():
		return notifyCtx.Err() //nolint:wrapcheck
	case err := <-errChan:
		return err
	}
}

// initNotify собирает диспетчер уведомлений. Лог-синк включен всегда, telegram добавляется
// при настроенном токене. Недоступный telegram не валит запуск: уведомления вторичны.
func (a *App) initNotify(conn *pgxpool.Pool) *notify.Dispatcher {
	sinks := []notify.Sink{notify.NewLogSink(a.Logger)}

	if a.Config.TelegramBotToken != "" {
		telegramSink, telegramErr := notify.NewTelegramSink(a.Config.TelegramBotToken, pgrepo.NewUserRepository(conn))
		if telegramErr != nil {
			a.Logger.WithError(telegramErr).Warn("telegram sink disabled")
		} else {
			sinks = append(sinks, telegramSink)
		}
	}

	return notify.New(a.Logger, sinks...)
}

func initUOW(conn *pgxpool.Pool) (*uow.UnitOfWork, error) {
	unitOfWork := uow.NewUnitOfWork(conn)

	factories := map[repoargs.RepositoryName]uow.RepositoryFactory{
		repoargs.UserRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewUserRepository(dbtx)
		},
		repoargs.OrderRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewOrderRepository(dbtx)
		},
		repoargs.MatchRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewMatchRepository(dbtx)
		},
		repoargs.RoundRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewRoundRepository(dbtx)
		},
		repoargs.BalanceTransactionRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewBalanceTransactionRepository(dbtx)
		},
		repoargs.DepositTicketRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewDepositTicketRepository(dbtx)
		},
	}

	for name, factoryFn := range factories {
		if regErr := unitOfWork.Register(uow.RepositoryName(name), factoryFn); regErr != nil {
			return nil, fmt.Errorf("init UOW: %s", regErr.Error())
		}
	}

	return unitOfWork, nil
}
