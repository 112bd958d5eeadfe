package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-router"

	"github.com/teamboard/api/internal/api"
	"github.com/teamboard/api/internal/auth"
	"github.com/teamboard/api/internal/config"
	"github.com/teamboard/api/internal/database"
	"github.com/teamboard/api/internal/model"
	"github.com/teamboard/api/internal/repository"
	"github.com/teamboard/api/pkg/logger"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.Env)
	srvLog := logger.Named(log, "server")

	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		srvLog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		srvLog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	if cfg.SeedDemo {
		if err := database.Seed(ctx, db); err != nil {
			srvLog.Error("seeding failed", "error", err)
			os.Exit(1)
		}
	}

	repo := repository.NewManager(db)
	repo.MustValidate()

	provider := auth.NewUserProvider(userStore{repo.Users()}).
		WithLogger(logger.Named(log, "auth"))

	auther := auth.NewAuthenticator(provider, cfg).
		WithLogger(logger.Named(log, "auth"))

	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			UnescapePath:  true,
			StrictRouting: false,
		}))
	})

	srv.Router().WithLogger(logger.Named(log, "router"))

	api.RegisterRoutes(srv.Router(), api.Deps{
		Logger:     logger.Named(log, "api"),
		Repo:       repo,
		Auther:     auther,
		Validator:  auther.TokenService(),
		ContextKey: cfg.GetContextKey(),
		AuthScheme: cfg.GetAuthScheme(),
		ResetTTL:   cfg.PasswordResetTTL(),
	})

	srvLog.Info("listening", "port", cfg.Port, "env", cfg.Env)
	srv.Serve(":" + cfg.Port)

	waitExitSignal()
	srvLog.Info("shutting down")
}

// userStore narrows the users repository to the lookup surface the
// identity provider needs.
type userStore struct {
	repository.Users
}

func (s userStore) GetByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	return s.Users.GetByIdentifier(ctx, identifier)
}

func waitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
