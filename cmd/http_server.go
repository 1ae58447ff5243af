package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/wofodev/meerkat/internal"
	"github.com/wofodev/meerkat/internal/auth"
	authPostgres "github.com/wofodev/meerkat/internal/auth/postgres"
	"github.com/wofodev/meerkat/internal/authz"
	authzPostgres "github.com/wofodev/meerkat/internal/authz/postgres"
	"github.com/wofodev/meerkat/internal/core/events"
	"github.com/wofodev/meerkat/internal/grant"
	grantPostgres "github.com/wofodev/meerkat/internal/grant/postgres"
	"github.com/wofodev/meerkat/internal/group"
	groupPostgres "github.com/wofodev/meerkat/internal/group/postgres"
	"github.com/wofodev/meerkat/internal/page"
	pagePostgres "github.com/wofodev/meerkat/internal/page/postgres"
	"github.com/wofodev/meerkat/internal/report"
	"github.com/wofodev/meerkat/internal/section"
	sectionPostgres "github.com/wofodev/meerkat/internal/section/postgres"
	"github.com/wofodev/meerkat/internal/transport/rest"
	"github.com/wofodev/meerkat/internal/user"
	userPostgres "github.com/wofodev/meerkat/internal/user/postgres"
	"github.com/wofodev/meerkat/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"), config.Logging.Level)
	log := logger.L()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	bus := events.NewEventBus(log)
	events.RegisterAuditTrail(bus, log)

	digester := auth.NewPasswordDigester(config.Security.PasswordPepper, config.Security.PasswordIterations)
	issuer := auth.NewSessionTokenIssuer(config.Security.SessionSecret, config.Security.SessionTokenTTL)

	authzService := authz.NewService(authzPostgres.NewRepository(gormDB), log)
	authService := auth.NewService(authPostgres.NewRepository(gormDB), digester, issuer, authzService, log)

	userService := user.NewService(userPostgres.NewUserRepository(gormDB), digester, bus, log)
	groupService := group.NewService(groupPostgres.NewGroupRepository(gormDB), log)
	sectionService := section.NewService(sectionPostgres.NewSectionRepository(gormDB), log)
	pageService := page.NewService(pagePostgres.NewPageRepository(gormDB), log)
	grantService := grant.NewService(grantPostgres.NewGrantRepository(gormDB), bus, log)
	reportService := report.NewService(report.DefaultRegistry(), authzService, log)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db, rest.Handlers{
		Auth:    auth.NewHandler(authService),
		User:    user.NewHandler(userService),
		Group:   group.NewHandler(groupService),
		Section: section.NewHandler(sectionService),
		Page:    page.NewHandler(pageService),
		Grant:   grant.NewHandler(grantService),
		Report:  report.NewHandler(reportService),
		Gate:    authz.NewGate(authzService, log),
	}, config.Server.AllowedOrigins, log)

	return &Dependencies{
		Config: config,
		DB:     db,
		Router: router,
		Logger: log,
	}, nil
}

func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
