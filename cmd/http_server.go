package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spectralworx/evidencija-radnika/internal"
	"github.com/spectralworx/evidencija-radnika/internal/attendance"
	attendancePg "github.com/spectralworx/evidencija-radnika/internal/attendance/postgres"
	"github.com/spectralworx/evidencija-radnika/internal/auth"
	authPg "github.com/spectralworx/evidencija-radnika/internal/auth/postgres"
	"github.com/spectralworx/evidencija-radnika/internal/qr"
	qrPg "github.com/spectralworx/evidencija-radnika/internal/qr/postgres"
	"github.com/spectralworx/evidencija-radnika/internal/stats"
	statsPg "github.com/spectralworx/evidencija-radnika/internal/stats/postgres"
	"github.com/spectralworx/evidencija-radnika/internal/transport/rest"
	"github.com/spectralworx/evidencija-radnika/internal/user"
	userPg "github.com/spectralworx/evidencija-radnika/internal/user/postgres"
	"github.com/spectralworx/evidencija-radnika/internal/vacation"
	vacationPg "github.com/spectralworx/evidencija-radnika/internal/vacation/postgres"
	"github.com/spectralworx/evidencija-radnika/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	gormSqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
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
	Config   *internal.Config
	SQLDB    *sql.DB
	GormDB   *gorm.DB
	Router   *chi.Mux
	Handlers rest.Handlers
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.SQLDB, deps.Handlers, deps.Config.Server.AllowedOrigins, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.SQLDB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"), config.Logging.Level)
	lg := logger.LoggerWrapper()

	gormDB, sqlDB, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	loc, err := time.LoadLocation(config.Attendance.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance timezone: %w", err)
	}

	// Repositories
	authRepo := authPg.NewRepository(gormDB)
	userRepo := userPg.NewUserRepository(gormDB)
	attendanceRepo := attendancePg.NewAttendanceRepository(gormDB)
	qrRepo := qrPg.NewQrRepository(gormDB)
	vacationRepo := vacationPg.NewVacationRepository(gormDB)
	statsRepo := statsPg.NewStatsRepository(gormDB)

	// Services
	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authRepo, tokenGen)
	userService := user.NewService(userRepo, config.Security.BCryptCost, lg)
	qrService := qr.NewService(qrRepo, nil, loc, lg)
	attendanceService := attendance.NewService(attendanceRepo, qrService, nil, lg)
	vacationService := vacation.NewService(vacationRepo, nil, lg)
	statsService := stats.NewService(statsRepo, lg)

	handlers := rest.Handlers{
		Auth:       auth.NewHandler(authService),
		User:       user.NewHandler(userService),
		Attendance: attendance.NewHandler(attendanceService),
		QR:         qr.NewHandler(qrService),
		Vacation:   vacation.NewHandler(vacationService),
		Stats:      stats.NewHandler(statsService),
	}

	return &Dependencies{
		Config:   config,
		Logger:   lg,
		SQLDB:    sqlDB,
		GormDB:   gormDB,
		Router:   chi.NewRouter(),
		Handlers: handlers,
	}, nil
}

// initDB opens the database. Postgres sources go through the pgx stdlib
// driver so the pool settings apply; a *.db source opens an embedded
// SQLite file for local development.
func initDB(cfg internal.DatabaseConfig) (*gorm.DB, *sql.DB, error) {
	if strings.HasSuffix(cfg.Source, ".db") {
		gormDB, err := gorm.Open(gormSqlite.Open(cfg.Source), &gorm.Config{})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		sqlDB, err := gormDB.DB()
		if err != nil {
			return nil, nil, err
		}
		return gormDB, sqlDB, nil
	}

	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: dbConn.DB}), &gorm.Config{})
	if err != nil {
		_ = dbConn.Close()
		return nil, nil, fmt.Errorf("failed to open gorm over pgx connection: %w", err)
	}

	return gormDB, dbConn.DB, nil
}
