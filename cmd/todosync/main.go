// Command todosync hosts the task synchronization engine behind a small
// line-oriented presentation loop.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/akarpov87/todosync/internal/authn"
	"github.com/akarpov87/todosync/internal/limiter"
	"github.com/akarpov87/todosync/internal/migrate"
	"github.com/akarpov87/todosync/internal/repository/postgres"
	"github.com/akarpov87/todosync/internal/service"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main parses configuration, runs migrations, and starts the event loop.
func main() {
	dbHost := flag.String("db-host", "localhost:5432", "store host:port")
	dbUser := flag.String("db-user", "", "store user (required)")
	dbPassword := flag.String("db-password", "", "store password (required)")
	dbName := flag.String("db-name", "todo", "store database name")
	authKey := flag.String("auth-key", "", "HS256 identity token key (required)")
	storeAttempts := flag.Int("store-attempts", 5, "store reconnect attempt budget")
	storeBackoff := flag.Duration("store-backoff", 100*time.Millisecond, "store reconnect backoff base")
	maxText := flag.Int("max-text", 500, "max task text length")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("store", *dbHost),
	)

	if *dbUser == "" || *dbPassword == "" {
		logger.Fatal("missing store credentials (--db-user/--db-password)")
	}
	if *authKey == "" {
		logger.Fatal("missing identity token key (--auth-key)")
	}

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := postgres.Config{
		Host:        *dbHost,
		User:        *dbUser,
		Password:    *dbPassword,
		Database:    *dbName,
		MaxAttempts: *storeAttempts,
		BaseDelay:   *storeBackoff,
	}

	if err := migrate.Up(ctx, cfg.DSN()); err != nil {
		logger.Fatal("migrate up", zap.Error(err))
	}

	conn, err := postgres.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("store connect", zap.Error(err))
	}
	defer conn.Close()

	db := &postgres.DB{Pool: conn}
	userRepo := postgres.NewUserRepo(db)
	taskRepo := postgres.NewTaskRepo(db)

	lim := limiter.NewPG(conn, 15*time.Minute, 5, 15*time.Minute)

	authSvc := service.NewAuthService(userRepo, taskRepo, authn.NewVerifier([]byte(*authKey)), lim)
	taskSvc := service.NewTaskService(taskRepo, *maxText)

	host, _ := os.Hostname()
	r := &runner{auth: authSvc, tasks: taskSvc, out: os.Stdout, client: host}

	fmt.Println("todosync: type 'help' for commands")
	r.loop(ctx, os.Stdin)

	logger.Info("shutdown complete")
}
