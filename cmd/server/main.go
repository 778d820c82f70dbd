package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ordertrack/internal/commons"
	"ordertrack/internal/infrastructure/logger"
	"ordertrack/internal/infrastructure/mysql"
	"ordertrack/internal/order"
	"ordertrack/internal/server"
	"ordertrack/internal/session"
	"ordertrack/internal/settings"
)

func main() {
	cfg, err := commons.LoadConfig("internal/config/config.yaml")
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	defaultCommission, err := decimal.NewFromString(cfg.Grid.DefaultCommission)
	if err != nil {
		zapLogger.Fatal("invalid default commission", zap.String("value", cfg.Grid.DefaultCommission), zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var db *sql.DB
	var sessionOpts []session.Option
	g, gctx := errgroup.WithContext(ctx)

	// stopped only once the session is closed, so the final flush sees every write
	mirrorCtx, stopMirror := context.WithCancel(context.Background())
	defer stopMirror()

	if cfg.Backend.Enabled {
		db, err = mysql.NewConnection(ctx, cfg.Database)
		if err != nil {
			zapLogger.Fatal("connecting to database", zap.Error(err))
		}
		defer db.Close()

		if err := mysql.EnsureSchema(ctx, db); err != nil {
			zapLogger.Fatal("preparing schema", zap.Error(err))
		}
		zapLogger.Info("database connected")

		mirror := order.NewMirror(db, cfg, zapLogger)
		orders, err := mirror.Hydrate(ctx)
		if err != nil {
			zapLogger.Fatal("loading orders", zap.Error(err))
		}
		sessionOpts = append(sessionOpts, session.WithOrders(orders), session.WithListener(mirror))

		g.Go(func() error {
			return mirror.Run(mirrorCtx)
		})
	} else {
		zapLogger.Info("backend disabled, orders live in memory only")
	}

	settingsSvc := settings.NewModule(db, defaultCommission, zapLogger)
	commission, err := settingsSvc.Load(ctx)
	if err != nil {
		zapLogger.Fatal("loading commission", zap.Error(err))
	}
	sessionOpts = append(sessionOpts, session.WithCommission(commission))

	sess := session.New(cfg.Grid, zapLogger, sessionOpts...)

	orderModule := order.NewModule(sess, cfg, zapLogger)
	router := server.NewRouter(sess, orderModule, settingsSvc, server.RouterConfig{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}, zapLogger)

	srv := server.New(cfg.Server, router, zapLogger)

	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		zapLogger.Info("received shutdown signal")

		shutdownTimeout := cfg.Server.ShutdownTimeout
		if shutdownTimeout <= 0 {
			shutdownTimeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		sess.Close()
		stopMirror()
		return err
	})

	if err := g.Wait(); err != nil {
		zapLogger.Error("stopped with error", zap.Error(err))
		os.Exit(1)
	}
	zapLogger.Info("server stopped gracefully")
}
