package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Skotchmaster/bookshelf/internal/config"
	pkgdb "github.com/Skotchmaster/bookshelf/internal/db"
	"github.com/Skotchmaster/bookshelf/internal/httpserver"
	"github.com/Skotchmaster/bookshelf/internal/logging"
	"github.com/Skotchmaster/bookshelf/internal/metrics"
	authmw "github.com/Skotchmaster/bookshelf/internal/middleware/auth"
	"github.com/Skotchmaster/bookshelf/internal/mykafka"
	"github.com/Skotchmaster/bookshelf/internal/repo"
	"github.com/Skotchmaster/bookshelf/internal/search"
	"github.com/Skotchmaster/bookshelf/internal/service"
	"github.com/Skotchmaster/bookshelf/internal/tokens"
)

type eventSink interface {
	service.Publisher
	Close() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	logging.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err == nil {
		err = pkgdb.Migrate(ctx, db)
	}
	cancel()
	if err != nil {
		log.Fatalf("db: %v", err)
	}

	tm, err := tokens.NewManager(cfg.JWTSecret, tokens.WithTTL(cfg.TokenTTL))
	if err != nil {
		log.Fatalf("tokens: %v", err)
	}

	var events eventSink = mykafka.Noop{}
	if len(cfg.KafkaBrokers) > 0 {
		p, err := mykafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicPrefix, logger)
		if err != nil {
			log.Fatalf("kafka: %v", err)
		}
		events = p
	}

	var index service.BookIndex
	if cfg.ESURL != "" {
		esCtx, esCancel := context.WithTimeout(context.Background(), 10*time.Second)
		client, err := search.NewClient(esCtx, search.Config{
			URL:      cfg.ESURL,
			User:     cfg.ESUser,
			Password: cfg.ESPassword,
		})
		esCancel()
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		index = search.New(client, cfg.ESIndex)
	}

	m := metrics.New("bookshelf")
	r := repo.New(db)

	userSvc := &service.UserService{Repo: r, Events: events}
	authSvc := &service.AuthService{Repo: r, Tokens: tm}
	bookSvc := &service.BookService{Repo: r, Index: index, Events: events}
	favSvc := &service.FavoriteService{Repo: r, Events: events, Counter: m}

	if cfg.Admin.Enabled() {
		bootCtx := logging.IntoContext(context.Background(), logger)
		if _, err := userSvc.EnsureAdmin(bootCtx, cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			log.Fatalf("admin bootstrap: %v", err)
		}
	}

	e := httpserver.NewEcho(logger, m, cfg.CORSOrigins)
	httpserver.Register(e, &httpserver.Deps{
		UserHandler:     &httpserver.UserHTTP{Svc: userSvc, Auth: authSvc, Metrics: m},
		BookHandler:     &httpserver.BookHTTP{Svc: bookSvc},
		FavoriteHandler: &httpserver.FavoriteHTTP{Svc: favSvc},
		Guard:           authmw.NewGuard(tm, m),
		Metrics:         m,
		Ready:           func(ctx context.Context) error { return pkgdb.Ping(ctx, db) },
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	if err := events.Close(); err != nil {
		logger.Error("kafka close", "error", err)
	}
	if err := pkgdb.Close(db); err != nil {
		logger.Error("db close", "error", err)
	}

	logger.Info("bookshelf stopped")
}
