package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	contactshandler "calldex/internal/contacts/handler"
	contactsservice "calldex/internal/contacts/service"
	contactsstore "calldex/internal/contacts/store"
	directoryhandler "calldex/internal/directory/handler"
	directoryservice "calldex/internal/directory/service"
	directorystore "calldex/internal/directory/store"
	"calldex/internal/jwttoken"
	"calldex/internal/platform/config"
	"calldex/internal/platform/events"
	"calldex/internal/platform/httpserver"
	"calldex/internal/platform/logger"
	"calldex/internal/platform/mailer"
	"calldex/internal/platform/metrics"
	"calldex/internal/platform/postgres"
	redisplatform "calldex/internal/platform/redis"
	registryservice "calldex/internal/registry/service"
	registrystore "calldex/internal/registry/store"
	searchhandler "calldex/internal/search/handler"
	searchservice "calldex/internal/search/service"
	searchstore "calldex/internal/search/store"
	spamhandler "calldex/internal/spam/handler"
	spamservice "calldex/internal/spam/service"
	spamstore "calldex/internal/spam/store"
	httptransport "calldex/internal/transport/http"
)

// main wires dependencies and owns the server lifecycle. Business logic
// lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.DatabaseURL == "" {
		log.Error("CALLDEX_DATABASE_URL is required")
		os.Exit(1)
	}
	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect to postgres", "error", err.Error())
		os.Exit(1)
	}
	defer pool.Close()

	cache, err := redisplatform.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err.Error())
		os.Exit(1)
	}
	if cache != nil {
		defer cache.Close()
	}

	var publisher events.Publisher = events.Noop{}
	if len(cfg.Kafka.Brokers) > 0 {
		kafka, err := events.NewKafka(ctx, cfg.Kafka, log)
		if err != nil {
			log.Error("failed to connect to kafka", "error", err.Error())
			os.Exit(1)
		}
		publisher = kafka
	}
	defer publisher.Close()

	var mail mailer.Mailer
	if cfg.SMTP.Host != "" {
		mail = mailer.NewSMTP(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From, cfg.SMTP.Username, cfg.SMTP.Password)
	} else {
		log.Warn("no SMTP host configured, verification mail goes to the log")
		mail = &mailer.Log{Logger: log}
	}

	m := metrics.New()
	tokens := jwttoken.New(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)

	registry, err := registryservice.New(registrystore.NewPostgres(pool),
		registryservice.WithLogger(log))
	if err != nil {
		log.Error("failed to build registry service", "error", err.Error())
		os.Exit(1)
	}

	directory, err := directoryservice.New(directorystore.NewPostgres(pool), registry, tokens, mail,
		cfg.OTPTTL, cfg.AccessTokenTTL,
		directoryservice.WithLogger(log),
		directoryservice.WithMetrics(m),
		directoryservice.WithPublisher(publisher))
	if err != nil {
		log.Error("failed to build directory service", "error", err.Error())
		os.Exit(1)
	}

	contacts, err := contactsservice.New(contactsstore.NewPostgres(pool), registry,
		contactsservice.WithLogger(log),
		contactsservice.WithMetrics(m))
	if err != nil {
		log.Error("failed to build contacts service", "error", err.Error())
		os.Exit(1)
	}

	search, err := searchservice.New(searchstore.NewPostgres(pool), directory,
		searchservice.WithLogger(log),
		searchservice.WithMetrics(m),
		searchservice.WithCache(cache, cfg.VerifiedCountTTL))
	if err != nil {
		log.Error("failed to build search service", "error", err.Error())
		os.Exit(1)
	}

	spam, err := spamservice.New(spamstore.NewPostgres(pool), registry,
		spamservice.WithLogger(log),
		spamservice.WithMetrics(m),
		spamservice.WithPublisher(publisher))
	if err != nil {
		log.Error("failed to build spam service", "error", err.Error())
		os.Exit(1)
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:    log,
		Metrics:   m,
		Validator: tokens,
		Directory: directoryhandler.New(directory, log),
		Contacts:  contactshandler.New(contacts, log),
		Search:    searchhandler.New(search, log),
		Spam:      spamhandler.New(spam, log),
	})

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err.Error())
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err.Error())
	}
}
