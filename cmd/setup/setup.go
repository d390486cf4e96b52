package setup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/newrelic/go-agent/v3/integrations/nrzap"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"github.com/agencyhq/go-agency-ledger/internal/common/graceful"
	"github.com/agencyhq/go-agency-ledger/internal/common/idgenerator"
	"github.com/agencyhq/go-agency-ledger/internal/common/log"
	cMetrics "github.com/agencyhq/go-agency-ledger/internal/common/metrics"
	"github.com/agencyhq/go-agency-ledger/internal/common/publisher"
	"github.com/agencyhq/go-agency-ledger/internal/config"
	"github.com/agencyhq/go-agency-ledger/internal/repositories"
	"github.com/agencyhq/go-agency-ledger/internal/services"

	_ "github.com/newrelic/go-agent/v3/integrations/nrpgx"
)

func Init(command string) (setup *Setup, stopper []graceful.ProcessStopper, err error) {
	ctx := context.Background()

	cfg, err := config.Load(
		config.WithConfigFileName("config"),
		config.WithConfigFileSearchPaths("/config", ".", "./config"),
		config.WithDotEnv(),
	)
	if err != nil {
		return
	}

	setup = &Setup{
		Config: cfg,
	}

	logLevel := log.DebugLogLevel()
	if config.StringToEnvironment(cfg.App.Env).IsDeployed() {
		logLevel = log.InfoLogLevel()
	}

	_, err = log.Init(cfg.App.Name,
		log.WithLogToOption(cfg.App.LogOption),
		log.WithLogEnvOption(cfg.App.Env),
		log.WithCaller(true),
		log.AddCallerSkip(2),
		logLevel)
	if err != nil {
		err = fmt.Errorf("failed to init logger: %w", err)
		return
	}

	stopper = append(stopper, func(ctx context.Context) error {
		_ = log.Sync()
		return nil
	})

	newRelic := setupNR(ctx, cfg)
	if newRelic != nil {
		stopper = append(stopper, func(ctx context.Context) error {
			newRelic.Shutdown(10 * time.Second)
			return nil
		})
	}

	// metrics
	mtc := cMetrics.New()

	// connect to db master
	writeDB, readDB, err := setupPostgres(cfg)
	if err != nil {
		err = fmt.Errorf("failed connect to database: %w", err)
		return
	}
	stopper = append(stopper, func(ctx context.Context) error {
		var errs error

		if writeDB != nil {
			if err := writeDB.Close(); err != nil {
				errs = errors.Join(errs, fmt.Errorf("failed to close writeDB: %w", err))
			}
		}

		if readDB != nil {
			if err := readDB.Close(); err != nil {
				errs = errors.Join(errs, fmt.Errorf("failed to close readDB: %w", err))
			}
		}

		return errs
	})

	// connect to redis
	cache := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.Db,
	})
	_, err = cache.Ping(ctx).Result()
	if err != nil {
		err = fmt.Errorf("failed connect to redis: %w", err)
		return
	}
	stopper = append(stopper, func(ctx context.Context) error { return cache.Close() })

	// register DB write stat prometheus metrics
	err = mtc.RegisterDB(writeDB, cfg.App.Name+"-"+command+"-write", cfg.Postgres.Write.DbName)
	if err != nil {
		err = fmt.Errorf("failed register DB stat prometheus: %w", err)
		return
	}
	// register DB read stat prometheus metrics
	err = mtc.RegisterDB(readDB, cfg.App.Name+"-"+command+"-read", cfg.Postgres.Read.DbName)
	if err != nil {
		err = fmt.Errorf("failed register DB stat prometheus: %w", err)
		return
	}

	// register redis prometheus metrics
	err = mtc.RegisterRedis(cache, cfg.App.Name, command)
	if err != nil {
		err = fmt.Errorf("failed register redis prometheus: %w", err)
		return
	}

	// register repository
	sqlRepo := repositories.NewSQLRepository(writeDB, readDB)
	cacheRepo := repositories.NewCacheRepository(cache)

	producer, err := publisher.NewKafkaSyncProducer(
		cfg.MessageBroker.Brokers,
		publisher.WithClientID(cfg.App.Name+"-"+command),
		publisher.WithMetricRegistry(mtc.SaramaRegistry(cfg.App.Name+"_"+command, cfg.MessageBroker.MetricsFlush)),
	)
	if err != nil {
		err = fmt.Errorf("unable to create client kafka sync producer: %w", err)
		return
	}
	stopper = append(stopper, func(ctx context.Context) error { return producer.Close() })

	ledgerPub := publisher.NewPublisher(producer, cfg.MessageBroker.TopicLedgerEvents, mtc.GetPublisherPrometheus())

	// register service
	srv := services.New(
		cfg,
		sqlRepo,
		ledgerPub,
		idgenerator.New(),
		mtc,
	)

	return &Setup{
		Config:          cfg,
		NewRelic:        newRelic,
		WriteDB:         writeDB,
		ReadDB:          readDB,
		Cache:           cache,
		RepoCache:       cacheRepo,
		LedgerPublisher: ledgerPub,
		Service:         srv,
		Metrics:         mtc,
	}, stopper, nil
}

func setupPostgres(conf config.Config) (*sql.DB, *sql.DB, error) {
	writeDB, err := initDB(conf.Postgres.Write)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init write DB: %w", err)
	}

	readDB, err := initDB(conf.Postgres.Read)
	if err != nil {
		_ = writeDB.Close()
		return nil, nil, fmt.Errorf("failed to init read DB: %w", err)
	}

	return writeDB, readDB, nil
}

func initDB(pgConf config.Database) (*sql.DB, error) {
	const (
		DefaultMaxOpen     = 10
		DefaultMaxIdle     = 10
		DefaultMaxLifetime = 3 // minutes
	)

	dsName := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s search_path=%s sslmode=disable",
		pgConf.DbHost, pgConf.DbPort, pgConf.DbUser, pgConf.DbPass, pgConf.DbName, pgConf.DbSchema,
	)

	db, err := sql.Open("nrpgx", dsName)
	if err != nil {
		return nil, err
	}

	if pgConf.MaxOpenConnection > 0 {
		db.SetMaxOpenConns(pgConf.MaxOpenConnection)
	} else {
		db.SetMaxOpenConns(DefaultMaxOpen)
	}

	if pgConf.MaxIdleConnection > 0 {
		db.SetMaxIdleConns(pgConf.MaxIdleConnection)
	} else {
		db.SetMaxIdleConns(DefaultMaxIdle)
	}

	if pgConf.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(time.Duration(pgConf.ConnMaxLifetime) * time.Minute)
	} else {
		db.SetConnMaxLifetime(time.Duration(DefaultMaxLifetime) * time.Minute)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func setupNR(ctx context.Context, cfg config.Config) *newrelic.Application {
	if env := config.StringToEnvironment(cfg.App.Env); env != config.PROD_ENV {
		return nil
	}

	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName(cfg.App.Name),
		newrelic.ConfigLicense(cfg.NewRelicLicenseKey),
		func(config *newrelic.Config) {
			config.Logger = nrzap.Transform(log.L())
		},
		newrelic.ConfigDistributedTracerEnabled(true),
	)
	if err != nil {
		log.Errorf(ctx, "setupNR.NewApplication - %v", err)
		return nil
	}
	if err = app.WaitForConnection(15 * time.Second); nil != err {
		log.Errorf(ctx, "setupNR.WaitForConnection - %v", err)
	}
	return app
}
