package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"ulascansenturk/weather-loader/config"
	"ulascansenturk/weather-loader/internal/db/observations"
	"ulascansenturk/weather-loader/internal/providers"
	"ulascansenturk/weather-loader/internal/scheduler"
	"ulascansenturk/weather-loader/internal/service"
)

func main() {
	flags := newFlagSet(pflag.ExitOnError)
	flags.Parse(os.Args[1:])

	conf, err := config.LoadConfig(flags)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	log.Logger = newLogger(conf)

	ctx, mainCtxStop := context.WithCancel(context.Background())
	defer mainCtxStop()

	handleSignals(mainCtxStop)

	db, err := initializeDatabase(conf)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}

	repo := observations.NewRepository(db)

	weatherAPIService := providers.NewWeatherStackAPIService(
		conf.WeatherStackAPIKey,
		conf.WeatherStackBaseURL,
		conf.HTTPTimeoutDuration(),
		conf.BreakerMaxFailures,
	)

	loader := service.NewWeatherLoader(
		weatherAPIService,
		repo,
		observations.Target{Schema: conf.Schema, Table: conf.Table},
		conf.DedupKey,
	)

	if conf.RunInterval > 0 {
		s := scheduler.New(loader, conf.Cities, conf.RunInterval)
		if err := s.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to start scheduler")
		}

		<-ctx.Done()
		s.Stop()
		log.Info().Msg("scheduler stopped")
		return
	}

	report, err := loader.Run(ctx, conf.Cities)
	if code := exitCode(report, err); code != 0 {
		log.Error().Err(err).
			Int("succeeded", report.Succeeded()).
			Int("failed", report.Failed()).
			Msg("weather load failed")
		os.Exit(code)
	}
}

func newFlagSet(errorHandling pflag.ErrorHandling) *pflag.FlagSet {
	flags := pflag.NewFlagSet("weather-loader", errorHandling)
	flags.String("cities-file", "", "YAML file with a cities list, used when CITIES is unset")
	flags.String("schema", "", "destination schema")
	flags.String("table", "", "destination table")
	flags.Duration("interval", 0, "re-run the batch on this interval, 0 runs once")
	return flags
}

func newLogger(conf *config.Config) zerolog.Logger {
	logLevel, err := zerolog.ParseLevel(conf.LogLevel)
	if err != nil || conf.LogLevel == "" {
		logLevel = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if conf.Env == "local" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stdout)
	}

	return logger.
		Level(logLevel).
		With().
		Str("service_name", conf.ServiceName).
		Timestamp().
		Logger()
}

// exitCode is 1 when the run failed outright or no city made it to the table.
func exitCode(report service.Report, runErr error) int {
	if runErr != nil {
		return 1
	}
	if len(report.Outcomes) > 0 && report.Succeeded() == 0 {
		return 1
	}
	return 0
}

func initializeDatabase(conf *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(conf.Credentials().DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(3 * time.Minute)

	return db, nil
}

// handleSignals cancels the run on the first signal. A second signal exits immediately.
func handleSignals(cancelCtx context.CancelFunc) {
	sig := make(chan os.Signal, 2)

	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	const shutdownDuration = 30 * time.Second

	go func() {
		s := <-sig
		log.Warn().Str("signal", s.String()).Msg("shutting down, finishing current city")
		cancelCtx()

		select {
		case <-sig:
		case <-time.After(shutdownDuration):
		}
		log.Error().Msg("graceful shutdown timed out.. forcing exit.")
		os.Exit(1)
	}()
}
