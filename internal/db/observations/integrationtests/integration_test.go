package integration_test

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgTestContainers "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"ulascansenturk/weather-loader/internal/db/observations"
	"ulascansenturk/weather-loader/internal/providers"
	"ulascansenturk/weather-loader/internal/records"
)

var (
	postgresContainer *pgTestContainers.PostgresContainer
	sharedDB          *gorm.DB
)

const (
	dbName     = "analytics"
	dbUser     = "test_user"
	dbPassword = "test_password"
)

func init() {
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func SetupPostgres(t *testing.T) (*gorm.DB, func()) {
	testcontainers.SkipIfProviderIsNotHealthy(t)

	if sharedDB != nil {
		return sharedDB, func() {}
	}

	log.Info().Msg("Setting up new PostgreSQL container")

	ctx := context.Background()

	var err error
	postgresContainer, err = pgTestContainers.Run(ctx,
		"postgres:13.3",
		pgTestContainers.WithDatabase(dbName),
		pgTestContainers.WithUsername(dbUser),
		pgTestContainers.WithPassword(dbPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)

	host, err := postgresContainer.Host(ctx)
	require.NoError(t, err)

	endpoint, err := postgresContainer.Endpoint(ctx, "")
	require.NoError(t, err)

	parts := strings.Split(endpoint, ":")
	port := parts[len(parts)-1]

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, dbUser, dbPassword, dbName,
	)

	sharedDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	log.Info().Msgf("Connected to database: %s on %s:%s", dbName, host, port)

	return sharedDB, func() {
		if postgresContainer != nil {
			log.Info().Msg("Terminating PostgreSQL container")
			if err := postgresContainer.Terminate(context.Background()); err != nil {
				log.Error().Err(err).Msg("Failed to terminate PostgreSQL container")
			}
		}
	}
}

// freshTarget drops and recreates the destination so subtests do not see each other's rows
func freshTarget(t *testing.T, db *gorm.DB, repo observations.Repository, table string) observations.Target {
	target := observations.Target{Schema: "weather", Table: table}

	require.NoError(t, repo.EnsureSchema(context.Background(), target.Schema))
	require.NoError(t, db.Exec(fmt.Sprintf(`DROP TABLE IF EXISTS "weather"."%s"`, table)).Error)
	require.NoError(t, repo.EnsureTable(context.Background(), target))

	return target
}

func observation(t *testing.T, body map[string]any, loadedAt time.Time) observations.Observation {
	record, err := records.Normalize(&providers.WeatherResponse{City: "test", Payload: body})
	require.NoError(t, err)

	obs, err := observations.NewObservation(record, uuid.New(), loadedAt)
	require.NoError(t, err)
	return obs
}

func newYork(temperature string, observedAt string) map[string]any {
	return map[string]any{
		"location": map[string]any{"name": "New York", "country": "United States of America"},
		"current": map[string]any{
			"observation_time":     observedAt,
			"temperature":          temperature,
			"weather_descriptions": []any{"Sunny"},
			"astro":                map[string]any{"sunrise": "07:12 AM"},
		},
	}
}

func countRows(t *testing.T, db *gorm.DB, target observations.Target, where string, args ...any) int64 {
	var count int64
	query := db.Table(target.String())
	if where != "" {
		query = query.Where(where, args...)
	}
	require.NoError(t, query.Count(&count).Error)
	return count
}

func TestObservationRepository(t *testing.T) {
	db, cleanup := SetupPostgres(t)
	defer cleanup()

	repo := observations.NewRepository(db)
	ctx := context.Background()

	t.Run("EnsureSchemaTwice", func(t *testing.T) {
		log.Info().Msg("➡️ Running test: EnsureSchemaTwice")

		require.NoError(t, repo.EnsureSchema(ctx, "weather_twice"))
		require.NoError(t, repo.EnsureSchema(ctx, "weather_twice"))

		var count int64
		require.NoError(t, db.Raw(`SELECT count(*) FROM information_schema.schemata WHERE schema_name = ?`, "weather_twice").Scan(&count).Error)
		assert.Equal(t, int64(1), count)

		target := observations.Target{Schema: "weather_twice", Table: "weather_data"}
		require.NoError(t, repo.EnsureTable(ctx, target))
		require.NoError(t, repo.EnsureTable(ctx, target))

		log.Info().Msg("✅ TEST PASSED: EnsureSchemaTwice")
	})

	t.Run("AppendTwiceThenDeduplicate", func(t *testing.T) {
		log.Info().Msg("➡️ Running test: AppendTwiceThenDeduplicate")

		target := freshTarget(t, db, repo, "dedup_hash")

		first := observation(t, newYork("15", "04:00 PM"), time.Now().UTC())
		second := observation(t, newYork("15", "04:00 PM"), time.Now().UTC().Add(time.Hour))
		other := observation(t, newYork("17", "05:00 PM"), time.Now().UTC())
		require.Equal(t, first.RecordHash, second.RecordHash)

		appended, err := repo.Append(ctx, target, []observations.Observation{first})
		require.NoError(t, err)
		assert.Equal(t, int64(1), appended)

		appended, err = repo.Append(ctx, target, []observations.Observation{second, other})
		require.NoError(t, err)
		assert.Equal(t, int64(2), appended)

		assert.Equal(t, int64(2), countRows(t, db, target, "record_hash = ?", first.RecordHash))

		removed, err := repo.Deduplicate(ctx, target, []string{"record_hash"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), removed)

		assert.Equal(t, int64(1), countRows(t, db, target, "record_hash = ?", first.RecordHash))
		assert.Equal(t, int64(2), countRows(t, db, target, ""))

		var survivor observations.Observation
		require.NoError(t, db.Table(target.String()).Where("record_hash = ?", first.RecordHash).First(&survivor).Error)
		assert.Equal(t, first.RunID, survivor.RunID)
		assert.Equal(t, []string{"Sunny"}, []string(survivor.CurrentWeatherDescriptions))
		assert.JSONEq(t, `{"current_astro_sunrise": "07:12 AM"}`, survivor.ExtraFields)

		removed, err = repo.Deduplicate(ctx, target, []string{"record_hash"})
		require.NoError(t, err)
		assert.Zero(t, removed)
		assert.Equal(t, int64(2), countRows(t, db, target, ""))

		log.Info().Msg("✅ TEST PASSED: AppendTwiceThenDeduplicate")
	})

	t.Run("DeduplicateOnCompositeKey", func(t *testing.T) {
		log.Info().Msg("➡️ Running test: DeduplicateOnCompositeKey")

		target := freshTarget(t, db, repo, "dedup_composite")

		// same place and observation time, the provider revised the reading
		rows := []observations.Observation{
			observation(t, newYork("15", "04:00 PM"), time.Now().UTC()),
			observation(t, newYork("16", "04:00 PM"), time.Now().UTC()),
			observation(t, newYork("16", "05:00 PM"), time.Now().UTC()),
		}

		_, err := repo.Append(ctx, target, rows)
		require.NoError(t, err)

		removed, err := repo.Deduplicate(ctx, target, []string{"location_name", "current_observation_time"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), removed)
		assert.Equal(t, int64(1), countRows(t, db, target, "current_temperature = ?", 15.0))
		assert.Equal(t, int64(1), countRows(t, db, target, "current_observation_time = ?", "04:00 PM"))

		log.Info().Msg("✅ TEST PASSED: DeduplicateOnCompositeKey")
	})
}
