package observations_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"ulascansenturk/weather-loader/internal/db/observations"
	"ulascansenturk/weather-loader/internal/etlerr"
)

type ObservationRepositorySuite struct {
	suite.Suite
	DB     *gorm.DB
	mock   sqlmock.Sqlmock
	repo   observations.Repository
	target observations.Target
	ctx    context.Context
}

func (s *ObservationRepositorySuite) SetupTest() {
	var err error

	var db *sql.DB
	db, s.mock, err = sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	s.Require().NoError(err)

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		DriverName:           "postgres",
		Conn:                 db,
		PreferSimpleProtocol: true,
	})

	s.DB, err = gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	s.Require().NoError(err)

	s.repo = observations.NewRepository(s.DB)
	s.target = observations.Target{Schema: "weather", Table: "weather_data"}
	s.ctx = context.Background()
}

func (s *ObservationRepositorySuite) TearDownTest() {
	s.Require().NoError(s.mock.ExpectationsWereMet())
}

func (s *ObservationRepositorySuite) TestEnsureSchema() {
	s.Run("Creates the schema if absent", func() {
		s.mock.ExpectBegin()
		s.mock.ExpectExec(regexp.QuoteMeta(`CREATE SCHEMA IF NOT EXISTS "weather"`)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		s.mock.ExpectCommit()

		s.Require().NoError(s.repo.EnsureSchema(s.ctx, "weather"))
	})

	s.Run("Returns a storage error when the statement fails", func() {
		s.mock.ExpectBegin()
		s.mock.ExpectExec(regexp.QuoteMeta(`CREATE SCHEMA IF NOT EXISTS "weather"`)).
			WillReturnError(errors.New("permission denied for database analytics"))
		s.mock.ExpectRollback()

		err := s.repo.EnsureSchema(s.ctx, "weather")
		s.Require().Error(err)
		s.ErrorIs(err, etlerr.ErrStorage)
		s.Contains(err.Error(), "permission denied")
	})
}

func (s *ObservationRepositorySuite) TestEnsureTable() {
	s.Run("Creates the table and hash index", func() {
		s.mock.ExpectBegin()
		s.mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS "weather"."weather_data"`) +
			`(?s).*"record_hash" CHAR\(64\) NOT NULL.*"extra_fields" JSONB NOT NULL DEFAULT '\{\}'`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		s.mock.ExpectExec(regexp.QuoteMeta(`CREATE INDEX IF NOT EXISTS "weather_data_record_hash_idx" ON "weather"."weather_data" ("record_hash")`)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		s.mock.ExpectCommit()

		s.Require().NoError(s.repo.EnsureTable(s.ctx, s.target))
	})

	s.Run("Rolls back when the index cannot be created", func() {
		s.mock.ExpectBegin()
		s.mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS "weather"."weather_data"`)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		s.mock.ExpectExec(regexp.QuoteMeta(`CREATE INDEX IF NOT EXISTS`)).
			WillReturnError(errors.New("connection reset"))
		s.mock.ExpectRollback()

		err := s.repo.EnsureTable(s.ctx, s.target)
		s.Require().Error(err)
		s.ErrorIs(err, etlerr.ErrStorage)
	})
}

func (s *ObservationRepositorySuite) TestAppend() {
	name := "New York"
	temperature := 15.0
	row := observations.Observation{
		RecordHash:         "7f83b1657ff1fc53b92dc18148a1d65dfc2d4b1fa3d677284addd200126d9069",
		RunID:              uuid.New(),
		LoadedAt:           time.Now().UTC(),
		LocationName:       &name,
		CurrentTemperature: &temperature,
		ExtraFields:        "{}",
	}

	s.Run("Appends a batch", func() {
		s.mock.ExpectBegin()
		s.mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "weather"."weather_data"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))
		s.mock.ExpectCommit()

		appended, err := s.repo.Append(s.ctx, s.target, []observations.Observation{row, row})
		s.Require().NoError(err)
		s.Equal(int64(2), appended)
	})

	s.Run("Returns a storage error when the insert fails", func() {
		s.mock.ExpectBegin()
		s.mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "weather"."weather_data"`)).
			WillReturnError(errors.New("database error"))
		s.mock.ExpectRollback()

		_, err := s.repo.Append(s.ctx, s.target, []observations.Observation{row})
		s.Require().Error(err)
		s.ErrorIs(err, etlerr.ErrStorage)
		s.Contains(err.Error(), "database error")
	})

	s.Run("Does nothing for an empty batch", func() {
		appended, err := s.repo.Append(s.ctx, s.target, nil)
		s.Require().NoError(err)
		s.Zero(appended)
	})
}

func (s *ObservationRepositorySuite) TestDeduplicate() {
	s.Run("Deletes all but the lowest id per hash", func() {
		s.mock.ExpectBegin()
		s.mock.ExpectExec(regexp.QuoteMeta(
			`DELETE FROM "weather"."weather_data" AS a USING "weather"."weather_data" AS b ` +
				`WHERE a.id > b.id AND a."record_hash" IS NOT DISTINCT FROM b."record_hash"`)).
			WillReturnResult(sqlmock.NewResult(0, 3))
		s.mock.ExpectCommit()

		removed, err := s.repo.Deduplicate(s.ctx, s.target, []string{"record_hash"})
		s.Require().NoError(err)
		s.Equal(int64(3), removed)
	})

	s.Run("Supports a composite key", func() {
		s.mock.ExpectBegin()
		s.mock.ExpectExec(regexp.QuoteMeta(
			`a."location_name" IS NOT DISTINCT FROM b."location_name" AND ` +
				`a."current_observation_time" IS NOT DISTINCT FROM b."current_observation_time"`)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		s.mock.ExpectCommit()

		removed, err := s.repo.Deduplicate(s.ctx, s.target, []string{"location_name", "current_observation_time"})
		s.Require().NoError(err)
		s.Zero(removed)
	})

	s.Run("Rejects unknown key columns without touching the table", func() {
		_, err := s.repo.Deduplicate(s.ctx, s.target, []string{"record_hash; DROP TABLE weather_data"})
		s.Require().Error(err)
		s.ErrorIs(err, etlerr.ErrConfig)

		_, err = s.repo.Deduplicate(s.ctx, s.target, []string{"id"})
		s.ErrorIs(err, etlerr.ErrConfig)

		_, err = s.repo.Deduplicate(s.ctx, s.target, nil)
		s.ErrorIs(err, etlerr.ErrConfig)
	})

	s.Run("Rolls back and returns a storage error on failure", func() {
		s.mock.ExpectBegin()
		s.mock.ExpectExec(`DELETE FROM`).WillReturnError(errors.New("deadlock detected"))
		s.mock.ExpectRollback()

		_, err := s.repo.Deduplicate(s.ctx, s.target, []string{"record_hash"})
		s.Require().Error(err)
		s.ErrorIs(err, etlerr.ErrStorage)
	})
}

func TestObservationRepositorySuite(t *testing.T) {
	suite.Run(t, new(ObservationRepositorySuite))
}
