package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"ulascansenturk/weather-loader/internal/db/observations"
	"ulascansenturk/weather-loader/internal/etlerr"
	"ulascansenturk/weather-loader/internal/providers"
	"ulascansenturk/weather-loader/internal/records"
)

type Stage string

const (
	StageFetch     Stage = "fetch"
	StageNormalize Stage = "normalize"
	StageMap       Stage = "map"
	StageAppend    Stage = "append"
	StageDone      Stage = "done"
	StageSkipped   Stage = "skipped"
)

// CityOutcome is what happened to one city during a run. Stage is the stage that failed, or
// StageDone when the record was appended.
type CityOutcome struct {
	City       string
	Stage      Stage
	RecordHash string
	Err        error
}

type Report struct {
	RunID    uuid.UUID
	Outcomes []CityOutcome
	Removed  int64
}

func (r Report) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err == nil {
			n++
		}
	}
	return n
}

func (r Report) Failed() int {
	return len(r.Outcomes) - r.Succeeded()
}

type WeatherLoader interface {
	Run(ctx context.Context, cities []string) (Report, error)
}

type weatherLoader struct {
	weatherAPI providers.WeatherStackAPIService
	repo       observations.Repository
	target     observations.Target
	dedupKey   []string
	now        func() time.Time
}

func NewWeatherLoader(
	weatherAPI providers.WeatherStackAPIService,
	repo observations.Repository,
	target observations.Target,
	dedupKey []string,
) WeatherLoader {
	return &weatherLoader{
		weatherAPI: weatherAPI,
		repo:       repo,
		target:     target,
		dedupKey:   dedupKey,
		now:        time.Now,
	}
}

func (l *weatherLoader) Run(ctx context.Context, cities []string) (Report, error) {
	report := Report{RunID: uuid.New()}
	loadedAt := l.now().UTC()

	logger := log.With().Str("run_id", report.RunID.String()).Str("target", l.target.String()).Logger()

	if len(l.dedupKey) == 0 {
		return report, fmt.Errorf("%w: dedup key is empty", etlerr.ErrConfig)
	}
	for _, field := range l.dedupKey {
		if !observations.IsDedupColumn(field) {
			return report, fmt.Errorf("%w: %q is not a usable dedup key column of %s", etlerr.ErrConfig, field, l.target)
		}
	}

	logger.Info().Int("cities", len(cities)).Strs("dedup_key", l.dedupKey).Msg("Starting weather load")

	if err := l.repo.EnsureSchema(ctx, l.target.Schema); err != nil {
		return report, fmt.Errorf("preparing destination: %w", err)
	}
	if err := l.repo.EnsureTable(ctx, l.target); err != nil {
		return report, fmt.Errorf("preparing destination: %w", err)
	}

	var appended int64
	for i, city := range cities {
		if err := ctx.Err(); err != nil {
			for _, skipped := range cities[i:] {
				report.Outcomes = append(report.Outcomes, CityOutcome{City: skipped, Stage: StageSkipped, Err: err})
			}
			logger.Warn().Err(err).Int("skipped", len(cities)-i).Msg("Run cancelled")
			break
		}

		outcome, n := l.loadCity(ctx, logger.With().Str("city", city).Logger(), report.RunID, loadedAt, city)
		report.Outcomes = append(report.Outcomes, outcome)
		appended += n

		if outcome.Err != nil {
			logger.Error().Err(outcome.Err).Str("city", city).Str("stage", string(outcome.Stage)).Msg("Failed to load city")
			continue
		}
	}

	// rows already appended must not outlive the run as duplicates, even when the run was cancelled
	if appended > 0 {
		removed, err := l.repo.Deduplicate(context.WithoutCancel(ctx), l.target, l.dedupKey)
		if err != nil {
			return report, fmt.Errorf("deduplicating: %w", err)
		}
		report.Removed = removed
		logger.Info().Int64("removed", removed).Strs("dedup_key", l.dedupKey).Msg("Deduplicated destination")
	}

	logger.Info().
		Int("succeeded", report.Succeeded()).
		Int("failed", report.Failed()).
		Int64("removed", report.Removed).
		Msg("Weather load finished")

	return report, nil
}

func (l *weatherLoader) loadCity(
	ctx context.Context,
	logger zerolog.Logger,
	runID uuid.UUID,
	loadedAt time.Time,
	city string,
) (CityOutcome, int64) {
	outcome := CityOutcome{City: city}

	resp, err := l.weatherAPI.Fetch(ctx, city)
	if err != nil {
		outcome.Stage, outcome.Err = StageFetch, err
		return outcome, 0
	}
	logger.Debug().Str("stage", string(StageFetch)).Msg("Fetched current weather")

	record, err := records.Normalize(resp)
	if err != nil {
		outcome.Stage, outcome.Err = StageNormalize, err
		return outcome, 0
	}
	outcome.RecordHash = record.Hash
	logger.Debug().
		Str("stage", string(StageNormalize)).
		Int("fields", len(record.Fields)).
		Str("record_hash", record.Hash).
		Msg("Normalized record")

	row, err := observations.NewObservation(record, runID, loadedAt)
	if err != nil {
		outcome.Stage, outcome.Err = StageMap, err
		return outcome, 0
	}

	n, err := l.repo.Append(ctx, l.target, []observations.Observation{row})
	if err != nil {
		outcome.Stage, outcome.Err = StageAppend, err
		return outcome, 0
	}
	if n == 0 {
		outcome.Stage, outcome.Err = StageAppend, fmt.Errorf("%w: no rows appended to %s", etlerr.ErrStorage, l.target)
		return outcome, 0
	}
	logger.Info().
		Str("stage", string(StageAppend)).
		Int64("rows", n).
		Str("record_hash", record.Hash).
		Msg("Appended record")

	outcome.Stage = StageDone
	return outcome, n
}
