package observations

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"gorm.io/gorm"
	"ulascansenturk/weather-loader/internal/etlerr"
)

// Target names the destination table.
type Target struct {
	Schema string
	Table  string
}

func (t Target) String() string {
	return t.Schema + "." + t.Table
}

func (t Target) identifier() string {
	return pgx.Identifier{t.Schema, t.Table}.Sanitize()
}

type Repository interface {
	EnsureSchema(ctx context.Context, schema string) error
	EnsureTable(ctx context.Context, target Target) error
	Append(ctx context.Context, target Target, rows []Observation) (int64, error)
	Deduplicate(ctx context.Context, target Target, keyFields []string) (int64, error)
}

type ObservationSQLRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &ObservationSQLRepository{db: db}
}

func (r *ObservationSQLRepository) EnsureSchema(ctx context.Context, schema string) error {
	query := "CREATE SCHEMA IF NOT EXISTS " + pgx.Identifier{schema}.Sanitize()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Exec(query).Error
	})
	if err != nil {
		return fmt.Errorf("%w: creating schema %s: %w", etlerr.ErrStorage, schema, err)
	}
	return nil
}

func (r *ObservationSQLRepository) EnsureTable(ctx context.Context, target Target) error {
	table := target.identifier()
	createTable := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", table, columnDefinitions())
	createIndex := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)",
		pgx.Identifier{target.Table + "_record_hash_idx"}.Sanitize(), table, pgx.Identifier{"record_hash"}.Sanitize())

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(createTable).Error; err != nil {
			return err
		}
		return tx.Exec(createIndex).Error
	})
	if err != nil {
		return fmt.Errorf("%w: creating table %s: %w", etlerr.ErrStorage, target, err)
	}
	return nil
}

// Append inserts rows as they are. Duplicates are left for Deduplicate.
func (r *ObservationSQLRepository) Append(ctx context.Context, target Target, rows []Observation) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).Table(target.String()).Create(&rows)
	if result.Error != nil {
		return 0, fmt.Errorf("%w: appending to %s: %w", etlerr.ErrStorage, target, result.Error)
	}
	return result.RowsAffected, nil
}

// Deduplicate keeps the lowest id of every group of rows with equal keyFields and deletes the
// rest in a single statement. NULL key values compare equal.
func (r *ObservationSQLRepository) Deduplicate(ctx context.Context, target Target, keyFields []string) (int64, error) {
	if len(keyFields) == 0 {
		return 0, fmt.Errorf("%w: dedup key is empty", etlerr.ErrConfig)
	}

	conditions := make([]string, 0, len(keyFields))
	for _, field := range keyFields {
		if !IsDedupColumn(field) {
			return 0, fmt.Errorf("%w: %q is not a usable dedup key column of %s", etlerr.ErrConfig, field, target)
		}
		col := pgx.Identifier{field}.Sanitize()
		conditions = append(conditions, fmt.Sprintf("a.%s IS NOT DISTINCT FROM b.%s", col, col))
	}

	table := target.identifier()
	query := fmt.Sprintf("DELETE FROM %s AS a USING %s AS b WHERE a.id > b.id AND %s",
		table, table, strings.Join(conditions, " AND "))

	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Exec(query)
		if result.Error != nil {
			return result.Error
		}
		removed = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: deduplicating %s: %w", etlerr.ErrStorage, target, err)
	}
	return removed, nil
}
