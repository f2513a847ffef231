// internal/story/history/repository.go
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"seasonal-story-workers/internal/common/logger"
	"seasonal-story-workers/internal/story"
)

var ErrHistoryWrite = errors.New("HISTORY_WRITE_FAILED")

const schema = `
CREATE TABLE IF NOT EXISTS seasonal_stories (
	id                UUID PRIMARY KEY,
	request_id        UUID NOT NULL,
	store_id          TEXT,
	store_name        TEXT NOT NULL,
	store_type        TEXT NOT NULL,
	location          TEXT NOT NULL,
	variant_label     TEXT NOT NULL,
	story             TEXT NOT NULL,
	weather_condition TEXT NOT NULL,
	temperature       DOUBLE PRECISION NOT NULL,
	season            TEXT NOT NULL,
	time_period       TEXT NOT NULL,
	is_weekend        BOOLEAN NOT NULL,
	trend_keywords    JSONB NOT NULL DEFAULT '[]',
	created_at        TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_seasonal_stories_store_created
	ON seasonal_stories (store_id, created_at DESC);`

const insertStory = `
	INSERT INTO seasonal_stories (
		id, request_id, store_id, store_name, store_type, location, variant_label, story,
		weather_condition, temperature, season, time_period, is_weekend, trend_keywords, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

const selectRecent = `
	SELECT id, request_id, store_id, store_name, store_type, location, variant_label, story,
		weather_condition, temperature, season, time_period, is_weekend, trend_keywords, created_at
	FROM seasonal_stories
	WHERE store_id = $1
	ORDER BY created_at DESC
	LIMIT $2`

// Repository stores generated stories in Postgres.
type Repository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewRepository(db *sql.DB, log logger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "story-history"}),
	}
}

// EnsureSchema creates the table and index if they are missing.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create seasonal_stories: %w", err)
	}
	return nil
}

// Record inserts all records in one transaction.
func (r *Repository) Record(ctx context.Context, records []story.StoryRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrHistoryWrite, err)
	}

	for _, rec := range records {
		keywords := rec.TrendKeywords
		if keywords == nil {
			keywords = []string{}
		}
		keywordsJSON, err := json.Marshal(keywords)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("%w: marshal trend keywords: %v", ErrHistoryWrite, err)
		}

		_, err = tx.ExecContext(ctx, insertStory,
			rec.ID,
			rec.RequestID,
			nullString(rec.StoreID),
			rec.StoreName,
			string(rec.StoreType),
			rec.Location,
			rec.VariantLabel,
			rec.Story,
			string(rec.WeatherCondition),
			rec.Temperature,
			string(rec.Season),
			string(rec.Period),
			rec.IsWeekend,
			keywordsJSON,
			rec.CreatedAt,
		)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("%w: insert %s: %v", ErrHistoryWrite, rec.VariantLabel, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrHistoryWrite, err)
	}

	r.logger.Debug("story history recorded", map[string]interface{}{
		"requestId": records[0].RequestID,
		"count":     len(records),
	})
	return nil
}

// ListRecent returns the latest stories for a store, newest first.
func (r *Repository) ListRecent(ctx context.Context, storeID string, limit int) ([]story.StoryRecord, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := r.db.QueryContext(ctx, selectRecent, storeID, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent stories: %w", err)
	}
	defer rows.Close()

	var out []story.StoryRecord
	for rows.Next() {
		var (
			rec                                  story.StoryRecord
			storeIDCol                           sql.NullString
			storeType, condition, season, period string
			keywordsJSON                         []byte
		)
		if err := rows.Scan(
			&rec.ID, &rec.RequestID, &storeIDCol, &rec.StoreName, &storeType, &rec.Location,
			&rec.VariantLabel, &rec.Story, &condition, &rec.Temperature, &season, &period,
			&rec.IsWeekend, &keywordsJSON, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan story: %w", err)
		}
		rec.StoreID = storeIDCol.String
		rec.StoreType = story.StoreType(storeType)
		rec.WeatherCondition = story.Condition(condition)
		rec.Season = story.Season(season)
		rec.Period = story.TimeBucket(period)
		if len(keywordsJSON) > 0 {
			if err := json.Unmarshal(keywordsJSON, &rec.TrendKeywords); err != nil {
				r.logger.Warn("undecodable trend keywords in history", map[string]interface{}{
					"id":    rec.ID,
					"error": err,
				})
			}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
