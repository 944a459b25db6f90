package store

import (
	"fmt"

	"todo-tracker-backend/internal/db"
)

// DatabaseStore persists push records in PostgreSQL.
type DatabaseStore struct {
	db *db.DB
}

func NewDatabaseStore(database *db.DB) *DatabaseStore {
	return &DatabaseStore{db: database}
}

// SavePushRecord inserts one handled push's summary row.
func (ds *DatabaseStore) SavePushRecord(rec PushRecord) error {
	if rec.Repo == "" {
		return fmt.Errorf("repo is required")
	}
	query := `
		INSERT INTO push_summaries (delivery_id, repo, head_sha, created_count, reopened_count, skipped_count, outcome, received_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := ds.db.Exec(query,
		rec.DeliveryID, rec.Repo, rec.HeadSHA,
		rec.Created, rec.Reopened, rec.Skipped,
		rec.Outcome, rec.ReceivedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save push record: %w", err)
	}
	return nil
}

// RecentPushRecords returns the latest records, newest first.
func (ds *DatabaseStore) RecentPushRecords(limit int) ([]PushRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT delivery_id, repo, head_sha, created_count, reopened_count, skipped_count, outcome, received_at
		FROM push_summaries
		ORDER BY received_at DESC
		LIMIT $1
	`
	rows, err := ds.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list push records: %w", err)
	}
	defer rows.Close()

	var out []PushRecord
	for rows.Next() {
		var rec PushRecord
		if err := rows.Scan(
			&rec.DeliveryID, &rec.Repo, &rec.HeadSHA,
			&rec.Created, &rec.Reopened, &rec.Skipped,
			&rec.Outcome, &rec.ReceivedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan push record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
