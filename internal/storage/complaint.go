package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/thecodingmage/smartsift/internal/domain"
)

type ComplaintRepo struct {
	db *PostgresDB
}

func NewComplaintRepo(db *PostgresDB) *ComplaintRepo {
	return &ComplaintRepo{db: db}
}

// SaveResult persists the outcome of one pipeline run. Reprocessing the same
// complaint id overwrites the previous outcome.
func (r *ComplaintRepo) SaveResult(ctx context.Context, rec *domain.ResponseRecord) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO complaints (id, text, decision, confidence, tags, reason, status, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			text = EXCLUDED.text,
			decision = EXCLUDED.decision,
			confidence = EXCLUDED.confidence,
			tags = EXCLUDED.tags,
			reason = EXCLUDED.reason,
			status = EXCLUDED.status,
			processed_at = EXCLUDED.processed_at
	`, rec.ID, rec.Text, string(rec.Routing.Decision), rec.Routing.Confidence,
		rec.Routing.Tags, rec.Routing.Reason, rec.Status, time.Now())

	if err != nil {
		return fmt.Errorf("insert complaint: %w", err)
	}

	return nil
}

func (r *ComplaintRepo) GetByID(ctx context.Context, id string) (*domain.ResponseRecord, error) {
	row := r.db.Pool.QueryRow(ctx, `
		SELECT id, text, decision, confidence, tags, reason, status
		FROM complaints
		WHERE id = $1
	`, id)

	var rec domain.ResponseRecord
	var decision string
	err := row.Scan(&rec.ID, &rec.Text, &decision, &rec.Routing.Confidence,
		&rec.Routing.Tags, &rec.Routing.Reason, &rec.Status)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan complaint: %w", err)
	}
	rec.Routing.Decision = domain.Decision(decision)

	return &rec, nil
}

// CountByStatus returns processed-complaint counts keyed by pipeline status.
func (r *ComplaintRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT status, COUNT(*) FROM complaints GROUP BY status
	`)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		counts[status] = count
	}

	return counts, rows.Err()
}
