package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/thecodingmage/smartsift/internal/domain"
)

// ReviewQueueRepo is the durable append-only log of complaints flagged for
// human review. A single INSERT per entry keeps concurrent appends atomic.
type ReviewQueueRepo struct {
	db *PostgresDB
}

func NewReviewQueueRepo(db *PostgresDB) *ReviewQueueRepo {
	return &ReviewQueueRepo{db: db}
}

func (r *ReviewQueueRepo) Append(ctx context.Context, entry *domain.ReviewQueueEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Status == "" {
		entry.Status = domain.ReviewStatusPending
	}
	entry.CreatedAt = time.Now()

	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO human_review_queue (id, complaint_id, text, reason_for_flagging, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, entry.ID, entry.ComplaintID, entry.Text, entry.Reason, entry.Status, entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("insert review queue entry: %w", err)
	}

	return nil
}

func (r *ReviewQueueRepo) GetPending(ctx context.Context, limit, offset int) ([]*domain.ReviewQueueEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, complaint_id, text, reason_for_flagging, status, created_at, reviewed_at
		FROM human_review_queue
		WHERE status = 'pending'
		ORDER BY created_at ASC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query pending reviews: %w", err)
	}
	defer rows.Close()

	var entries []*domain.ReviewQueueEntry
	for rows.Next() {
		var e domain.ReviewQueueEntry
		if err := rows.Scan(&e.ID, &e.ComplaintID, &e.Text, &e.Reason, &e.Status, &e.CreatedAt, &e.ReviewedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		entries = append(entries, &e)
	}

	return entries, rows.Err()
}

func (r *ReviewQueueRepo) CountPending(ctx context.Context) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM human_review_queue WHERE status = 'pending'
	`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count pending reviews: %w", err)
	}
	return count, nil
}

func (r *ReviewQueueRepo) GetByID(ctx context.Context, id string) (*domain.ReviewQueueEntry, error) {
	row := r.db.Pool.QueryRow(ctx, `
		SELECT id, complaint_id, text, reason_for_flagging, status, created_at, reviewed_at
		FROM human_review_queue
		WHERE id = $1
	`, id)

	var e domain.ReviewQueueEntry
	err := row.Scan(&e.ID, &e.ComplaintID, &e.Text, &e.Reason, &e.Status, &e.CreatedAt, &e.ReviewedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("review queue entry not found")
		}
		return nil, fmt.Errorf("scan review queue entry: %w", err)
	}

	return &e, nil
}

func (r *ReviewQueueRepo) CompleteReview(ctx context.Context, id string) error {
	now := time.Now()
	_, err := r.db.Pool.Exec(ctx, `
		UPDATE human_review_queue
		SET status = 'completed', reviewed_at = $1
		WHERE id = $2
	`, now, id)

	if err != nil {
		return fmt.Errorf("complete review: %w", err)
	}

	return nil
}
