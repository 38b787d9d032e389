package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/thecodingmage/smartsift/internal/domain"
)

type AnalysisRepo struct {
	db *PostgresDB
}

func NewAnalysisRepo(db *PostgresDB) *AnalysisRepo {
	return &AnalysisRepo{db: db}
}

func (r *AnalysisRepo) Save(ctx context.Context, a *domain.DetailedAnalysis) error {
	aspectsJSON, err := json.Marshal(a.Aspects)
	if err != nil {
		return fmt.Errorf("marshal aspects: %w", err)
	}

	_, err = r.db.Pool.Exec(ctx, `
		INSERT INTO analyses (complaint_id, status, flag_reason, aspects, summary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (complaint_id) DO UPDATE SET
			status = EXCLUDED.status,
			flag_reason = EXCLUDED.flag_reason,
			aspects = EXCLUDED.aspects,
			summary = EXCLUDED.summary
	`, a.ComplaintID, string(a.Status), a.FlagReason, aspectsJSON, a.Summary, time.Now())

	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}

	return nil
}

func (r *AnalysisRepo) GetByComplaintID(ctx context.Context, complaintID string) (*domain.DetailedAnalysis, error) {
	row := r.db.Pool.QueryRow(ctx, `
		SELECT complaint_id, status, flag_reason, aspects, summary
		FROM analyses
		WHERE complaint_id = $1
	`, complaintID)

	var a domain.DetailedAnalysis
	var status string
	var aspectsJSON []byte
	if err := row.Scan(&a.ComplaintID, &status, &a.FlagReason, &aspectsJSON, &a.Summary); err != nil {
		return nil, fmt.Errorf("scan analysis: %w", err)
	}
	a.Status = domain.AnalysisStatus(status)

	if err := json.Unmarshal(aspectsJSON, &a.Aspects); err != nil {
		return nil, fmt.Errorf("unmarshal aspects: %w", err)
	}

	return &a, nil
}

// TopAspects counts extracted aspects across successful analyses, most
// frequent first.
func (r *AnalysisRepo) TopAspects(ctx context.Context, limit int) ([]domain.IssueCount, error) {
	if limit <= 0 || limit > 50 {
		limit = 5
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT aspect->>'aspect' AS issue,
			COUNT(*) AS cnt,
			MODE() WITHIN GROUP (ORDER BY aspect->>'severity') AS severity
		FROM analyses, jsonb_array_elements(aspects) AS aspect
		WHERE status = 'Success'
		GROUP BY aspect->>'aspect'
		ORDER BY cnt DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query top aspects: %w", err)
	}
	defer rows.Close()

	var issues []domain.IssueCount
	for rows.Next() {
		var ic domain.IssueCount
		if err := rows.Scan(&ic.Issue, &ic.Count, &ic.Severity); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		issues = append(issues, ic)
	}

	return issues, rows.Err()
}
