package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"factflow/internal/models"
)

var ErrNotFound = errors.New("investigation not found")

type InvestigationRepo struct {
	db *DB
}

func NewInvestigationRepo(db *DB) *InvestigationRepo {
	return &InvestigationRepo{db: db}
}

func (r *InvestigationRepo) Create(ctx context.Context, runID, claim, state string) error {
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO investigations (run_id, claim, state)
VALUES ($1, $2, $3)
ON CONFLICT (run_id) DO UPDATE SET claim = EXCLUDED.claim, state = EXCLUDED.state, updated_at = NOW()`,
		runID, claim, state)
	if err != nil {
		return fmt.Errorf("create investigation: %w", err)
	}
	return nil
}

func (r *InvestigationRepo) UpdateState(ctx context.Context, runID, state, failStage, failReason string) error {
	_, err := r.db.Pool.Exec(ctx, `
UPDATE investigations
SET state=$2, fail_stage=NULLIF($3,''), fail_reason=NULLIF($4,''), updated_at=NOW()
WHERE run_id=$1`, runID, state, failStage, failReason)
	if err != nil {
		return fmt.Errorf("update investigation state: %w", err)
	}
	return nil
}

func (r *InvestigationRepo) Complete(ctx context.Context, inv models.Investigation) error {
	_, err := r.db.Pool.Exec(ctx, `
UPDATE investigations
SET state=$2, case_id=$3, score=$4, confidence=$5, verdict=$6, composite=$7, severity=$8,
    case_folder=$9, text_path=$10, html_path=$11, pdf_path=$12, fail_stage=NULL, fail_reason=NULL, updated_at=NOW()
WHERE run_id=$1`,
		inv.RunID, inv.State, inv.CaseID, inv.Metrics.Score, inv.Metrics.Confidence, inv.Metrics.Verdict, inv.Metrics.Composite, inv.Severity,
		inv.Bundle.CaseFolder, inv.Bundle.TextPath, inv.Bundle.HTMLPath, inv.Bundle.PDFPath)
	if err != nil {
		return fmt.Errorf("complete investigation: %w", err)
	}
	return nil
}

const investigationColumns = `run_id, claim, COALESCE(case_id,''), state, COALESCE(fail_stage,''), COALESCE(fail_reason,''),
       COALESCE(score,''), COALESCE(confidence,''), COALESCE(verdict,''), COALESCE(composite,''), COALESCE(severity,''),
       COALESCE(case_folder,''), COALESCE(text_path,''), COALESCE(html_path,''), COALESCE(pdf_path,''), created_at, updated_at`

func (r *InvestigationRepo) Get(ctx context.Context, runID string) (models.Investigation, error) {
	row := r.db.Pool.QueryRow(ctx, `SELECT `+investigationColumns+` FROM investigations WHERE run_id=$1`, runID)
	inv, err := scanInvestigation(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Investigation{}, ErrNotFound
	}
	if err != nil {
		return models.Investigation{}, fmt.Errorf("get investigation: %w", err)
	}
	return inv, nil
}

func (r *InvestigationRepo) List(ctx context.Context, limit int) ([]models.Investigation, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	rows, err := r.db.Pool.Query(ctx, `SELECT `+investigationColumns+` FROM investigations ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list investigations: %w", err)
	}
	defer rows.Close()

	out := make([]models.Investigation, 0)
	for rows.Next() {
		inv, err := scanInvestigation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan investigation: %w", err)
		}
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate investigations: %w", err)
	}
	return out, nil
}

func scanInvestigation(row pgx.Row) (models.Investigation, error) {
	var inv models.Investigation
	err := row.Scan(&inv.RunID, &inv.Claim, &inv.CaseID, &inv.State, &inv.FailStage, &inv.FailReason,
		&inv.Metrics.Score, &inv.Metrics.Confidence, &inv.Metrics.Verdict, &inv.Metrics.Composite, &inv.Severity,
		&inv.Bundle.CaseFolder, &inv.Bundle.TextPath, &inv.Bundle.HTMLPath, &inv.Bundle.PDFPath, &inv.CreatedAt, &inv.UpdatedAt)
	return inv, err
}
