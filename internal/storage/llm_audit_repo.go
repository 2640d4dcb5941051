package storage

import (
	"context"
	"fmt"

	"factflow/internal/providers"
)

// LLMAuditRepo writes one llm_calls row per provider attempt.
type LLMAuditRepo struct {
	db *DB
}

func NewLLMAuditRepo(db *DB) *LLMAuditRepo {
	return &LLMAuditRepo{db: db}
}

func (r *LLMAuditRepo) RecordCall(ctx context.Context, rec providers.CallRecord) error {
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO llm_calls(run_id, operation, provider_name, model, status, error_type, latency_ms)
VALUES (NULLIF($1,''), $2, $3, $4, $5, NULLIF($6,''), $7)`,
		rec.RunID, rec.Operation, rec.ProviderName, rec.Model, rec.Status, string(rec.ErrorType), rec.Latency.Milliseconds())
	if err != nil {
		return fmt.Errorf("insert llm call: %w", err)
	}
	return nil
}
