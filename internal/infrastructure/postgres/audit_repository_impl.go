package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/oksasatya/shamba-farm/internal/domain/entity"
	"github.com/oksasatya/shamba-farm/internal/domain/repository"
)

type AuditRepository struct {
	db DBTX
}

func NewAuditRepository(db DBTX) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Insert(ctx context.Context, e *entity.AuditLog) error {
	md := e.Metadata
	if md == nil {
		md = map[string]any{}
	}
	b, err := json.Marshal(md)
	if err != nil {
		return fmt.Errorf("marshal audit metadata: %w", err)
	}
	var uid any
	if validID(e.UserID) {
		uid = e.UserID
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO audit_logs (user_id, username, action, ip, user_agent, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, uid, e.Username, e.Action, e.IP, e.UserAgent, b)
	if err := row.Scan(&e.ID, &e.CreatedAt); err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

var _ repository.AuditRepository = (*AuditRepository)(nil)
