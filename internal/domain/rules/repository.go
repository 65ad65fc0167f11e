package rules

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines rule data access interface
type Repository interface {
	Create(ctx context.Context, rule *Rule) error
	GetByID(ctx context.Context, id uuid.UUID) (*Rule, error)
	List(ctx context.Context, activeOnly bool) ([]*Rule, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new rule repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, rule *Rule) error {
	query := `
		INSERT INTO moderation_rules (id, rule_type, pattern, action, priority, active, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	now := time.Now()
	rule.CreatedAt = now
	rule.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		rule.ID,
		rule.Type,
		rule.Pattern,
		rule.Action,
		rule.Priority,
		rule.Active,
		rule.CreatedBy,
		rule.CreatedAt,
		rule.UpdatedAt,
	)
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Rule, error) {
	query := `SELECT * FROM moderation_rules WHERE id = $1`
	var rule Rule
	err := r.db.GetContext(ctx, &rule, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *repository) List(ctx context.Context, activeOnly bool) ([]*Rule, error) {
	query := `SELECT * FROM moderation_rules`
	if activeOnly {
		query += ` WHERE active = true`
	}
	query += ` ORDER BY priority DESC, created_at ASC`

	var list []*Rule
	err := r.db.SelectContext(ctx, &list, query)
	return list, err
}

func (r *repository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `UPDATE moderation_rules SET active = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, active, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrRuleNotFound
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM moderation_rules WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrRuleNotFound
	}

	return nil
}
