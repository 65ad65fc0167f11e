package content

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// TableAdapter is the stock adapter for content stored in a local
// Postgres table with a status column. Deletion is a soft delete: the
// row is flipped to hidden so audit references stay resolvable.
type TableAdapter struct {
	db           *sqlx.DB
	table        string
	statusColumn string
}

// NewTableAdapter creates an adapter over the given table. The table
// and column names come from trusted registration code, never user
// input, so they are interpolated directly.
func NewTableAdapter(db *sqlx.DB, table, statusColumn string) *TableAdapter {
	return &TableAdapter{db: db, table: table, statusColumn: statusColumn}
}

// UpdateStatus sets the content row's status column
func (a *TableAdapter) UpdateStatus(ctx context.Context, contentID string, status string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, updated_at = NOW() WHERE id = $2`, a.table, a.statusColumn)
	_, err := a.db.ExecContext(ctx, query, status, contentID)
	return err
}

// Delete hides the content row. A missing row is not an error: the
// engine tolerates deleting content that is already gone.
func (a *TableAdapter) Delete(ctx context.Context, contentID string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, deleted_at = NOW(), updated_at = NOW() WHERE id = $2`, a.table, a.statusColumn)
	_, err := a.db.ExecContext(ctx, query, StatusHidden, contentID)
	return err
}
