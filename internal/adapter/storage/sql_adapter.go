package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rl1809/inventory-tracker/internal/core/domain"
	"github.com/rl1809/inventory-tracker/internal/port"
)

type Dialect string

const (
	DialectMySQL  Dialect = "mysql"
	DialectSQLite Dialect = "sqlite"
)

// Item names are case sensitive, so MySQL needs a binary collation.
var createTableStatements = map[Dialect]string{
	DialectMySQL: `
		CREATE TABLE IF NOT EXISTS inventory (
			item_id    VARCHAR(255) COLLATE utf8mb4_bin NOT NULL PRIMARY KEY,
			stock      BIGINT NOT NULL,
			sort_order INT NOT NULL
		)`,
	DialectSQLite: `
		CREATE TABLE IF NOT EXISTS inventory (
			item_id    TEXT NOT NULL PRIMARY KEY,
			stock      INTEGER NOT NULL,
			sort_order INTEGER NOT NULL
		)`,
}

// SQLAdapter keeps one row per item in the inventory table. sort_order
// preserves insertion order across a save/load cycle.
type SQLAdapter struct {
	db      *sql.DB
	dialect Dialect
	logger  port.Logger
}

func NewSQLAdapter(db *sql.DB, dialect Dialect, logger port.Logger) *SQLAdapter {
	return &SQLAdapter{db: db, dialect: dialect, logger: logger}
}

func (m *SQLAdapter) Migrate(ctx context.Context) error {
	stmt, ok := createTableStatements[m.dialect]
	if !ok {
		return fmt.Errorf("migrate: unsupported dialect %q", m.dialect)
	}
	if _, err := m.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("create inventory table: %w", err)
	}
	return nil
}

func (m *SQLAdapter) Load(ctx context.Context) (*domain.Inventory, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT item_id, stock
		FROM inventory ORDER BY sort_order`)
	if err != nil {
		return nil, fmt.Errorf("query inventory: %w", err)
	}
	defer rows.Close()

	inv := domain.NewInventory()
	for rows.Next() {
		var item string
		var qty int
		if err := rows.Scan(&item, &qty); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		inv.Set(item, qty)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query inventory: %w", err)
	}

	if inv.Len() == 0 {
		m.logger.Warnf("'inventory' table is empty. Starting with empty inventory.")
	}
	return inv, nil
}

func (m *SQLAdapter) Save(ctx context.Context, inv *domain.Inventory) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM inventory`); err != nil {
		return fmt.Errorf("clear inventory: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO inventory (item_id, stock, sort_order)
		VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, level := range inv.Items() {
		if _, err := stmt.ExecContext(ctx, level.Item, level.Quantity, i); err != nil {
			return fmt.Errorf("insert item %q: %w", level.Item, err)
		}
	}

	return tx.Commit()
}
