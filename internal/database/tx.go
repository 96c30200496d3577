package database

import (
	"context"
	"fmt"

	"arcade-server/shared/interfaces"

	"github.com/jackc/pgx/v5/pgxpool"
)

var _ interfaces.TxManager = (*PgxTxManager)(nil)

// PgxTxManager выполняет функции в транзакциях pgx-пула.
type PgxTxManager struct {
	pool *pgxpool.Pool
}

// NewPgxTxManager создает менеджер транзакций поверх пула соединений.
func NewPgxTxManager(pool *pgxpool.Pool) *PgxTxManager {
	return &PgxTxManager{pool: pool}
}

// WithTx выполняет fn в транзакции. Rollback при ошибке, Commit при успехе.
func (m *PgxTxManager) WithTx(ctx context.Context, fn func(ctx context.Context, querier interfaces.DBTX) error) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
