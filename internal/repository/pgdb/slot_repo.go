package pgdb

import (
	"context"
	"errors"

	"github.com/DRSN-tech/go-cart/pkg/e"
	"github.com/DRSN-tech/go-cart/pkg/tr"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jimlawless/whereami"
)

// Pool — часть *pgxpool.Pool, которой пользуется SlotRepo.
type Pool interface {
	transaction.Transactional
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SlotRepo хранит слоты корзины в таблице cart_slots. Каждая запись
// дополнительно попадает в cart_slot_history в той же транзакции.
type SlotRepo struct {
	pool Pool
}

func NewSlotRepo(pool Pool) *SlotRepo {
	return &SlotRepo{
		pool: pool,
	}
}

func (s *SlotRepo) Read(ctx context.Context, key string) (string, bool, error) {
	query := `
		SELECT value
		FROM cart_slots
		WHERE slot_key = $1;
	`

	var value string
	if err := s.pool.QueryRow(ctx, query, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}

		return "", false, e.Wrap(whereami.WhereAmI(), err)
	}

	return value, true, nil
}

func (s *SlotRepo) Write(ctx context.Context, key string, value string) (err error) {
	const op = "SlotRepo.Write"

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, s.pool)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			_ = tx.Rollback(ctx)
		}
	}()

	pgxTx, ok := tx.Transaction().(pgx.Tx)
	if !ok {
		return e.Wrap(op, e.ErrTransactionNotFound)
	}
	ctx = tr.WithTx(ctx, pgxTx)

	if err = s.upsertSlot(ctx, key, value); err != nil {
		return e.Wrap(op, err)
	}

	if err = s.appendHistory(ctx, key, value); err != nil {
		return e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

func (s *SlotRepo) upsertSlot(ctx context.Context, key, value string) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO cart_slots (slot_key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (slot_key) DO UPDATE
		SET value = EXCLUDED.value,
		    updated_at = EXCLUDED.updated_at;
	`

	if _, err := tx.Exec(ctx, query, key, value); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (s *SlotRepo) appendHistory(ctx context.Context, key, value string) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO cart_slot_history (slot_key, value)
		VALUES ($1, $2);
	`

	if _, err := tx.Exec(ctx, query, key, value); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
