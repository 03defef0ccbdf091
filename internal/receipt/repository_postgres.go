package receipt

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Save(ctx context.Context, rec *Receipt) error {
	query := `
		INSERT INTO order_receipts (
			idempotency_key, session_id, order_id, restaurant_id, table_id,
			customer_name, status, total_amount, item_count
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query,
		rec.IdempotencyKey, rec.SessionID, rec.OrderID, rec.RestaurantID, rec.TableID,
		rec.CustomerName, rec.Status, rec.TotalAmount, rec.ItemCount,
	).Scan(&rec.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateKey
	}
	return err
}

func (r *PostgresRepository) FindByKey(ctx context.Context, key string) (*Receipt, error) {
	query := `
		SELECT idempotency_key, session_id, order_id, restaurant_id, table_id,
		       customer_name, status, total_amount, item_count, created_at
		FROM order_receipts
		WHERE idempotency_key = $1
	`
	rec := &Receipt{}
	err := r.db.QueryRow(ctx, query, key).Scan(
		&rec.IdempotencyKey, &rec.SessionID, &rec.OrderID, &rec.RestaurantID, &rec.TableID,
		&rec.CustomerName, &rec.Status, &rec.TotalAmount, &rec.ItemCount, &rec.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *PostgresRepository) ListBySession(ctx context.Context, sessionID string) ([]Receipt, error) {
	rows, err := r.db.Query(ctx, `
		SELECT idempotency_key, session_id, order_id, restaurant_id, table_id,
		       customer_name, status, total_amount, item_count, created_at
		FROM order_receipts
		WHERE session_id = $1
		ORDER BY created_at DESC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Receipt{}
	for rows.Next() {
		var rec Receipt
		if err := rows.Scan(
			&rec.IdempotencyKey, &rec.SessionID, &rec.OrderID, &rec.RestaurantID, &rec.TableID,
			&rec.CustomerName, &rec.Status, &rec.TotalAmount, &rec.ItemCount, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
