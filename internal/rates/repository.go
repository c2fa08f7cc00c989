package rates

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kertas-app/kertas/internal/shared"
)

type Repository interface {
	List(ctx context.Context, kind Kind) ([]Rate, error)
	Get(ctx context.Context, id int64) (Rate, error)
	Create(ctx context.Context, rate Rate) (Rate, error)
	Update(ctx context.Context, id int64, rate Rate) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, kind Kind) ([]Rate, error) {
	query := `SELECT id, kind, name, rate FROM tax_rates WHERE kind = $1 ORDER BY rate, name`
	rows, err := r.db.Query(ctx, query, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rates []Rate
	for rows.Next() {
		var rate Rate
		if err := rows.Scan(&rate.ID, &rate.Kind, &rate.Name, &rate.Rate); err != nil {
			return nil, err
		}
		rates = append(rates, rate)
	}
	return rates, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Rate, error) {
	query := `SELECT id, kind, name, rate FROM tax_rates WHERE id = $1`
	var rate Rate
	err := r.db.QueryRow(ctx, query, id).Scan(&rate.ID, &rate.Kind, &rate.Name, &rate.Rate)
	if errors.Is(err, pgx.ErrNoRows) {
		return Rate{}, shared.ErrNotFound
	}
	return rate, err
}

func (r *repository) Create(ctx context.Context, rate Rate) (Rate, error) {
	query := `INSERT INTO tax_rates (kind, name, rate) VALUES ($1, $2, $3) RETURNING id`
	err := r.db.QueryRow(ctx, query, string(rate.Kind), rate.Name, rate.Rate).Scan(&rate.ID)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
			return Rate{}, shared.ErrDuplicate
		}
		return Rate{}, err
	}
	return rate, nil
}

func (r *repository) Update(ctx context.Context, id int64, rate Rate) error {
	query := `UPDATE tax_rates SET kind = $1, name = $2, rate = $3 WHERE id = $4`
	_, err := r.db.Exec(ctx, query, string(rate.Kind), rate.Name, rate.Rate, id)
	if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
		return shared.ErrDuplicate
	}
	return err
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM tax_rates WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
