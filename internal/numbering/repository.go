package numbering

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kertas-app/kertas/internal/shared"
)

type Repository interface {
	// Peek returns the sequence as-is, without consuming a number.
	Peek(ctx context.Context, docType DocType) (Sequence, error)
	// Next consumes and returns the current sequence position.
	Next(ctx context.Context, docType DocType) (Sequence, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) Peek(ctx context.Context, docType DocType) (Sequence, error) {
	query := `SELECT doc_type, prefix, padding, next_number FROM document_sequences WHERE doc_type = $1`
	var seq Sequence
	err := r.db.QueryRow(ctx, query, string(docType)).Scan(&seq.DocType, &seq.Prefix, &seq.Padding, &seq.NextNumber)
	if errors.Is(err, pgx.ErrNoRows) {
		return Sequence{}, shared.ErrNotFound
	}
	return seq, err
}

func (r *repository) Next(ctx context.Context, docType DocType) (Sequence, error) {
	query := `
		UPDATE document_sequences
		SET next_number = next_number + 1
		WHERE doc_type = $1
		RETURNING doc_type, prefix, padding, next_number - 1`
	var seq Sequence
	err := r.db.QueryRow(ctx, query, string(docType)).Scan(&seq.DocType, &seq.Prefix, &seq.Padding, &seq.NextNumber)
	if errors.Is(err, pgx.ErrNoRows) {
		return Sequence{}, shared.ErrNotFound
	}
	return seq, err
}
