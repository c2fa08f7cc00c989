package directory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kertas-app/kertas/internal/platform/db"
	"github.com/kertas-app/kertas/internal/shared"
)

type repository struct {
	db *pgxpool.Pool
}

// NewRepository builds a Postgres-backed Directory.
func NewRepository(db *pgxpool.Pool) Directory {
	return &repository{db: db}
}

func (r *repository) Lead(ctx context.Context, id int64) (*LeadRecord, error) {
	query := `SELECT id, company_name, address, contact_name, email, phone, position FROM leads WHERE id = $1`
	var lead LeadRecord
	err := r.db.QueryRow(ctx, query, id).Scan(
		&lead.ID, &lead.CompanyName, &lead.Address,
		&lead.ContactName, &lead.Email, &lead.Phone, &lead.Position,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

// Client loads the company and its contact persons in one repeatable-read
// transaction so the contact list never mixes with a concurrent rewrite.
func (r *repository) Client(ctx context.Context, id int64) (*ClientRecord, error) {
	query := `
		SELECT c.id, c.client_code,
		       l.id, l.company_name, l.address, l.contact_name, l.email, l.phone, l.position
		FROM companies c
		JOIN leads l ON l.id = c.lead_id
		WHERE c.id = $1`
	var client ClientRecord
	err := db.WithTx(ctx, r.db, pgx.TxOptions{IsoLevel: pgx.RepeatableRead}, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, query, id).Scan(
			&client.ID, &client.ClientCode,
			&client.Lead.ID, &client.Lead.CompanyName, &client.Lead.Address,
			&client.Lead.ContactName, &client.Lead.Email, &client.Lead.Phone, &client.Lead.Position,
		)
		if err != nil {
			return err
		}
		client.ContactPersons, err = r.contactPersons(ctx, tx, id)
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *repository) contactPersons(ctx context.Context, tx pgx.Tx, companyID int64) ([]ContactPerson, error) {
	query := `
		SELECT cp.id, cp.position,
		       l.id, l.company_name, l.address, l.contact_name, l.email, l.phone, l.position
		FROM contact_persons cp
		JOIN leads l ON l.id = cp.lead_id
		WHERE cp.company_id = $1
		ORDER BY cp.id`
	rows, err := tx.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []ContactPerson
	for rows.Next() {
		var contact ContactPerson
		err := rows.Scan(
			&contact.ID, &contact.Position,
			&contact.Lead.ID, &contact.Lead.CompanyName, &contact.Lead.Address,
			&contact.Lead.ContactName, &contact.Lead.Email, &contact.Lead.Phone, &contact.Lead.Position,
		)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, contact)
	}
	return contacts, rows.Err()
}

func (r *repository) Clients(ctx context.Context) ([]ClientRecord, error) {
	query := `
		SELECT c.id, c.client_code,
		       l.id, l.company_name, l.address, l.contact_name, l.email, l.phone, l.position
		FROM companies c
		JOIN leads l ON l.id = c.lead_id
		ORDER BY l.company_name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []ClientRecord
	for rows.Next() {
		var client ClientRecord
		err := rows.Scan(
			&client.ID, &client.ClientCode,
			&client.Lead.ID, &client.Lead.CompanyName, &client.Lead.Address,
			&client.Lead.ContactName, &client.Lead.Email, &client.Lead.Phone, &client.Lead.Position,
		)
		if err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	return clients, rows.Err()
}

func (r *repository) Leads(ctx context.Context) ([]LeadRecord, error) {
	query := `SELECT id, company_name, address, contact_name, email, phone, position FROM leads ORDER BY company_name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []LeadRecord
	for rows.Next() {
		var lead LeadRecord
		err := rows.Scan(
			&lead.ID, &lead.CompanyName, &lead.Address,
			&lead.ContactName, &lead.Email, &lead.Phone, &lead.Position,
		)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}
