package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"invoicely/internal/common"
	"invoicely/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Database is the subset of pgxpool.Pool the repositories use. pgxmock
// satisfies it in tests.
type Database interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// BootstrapPostgres creates the schema if it does not exist. Safe to run on
// every startup. Email uniqueness is a storage-level constraint so concurrent
// registrations cannot both succeed.
func BootstrapPostgres(ctx context.Context, db Database) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			name TEXT NOT NULL,
			company_name TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS invoices (
			id UUID PRIMARY KEY,
			owner_id UUID NOT NULL REFERENCES users (id),
			invoice_number TEXT NOT NULL DEFAULT '',
			client_name TEXT NOT NULL DEFAULT '',
			client_email TEXT NOT NULL DEFAULT '',
			client_address TEXT NOT NULL DEFAULT '',
			items TEXT NOT NULL,
			subtotal DOUBLE PRECISION NOT NULL DEFAULT 0,
			tax_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
			tax_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
			delivery_fee DOUBLE PRECISION NOT NULL DEFAULT 0,
			total_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
			currency TEXT NOT NULL DEFAULT 'USD',
			notes TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'draft',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_invoices_owner_created
			ON invoices (owner_id, created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to bootstrap schema: %w", err)
		}
	}
	return nil
}

type postgresUserRepo struct {
	db Database
}

func NewPostgresUserRepo(db Database) UserRepository {
	return &postgresUserRepo{db: db}
}

func (r *postgresUserRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, name, company_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query, user.ID, user.Email, user.PasswordHash, user.Name, user.CompanyName, user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return common.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *postgresUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, email, password_hash, name, company_name, created_at
		FROM users
		WHERE email = $1
	`
	err := r.db.QueryRow(ctx, query, email).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.CompanyName, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func (r *postgresUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, email, password_hash, name, company_name, created_at
		FROM users
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.CompanyName, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

type postgresInvoiceRepo struct {
	db Database
}

func NewPostgresInvoiceRepo(db Database) InvoiceRepository {
	return &postgresInvoiceRepo{db: db}
}

func (r *postgresInvoiceRepo) Create(ctx context.Context, invoice *models.Invoice) error {
	items, err := json.Marshal(invoice.Items)
	if err != nil {
		return fmt.Errorf("failed to serialize items: %w", err)
	}

	query := `
		INSERT INTO invoices (id, owner_id, invoice_number, client_name, client_email, client_address,
			items, subtotal, tax_rate, tax_amount, delivery_fee, total_amount, currency, notes, status,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err = r.db.Exec(ctx, query, invoice.ID, invoice.OwnerID, invoice.InvoiceNumber, invoice.ClientName,
		invoice.ClientEmail, invoice.ClientAddress, string(items), invoice.Subtotal, invoice.TaxRate,
		invoice.TaxAmount, invoice.DeliveryFee, invoice.TotalAmount, invoice.Currency, invoice.Notes,
		invoice.Status, invoice.CreatedAt, invoice.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	return nil
}

func (r *postgresInvoiceRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Invoice, error) {
	query := `
		SELECT id, owner_id, invoice_number, client_name, client_email, client_address,
			items, subtotal, tax_rate, tax_amount, delivery_fee, total_amount, currency, notes, status,
			created_at, updated_at
		FROM invoices
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	invoices := []*models.Invoice{}
	for rows.Next() {
		invoice := &models.Invoice{}
		var items string
		if err := rows.Scan(&invoice.ID, &invoice.OwnerID, &invoice.InvoiceNumber, &invoice.ClientName,
			&invoice.ClientEmail, &invoice.ClientAddress, &items, &invoice.Subtotal, &invoice.TaxRate,
			&invoice.TaxAmount, &invoice.DeliveryFee, &invoice.TotalAmount, &invoice.Currency,
			&invoice.Notes, &invoice.Status, &invoice.CreatedAt, &invoice.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		if err := json.Unmarshal([]byte(items), &invoice.Items); err != nil {
			return nil, fmt.Errorf("failed to deserialize items: %w", err)
		}
		invoices = append(invoices, invoice)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}
