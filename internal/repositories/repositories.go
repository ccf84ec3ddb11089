package repositories

import (
	"context"
	"fmt"

	"invoicely/internal/config"
	"invoicely/internal/models"
	"invoicely/pkg/database"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// UserRepository is the credential store contract. All backends must behave
// identically: one user per email, enforced atomically at write time.
type UserRepository interface {
	// Create inserts a new user. Returns common.ErrDuplicateEmail if a user
	// with the same email already exists; the check and the insert are a
	// single atomic operation at the storage layer.
	Create(ctx context.Context, user *models.User) error
	// GetByEmail returns common.ErrNotFound when no user has that email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByID returns common.ErrNotFound when the id is unknown.
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// InvoiceRepository is the invoice store contract. The Items payload is opaque
// to every backend and must round-trip losslessly.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *models.Invoice) error
	// ListByOwner returns only invoices whose OwnerID matches, newest-first
	// by creation time. An owner with no invoices gets an empty slice.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Invoice, error)
}

// Stores bundles the two repositories of whichever backend was selected.
type Stores struct {
	Users    UserRepository
	Invoices InvoiceRepository
}

// Open constructs the storage backend named by cfg.StorageBackend and runs its
// idempotent bootstrap. The returned close function tears down the underlying
// handle at process exit.
func Open(ctx context.Context, cfg config.Config) (*Stores, func(), error) {
	switch cfg.StorageBackend {
	case "postgres":
		pool, err := database.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres backend: %w", err)
		}
		if err := BootstrapPostgres(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("postgres bootstrap: %w", err)
		}
		return &Stores{
			Users:    NewPostgresUserRepo(pool),
			Invoices: NewPostgresInvoiceRepo(pool),
		}, pool.Close, nil

	case "file":
		store, err := NewJSONFileStore(cfg.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("file backend: %w", err)
		}
		return &Stores{Users: store.Users(), Invoices: store.Invoices()}, func() {}, nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, nil, fmt.Errorf("redis backend: %w", err)
		}
		return &Stores{
			Users:    NewRedisUserRepo(client),
			Invoices: NewRedisInvoiceRepo(client),
		}, func() { client.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
