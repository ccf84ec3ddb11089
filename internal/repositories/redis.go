package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"invoicely/internal/common"
	"invoicely/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	usersByEmailKey = "users:byemail"
	usersByIDKey    = "users:byid"
	invoicesKey     = "invoices"
)

func invoiceOwnerKey(ownerID uuid.UUID) string {
	return fmt.Sprintf("invoices:owner:%s", ownerID)
}

// redisUserRepo stores user documents as JSON values in two hashes, keyed by
// email and by id. HSetNX makes the check-then-insert a single atomic
// operation on the server.
type redisUserRepo struct {
	client *redis.Client
}

func NewRedisUserRepo(client *redis.Client) UserRepository {
	return &redisUserRepo{client: client}
}

// redisUser is the stored document shape; the hash must survive round-trips
// even though the model never serializes it at the API boundary.
type redisUser struct {
	models.User
	PasswordHash string `json:"passwordHash"`
}

func (r *redisUserRepo) Create(ctx context.Context, user *models.User) error {
	doc, err := json.Marshal(redisUser{User: *user, PasswordHash: user.PasswordHash})
	if err != nil {
		return fmt.Errorf("failed to serialize user: %w", err)
	}

	inserted, err := r.client.HSetNX(ctx, usersByEmailKey, user.Email, doc).Result()
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	if !inserted {
		return common.ErrDuplicateEmail
	}

	if err := r.client.HSet(ctx, usersByIDKey, user.ID.String(), doc).Err(); err != nil {
		// Release the email claim so a failed registration can be retried
		// instead of leaving a user that exists by email but not by id.
		r.client.HDel(context.WithoutCancel(ctx), usersByEmailKey, user.Email)
		return fmt.Errorf("failed to index user by id: %w", err)
	}
	return nil
}

func (r *redisUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	doc, err := r.client.HGet(ctx, usersByEmailKey, email).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return decodeRedisUser(doc)
}

func (r *redisUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	doc, err := r.client.HGet(ctx, usersByIDKey, id.String()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return decodeRedisUser(doc)
}

func decodeRedisUser(doc string) (*models.User, error) {
	var record redisUser
	if err := json.Unmarshal([]byte(doc), &record); err != nil {
		return nil, fmt.Errorf("failed to parse user document: %w", err)
	}
	user := record.User
	user.PasswordHash = record.PasswordHash
	return &user, nil
}

// redisInvoiceRepo stores invoice documents in one hash keyed by id and keeps
// a per-owner list of ids. LPush prepends, so LRange reads newest-first
// without sorting.
type redisInvoiceRepo struct {
	client *redis.Client
}

func NewRedisInvoiceRepo(client *redis.Client) InvoiceRepository {
	return &redisInvoiceRepo{client: client}
}

func (r *redisInvoiceRepo) Create(ctx context.Context, invoice *models.Invoice) error {
	doc, err := json.Marshal(invoice)
	if err != nil {
		return fmt.Errorf("failed to serialize invoice: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, invoicesKey, invoice.ID.String(), doc)
	pipe.LPush(ctx, invoiceOwnerKey(invoice.OwnerID), invoice.ID.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	return nil
}

func (r *redisInvoiceRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Invoice, error) {
	ids, err := r.client.LRange(ctx, invoiceOwnerKey(ownerID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	if len(ids) == 0 {
		return []*models.Invoice{}, nil
	}

	docs, err := r.client.HMGet(ctx, invoicesKey, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invoices: %w", err)
	}

	invoices := make([]*models.Invoice, 0, len(docs))
	for _, doc := range docs {
		raw, ok := doc.(string)
		if !ok {
			continue // id without a document, skip
		}
		invoice := &models.Invoice{}
		if err := json.Unmarshal([]byte(raw), invoice); err != nil {
			return nil, fmt.Errorf("failed to parse invoice document: %w", err)
		}
		invoices = append(invoices, invoice)
	}
	return invoices, nil
}
