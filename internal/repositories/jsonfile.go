package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"invoicely/internal/common"
	"invoicely/internal/models"

	"github.com/google/uuid"
)

// JSONFileStore persists users and invoices as two flat JSON files: users.json
// keyed by email, invoices.json keyed by invoice id. Every operation is a
// whole-file read-modify-write, so all of them serialize behind one mutex.
type JSONFileStore struct {
	mu           sync.Mutex
	usersFile    string
	invoicesFile string
}

// NewJSONFileStore creates the data directory and seeds missing files with an
// empty object. Safe to run on every startup.
func NewJSONFileStore(dir string) (*JSONFileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	s := &JSONFileStore{
		usersFile:    filepath.Join(dir, "users.json"),
		invoicesFile: filepath.Join(dir, "invoices.json"),
	}

	for _, file := range []string{s.usersFile, s.invoicesFile} {
		if _, err := os.Stat(file); os.IsNotExist(err) {
			if err := os.WriteFile(file, []byte("{}"), 0o644); err != nil {
				return nil, fmt.Errorf("failed to seed %s: %w", filepath.Base(file), err)
			}
		} else if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", filepath.Base(file), err)
		}
	}

	return s, nil
}

func (s *JSONFileStore) Users() UserRepository {
	return &jsonFileUserRepo{store: s}
}

func (s *JSONFileStore) Invoices() InvoiceRepository {
	return &jsonFileInvoiceRepo{store: s}
}

func readJSONMap[T any](path string) (map[string]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	records := map[string]T{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return records, nil
}

func writeJSONMap[T any](path string, records map[string]T) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// userRecord is the on-disk user shape. The password hash is persisted here
// but the model keeps it out of API responses.
type userRecord struct {
	models.User
	PasswordHash string `json:"passwordHash"`
}

type jsonFileUserRepo struct {
	store *JSONFileStore
}

func (r *jsonFileUserRepo) Create(ctx context.Context, user *models.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	users, err := readJSONMap[userRecord](r.store.usersFile)
	if err != nil {
		return err
	}

	if _, exists := users[user.Email]; exists {
		return common.ErrDuplicateEmail
	}

	users[user.Email] = userRecord{User: *user, PasswordHash: user.PasswordHash}
	return writeJSONMap(r.store.usersFile, users)
}

func (r *jsonFileUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	users, err := readJSONMap[userRecord](r.store.usersFile)
	if err != nil {
		return nil, err
	}

	record, ok := users[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	user := record.User
	user.PasswordHash = record.PasswordHash
	return &user, nil
}

func (r *jsonFileUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	users, err := readJSONMap[userRecord](r.store.usersFile)
	if err != nil {
		return nil, err
	}

	for _, record := range users {
		if record.ID == id {
			user := record.User
			user.PasswordHash = record.PasswordHash
			return &user, nil
		}
	}
	return nil, common.ErrNotFound
}

type jsonFileInvoiceRepo struct {
	store *JSONFileStore
}

func (r *jsonFileInvoiceRepo) Create(ctx context.Context, invoice *models.Invoice) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	invoices, err := readJSONMap[models.Invoice](r.store.invoicesFile)
	if err != nil {
		return err
	}

	invoices[invoice.ID.String()] = *invoice
	return writeJSONMap(r.store.invoicesFile, invoices)
}

func (r *jsonFileInvoiceRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Invoice, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	records, err := readJSONMap[models.Invoice](r.store.invoicesFile)
	if err != nil {
		return nil, err
	}

	invoices := []*models.Invoice{}
	for _, record := range records {
		if record.OwnerID != ownerID {
			continue
		}
		invoice := record
		invoices = append(invoices, &invoice)
	}

	sort.Slice(invoices, func(i, j int) bool {
		return invoices[i].CreatedAt.After(invoices[j].CreatedAt)
	})
	return invoices, nil
}
