package services

import (
	"context"
	"time"

	"invoicely/internal/models"
	"invoicely/internal/repositories"

	"github.com/google/uuid"
)

// CreateInvoiceInput carries the client-supplied invoice fields. Amounts are
// stored as sent; the server never recomputes or validates the arithmetic.
type CreateInvoiceInput struct {
	InvoiceNumber string
	ClientName    string
	ClientEmail   string
	ClientAddress string
	Items         models.LineItems
	Subtotal      float64
	TaxRate       float64
	TaxAmount     float64
	DeliveryFee   float64
	TotalAmount   float64
	Currency      string
	Notes         string
	Status        string
}

type InvoiceService struct {
	invoices repositories.InvoiceRepository
	timeout  time.Duration
}

func NewInvoiceService(invoices repositories.InvoiceRepository, storageTimeout time.Duration) *InvoiceService {
	return &InvoiceService{invoices: invoices, timeout: storageTimeout}
}

// Create persists a new invoice owned by the caller and returns it.
func (s *InvoiceService) Create(ctx context.Context, ownerID uuid.UUID, input CreateInvoiceInput) (*models.Invoice, error) {
	now := time.Now().UTC()
	invoice := &models.Invoice{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		InvoiceNumber: input.InvoiceNumber,
		ClientName:    input.ClientName,
		ClientEmail:   input.ClientEmail,
		ClientAddress: input.ClientAddress,
		Items:         input.Items,
		Subtotal:      input.Subtotal,
		TaxRate:       input.TaxRate,
		TaxAmount:     input.TaxAmount,
		DeliveryFee:   input.DeliveryFee,
		TotalAmount:   input.TotalAmount,
		Currency:      input.Currency,
		Notes:         input.Notes,
		Status:        input.Status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if invoice.Items == nil {
		invoice.Items = models.LineItems{}
	}
	if invoice.Currency == "" {
		invoice.Currency = models.DefaultCurrency
	}
	if invoice.Status == "" {
		invoice.Status = models.DefaultInvoiceStatus
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.invoices.Create(storeCtx, invoice); err != nil {
		return nil, mapStorageErr(err)
	}
	return invoice, nil
}

// ListByOwner returns the caller's invoices, newest-first. It never returns a
// record owned by anyone else.
func (s *InvoiceService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Invoice, error) {
	storeCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	invoices, err := s.invoices.ListByOwner(storeCtx, ownerID)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	return invoices, nil
}
