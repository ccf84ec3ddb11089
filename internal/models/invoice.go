package models

import (
	"time"

	"github.com/google/uuid"
)

// Invoice line items are an opaque payload: stored and returned verbatim,
// never parsed or validated server-side.
type LineItems []map[string]any

type Invoice struct {
	ID            uuid.UUID `json:"id"`
	OwnerID       uuid.UUID `json:"ownerId"`
	InvoiceNumber string    `json:"invoiceNumber"`
	ClientName    string    `json:"clientName"`
	ClientEmail   string    `json:"clientEmail,omitempty"`
	ClientAddress string    `json:"clientAddress,omitempty"`
	Items         LineItems `json:"items"`
	Subtotal      float64   `json:"subtotal"`
	TaxRate       float64   `json:"taxRate"`
	TaxAmount     float64   `json:"taxAmount"`
	DeliveryFee   float64   `json:"deliveryFee"`
	TotalAmount   float64   `json:"totalAmount"`
	Currency      string    `json:"currency"`
	Notes         string    `json:"notes,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

const (
	DefaultCurrency      = "USD"
	DefaultInvoiceStatus = "draft"
)
