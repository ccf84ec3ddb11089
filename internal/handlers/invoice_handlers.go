package handlers

import (
	"log"
	"net/http"

	"invoicely/internal/common"
	"invoicely/internal/models"
	"invoicely/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// InvoiceHandlers handles invoice creation and listing for the authenticated
// owner.
type InvoiceHandlers struct {
	invoiceService *services.InvoiceService
}

func NewInvoiceHandlers(invoiceService *services.InvoiceService) *InvoiceHandlers {
	return &InvoiceHandlers{invoiceService: invoiceService}
}

// CreateInvoiceRequest carries the client-supplied invoice fields. Amounts and
// status are stored as sent.
type CreateInvoiceRequest struct {
	InvoiceNumber string           `json:"invoiceNumber"`
	ClientName    string           `json:"clientName"`
	ClientEmail   string           `json:"clientEmail"`
	ClientAddress string           `json:"clientAddress"`
	Items         models.LineItems `json:"items"`
	Subtotal      float64          `json:"subtotal"`
	TaxRate       float64          `json:"taxRate"`
	TaxAmount     float64          `json:"taxAmount"`
	DeliveryFee   float64          `json:"deliveryFee"`
	TotalAmount   float64          `json:"totalAmount"`
	Currency      string           `json:"currency"`
	Notes         string           `json:"notes"`
	Status        string           `json:"status"`
}

// CreateInvoiceResponse acknowledges a saved invoice.
type CreateInvoiceResponse struct {
	Message   string    `json:"message"`
	InvoiceID uuid.UUID `json:"invoiceId"`
}

// Create handles POST /api/invoices.
func (h *InvoiceHandlers) Create(c echo.Context) error {
	ctx := c.Request().Context()

	identity, ok := common.GetIdentity(ctx)
	if !ok {
		return common.SendError(c, http.StatusUnauthorized, "Access token required")
	}

	var req CreateInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "Invalid request format")
	}

	invoice, err := h.invoiceService.Create(ctx, identity.UserID, services.CreateInvoiceInput{
		InvoiceNumber: req.InvoiceNumber,
		ClientName:    req.ClientName,
		ClientEmail:   req.ClientEmail,
		ClientAddress: req.ClientAddress,
		Items:         req.Items,
		Subtotal:      req.Subtotal,
		TaxRate:       req.TaxRate,
		TaxAmount:     req.TaxAmount,
		DeliveryFee:   req.DeliveryFee,
		TotalAmount:   req.TotalAmount,
		Currency:      req.Currency,
		Notes:         req.Notes,
		Status:        req.Status,
	})
	if err != nil {
		log.Printf("invoice create failed for %s: %v", identity.UserID, err)
		return common.SendServerError(c, "Failed to save invoice")
	}

	return c.JSON(http.StatusCreated, CreateInvoiceResponse{
		Message:   "Invoice saved successfully",
		InvoiceID: invoice.ID,
	})
}

// List handles GET /api/invoices, newest-first, caller's invoices only.
func (h *InvoiceHandlers) List(c echo.Context) error {
	ctx := c.Request().Context()

	identity, ok := common.GetIdentity(ctx)
	if !ok {
		return common.SendError(c, http.StatusUnauthorized, "Access token required")
	}

	invoices, err := h.invoiceService.ListByOwner(ctx, identity.UserID)
	if err != nil {
		log.Printf("invoice list failed for %s: %v", identity.UserID, err)
		return common.SendServerError(c, "Database error")
	}

	return c.JSON(http.StatusOK, invoices)
}
