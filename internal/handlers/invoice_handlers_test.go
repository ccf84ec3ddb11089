package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoices_CreateAndListScenario(t *testing.T) {
	e, _ := newTestServer(t)

	tokenA, _ := register(t, e, "alice@example.com", "secret123", "Alice")
	tokenB, _ := register(t, e, "bob@example.com", "secret456", "Bob")

	items := []map[string]any{{"desc": "Widget", "qty": float64(2), "price": float64(5)}}
	rec := doRequest(t, e, http.MethodPost, "/api/invoices", tokenA, map[string]any{
		"invoiceNumber": "INV-001",
		"clientName":    "Client Co",
		"items":         items,
		"subtotal":      float64(10),
		"taxRate":       0.1,
		"taxAmount":     float64(1),
		"totalAmount":   float64(11),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Message   string `json:"message"`
		InvoiceID string `json:"invoiceId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Invoice saved successfully", created.Message)
	assert.NotEmpty(t, created.InvoiceID)

	// User A sees exactly the invoice they created, items intact.
	rec = doRequest(t, e, http.MethodGet, "/api/invoices", tokenA, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, created.InvoiceID, listed[0]["id"])
	assert.Equal(t, "INV-001", listed[0]["invoiceNumber"])
	assert.Equal(t, "USD", listed[0]["currency"])
	assert.Equal(t, "draft", listed[0]["status"])
	assert.Equal(t, []any{map[string]any{"desc": "Widget", "qty": float64(2), "price": float64(5)}}, listed[0]["items"])

	// User B sees an empty list, never A's records.
	rec = doRequest(t, e, http.MethodGet, "/api/invoices", tokenB, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestInvoices_NewestFirst(t *testing.T) {
	e, _ := newTestServer(t)
	token, _ := register(t, e, "alice@example.com", "secret123", "Alice")

	for _, number := range []string{"INV-1", "INV-2"} {
		rec := doRequest(t, e, http.MethodPost, "/api/invoices", token, map[string]any{
			"invoiceNumber": number,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		time.Sleep(2 * time.Millisecond)
	}

	rec := doRequest(t, e, http.MethodGet, "/api/invoices", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 2)
	assert.Equal(t, "INV-2", listed[0]["invoiceNumber"])
	assert.Equal(t, "INV-1", listed[1]["invoiceNumber"])
}

func TestInvoices_AuthRequired(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doRequest(t, e, http.MethodGet, "/api/invoices", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Access token required"}`, rec.Body.String())

	rec = doRequest(t, e, http.MethodGet, "/api/invoices", "bogus", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid or expired token"}`, rec.Body.String())

	rec = doRequest(t, e, http.MethodPost, "/api/invoices", "", map[string]any{"invoiceNumber": "INV-1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
