package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type CreateInvoiceRequest struct {
	// VATNumber identifies the counterparty; an unknown VAT number
	// registers a new company on the fly.
	VATNumber   string
	CompanyName string
	Sector      string
	Country     string
	IsCustomer  bool

	Amount      decimal.Decimal
	InvoiceDate time.Time
	DueDate     time.Time

	// Source records how the invoice entered the ledger (upload, manual, qr).
	Source string
}

type RegisterPaymentRequest struct {
	InvoiceID string
	// PaymentDate defaults to now when zero.
	PaymentDate time.Time
	// ViaQR marks payments confirmed through a scanned QR code.
	ViaQR bool
}

type GetInvoiceRequest struct {
	ID string
}

type ListByCompanyRequest struct {
	CompanyID string
}

type Service interface {
	Create(context.Context, CreateInvoiceRequest) (Invoice, error)
	RegisterPayment(context.Context, RegisterPaymentRequest) (Invoice, error)
	GetByID(context.Context, GetInvoiceRequest) (Invoice, error)
	ListByCompany(context.Context, ListByCompanyRequest) ([]Invoice, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidAmount       = errors.New("invalid_amount")
	ErrInvalidDueDate      = errors.New("invalid_due_date")
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")
	ErrAlreadyPaid         = errors.New("already_paid")
)
