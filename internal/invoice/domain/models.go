// Package domain contains the invoice ledger models and the derived
// status/lateness rules the behavior aggregation depends on.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// InvoiceStatus is derived, never stored: paid iff a payment date is set,
// overdue iff unpaid past the due date.
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

// Invoice belongs to exactly one company.
type Invoice struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	OrgID       snowflake.ID    `gorm:"not null;index" json:"organization_id"`
	CompanyID   snowflake.ID    `gorm:"not null;index:ix_invoices_company_due" json:"company_id"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	InvoiceDate time.Time       `gorm:"not null" json:"invoice_date"`
	DueDate     time.Time       `gorm:"not null;index:ix_invoices_company_due" json:"due_date"`
	PaymentDate *time.Time      `gorm:"" json:"payment_date,omitempty"`
	CreatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// StatusAt derives the invoice status at the given instant.
func (i *Invoice) StatusAt(now time.Time) InvoiceStatus {
	if i.PaymentDate != nil {
		return InvoiceStatusPaid
	}
	if now.After(i.DueDate) {
		return InvoiceStatusOverdue
	}
	return InvoiceStatusPending
}

// DaysLateAt is the number of whole days by which actual (or would-be)
// payment exceeds the due date, floored at zero. Unpaid invoices count
// lateness up to now.
func (i *Invoice) DaysLateAt(now time.Time) int {
	reference := now
	if i.PaymentDate != nil {
		reference = *i.PaymentDate
	}
	if !reference.After(i.DueDate) {
		return 0
	}
	return int(reference.Sub(i.DueDate).Hours() / 24)
}
