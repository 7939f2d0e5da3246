// Package domain holds the payment-behavior profile and the pure scoring
// rules that derive it from invoice history.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Trend classifies recent versus older payment lateness.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendWorsening Trend = "worsening"
)

// PaymentBehavior is a materialized view over a company's invoice set:
// always safe to fully recompute, never incrementally updated.
type PaymentBehavior struct {
	CompanyID     snowflake.ID    `gorm:"primaryKey" json:"company_id"`
	OrgID         snowflake.ID    `gorm:"not null;index" json:"organization_id"`
	TotalInvoices int64           `gorm:"not null;default:0" json:"total_invoices"`
	PaidInvoices  int64           `gorm:"not null;default:0" json:"paid_invoices"`
	AvgDaysLate   float64         `gorm:"not null;default:0" json:"avg_days_late"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"total_amount"`
	PaidAmount    decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"paid_amount"`
	RiskScore     int64           `gorm:"not null;default:50;index:ix_payment_behaviors_risk" json:"risk_score"`
	Trend         Trend           `gorm:"type:text;not null;default:'stable'" json:"trend"`
	UpdatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (PaymentBehavior) TableName() string { return "payment_behaviors" }
