// Package domain holds the portfolio-wide risk aggregate over the
// tenant's own outstanding receivables.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Trend is the point-in-time direction of portfolio risk; up is worsening.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// RiskScore is computed per request, never persisted. Buckets are
// mutually exclusive and sum to TotalOutstanding.
type RiskScore struct {
	// Score is the amount-weighted mean company risk rescaled to 0-10.
	Score            float64         `json:"score"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	LowRiskAmount    decimal.Decimal `json:"low_risk_amount"`
	MediumRiskAmount decimal.Decimal `json:"medium_risk_amount"`
	HighRiskAmount   decimal.Decimal `json:"high_risk_amount"`
	OverdueAmount    decimal.Decimal `json:"overdue_amount"`
	Trend            Trend           `json:"trend"`
	// ChangeThisWeek compares against the most recent snapshot at least
	// seven days old; zero when no such snapshot exists.
	ChangeThisWeek float64 `json:"change_this_week"`
}

// Snapshot is the append-only weekly series backing ChangeThisWeek.
type Snapshot struct {
	ID               snowflake.ID    `gorm:"primaryKey" json:"id"`
	OrgID            snowflake.ID    `gorm:"not null;index:ix_portfolio_snapshots_org_taken" json:"organization_id"`
	Score            float64         `gorm:"not null" json:"score"`
	TotalOutstanding decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"total_outstanding"`
	OverdueAmount    decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"overdue_amount"`
	TakenAt          time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP;index:ix_portfolio_snapshots_org_taken" json:"taken_at"`
}

// TableName sets the database table name.
func (Snapshot) TableName() string { return "portfolio_snapshots" }
