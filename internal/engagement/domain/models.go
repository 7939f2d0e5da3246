// Package domain holds the append-only engagement event log and the
// weekly leaderboard structures derived from it.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// EventType names a logged company action.
type EventType string

const (
	EventInvoiceUploaded   EventType = "invoice_uploaded"
	EventPaymentRegistered EventType = "payment_registered"
	EventQRScanned         EventType = "qr_scanned"
	EventBlacklistAdded    EventType = "blacklist_added"
)

// Severity levels for feed rendering.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Event is append-only: never mutated or deleted. It is the source of
// truth for the leaderboard and the activity feed.
type Event struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	OrgID     snowflake.ID      `gorm:"not null;index" json:"organization_id"`
	CompanyID snowflake.ID      `gorm:"not null;index:ix_engagement_events_company_created" json:"company_id"`
	InvoiceID *snowflake.ID     `gorm:"" json:"invoice_id,omitempty"`
	EventType EventType         `gorm:"type:text;not null;index:ix_engagement_events_type_created" json:"event_type"`
	Message   string            `gorm:"not null;default:''" json:"message,omitempty"`
	Severity  Severity          `gorm:"type:text;not null;default:'info'" json:"severity"`
	Public    bool              `gorm:"not null;default:false" json:"public"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP;index:ix_engagement_events_company_created;index:ix_engagement_events_type_created" json:"created_at"`
}

// TableName sets the database table name.
func (Event) TableName() string { return "engagement_events" }

// LeaderboardEntry is one ranked row of the weekly leaderboard.
type LeaderboardEntry struct {
	Rank              int          `json:"rank"`
	CompanyID         snowflake.ID `json:"company_id"`
	InvoicesUploaded  int          `json:"invoices_uploaded"`
	PaymentsRegistered int         `json:"payments_registered"`
	TotalActivity     int          `json:"total_activity"`
}

// WeeklyStats summarizes engagement over the trailing window.
type WeeklyStats struct {
	TotalEvents       int     `json:"total_events"`
	UniqueCompanies   int     `json:"unique_companies"`
	AvgPerCompany     float64 `json:"avg_per_company"`
}
