// Package domain holds blacklist entries and the auto-escalation contract.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type EntryStatus string

const (
	EntryStatusActive    EntryStatus = "active"
	EntryStatusResolved  EntryStatus = "resolved"
	EntryStatusReviewing EntryStatus = "reviewing"
)

// SystemActor is recorded as AddedBy for auto-escalated entries.
const SystemActor = "system"

// Entry blacklists a company. At most one active entry may exist per
// company; RiskScoreAtTime is a snapshot, immutable after creation.
type Entry struct {
	ID              snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID           snowflake.ID `gorm:"not null;index" json:"organization_id"`
	CompanyID       snowflake.ID `gorm:"not null;index" json:"company_id"`
	Reason          string       `gorm:"not null" json:"reason"`
	RiskScoreAtTime int64        `gorm:"not null" json:"risk_score_at_time"`
	Status          EntryStatus  `gorm:"type:text;not null;default:'active'" json:"status"`
	AddedBy         string       `gorm:"not null" json:"added_by"`
	CreatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Entry) TableName() string { return "blacklist_entries" }
