package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Company is a trading counterparty identified by VAT number. IsCustomer
// distinguishes the tenant's own customers from third-party companies that
// exist only for network risk data.
type Company struct {
	ID         snowflake.ID      `gorm:"primaryKey" json:"id"`
	OrgID      snowflake.ID      `gorm:"not null;index;uniqueIndex:ux_companies_org_vat" json:"organization_id"`
	VATNumber  string            `gorm:"not null;uniqueIndex:ux_companies_org_vat" json:"vat_number"`
	Name       string            `gorm:"not null" json:"name"`
	Sector     string            `gorm:"not null;default:''" json:"sector,omitempty"`
	Country    string            `gorm:"not null;default:''" json:"country,omitempty"`
	IsCustomer bool              `gorm:"not null;default:false" json:"is_customer"`
	Metadata   datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Company) TableName() string { return "companies" }
