package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*Invoice, error)
	Update(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	// ListByCompany returns ALL invoices for the company, most recent
	// first by due date. The ordering is a contract: trend classification
	// splits the head of this list.
	ListByCompany(ctx context.Context, db *gorm.DB, companyID snowflake.ID) ([]*Invoice, error)
	// ListOutstandingByCompanies returns unpaid invoices for the given companies.
	ListOutstandingByCompanies(ctx context.Context, db *gorm.DB, companyIDs []snowflake.ID) ([]*Invoice, error)
}
