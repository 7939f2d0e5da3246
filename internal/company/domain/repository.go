package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListCompanyFilter struct {
	IsCustomer *bool
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, company *Company) error
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*Company, error)
	FindByVAT(ctx context.Context, db *gorm.DB, orgID snowflake.ID, vatNumber string) (*Company, error)
	Update(ctx context.Context, db *gorm.DB, company *Company) error
	List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter ListCompanyFilter) ([]*Company, error)
	ListOrgIDs(ctx context.Context, db *gorm.DB) ([]snowflake.ID, error)
}
