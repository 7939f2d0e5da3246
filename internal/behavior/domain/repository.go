package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// Upsert replaces the behavior row wholesale; partial patches are
	// forbidden by contract.
	Upsert(ctx context.Context, db *gorm.DB, behavior *PaymentBehavior) error
	FindByCompany(ctx context.Context, db *gorm.DB, companyID snowflake.ID) (*PaymentBehavior, error)
	FindByCompanies(ctx context.Context, db *gorm.DB, companyIDs []snowflake.ID) ([]*PaymentBehavior, error)
	// ListAtOrAbove returns behaviors whose risk score has crossed the
	// given threshold, across all orgs. Feeds the blacklist sweep.
	ListAtOrAbove(ctx context.Context, db *gorm.DB, threshold int) ([]*PaymentBehavior, error)
}
