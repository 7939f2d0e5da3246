package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, entry *Entry) error
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*Entry, error)
	FindActiveByCompany(ctx context.Context, db *gorm.DB, companyID snowflake.ID) (*Entry, error)
	Update(ctx context.Context, db *gorm.DB, entry *Entry) error
	ListActive(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]*Entry, error)
}
