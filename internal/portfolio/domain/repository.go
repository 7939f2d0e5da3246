package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type SnapshotRepository interface {
	Insert(ctx context.Context, db *gorm.DB, snapshot *Snapshot) error
	// FindLatestBefore returns the most recent snapshot taken at or
	// before the cutoff, or nil.
	FindLatestBefore(ctx context.Context, db *gorm.DB, orgID snowflake.ID, cutoff time.Time) (*Snapshot, error)
}
