package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// Insert appends an event. There is no update or delete: the log is
	// immutable by contract.
	Insert(ctx context.Context, db *gorm.DB, event *Event) error
	ListPublicRecent(ctx context.Context, db *gorm.DB, orgID snowflake.ID, limit int) ([]*Event, error)
	// ListSince returns events of the given types recorded at or after
	// the cutoff, for the org.
	ListSince(ctx context.Context, db *gorm.DB, orgID snowflake.ID, types []EventType, since time.Time) ([]*Event, error)
}
