package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/latewatch/latewatch/internal/engagement/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, event *domain.Event) error {
	return db.WithContext(ctx).Create(event).Error
}

func (r *repo) ListPublicRecent(ctx context.Context, db *gorm.DB, orgID snowflake.ID, limit int) ([]*domain.Event, error) {
	var events []*domain.Event
	err := db.WithContext(ctx).
		Where("org_id = ? AND public = ?", orgID, true).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *repo) ListSince(ctx context.Context, db *gorm.DB, orgID snowflake.ID, types []domain.EventType, since time.Time) ([]*domain.Event, error) {
	var events []*domain.Event
	err := db.WithContext(ctx).
		Where("org_id = ? AND event_type IN ? AND created_at >= ?", orgID, types, since).
		Order("created_at desc, id desc").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
