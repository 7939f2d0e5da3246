package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/latewatch/latewatch/internal/portfolio/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.SnapshotRepository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, snapshot *domain.Snapshot) error {
	return db.WithContext(ctx).Create(snapshot).Error
}

func (r *repo) FindLatestBefore(ctx context.Context, db *gorm.DB, orgID snowflake.ID, cutoff time.Time) (*domain.Snapshot, error) {
	var snapshot domain.Snapshot
	err := db.WithContext(ctx).
		Where("org_id = ? AND taken_at <= ?", orgID, cutoff).
		Order("taken_at desc, id desc").
		Limit(1).
		Find(&snapshot).Error
	if err != nil {
		return nil, err
	}
	if snapshot.ID == 0 {
		return nil, nil
	}
	return &snapshot, nil
}
