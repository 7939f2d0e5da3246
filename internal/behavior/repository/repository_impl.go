package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/latewatch/latewatch/internal/behavior/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, behavior *domain.PaymentBehavior) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "company_id"}},
			UpdateAll: true,
		}).
		Create(behavior).Error
}

func (r *repo) FindByCompany(ctx context.Context, db *gorm.DB, companyID snowflake.ID) (*domain.PaymentBehavior, error) {
	var behavior domain.PaymentBehavior
	err := db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Limit(1).
		Find(&behavior).Error
	if err != nil {
		return nil, err
	}
	if behavior.CompanyID == 0 {
		return nil, nil
	}
	return &behavior, nil
}

func (r *repo) FindByCompanies(ctx context.Context, db *gorm.DB, companyIDs []snowflake.ID) ([]*domain.PaymentBehavior, error) {
	if len(companyIDs) == 0 {
		return nil, nil
	}
	var behaviors []*domain.PaymentBehavior
	err := db.WithContext(ctx).
		Where("company_id IN ?", companyIDs).
		Find(&behaviors).Error
	if err != nil {
		return nil, err
	}
	return behaviors, nil
}

func (r *repo) ListAtOrAbove(ctx context.Context, db *gorm.DB, threshold int) ([]*domain.PaymentBehavior, error) {
	var behaviors []*domain.PaymentBehavior
	err := db.WithContext(ctx).
		Where("risk_score >= ?", threshold).
		Order("risk_score desc, company_id asc").
		Find(&behaviors).Error
	if err != nil {
		return nil, err
	}
	return behaviors, nil
}
