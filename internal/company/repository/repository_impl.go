package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/latewatch/latewatch/internal/company/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, company *domain.Company) error {
	return db.WithContext(ctx).Create(company).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.Company, error) {
	var company domain.Company
	err := db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		Limit(1).
		Find(&company).Error
	if err != nil {
		return nil, err
	}
	if company.ID == 0 {
		return nil, nil
	}
	return &company, nil
}

func (r *repo) FindByVAT(ctx context.Context, db *gorm.DB, orgID snowflake.ID, vatNumber string) (*domain.Company, error) {
	var company domain.Company
	err := db.WithContext(ctx).
		Where("org_id = ? AND vat_number = ?", orgID, vatNumber).
		Limit(1).
		Find(&company).Error
	if err != nil {
		return nil, err
	}
	if company.ID == 0 {
		return nil, nil
	}
	return &company, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, company *domain.Company) error {
	return db.WithContext(ctx).Save(company).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter domain.ListCompanyFilter) ([]*domain.Company, error) {
	var companies []*domain.Company
	stmt := db.WithContext(ctx).
		Model(&domain.Company{}).
		Where("org_id = ?", orgID)
	if filter.IsCustomer != nil {
		stmt = stmt.Where("is_customer = ?", *filter.IsCustomer)
	}
	err := stmt.
		Order("created_at desc, id desc").
		Find(&companies).Error
	if err != nil {
		return nil, err
	}
	return companies, nil
}

func (r *repo) ListOrgIDs(ctx context.Context, db *gorm.DB) ([]snowflake.ID, error) {
	var ids []snowflake.ID
	err := db.WithContext(ctx).
		Model(&domain.Company{}).
		Distinct("org_id").
		Pluck("org_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
