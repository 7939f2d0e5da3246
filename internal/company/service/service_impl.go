package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/latewatch/latewatch/internal/company/domain"
	"github.com/latewatch/latewatch/internal/orgcontext"
	pkgdb "github.com/latewatch/latewatch/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("company.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

// FindOrCreateByVAT returns the company registered under the VAT number,
// creating it on first reference. Descriptive fields are only written on
// creation; later uploads never overwrite them.
func (s *Service) FindOrCreateByVAT(ctx context.Context, req domain.FindOrCreateByVATRequest) (domain.Company, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Company{}, domain.ErrInvalidOrganization
	}

	vat := strings.ToUpper(strings.TrimSpace(req.VATNumber))
	if vat == "" {
		return domain.Company{}, domain.ErrInvalidVATNumber
	}

	existing, err := s.repo.FindByVAT(ctx, s.db, orgID, vat)
	if err != nil {
		return domain.Company{}, err
	}
	if existing != nil {
		return *existing, nil
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = vat
	}

	now := time.Now().UTC()
	company := domain.Company{
		ID:         s.genID.Generate(),
		OrgID:      orgID,
		VATNumber:  vat,
		Name:       name,
		Sector:     strings.TrimSpace(req.Sector),
		Country:    strings.ToUpper(strings.TrimSpace(req.Country)),
		IsCustomer: req.IsCustomer,
		Metadata:   datatypes.JSONMap{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Insert(ctx, s.db, &company); err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			// Lost a concurrent create race; the winner's row is authoritative.
			winner, findErr := s.repo.FindByVAT(ctx, s.db, orgID, vat)
			if findErr == nil && winner != nil {
				return *winner, nil
			}
		}
		return domain.Company{}, err
	}

	s.log.Info("company created",
		zap.String("company_id", company.ID.String()),
		zap.String("vat_number", vat),
		zap.Bool("is_customer", company.IsCustomer),
	)
	return company, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetCompanyRequest) (domain.Company, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Company{}, domain.ErrInvalidOrganization
	}

	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Company{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return domain.Company{}, err
	}
	if item == nil {
		return domain.Company{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateCompanyRequest) (domain.Company, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Company{}, domain.ErrInvalidOrganization
	}

	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Company{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return domain.Company{}, err
	}
	if item == nil {
		return domain.Company{}, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Company{}, domain.ErrInvalidName
		}
		item.Name = name
	}
	if req.Sector != nil {
		item.Sector = strings.TrimSpace(*req.Sector)
	}
	if req.Country != nil {
		item.Country = strings.ToUpper(strings.TrimSpace(*req.Country))
	}
	if req.IsCustomer != nil {
		item.IsCustomer = *req.IsCustomer
	}
	item.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return domain.Company{}, err
	}
	return *item, nil
}

func (s *Service) List(ctx context.Context, req domain.ListCompanyRequest) ([]domain.Company, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	items, err := s.repo.List(ctx, s.db, orgID, domain.ListCompanyFilter{IsCustomer: req.IsCustomer})
	if err != nil {
		return nil, err
	}

	companies := make([]domain.Company, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		companies = append(companies, *item)
	}
	return companies, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
