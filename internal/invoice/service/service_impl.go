package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	behaviordomain "github.com/latewatch/latewatch/internal/behavior/domain"
	"github.com/latewatch/latewatch/internal/clock"
	companydomain "github.com/latewatch/latewatch/internal/company/domain"
	engagementdomain "github.com/latewatch/latewatch/internal/engagement/domain"
	"github.com/latewatch/latewatch/internal/invoice/domain"
	"github.com/latewatch/latewatch/internal/orgcontext"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	GenID         *snowflake.Node
	Clock         clock.Clock
	Repo          domain.Repository
	CompanySvc    companydomain.Service
	BehaviorSvc   behaviordomain.Service
	EngagementSvc engagementdomain.Service
}

type Service struct {
	db            *gorm.DB
	log           *zap.Logger
	genID         *snowflake.Node
	clock         clock.Clock
	repo          domain.Repository
	companySvc    companydomain.Service
	behaviorSvc   behaviordomain.Service
	engagementSvc engagementdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:            p.DB,
		log:           p.Log.Named("invoice.service"),
		genID:         p.GenID,
		clock:         p.Clock,
		repo:          p.Repo,
		companySvc:    p.CompanySvc,
		behaviorSvc:   p.BehaviorSvc,
		engagementSvc: p.EngagementSvc,
	}
}

// Create registers an invoice, creating the counterparty company on first
// reference, then logs the upload event and recomputes the company's
// payment behavior.
func (s *Service) Create(ctx context.Context, req domain.CreateInvoiceRequest) (domain.Invoice, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Invoice{}, domain.ErrInvalidOrganization
	}
	if req.Amount.IsNegative() || req.Amount.IsZero() {
		return domain.Invoice{}, domain.ErrInvalidAmount
	}
	if req.DueDate.IsZero() || req.InvoiceDate.IsZero() || req.DueDate.Before(req.InvoiceDate) {
		return domain.Invoice{}, domain.ErrInvalidDueDate
	}

	company, err := s.companySvc.FindOrCreateByVAT(ctx, companydomain.FindOrCreateByVATRequest{
		VATNumber:  req.VATNumber,
		Name:       req.CompanyName,
		Sector:     req.Sector,
		Country:    req.Country,
		IsCustomer: req.IsCustomer,
	})
	if err != nil {
		return domain.Invoice{}, err
	}

	now := s.clock.Now()
	invoice := domain.Invoice{
		ID:          s.genID.Generate(),
		OrgID:       orgID,
		CompanyID:   company.ID,
		Amount:      req.Amount.Round(2),
		InvoiceDate: req.InvoiceDate.UTC(),
		DueDate:     req.DueDate.UTC(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, &invoice); err != nil {
		return domain.Invoice{}, err
	}

	s.recordEvent(ctx, company.ID, invoice.ID, engagementdomain.EventInvoiceUploaded, req.Source)
	if err := s.behaviorSvc.Recalculate(ctx, company.ID); err != nil {
		// The invoice is committed; the profile catches up on the next
		// recalculation trigger.
		s.log.Warn("recalculation after invoice create failed",
			zap.String("company_id", company.ID.String()),
			zap.Error(err),
		)
	}

	return invoice, nil
}

// RegisterPayment marks the invoice paid and recomputes the owning
// company's payment behavior.
func (s *Service) RegisterPayment(ctx context.Context, req domain.RegisterPaymentRequest) (domain.Invoice, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Invoice{}, domain.ErrInvalidOrganization
	}

	id, err := s.parseID(req.InvoiceID)
	if err != nil {
		return domain.Invoice{}, err
	}

	invoice, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return domain.Invoice{}, err
	}
	if invoice == nil {
		return domain.Invoice{}, domain.ErrNotFound
	}
	if invoice.PaymentDate != nil {
		return domain.Invoice{}, domain.ErrAlreadyPaid
	}

	paymentDate := req.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = s.clock.Now()
	}
	paymentDate = paymentDate.UTC()
	invoice.PaymentDate = &paymentDate
	invoice.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, invoice); err != nil {
		return domain.Invoice{}, err
	}

	eventType := engagementdomain.EventPaymentRegistered
	if req.ViaQR {
		eventType = engagementdomain.EventQRScanned
	}
	s.recordEvent(ctx, invoice.CompanyID, invoice.ID, eventType, "")

	if err := s.behaviorSvc.Recalculate(ctx, invoice.CompanyID); err != nil {
		s.log.Warn("recalculation after payment failed",
			zap.String("company_id", invoice.CompanyID.String()),
			zap.Error(err),
		)
	}

	return *invoice, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetInvoiceRequest) (domain.Invoice, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Invoice{}, domain.ErrInvalidOrganization
	}

	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Invoice{}, err
	}

	invoice, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return domain.Invoice{}, err
	}
	if invoice == nil {
		return domain.Invoice{}, domain.ErrNotFound
	}
	return *invoice, nil
}

func (s *Service) ListByCompany(ctx context.Context, req domain.ListByCompanyRequest) ([]domain.Invoice, error) {
	if _, ok := orgcontext.OrgIDFromContext(ctx); !ok {
		return nil, domain.ErrInvalidOrganization
	}

	companyID, err := s.parseID(req.CompanyID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListByCompany(ctx, s.db, companyID)
	if err != nil {
		return nil, err
	}

	invoices := make([]domain.Invoice, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		invoices = append(invoices, *item)
	}
	return invoices, nil
}

func (s *Service) recordEvent(ctx context.Context, companyID, invoiceID snowflake.ID, eventType engagementdomain.EventType, source string) {
	req := engagementdomain.RecordEventRequest{
		CompanyID: companyID,
		InvoiceID: &invoiceID,
		EventType: eventType,
	}
	if source != "" {
		req.Metadata = map[string]any{"source": source}
	}
	if _, err := s.engagementSvc.Record(ctx, req); err != nil {
		// Engagement is best-effort; the ledger write already succeeded.
		s.log.Warn("engagement event not recorded",
			zap.String("company_id", companyID.String()),
			zap.String("event_type", string(eventType)),
			zap.Error(err),
		)
	}
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
