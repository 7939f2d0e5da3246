package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/latewatch/latewatch/internal/company/domain"
	companyrepo "github.com/latewatch/latewatch/internal/company/repository"
	"github.com/latewatch/latewatch/internal/orgcontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc   domain.Service
	db    *gorm.DB
	genID *snowflake.Node
	orgID snowflake.ID
	ctx   context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Company{}))

	node, err := snowflake.NewNode(7)
	require.NoError(t, err)
	orgID := node.Generate()

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  companyrepo.Provide(),
	})

	return &fixture{
		svc:   svc,
		db:    db,
		genID: node,
		orgID: orgID,
		ctx:   orgcontext.WithOrgID(context.Background(), int64(orgID)),
	}
}

func boolPtr(v bool) *bool { return &v }

func strPtr(v string) *string { return &v }

func TestFindOrCreateByVAT_NormalizesVAT(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.FindOrCreateByVAT(f.ctx, domain.FindOrCreateByVATRequest{
		VATNumber: "  de811234567 ",
		Name:      "Acme GmbH",
		Country:   "de",
	})
	require.NoError(t, err)
	assert.Equal(t, "DE811234567", created.VATNumber)
	assert.Equal(t, "DE", created.Country)

	// A differently cased lookup resolves to the same row.
	found, err := f.svc.FindOrCreateByVAT(f.ctx, domain.FindOrCreateByVATRequest{
		VATNumber: "De811234567",
		Name:      "Someone Else",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "Acme GmbH", found.Name, "descriptive fields are write-once on create")
}

func TestFindOrCreateByVAT_NameDefaultsToVAT(t *testing.T) {
	f := newFixture(t)

	company, err := f.svc.FindOrCreateByVAT(f.ctx, domain.FindOrCreateByVATRequest{
		VATNumber: "NL999999999B01",
	})
	require.NoError(t, err)
	assert.Equal(t, "NL999999999B01", company.Name)
}

func TestFindOrCreateByVAT_BlankVATRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.FindOrCreateByVAT(f.ctx, domain.FindOrCreateByVATRequest{VATNumber: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidVATNumber)
}

func TestFindOrCreateByVAT_ScopedToOrganization(t *testing.T) {
	f := newFixture(t)

	first, err := f.svc.FindOrCreateByVAT(f.ctx, domain.FindOrCreateByVATRequest{VATNumber: "DE811234567"})
	require.NoError(t, err)

	otherOrg := orgcontext.WithOrgID(context.Background(), int64(f.genID.Generate()))
	second, err := f.svc.FindOrCreateByVAT(otherOrg, domain.FindOrCreateByVATRequest{VATNumber: "DE811234567"})
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID, "the same VAT number is a separate row per tenant")
}

func TestUpdate_PartialFields(t *testing.T) {
	f := newFixture(t)

	company, err := f.svc.FindOrCreateByVAT(f.ctx, domain.FindOrCreateByVATRequest{
		VATNumber: "DE811234567",
		Name:      "Acme GmbH",
		Sector:    "manufacturing",
	})
	require.NoError(t, err)

	updated, err := f.svc.Update(f.ctx, domain.UpdateCompanyRequest{
		ID:         company.ID.String(),
		IsCustomer: boolPtr(true),
	})
	require.NoError(t, err)
	assert.True(t, updated.IsCustomer)
	assert.Equal(t, "Acme GmbH", updated.Name)
	assert.Equal(t, "manufacturing", updated.Sector)
}

func TestUpdate_BlankNameRejected(t *testing.T) {
	f := newFixture(t)

	company, err := f.svc.FindOrCreateByVAT(f.ctx, domain.FindOrCreateByVATRequest{VATNumber: "DE811234567"})
	require.NoError(t, err)

	_, err = f.svc.Update(f.ctx, domain.UpdateCompanyRequest{
		ID:   company.ID.String(),
		Name: strPtr("  "),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidName)
}

func TestList_FiltersCustomers(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.FindOrCreateByVAT(f.ctx, domain.FindOrCreateByVATRequest{
		VATNumber:  "DE811234567",
		IsCustomer: true,
	})
	require.NoError(t, err)
	_, err = f.svc.FindOrCreateByVAT(f.ctx, domain.FindOrCreateByVATRequest{
		VATNumber: "FR40303265045",
	})
	require.NoError(t, err)

	customers, err := f.svc.List(f.ctx, domain.ListCompanyRequest{IsCustomer: boolPtr(true)})
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "DE811234567", customers[0].VATNumber)

	all, err := f.svc.List(f.ctx, domain.ListCompanyRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
