package domain

import (
	"context"
	"errors"
)

type FindOrCreateByVATRequest struct {
	VATNumber  string
	Name       string
	Sector     string
	Country    string
	IsCustomer bool
}

type UpdateCompanyRequest struct {
	ID string
	// Descriptive fields only; identity (VAT number) is immutable.
	Name       *string
	Sector     *string
	Country    *string
	IsCustomer *bool
}

type GetCompanyRequest struct {
	ID string
}

type ListCompanyRequest struct {
	IsCustomer *bool
}

type Service interface {
	FindOrCreateByVAT(context.Context, FindOrCreateByVATRequest) (Company, error)
	GetByID(context.Context, GetCompanyRequest) (Company, error)
	Update(context.Context, UpdateCompanyRequest) (Company, error)
	List(context.Context, ListCompanyRequest) ([]Company, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidVATNumber    = errors.New("invalid_vat_number")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")
)
