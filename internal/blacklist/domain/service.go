package domain

import (
	"context"
	"errors"
)

type AddEntryRequest struct {
	CompanyID string
	Reason    string
	AddedBy   string
}

type ResolveEntryRequest struct {
	EntryID string
}

type Service interface {
	Add(context.Context, AddEntryRequest) (Entry, error)
	// Resolve closes an entry. Resolution is manual-only; the engine
	// never resolves entries automatically, even when risk drops.
	Resolve(context.Context, ResolveEntryRequest) (Entry, error)
	ListActive(ctx context.Context) ([]Entry, error)
	// AutoEscalate scans behaviors at or above the configured risk
	// threshold and blacklists each company that has no active entry
	// yet. Idempotent and resumable: rerunning after a partial failure
	// escalates only the remainder. Returns the number of new entries.
	AutoEscalate(ctx context.Context) (int, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidCompany      = errors.New("invalid_company")
	ErrInvalidReason       = errors.New("invalid_reason")
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")
	ErrAlreadyBlacklisted  = errors.New("already_blacklisted")
)
