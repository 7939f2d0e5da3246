package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Recalculate rebuilds the company's payment behavior from its full
	// invoice set. A company with zero invoices has no behavior row and
	// the call performs no write.
	Recalculate(ctx context.Context, companyID snowflake.ID) error
	// Get returns the stored behavior. Absence is not an error: a company
	// without invoices simply has no profile and callers treat it as
	// neutral risk.
	Get(ctx context.Context, companyID snowflake.ID) (*PaymentBehavior, error)
}

var (
	ErrInvalidCompany = errors.New("invalid_company")
)
