package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type RecordEventRequest struct {
	CompanyID snowflake.ID
	InvoiceID *snowflake.ID
	EventType EventType
	Message   string
	Severity  Severity
	Public    bool
	Metadata  datatypes.JSONMap
}

type Service interface {
	Record(context.Context, RecordEventRequest) (Event, error)
	// Feed returns recent public events, newest first.
	Feed(ctx context.Context) ([]Event, error)
	// WeeklyLeaderboard ranks companies by activity over the trailing
	// 7 days (sliding window, not calendar-aligned), top 10, ties broken
	// deterministically by company ID.
	WeeklyLeaderboard(ctx context.Context) ([]LeaderboardEntry, error)
	Stats(ctx context.Context) (WeeklyStats, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidCompany      = errors.New("invalid_company")
	ErrInvalidEventType    = errors.New("invalid_event_type")
)
