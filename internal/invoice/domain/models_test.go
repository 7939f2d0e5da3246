package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var due = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func paidAt(t time.Time) *time.Time { return &t }

func TestStatusAt(t *testing.T) {
	tests := []struct {
		name    string
		invoice Invoice
		now     time.Time
		want    InvoiceStatus
	}{
		{
			name:    "unpaid before due date",
			invoice: Invoice{DueDate: due},
			now:     due.AddDate(0, 0, -5),
			want:    InvoiceStatusPending,
		},
		{
			name:    "unpaid on due date",
			invoice: Invoice{DueDate: due},
			now:     due,
			want:    InvoiceStatusPending,
		},
		{
			name:    "unpaid past due date",
			invoice: Invoice{DueDate: due},
			now:     due.Add(time.Hour),
			want:    InvoiceStatusOverdue,
		},
		{
			name:    "paid late is still paid",
			invoice: Invoice{DueDate: due, PaymentDate: paidAt(due.AddDate(0, 0, 40))},
			now:     due.AddDate(0, 0, 60),
			want:    InvoiceStatusPaid,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.invoice.StatusAt(tt.now))
		})
	}
}

func TestDaysLateAt(t *testing.T) {
	tests := []struct {
		name    string
		invoice Invoice
		now     time.Time
		want    int
	}{
		{
			name:    "paid early",
			invoice: Invoice{DueDate: due, PaymentDate: paidAt(due.AddDate(0, 0, -3))},
			now:     due.AddDate(0, 0, 10),
			want:    0,
		},
		{
			name:    "paid on the due date",
			invoice: Invoice{DueDate: due, PaymentDate: paidAt(due)},
			now:     due.AddDate(0, 0, 10),
			want:    0,
		},
		{
			name:    "paid 12 days late freezes lateness",
			invoice: Invoice{DueDate: due, PaymentDate: paidAt(due.AddDate(0, 0, 12))},
			now:     due.AddDate(0, 0, 100),
			want:    12,
		},
		{
			name:    "unpaid counts lateness up to now",
			invoice: Invoice{DueDate: due},
			now:     due.AddDate(0, 0, 45),
			want:    45,
		},
		{
			name:    "partial day does not count",
			invoice: Invoice{DueDate: due},
			now:     due.Add(23 * time.Hour),
			want:    0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.invoice.DaysLateAt(tt.now))
		})
	}
}
