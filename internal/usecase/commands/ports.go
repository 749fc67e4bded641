package commands

import (
	"context"
	"time"

	"tutorbook/internal/domain/booking"
	"tutorbook/internal/domain/ledger"
	"tutorbook/internal/infra/db"
	"tutorbook/internal/infra/notify"

	"github.com/google/uuid"
)

// Write-side ports. Repositories are stateless; the Querier argument
// decides whether a call runs on the pool or inside a transaction.
type BookingRepository interface {
	Create(ctx context.Context, q db.Querier, b *booking.Booking) error
	FindByID(ctx context.Context, q db.Querier, id uuid.UUID) (*booking.Booking, error)
	FindByPaymentOrder(ctx context.Context, q db.Querier, orderID string) (*booking.Booking, error)
	Approve(ctx context.Context, q db.Querier, b *booking.Booking) error
	Reject(ctx context.Context, q db.Querier, id uuid.UUID, reason string) error
	Cancel(ctx context.Context, q db.Querier, id uuid.UUID, reason string) error
	RequestReschedule(ctx context.Context, q db.Querier, id uuid.UUID, reason string, proposed booking.Slot) error
	MarkPaid(ctx context.Context, q db.Querier, id uuid.UUID) (bool, error)
	Complete(ctx context.Context, q db.Querier, id uuid.UUID) error
	SetPaymentOrder(ctx context.Context, q db.Querier, id uuid.UUID, orderID string, amount int64) error
	LiveSlotKeys(ctx context.Context, q db.Querier, teacherID uuid.UUID, from, to time.Time) (map[string]struct{}, error)
}

type LedgerRepository interface {
	InsertTransaction(ctx context.Context, q db.Querier, txn ledger.Transaction) (bool, error)
}

type WalletRepository interface {
	CreditOnce(ctx context.Context, q db.Querier, teacherID, transactionID uuid.UUID, amount int64) (bool, error)
}

// PaymentGateway creates orders with the external payment provider.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, bookingID uuid.UUID, amount int64) (string, error)
}

// NotificationDispatcher delivers lifecycle events best-effort.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, ev notify.Event)
}
