package queries

import (
	"context"

	"tutorbook/internal/domain/booking"
	"tutorbook/internal/domain/ledger"
	"tutorbook/internal/infra"
	"tutorbook/internal/infra/db"
	"tutorbook/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrBookingNotFound = errs.New("booking not found")
	ErrBookingAccess   = errs.New("booking access denied")
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type BookingQueries interface {
	GetByID(ctx context.Context, id, requesterID uuid.UUID) (*BookingView, error)
	ListHistory(ctx context.Context, partyID uuid.UUID, status string, limit, offset int32) ([]BookingView, error)
	GetWallet(ctx context.Context, teacherID uuid.UUID) (*WalletView, error)
	GetTransactions(ctx context.Context, bookingID, requesterID uuid.UUID) ([]TransactionView, error)
}

type BookingReadStore interface {
	FindByID(ctx context.Context, q db.Querier, id uuid.UUID) (*booking.Booking, error)
	ListByParty(ctx context.Context, q db.Querier, partyID uuid.UUID, status string, limit, offset int32) ([]*booking.Booking, error)
}

type WalletReadStore interface {
	FindByTeacher(ctx context.Context, q db.Querier, teacherID uuid.UUID) (*ledger.Wallet, error)
}

type LedgerReadStore interface {
	FindByBookingAndType(ctx context.Context, q db.Querier, bookingID uuid.UUID, txnType ledger.TxnType) (*ledger.Transaction, error)
}

type bookingQueriesImpl struct {
	bookingStore BookingReadStore
	walletStore  WalletReadStore
	ledgerStore  LedgerReadStore
	db           db.Pool
}

func NewBookingQueries(bookingStore BookingReadStore, walletStore WalletReadStore, ledgerStore LedgerReadStore, pool db.Pool) BookingQueries {
	return &bookingQueriesImpl{
		bookingStore: bookingStore,
		walletStore:  walletStore,
		ledgerStore:  ledgerStore,
		db:           pool,
	}
}

// GetByID returns the booking only to its student or teacher.
func (q *bookingQueriesImpl) GetByID(ctx context.Context, id, requesterID uuid.UUID) (*BookingView, error) {
	b, err := q.bookingStore.FindByID(ctx, q.db, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if !b.IsParty(requesterID) {
		return nil, ErrBookingAccess
	}
	return NewBookingView(b), nil
}

func (q *bookingQueriesImpl) ListHistory(ctx context.Context, partyID uuid.UUID, status string, limit, offset int32) ([]BookingView, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	bookings, err := q.bookingStore.ListByParty(ctx, q.db, partyID, status, limit, offset)
	if err != nil {
		return nil, err
	}

	views := make([]BookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, *NewBookingView(b))
	}
	return views, nil
}

func (q *bookingQueriesImpl) GetWallet(ctx context.Context, teacherID uuid.UUID) (*WalletView, error) {
	w, err := q.walletStore.FindByTeacher(ctx, q.db, teacherID)
	if err != nil {
		return nil, err
	}
	return &WalletView{
		TeacherID: w.TeacherID,
		Balance:   w.Balance,
		UpdatedAt: w.UpdatedAt,
	}, nil
}

// GetTransactions returns the ledger lines a booking's payment produced,
// visible only to its parties. An unpaid booking yields an empty list.
func (q *bookingQueriesImpl) GetTransactions(ctx context.Context, bookingID, requesterID uuid.UUID) ([]TransactionView, error) {
	b, err := q.bookingStore.FindByID(ctx, q.db, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if !b.IsParty(requesterID) {
		return nil, ErrBookingAccess
	}

	views := make([]TransactionView, 0, 2)
	for _, txnType := range []ledger.TxnType{ledger.TxnMeetingBooking, ledger.TxnTeacherEarning} {
		txn, err := q.ledgerStore.FindByBookingAndType(ctx, q.db, bookingID, txnType)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				continue
			}
			return nil, err
		}
		views = append(views, NewTransactionView(txn))
	}
	return views, nil
}

func NewBookingView(b *booking.Booking) *BookingView {
	view := &BookingView{
		ID:                 b.ID(),
		StudentID:          b.StudentID(),
		TeacherID:          b.TeacherID(),
		CourseID:           b.CourseID(),
		Date:               b.Slot().Date().Format(booking.DateLayout),
		Day:                b.Day(),
		StartTime:          b.Slot().Start(),
		EndTime:            b.Slot().End(),
		Status:             b.Status().String(),
		Note:               b.Note().String(),
		RejectionReason:    b.RejectionReason(),
		CancellationReason: b.CancellationReason(),
		RescheduleReason:   b.RescheduleReason(),
		PaymentOrderID:     b.PaymentOrderID(),
		Amount:             b.Amount(),
		CreatedAt:          b.CreatedAt(),
		UpdatedAt:          b.UpdatedAt(),
	}
	if proposed := b.ProposedSlot(); !proposed.IsZero() {
		view.ProposedDate = proposed.Date().Format(booking.DateLayout)
		view.ProposedStart = proposed.Start()
		view.ProposedEnd = proposed.End()
	}
	return view
}

func NewTransactionView(txn *ledger.Transaction) TransactionView {
	return TransactionView{
		ID:            txn.ID,
		BookingID:     txn.BookingID,
		Type:          string(txn.Type),
		Nature:        string(txn.Nature),
		Amount:        txn.Amount,
		GrossAmount:   txn.GrossAmount,
		TeacherShare:  txn.TeacherShare,
		PlatformFee:   txn.PlatformFee,
		PaymentMethod: txn.PaymentMethod,
		PaymentStatus: string(txn.PaymentStatus),
		CreatedAt:     txn.CreatedAt,
	}
}
