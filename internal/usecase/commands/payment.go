package commands

import (
	"context"
	"log/slog"

	"tutorbook/internal/domain/booking"
	"tutorbook/internal/domain/ledger"
	reqdto "tutorbook/internal/handler/dto/request"
	"tutorbook/internal/infra"
	"tutorbook/internal/infra/db"
	"tutorbook/internal/infra/notify"
	"tutorbook/internal/pkg/clock"
	"tutorbook/internal/pkg/config"
	"tutorbook/internal/pkg/errs"
	"tutorbook/internal/pkg/sign"
	"tutorbook/internal/usecase/queries"

	"github.com/google/uuid"
)

const paymentMethodGateway = "gateway"

type InitiatePaymentResult struct {
	GatewayOrderID string
	Booking        *queries.BookingView
}

type VerifyPaymentResult struct {
	Booking    *queries.BookingView
	IsReplayed bool
}

type PaymentCommands interface {
	InitiatePayment(ctx context.Context, req reqdto.InitiatePaymentRequest, studentID uuid.UUID) (*InitiatePaymentResult, error)
	VerifyPayment(ctx context.Context, req reqdto.VerifyPaymentRequest) (*VerifyPaymentResult, error)
}

type paymentUseCaseImpl struct {
	bookingRepo BookingRepository
	ledgerRepo  LedgerRepository
	walletRepo  WalletRepository
	gateway     PaymentGateway
	dispatcher  NotificationDispatcher
	db          db.Pool
	clock       clock.Clock
	keySecret   string
	rateBP      int64
}

func NewPaymentUseCase(
	bookingRepo BookingRepository,
	ledgerRepo LedgerRepository,
	walletRepo WalletRepository,
	gateway PaymentGateway,
	dispatcher NotificationDispatcher,
	pool db.Pool,
	clk clock.Clock,
	cfg config.PaymentConfig,
) PaymentCommands {
	return &paymentUseCaseImpl{
		bookingRepo: bookingRepo,
		ledgerRepo:  ledgerRepo,
		walletRepo:  walletRepo,
		gateway:     gateway,
		dispatcher:  dispatcher,
		db:          pool,
		clock:       clk,
		keySecret:   cfg.KeySecret,
		rateBP:      cfg.CommissionRateBP,
	}
}

// InitiatePayment registers a gateway order for an approved booking and
// persists the order id. Status does not change here; only a verified
// payment moves the booking to paid.
func (p *paymentUseCaseImpl) InitiatePayment(ctx context.Context, req reqdto.InitiatePaymentRequest, studentID uuid.UUID) (*InitiatePaymentResult, error) {
	if req.Amount <= 0 {
		return nil, errs.ErrInvalidAmount
	}

	b, err := p.bookingRepo.FindByID(ctx, p.db, req.BookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrBookingNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if !b.IsStudent(studentID) {
		return nil, errs.ErrForbidden
	}
	if b.Status() != booking.StatusApproved {
		return nil, errs.ErrInvalidTransition
	}

	orderID, err := p.gateway.CreateOrder(ctx, b.ID(), req.Amount)
	if err != nil {
		return nil, err
	}

	if err := p.bookingRepo.SetPaymentOrder(ctx, p.db, b.ID(), orderID, req.Amount); err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	b.AttachPaymentOrder(orderID, req.Amount)

	return &InitiatePaymentResult{
		GatewayOrderID: orderID,
		Booking:        queries.NewBookingView(b),
	}, nil
}

// VerifyPayment reconciles a gateway completion callback. The signature
// is checked before anything is written; a mismatch mutates nothing.
// The approved→paid flip and both ledger writes plus the wallet credit
// commit as one transaction, and the flip is a compare-and-swap, so a
// redelivered confirmation finds the booking already paid, writes
// nothing, and reports a replay.
func (p *paymentUseCaseImpl) VerifyPayment(ctx context.Context, req reqdto.VerifyPaymentRequest) (*VerifyPaymentResult, error) {
	if !sign.Verify(p.keySecret, req.GatewayOrderID, req.GatewayPaymentID, req.GatewaySignature) {
		return nil, errs.ErrPaymentVerificationFailed
	}

	b, err := p.bookingRepo.FindByPaymentOrder(ctx, p.db, req.GatewayOrderID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrPaymentOrderNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	split, err := ledger.NewSplit(b.Amount(), p.rateBP)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidAmount)
	}

	won, err := p.settle(ctx, b, split)
	if err != nil {
		return nil, err
	}
	if !won {
		return p.resolveReplay(ctx, req.GatewayOrderID)
	}

	if err := b.MarkPaid(); err != nil {
		// The store accepted the flip; mirror it on the entity.
		return nil, errs.Mark(err, errs.ErrInvalidTransition)
	}

	p.dispatcher.Dispatch(ctx, notify.Event{
		BookingID:  b.ID(),
		StudentID:  b.StudentID(),
		TeacherID:  b.TeacherID(),
		Kind:       notify.EventBookingPaid,
		OccurredAt: p.clock.Now(),
	})

	return &VerifyPaymentResult{Booking: queries.NewBookingView(b), IsReplayed: false}, nil
}

// settle runs the paid transition and the ledger posting as one atomic
// unit. Returns false without writing anything when the status CAS
// loses, which is how a replayed confirmation is detected.
func (p *paymentUseCaseImpl) settle(ctx context.Context, b *booking.Booking, split ledger.Split) (bool, error) {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return false, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
			slog.Warn("failed to rollback transaction", "error", rollbackErr)
		}
	}()

	won, err := p.bookingRepo.MarkPaid(ctx, tx, b.ID())
	if err != nil {
		return false, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if !won {
		return false, nil
	}

	studentTxn, teacherTxn := ledger.NewBookingPair(b.ID(), b.StudentID(), b.TeacherID(), split, paymentMethodGateway)
	if _, err := p.ledgerRepo.InsertTransaction(ctx, tx, studentTxn); err != nil {
		return false, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if _, err := p.ledgerRepo.InsertTransaction(ctx, tx, teacherTxn); err != nil {
		return false, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if _, err := p.walletRepo.CreditOnce(ctx, tx, b.TeacherID(), teacherTxn.ID, split.TeacherShare); err != nil {
		return false, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if commitErr := tx.Commit(ctx); commitErr != nil {
		return false, errs.Mark(commitErr, errs.ErrDatabaseOperationFailed)
	}
	return true, nil
}

// resolveReplay re-reads the booking after a lost CAS: already paid or
// completed means a redelivered confirmation, anything else means the
// booking left the payable state before the confirmation arrived.
func (p *paymentUseCaseImpl) resolveReplay(ctx context.Context, orderID string) (*VerifyPaymentResult, error) {
	current, err := p.bookingRepo.FindByPaymentOrder(ctx, p.db, orderID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	switch current.Status() {
	case booking.StatusPaid, booking.StatusCompleted:
		return &VerifyPaymentResult{Booking: queries.NewBookingView(current), IsReplayed: true}, nil
	default:
		return nil, errs.ErrInvalidTransition
	}
}
