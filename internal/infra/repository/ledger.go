package repository

import (
	"context"
	"errors"

	"tutorbook/internal/domain/ledger"
	"tutorbook/internal/infra"
	"tutorbook/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type LedgerRepository struct{}

func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{}
}

// InsertTransaction writes one immutable ledger line. The
// (booking_id, type) uniqueness constraint makes a duplicate insert for
// the same booking a no-op rather than a second ledger entry; the
// returned bool reports whether a row was actually written.
func (r *LedgerRepository) InsertTransaction(ctx context.Context, q db.Querier, txn ledger.Transaction) (bool, error) {
	query := `
		INSERT INTO ledger_transactions
			(id, booking_id, party_id, type, nature, amount, gross_amount, teacher_share, platform_fee, payment_method, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (booking_id, type) DO NOTHING
	`

	tag, err := q.Exec(ctx, query,
		txn.ID,
		txn.BookingID,
		txn.PartyID,
		string(txn.Type),
		string(txn.Nature),
		txn.Amount,
		txn.GrossAmount,
		txn.TeacherShare,
		txn.PlatformFee,
		txn.PaymentMethod,
		string(txn.PaymentStatus),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, infra.WrapRepoErr("ledger transaction references unknown booking", err, infra.KindForeignKeyViolated)
		}
		return false, infra.WrapRepoErr("failed to insert ledger transaction", err)
	}

	return tag.RowsAffected() == 1, nil
}

func (r *LedgerRepository) FindByBookingAndType(ctx context.Context, q db.Querier, bookingID uuid.UUID, txnType ledger.TxnType) (*ledger.Transaction, error) {
	query := `
		SELECT id, booking_id, party_id, type, nature, amount, gross_amount, teacher_share, platform_fee, payment_method, payment_status, created_at
		FROM ledger_transactions
		WHERE booking_id = $1 AND type = $2
	`

	var txn ledger.Transaction
	var txnType2, nature, status string
	err := q.QueryRow(ctx, query, bookingID, string(txnType)).Scan(
		&txn.ID, &txn.BookingID, &txn.PartyID, &txnType2, &nature,
		&txn.Amount, &txn.GrossAmount, &txn.TeacherShare, &txn.PlatformFee,
		&txn.PaymentMethod, &status, &txn.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("ledger transaction not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find ledger transaction", err)
	}
	txn.Type = ledger.TxnType(txnType2)
	txn.Nature = ledger.TxnNature(nature)
	txn.PaymentStatus = ledger.PaymentStatus(status)
	return &txn, nil
}

type WalletRepository struct{}

func NewWalletRepository() *WalletRepository {
	return &WalletRepository{}
}

// CreditOnce adds amount to the teacher's wallet exactly once per
// earning transaction. The wallet_credits primary key is the
// idempotency record: when the marker already exists the balance is
// left untouched and false is returned.
func (r *WalletRepository) CreditOnce(ctx context.Context, q db.Querier, teacherID, transactionID uuid.UUID, amount int64) (bool, error) {
	marker := `
		INSERT INTO wallet_credits (transaction_id, teacher_id, amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (transaction_id) DO NOTHING
	`
	tag, err := q.Exec(ctx, marker, transactionID, teacherID, amount)
	if err != nil {
		return false, infra.WrapRepoErr("failed to record wallet credit", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	upsert := `
		INSERT INTO wallets (teacher_id, balance, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (teacher_id) DO UPDATE
		SET balance = wallets.balance + EXCLUDED.balance, updated_at = now()
	`
	if _, err := q.Exec(ctx, upsert, teacherID, amount); err != nil {
		return false, infra.WrapRepoErr("failed to credit wallet balance", err)
	}

	return true, nil
}

func (r *WalletRepository) FindByTeacher(ctx context.Context, q db.Querier, teacherID uuid.UUID) (*ledger.Wallet, error) {
	query := `SELECT teacher_id, balance, updated_at FROM wallets WHERE teacher_id = $1`

	var w ledger.Wallet
	err := q.QueryRow(ctx, query, teacherID).Scan(&w.TeacherID, &w.Balance, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// A teacher with no earnings yet has a zero balance, not an error.
			return &ledger.Wallet{TeacherID: teacherID}, nil
		}
		return nil, infra.WrapRepoErr("failed to find wallet", err)
	}
	return &w, nil
}
