package ledger

import "errors"

var (
	ErrNonPositiveGross = errors.New("gross amount must be positive")
	ErrInvalidRate      = errors.New("commission rate must be between 0 and 10000 basis points")
)

// Split is the commission-based division of a gross payment.
// TeacherShare + PlatformFee == Gross always holds exactly.
type Split struct {
	Gross        int64
	PlatformFee  int64
	TeacherShare int64
}

// NewSplit divides gross by a commission rate expressed in basis
// points (2000 = 20%). Integer arithmetic only; the fee takes the
// rounding remainder's floor so the teacher share never loses more
// than the stated rate.
func NewSplit(gross, rateBP int64) (Split, error) {
	if gross <= 0 {
		return Split{}, ErrNonPositiveGross
	}
	if rateBP < 0 || rateBP > 10000 {
		return Split{}, ErrInvalidRate
	}
	fee := gross * rateBP / 10000
	return Split{
		Gross:        gross,
		PlatformFee:  fee,
		TeacherShare: gross - fee,
	}, nil
}
