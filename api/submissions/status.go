package submissions

import (
	"fmt"

	"github.com/Adedunmol/jakpat-univ/api/custom_errors"
	"github.com/Adedunmol/jakpat-univ/database"
)

var transitions = map[string][]string{
	database.SubmissionStatusPending:   {database.SubmissionStatusInReview, database.SubmissionStatusRejected, database.SubmissionStatusCancelled},
	database.SubmissionStatusInReview:  {database.SubmissionStatusApproved, database.SubmissionStatusRejected, database.SubmissionStatusCancelled},
	database.SubmissionStatusApproved:  {database.SubmissionStatusScheduled, database.SubmissionStatusCancelled},
	database.SubmissionStatusScheduled: {database.SubmissionStatusLive, database.SubmissionStatusCancelled},
	database.SubmissionStatusLive:      {database.SubmissionStatusCompleted},
}

// CheckTransition returns ErrInvalidTransition unless from may move to to.
// Rejected, cancelled and completed are terminal.
func CheckTransition(from, to string) error {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s to %s", custom_errors.ErrInvalidTransition, from, to)
}

func ValidPaymentStatus(status string) bool {
	switch status {
	case database.PaymentStatusPending, database.PaymentStatusPaid, database.PaymentStatusFailed,
		database.PaymentStatusExpired, database.PaymentStatusRefunded, database.PaymentStatusSimulated:
		return true
	}
	return false
}

// Settled reports whether the submission's money is in: paid for real or simulated outside production.
func Settled(paymentStatus string) bool {
	return paymentStatus == database.PaymentStatusPaid || paymentStatus == database.PaymentStatusSimulated
}
