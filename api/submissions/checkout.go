package submissions

import (
	"context"
	"fmt"
	"time"

	"github.com/Adedunmol/jakpat-univ/api/payments"
	"github.com/Adedunmol/jakpat-univ/api/pricing"
	"github.com/Adedunmol/jakpat-univ/api/wizard"
	"github.com/Adedunmol/jakpat-univ/database"
	"github.com/Adedunmol/jakpat-univ/logger"
	"github.com/google/uuid"
)

// FromForm turns a fully validated draft and its price into a storable submission.
func FromForm(data wizard.SurveyFormData, cost pricing.CostCalculation) (NewSubmission, error) {
	start, err := time.Parse(wizard.DateLayout, data.StartDate)
	if err != nil {
		return NewSubmission{}, fmt.Errorf("invalid start date %q: %w", data.StartDate, err)
	}

	method := database.SubmissionMethodManual
	if data.EntryMethod == wizard.MethodGoogleForm {
		method = database.SubmissionMethodGoogleForm
	}

	voucherCode := ""
	if cost.VoucherPercent > 0 {
		voucherCode = cost.VoucherCode
	}

	return NewSubmission{
		SurveyURL:         data.SurveyURL,
		Title:             data.Title,
		Description:       data.Description,
		QuestionCount:     data.QuestionCount,
		CriteriaResponden: data.CriteriaResponden,
		Duration:          data.Duration,
		StartDate:         start,
		EndDate:           start.AddDate(0, 0, data.Duration),
		FullName:          data.FullName,
		Email:             data.Email,
		PhoneNumber:       data.PhoneNumber,
		University:        data.University,
		Department:        data.Department,
		ReferralSource:    data.ReferralSource,
		WinnerCount:       data.WinnerCount,
		PrizePerWinner:    data.PrizePerWinner,
		VoucherCode:       voucherCode,
		TotalCost:         cost.TotalCost,
		SubmissionMethod:  method,
		DetectedKeywords:  append([]string{}, data.DetectedKeywords...),
		GoogleFormID:      data.GoogleFormID,
	}, nil
}

// Checkout opens a payment for a stored submission and records the gateway order on it.
type Checkout struct {
	Store   Store
	Gateway payments.Gateway
	Now     func() time.Time
}

func (c *Checkout) StartPayment(ctx context.Context, submission database.FormSubmission) (CheckoutResponse, error) {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}

	result, err := c.Gateway.CreatePayment(ctx, payments.PaymentRequest{
		SubmissionID: submission.ID,
		OrderID:      payments.NewOrderID(submission.ID, now()),
		Amount:       submission.TotalCost,
		ItemName:     "Iklan survei: " + submission.Title,
		Customer: payments.Customer{
			FullName: submission.FullName,
			Email:    submission.Email,
			Phone:    submission.PhoneNumber,
		},
	})
	if err != nil {
		return CheckoutResponse{}, fmt.Errorf("error creating payment: %w", err)
	}

	updated, err := c.Store.UpdatePaymentReference(ctx, submission.ID, result.OrderID)
	if err != nil {
		return CheckoutResponse{}, fmt.Errorf("error recording payment reference: %w", err)
	}

	logger.WithFields(map[string]any{
		"submission_id": submission.ID,
		"order_id":      result.OrderID,
		"simulated":     result.Simulated,
	}).Info("payment created")

	return CheckoutResponse{
		Submission:  updated,
		OrderID:     result.OrderID,
		RedirectURL: result.RedirectURL,
		Simulated:   result.Simulated,
	}, nil
}

func RetryPath(id uuid.UUID) string {
	return "/submissions/" + id.String() + "/payment"
}

// Payable reports whether a new payment attempt may be opened.
func Payable(paymentStatus string) bool {
	switch paymentStatus {
	case database.PaymentStatusPending, database.PaymentStatusFailed, database.PaymentStatusExpired:
		return true
	}
	return false
}
