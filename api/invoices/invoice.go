package invoices

import (
	"fmt"
	"strings"
	"time"

	"github.com/Adedunmol/jakpat-univ/api/pricing"
	"github.com/Adedunmol/jakpat-univ/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const DefaultDueInDays = 7

// Number formats INV/JKU/YYYYMM/<8 hex>.
func Number(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("INV/JKU/%s/%s", now.Format("200601"), suffix)
}

// DocumentKey is the object name of the rendered invoice.
func DocumentKey(invoice database.Invoice) string {
	return fmt.Sprintf("invoices/%s/%s.html", invoice.SubmissionID, strings.ReplaceAll(invoice.InvoiceNumber, "/", "-"))
}

// Breakdown recomputes the price of a stored submission.
func Breakdown(s database.FormSubmission) pricing.CostCalculation {
	return pricing.Calculate(pricing.CostInput{
		QuestionCount:  int(s.QuestionCount),
		Duration:       int(s.Duration),
		WinnerCount:    int(s.WinnerCount),
		PrizePerWinner: s.PrizePerWinner,
		VoucherCode:    s.VoucherCode.String,
	})
}

func Build(s database.FormSubmission, dueInDays int, notes string, now time.Time) database.CreateInvoiceParams {
	if dueInDays <= 0 {
		dueInDays = DefaultDueInDays
	}

	cost := Breakdown(s)
	return database.CreateInvoiceParams{
		SubmissionID:  s.ID,
		InvoiceNumber: Number(now),
		AdCost:        cost.AdCost,
		IncentiveCost: cost.IncentiveCost,
		Discount:      cost.Discount,
		TotalAmount:   cost.TotalCost,
		DueDate:       pgtype.Date{Time: now.AddDate(0, 0, dueInDays), Valid: true},
		Notes:         pgtype.Text{String: notes, Valid: notes != ""},
	}
}

// Document holds the invoice template data; it also travels as the email payload.
type Document struct {
	InvoiceNumber string
	FullName      string
	University    string
	Title         string
	AdCost        int64
	IncentiveCost int64
	Discount      int64
	TotalAmount   int64
	DueDate       string
	Notes         string
}

func NewDocument(s database.FormSubmission, invoice database.Invoice) Document {
	return Document{
		InvoiceNumber: invoice.InvoiceNumber,
		FullName:      s.FullName,
		University:    s.University,
		Title:         s.Title,
		AdCost:        invoice.AdCost,
		IncentiveCost: invoice.IncentiveCost,
		Discount:      invoice.Discount,
		TotalAmount:   invoice.TotalAmount,
		DueDate:       invoice.DueDate.Time.Format("2006-01-02"),
		Notes:         invoice.Notes.String,
	}
}

var statusTransitions = map[string][]string{
	database.InvoiceStatusUnpaid: {database.InvoiceStatusPaid, database.InvoiceStatusVoid},
}

func canTransition(from, to string) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
