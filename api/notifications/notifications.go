package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mail "github.com/Adedunmol/jakpat-univ/api/email"
	"github.com/Adedunmol/jakpat-univ/database"
	"github.com/Adedunmol/jakpat-univ/logger"
	"github.com/Adedunmol/jakpat-univ/queue"
	"github.com/hibiken/asynq"
)

const (
	TypeSubmissionNotify = "submission:notify"

	// MaxRetry of 1 gives two attempts in total.
	MaxRetry = 1
)

// Sink is notified about every stored submission. It never fails the caller.
type Sink interface {
	Notify(ctx context.Context, submission database.FormSubmission)
	Receipt(ctx context.Context, submission database.FormSubmission, paymentURL string)
}

type Payload struct {
	SubmissionID      string
	CreatedAt         string
	Title             string
	SurveyURL         string
	QuestionCount     int32
	Duration          int32
	StartDate         string
	EndDate           string
	CriteriaResponden string
	WinnerCount       int32
	PrizePerWinner    int64
	VoucherCode       string
	TotalCost         int64
	PaymentStatus     string
	SubmissionMethod  string
	DetectedKeywords  []string
	FullName          string
	Email             string
	PhoneNumber       string
	University        string
	Department        string
	ReferralSource    string
}

func PayloadFromSubmission(s database.FormSubmission) Payload {
	return Payload{
		SubmissionID:      s.ID.String(),
		CreatedAt:         s.CreatedAt.Time.Format("2006-01-02 15:04:05"),
		Title:             s.Title,
		SurveyURL:         s.SurveyUrl,
		QuestionCount:     s.QuestionCount,
		Duration:          s.Duration,
		StartDate:         formatDate(s.StartDate.Time, s.StartDate.Valid),
		EndDate:           formatDate(s.EndDate.Time, s.EndDate.Valid),
		CriteriaResponden: s.CriteriaResponden,
		WinnerCount:       s.WinnerCount,
		PrizePerWinner:    s.PrizePerWinner,
		VoucherCode:       s.VoucherCode.String,
		TotalCost:         s.TotalCost,
		PaymentStatus:     s.PaymentStatus,
		SubmissionMethod:  s.SubmissionMethod,
		DetectedKeywords:  s.DetectedKeywords,
		FullName:          s.FullName,
		Email:             s.Email,
		PhoneNumber:       s.PhoneNumber,
		University:        s.University,
		Department:        s.Department,
		ReferralSource:    s.ReferralSource.String,
	}
}

// Row is the sheet layout, one column per field.
func (p Payload) Row() []interface{} {
	return []interface{}{
		p.CreatedAt,
		p.SubmissionID,
		p.Title,
		p.SurveyURL,
		p.QuestionCount,
		p.Duration,
		p.StartDate,
		p.EndDate,
		p.CriteriaResponden,
		p.WinnerCount,
		p.PrizePerWinner,
		p.VoucherCode,
		p.TotalCost,
		p.PaymentStatus,
		p.SubmissionMethod,
		strings.Join(p.DetectedKeywords, ", "),
		p.FullName,
		p.Email,
		p.PhoneNumber,
		p.University,
		p.Department,
		p.ReferralSource,
	}
}

type notifyTask struct {
	payload Payload
}

func (n notifyTask) Process() (*asynq.Task, error) {
	body, err := json.Marshal(n.payload)
	if err != nil {
		return nil, fmt.Errorf("marshal notification payload: %w", err)
	}
	return asynq.NewTask(TypeSubmissionNotify, body, asynq.MaxRetry(MaxRetry), asynq.Queue(queue.QueueNotifications)), nil
}

func (n notifyTask) ProcessorName() string {
	return "submission notification"
}

type Notifier struct {
	Queue queue.Queue
}

func NewNotifier(q queue.Queue) *Notifier {
	return &Notifier{Queue: q}
}

func (n *Notifier) Notify(ctx context.Context, submission database.FormSubmission) {
	if err := n.Queue.Enqueue(notifyTask{payload: PayloadFromSubmission(submission)}); err != nil {
		logger.WithField("submission_id", submission.ID).WithError(err).Error("error enqueuing submission notification")
	}
}

// Receipt emails the customer a summary with the payment link.
func (n *Notifier) Receipt(ctx context.Context, submission database.FormSubmission, paymentURL string) {
	payload := &queue.EmailDeliveryPayload{
		Name:     "submission receipt",
		Template: mail.TemplateSubmissionReceipt,
		Subject:  "Pengajuan survei diterima: " + submission.Title,
		Email:    submission.Email,
		Data: map[string]any{
			"SubmissionID": submission.ID.String(),
			"FullName":     submission.FullName,
			"Title":        submission.Title,
			"Duration":     submission.Duration,
			"StartDate":    formatDate(submission.StartDate.Time, submission.StartDate.Valid),
			"EndDate":      formatDate(submission.EndDate.Time, submission.EndDate.Valid),
			"TotalCost":    submission.TotalCost,
			"PaymentURL":   paymentURL,
		},
	}
	if err := n.Queue.Enqueue(payload); err != nil {
		logger.WithField("submission_id", submission.ID).WithError(err).Error("error enqueuing submission receipt")
	}
}

func formatDate(t time.Time, valid bool) string {
	if !valid {
		return ""
	}
	return t.Format("2006-01-02")
}
