package payments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Customer struct {
	FullName string
	Email    string
	Phone    string
}

type PaymentRequest struct {
	SubmissionID uuid.UUID
	OrderID      string
	Amount       int64
	ItemName     string
	Customer     Customer
}

type PaymentResult struct {
	OrderID     string `json:"orderId"`
	Token       string `json:"token,omitempty"`
	RedirectURL string `json:"redirectUrl"`
	Simulated   bool   `json:"simulated"`
}

// Gateway creates a hosted payment page for a submission.
type Gateway interface {
	CreatePayment(ctx context.Context, req PaymentRequest) (PaymentResult, error)
}

const (
	orderPrefix          = "JKU-"
	simulatedOrderPrefix = "SIM-"
)

// NewOrderID is unique per attempt so a retried payment never reuses a gateway order.
func NewOrderID(submissionID uuid.UUID, now time.Time) string {
	return fmt.Sprintf("%s%s-%d", orderPrefix, strings.ToUpper(submissionID.String()[:8]), now.UnixMilli())
}

func IsSimulatedOrder(orderID string) bool {
	return strings.HasPrefix(orderID, simulatedOrderPrefix)
}

// SimulatedGateway stands in for the provider when no server key is configured.
type SimulatedGateway struct {
	BaseURL string
}

func (g *SimulatedGateway) CreatePayment(_ context.Context, req PaymentRequest) (PaymentResult, error) {
	orderID := req.OrderID
	if !IsSimulatedOrder(orderID) {
		orderID = simulatedOrderPrefix + strings.TrimPrefix(orderID, orderPrefix)
	}

	return PaymentResult{
		OrderID:     orderID,
		RedirectURL: fmt.Sprintf("%s/payment/simulated?order_id=%s", strings.TrimRight(g.BaseURL, "/"), orderID),
		Simulated:   true,
	}, nil
}
