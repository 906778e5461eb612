package payments

import (
	"crypto/sha512"
	"encoding/hex"
	"strings"

	"github.com/Adedunmol/jakpat-univ/database"
)

// Notification is the Midtrans HTTP notification body; unknown fields are ignored.
type Notification struct {
	TransactionTime   string `json:"transaction_time"`
	TransactionStatus string `json:"transaction_status"`
	StatusCode        string `json:"status_code"`
	SignatureKey      string `json:"signature_key"`
	OrderID           string `json:"order_id"`
	GrossAmount       string `json:"gross_amount"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"`
	TransactionID     string `json:"transaction_id"`
}

// Signature is SHA512(order_id + status_code + gross_amount + server_key), hex encoded.
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

func (n Notification) Verify(serverKey string) bool {
	want := strings.ToLower(n.SignatureKey)
	if want == "" || serverKey == "" {
		return false
	}
	return Signature(n.OrderID, n.StatusCode, n.GrossAmount, serverKey) == want
}

// MapStatus converts a transaction status into a payment_status; ok is false for statuses that change nothing.
func MapStatus(transactionStatus, fraudStatus string) (string, bool) {
	switch strings.ToLower(transactionStatus) {
	case "capture":
		switch strings.ToLower(fraudStatus) {
		case "accept", "":
			return database.PaymentStatusPaid, true
		case "challenge":
			return database.PaymentStatusPending, true
		}
		return database.PaymentStatusFailed, true
	case "settlement":
		return database.PaymentStatusPaid, true
	case "pending":
		return database.PaymentStatusPending, true
	case "deny", "cancel", "failure":
		return database.PaymentStatusFailed, true
	case "expire":
		return database.PaymentStatusExpired, true
	case "refund", "partial_refund":
		return database.PaymentStatusRefunded, true
	}
	return "", false
}

// Accepts reports whether a notification may move a submission from current to next.
// Provider notifications arrive in no particular order, so a settled payment only moves to refunded.
func Accepts(current, next string) bool {
	switch current {
	case database.PaymentStatusPaid:
		return next == database.PaymentStatusRefunded
	case database.PaymentStatusRefunded:
		return false
	}
	return true
}

// settles reports whether a status from an order that is no longer current still applies.
func settles(status string) bool {
	return status == database.PaymentStatusPaid || status == database.PaymentStatusRefunded
}
