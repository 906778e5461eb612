package submissions_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Adedunmol/jakpat-univ/api/payments"
	"github.com/Adedunmol/jakpat-univ/api/pricing"
	"github.com/Adedunmol/jakpat-univ/api/submissions"
	"github.com/Adedunmol/jakpat-univ/api/submissions/submissionstest"
	"github.com/Adedunmol/jakpat-univ/api/wizard"
	"github.com/Adedunmol/jakpat-univ/database"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// ============================================================================
// Stub Gateway
// ============================================================================

type StubGateway struct {
	Err      error
	Requests []payments.PaymentRequest
}

func (g *StubGateway) CreatePayment(ctx context.Context, req payments.PaymentRequest) (payments.PaymentResult, error) {
	g.Requests = append(g.Requests, req)
	if g.Err != nil {
		return payments.PaymentResult{}, g.Err
	}
	return payments.PaymentResult{OrderID: req.OrderID, RedirectURL: "https://pay.example/" + req.OrderID}, nil
}

// ============================================================================
// Helpers
// ============================================================================

func storedSubmission(email, paymentStatus string) database.FormSubmission {
	return database.FormSubmission{
		ID:            uuid.New(),
		Title:         "Survei Kesehatan Mental Mahasiswa",
		Email:         email,
		FullName:      "Rina Kartika",
		PhoneNumber:   "081298765432",
		Status:        database.SubmissionStatusPending,
		PaymentStatus: paymentStatus,
		TotalCost:     450000,
		CreatedAt:     pgtype.Timestamptz{Time: time.Now(), Valid: true},
	}
}

func newRouter(store submissions.Store, gateway payments.Gateway) *chi.Mux {
	r := chi.NewRouter()
	submissions.SetupRoutes(r, store, &submissions.Checkout{Store: store, Gateway: gateway})
	return r
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var got map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return got
}

func assertResponseCode(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("response code = %d, want %d", got, want)
	}
}

func assertResponseStatus(t *testing.T, got map[string]interface{}, wantStatus string) {
	t.Helper()
	if got["status"] != wantStatus {
		t.Errorf("status = %v, want %v", got["status"], wantStatus)
	}
}

// ============================================================================
// Lookup
// ============================================================================

func TestListByEmailHandler(t *testing.T) {
	t.Run("returns the customer's submissions", func(t *testing.T) {
		store := submissionstest.NewStore(
			storedSubmission("rina@unpad.ac.id", database.PaymentStatusPaid),
			storedSubmission("rina@unpad.ac.id", database.PaymentStatusPending),
			storedSubmission("other@ugm.ac.id", database.PaymentStatusPaid),
		)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/submissions?email=RINA@unpad.ac.id", nil)
		newRouter(store, &StubGateway{}).ServeHTTP(rec, req)

		assertResponseCode(t, rec.Code, http.StatusOK)
		got := decode(t, rec)
		assertResponseStatus(t, got, "success")
		if items := got["data"].([]interface{}); len(items) != 2 {
			t.Errorf("got %d submissions, want 2", len(items))
		}
	})

	t.Run("email is required", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/submissions", nil)
		newRouter(submissionstest.NewStore(), &StubGateway{}).ServeHTTP(rec, req)

		assertResponseCode(t, rec.Code, http.StatusBadRequest)
	})
}

func TestGetSubmissionHandler(t *testing.T) {
	sub := storedSubmission("rina@unpad.ac.id", database.PaymentStatusPending)
	store := submissionstest.NewStore(sub)
	router := newRouter(store, &StubGateway{})

	t.Run("found", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/submissions/"+sub.ID.String(), nil))

		assertResponseCode(t, rec.Code, http.StatusOK)
		data := decode(t, rec)["data"].(map[string]interface{})
		if data["id"] != sub.ID.String() {
			t.Errorf("id = %v, want %v", data["id"], sub.ID)
		}
	})

	t.Run("missing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/submissions/"+uuid.NewString(), nil))
		assertResponseCode(t, rec.Code, http.StatusNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/submissions/not-a-uuid", nil))
		assertResponseCode(t, rec.Code, http.StatusBadRequest)
	})
}

// ============================================================================
// Payment retry
// ============================================================================

func TestRetryPaymentHandler(t *testing.T) {
	t.Run("opens a new payment for a failed attempt", func(t *testing.T) {
		sub := storedSubmission("rina@unpad.ac.id", database.PaymentStatusFailed)
		store := submissionstest.NewStore(sub)
		gateway := &StubGateway{}

		rec := httptest.NewRecorder()
		newRouter(store, gateway).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/submissions/"+sub.ID.String()+"/payment", nil))

		assertResponseCode(t, rec.Code, http.StatusOK)
		if len(gateway.Requests) != 1 || gateway.Requests[0].Amount != 450000 {
			t.Fatalf("unexpected gateway requests %+v", gateway.Requests)
		}
		if ref := store.Get(sub.ID).PaymentReference; !ref.Valid || ref.String != gateway.Requests[0].OrderID {
			t.Errorf("payment reference = %+v, want %s", ref, gateway.Requests[0].OrderID)
		}
	})

	t.Run("paid submissions cannot be paid again", func(t *testing.T) {
		sub := storedSubmission("rina@unpad.ac.id", database.PaymentStatusPaid)
		gateway := &StubGateway{}

		rec := httptest.NewRecorder()
		newRouter(submissionstest.NewStore(sub), gateway).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/submissions/"+sub.ID.String()+"/payment", nil))

		assertResponseCode(t, rec.Code, http.StatusConflict)
		if len(gateway.Requests) != 0 {
			t.Errorf("gateway should not be called")
		}
	})

	t.Run("gateway failure returns a retry hint", func(t *testing.T) {
		sub := storedSubmission("rina@unpad.ac.id", database.PaymentStatusPending)
		gateway := &StubGateway{Err: errors.New("gateway down")}

		rec := httptest.NewRecorder()
		newRouter(submissionstest.NewStore(sub), gateway).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/submissions/"+sub.ID.String()+"/payment", nil))

		assertResponseCode(t, rec.Code, http.StatusBadGateway)
		data := decode(t, rec)["data"].(map[string]interface{})
		if data["retryUrl"] != submissions.RetryPath(sub.ID) {
			t.Errorf("retryUrl = %v", data["retryUrl"])
		}
	})
}

// ============================================================================
// Conversion and paging
// ============================================================================

func TestFromForm(t *testing.T) {
	data := wizard.DefaultFormData(time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC))
	data.EntryMethod = wizard.MethodGoogleForm
	data.GoogleFormID = "1FAIpQL"
	data.Title = "Survei Transportasi Kampus"
	data.QuestionCount = 20
	data.Duration = 3
	data.StartDate = "2025-01-10"
	data.VoucherCode = "bogus"

	cost := pricing.Calculate(pricing.CostInput{
		QuestionCount:  data.QuestionCount,
		Duration:       data.Duration,
		WinnerCount:    data.WinnerCount,
		PrizePerWinner: data.PrizePerWinner,
		VoucherCode:    data.VoucherCode,
	})

	n, err := submissions.FromForm(data, cost)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.SubmissionMethod != database.SubmissionMethodGoogleForm {
		t.Errorf("method = %q", n.SubmissionMethod)
	}
	if got := n.EndDate.Format(wizard.DateLayout); got != "2025-01-13" {
		t.Errorf("end date = %s, want 2025-01-13", got)
	}
	if n.VoucherCode != "" {
		t.Errorf("unknown voucher should not be stored, got %q", n.VoucherCode)
	}
	if n.TotalCost != 650000 {
		t.Errorf("total = %d, want 650000", n.TotalCost)
	}

	data.StartDate = "10/01/2025"
	if _, err := submissions.FromForm(data, cost); err == nil {
		t.Errorf("expected error for malformed start date")
	}
}

func TestListParamsNormalize(t *testing.T) {
	cases := []struct {
		in   submissions.ListParams
		page int
		size int
	}{
		{submissions.ListParams{}, 1, submissions.DefaultPageSize},
		{submissions.ListParams{Page: -2, Size: 500}, 1, submissions.MaxPageSize},
		{submissions.ListParams{Page: 3, Size: 1}, 3, 1},
	}
	for _, tc := range cases {
		got := tc.in.Normalize()
		if got.Page != tc.page || got.Size != tc.size {
			t.Errorf("Normalize(%+v) = page %d size %d; want %d %d", tc.in, got.Page, got.Size, tc.page, tc.size)
		}
	}
}

// ============================================================================
// Retried payments
// ============================================================================

const serverKey = "SB-Mid-server-test"

func settlementFor(t *testing.T, orderID, transactionStatus string) *http.Request {
	t.Helper()
	body, err := json.Marshal(payments.Notification{
		OrderID:           orderID,
		StatusCode:        "200",
		GrossAmount:       "450000.00",
		TransactionStatus: transactionStatus,
		SignatureKey:      payments.Signature(orderID, "200", "450000.00", serverKey),
	})
	if err != nil {
		t.Fatal(err)
	}
	return httptest.NewRequest(http.MethodPost, "/payments/notifications", bytes.NewReader(body))
}

func TestEarlierOrderStillSettlesAfterRetry(t *testing.T) {
	sub := storedSubmission("rina@unpad.ac.id", database.PaymentStatusPending)
	store := submissionstest.NewStore(sub)

	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	checkout := &submissions.Checkout{Store: store, Gateway: &StubGateway{}, Now: func() time.Time { return at }}

	first, err := checkout.StartPayment(context.Background(), sub)
	if err != nil {
		t.Fatalf("start payment: %v", err)
	}

	r := chi.NewRouter()
	at = at.Add(time.Minute)
	submissions.SetupRoutes(r, store, checkout)
	payments.SetupRoutes(r, store, serverKey, false)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/submissions/"+sub.ID.String()+"/payment", nil))
	assertResponseCode(t, rec.Code, http.StatusOK)

	retried := store.Get(sub.ID).PaymentReference.String
	if retried == first.OrderID {
		t.Fatalf("retry reused order %s", retried)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, settlementFor(t, first.OrderID, "expire"))
	assertResponseCode(t, rec.Code, http.StatusOK)
	if got := store.Get(sub.ID).PaymentStatus; got != database.PaymentStatusPending {
		t.Errorf("expiry of a replaced order changed payment status to %q", got)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, settlementFor(t, first.OrderID, "settlement"))
	assertResponseCode(t, rec.Code, http.StatusOK)
	if got := store.Get(sub.ID).PaymentStatus; got != database.PaymentStatusPaid {
		t.Errorf("payment status = %q, want %q", got, database.PaymentStatusPaid)
	}
}
