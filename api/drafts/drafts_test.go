package drafts_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Adedunmol/jakpat-univ/api/custom_errors"
	"github.com/Adedunmol/jakpat-univ/api/drafts"
	"github.com/Adedunmol/jakpat-univ/api/formimport"
	"github.com/Adedunmol/jakpat-univ/api/payments"
	"github.com/Adedunmol/jakpat-univ/api/submissions"
	"github.com/Adedunmol/jakpat-univ/api/submissions/submissionstest"
	"github.com/Adedunmol/jakpat-univ/api/wizard"
	"github.com/Adedunmol/jakpat-univ/database"
	"github.com/go-chi/chi/v5"
	"golang.org/x/oauth2"
)

// ============================================================================
// Stubs
// ============================================================================

type StubGateway struct {
	Err error
}

func (g *StubGateway) CreatePayment(ctx context.Context, req payments.PaymentRequest) (payments.PaymentResult, error) {
	if g.Err != nil {
		return payments.PaymentResult{}, g.Err
	}
	return payments.PaymentResult{OrderID: req.OrderID, RedirectURL: "https://pay.example/" + req.OrderID}, nil
}

type StubNotifier struct {
	Notified []database.FormSubmission
	Receipts []string
}

func (n *StubNotifier) Notify(ctx context.Context, submission database.FormSubmission) {
	n.Notified = append(n.Notified, submission)
}

func (n *StubNotifier) Receipt(ctx context.Context, submission database.FormSubmission, paymentURL string) {
	n.Receipts = append(n.Receipts, paymentURL)
}

type StubExtractor struct {
	Extractions map[string]formimport.Extraction
}

func (e *StubExtractor) ExtractForm(ctx context.Context, token *oauth2.Token, formID string) (formimport.Extraction, error) {
	extraction, ok := e.Extractions[formID]
	if !ok {
		return formimport.Extraction{}, custom_errors.ErrNotFound
	}
	return extraction, nil
}

// ============================================================================
// Helpers
// ============================================================================

type testEnv struct {
	router   *chi.Mux
	drafts   *wizard.MemoryDraftStore
	store    *submissionstest.Store
	gateway  *StubGateway
	notifier *StubNotifier
}

func newEnv() *testEnv {
	env := &testEnv{
		router:   chi.NewRouter(),
		drafts:   wizard.NewMemoryDraftStore(),
		store:    submissionstest.NewStore(),
		gateway:  &StubGateway{},
		notifier: &StubNotifier{},
	}
	extractor := &StubExtractor{Extractions: map[string]formimport.Extraction{
		"form-1": {
			FormID:                       "form-1",
			Title:                        "Survei Gaya Belajar",
			Description:                  "Penelitian tugas akhir",
			QuestionCount:                18,
			ResponderURL:                 "https://docs.google.com/forms/d/e/form-1/viewform",
			DetectedPersonalDataKeywords: []string{"email"},
		},
	}}
	checkout := &submissions.Checkout{Store: env.store, Gateway: env.gateway}
	drafts.SetupRoutes(env.router, env.drafts, env.store, checkout, env.notifier, extractor)
	return env
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (env *testEnv) do(t *testing.T, method, path string, body any, headers ...string) (int, envelope) {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewBuffer(raw)
	} else {
		reader = &bytes.Buffer{}
	}

	req := httptest.NewRequest(method, path, reader)
	if body == nil {
		req.ContentLength = 0
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	var got envelope
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("%s %s: decode response: %v", method, path, err)
	}
	return rec.Code, got
}

func draftOf(t *testing.T, e envelope) drafts.DraftResponse {
	t.Helper()
	var d drafts.DraftResponse
	if err := json.Unmarshal(e.Data, &d); err != nil {
		t.Fatalf("decode draft: %v", err)
	}
	return d
}

func (env *testEnv) createDraft(t *testing.T) string {
	t.Helper()
	code, got := env.do(t, http.MethodPost, "/drafts", nil)
	if code != http.StatusCreated {
		t.Fatalf("create draft: code %d", code)
	}
	return draftOf(t, got).ID
}

func completeForm() map[string]any {
	return map[string]any{
		"surveyUrl":         "https://forms.gle/xyz",
		"title":             "Survei Kebiasaan Olahraga",
		"description":       "Penelitian skripsi FIK",
		"questionCount":     10,
		"duration":          2,
		"startDate":         "2025-03-01",
		"criteriaResponden": "Mahasiswa aktif usia 18-24",
		"winnerCount":       2,
		"prizePerWinner":    25000,
		"fullName":          "Ayu Lestari",
		"email":             "ayu@unair.ac.id",
		"phoneNumber":       "081211112222",
		"university":        "Universitas Airlangga",
		"department":        "Ilmu Keolahragaan",
	}
}

func (env *testEnv) draftAtPayment(t *testing.T) string {
	t.Helper()
	id := env.createDraft(t)
	if code, _ := env.do(t, http.MethodPost, "/drafts/"+id+"/method", map[string]any{"method": "manual"}); code != http.StatusOK {
		t.Fatalf("select method: code %d", code)
	}
	if code, _ := env.do(t, http.MethodPatch, "/drafts/"+id, completeForm()); code != http.StatusOK {
		t.Fatalf("update: code %d", code)
	}
	for i := 0; i < 3; i++ {
		if code, got := env.do(t, http.MethodPost, "/drafts/"+id+"/next", nil); code != http.StatusOK {
			t.Fatalf("next #%d: code %d (%s)", i+1, code, got.Data)
		}
	}
	return id
}

// ============================================================================
// Wizard lifecycle
// ============================================================================

func TestDraftLifecycle(t *testing.T) {
	env := newEnv()
	id := env.createDraft(t)

	code, got := env.do(t, http.MethodGet, "/drafts/"+id, nil)
	if code != http.StatusOK {
		t.Fatalf("restore: code %d", code)
	}
	d := draftOf(t, got)
	if d.CurrentStep != wizard.StepSurveyDetails || d.FormData.WinnerCount != 2 || d.FormData.PrizePerWinner != 25000 {
		t.Errorf("unexpected defaults %+v", d)
	}

	code, got = env.do(t, http.MethodPost, "/drafts/"+id+"/next", nil)
	if code != http.StatusUnprocessableEntity {
		t.Fatalf("next without method: code %d, want 422", code)
	}

	code, got = env.do(t, http.MethodPatch, "/drafts/"+id, map[string]any{"startDate": "2025-03-01", "duration": 5})
	if code != http.StatusOK {
		t.Fatalf("update: code %d", code)
	}
	if end := draftOf(t, got).FormData.EndDate; end != "2025-03-06" {
		t.Errorf("endDate = %s, want 2025-03-06", end)
	}

	code, _ = env.do(t, http.MethodPost, "/drafts/"+id+"/prev", nil)
	if code != http.StatusOK {
		t.Errorf("prev at first step: code %d", code)
	}
}

func TestNextReportsStepMessages(t *testing.T) {
	env := newEnv()
	id := env.createDraft(t)
	env.do(t, http.MethodPost, "/drafts/"+id+"/method", map[string]any{"method": "manual"})

	form := completeForm()
	form["winnerCount"] = 1
	env.do(t, http.MethodPatch, "/drafts/"+id, form)
	env.do(t, http.MethodPost, "/drafts/"+id+"/next", nil)

	code, got := env.do(t, http.MethodPost, "/drafts/"+id+"/next", nil)
	if code != http.StatusUnprocessableEntity {
		t.Fatalf("code %d, want 422", code)
	}
	var validation wizard.ValidationError
	if err := json.Unmarshal(got.Data, &validation); err != nil {
		t.Fatal(err)
	}
	if validation.Step != wizard.StepCriteria || len(validation.Messages) != 1 || validation.Messages[0] != "winnerCount must be between 2 and 5" {
		t.Errorf("unexpected validation error %+v", validation)
	}
}

func TestResetRequiresConfirmation(t *testing.T) {
	env := newEnv()
	id := env.createDraft(t)
	env.do(t, http.MethodPatch, "/drafts/"+id, map[string]any{"title": "Judul"})

	if code, _ := env.do(t, http.MethodPost, "/drafts/"+id+"/reset", nil); code != http.StatusConflict {
		t.Errorf("reset without confirmation: code %d, want 409", code)
	}

	code, got := env.do(t, http.MethodPost, "/drafts/"+id+"/reset", map[string]any{"confirmed": true})
	if code != http.StatusOK {
		t.Fatalf("confirmed reset: code %d", code)
	}
	if title := draftOf(t, got).FormData.Title; title != "" {
		t.Errorf("title survived reset: %q", title)
	}
}

func TestSwitchingMethodNeedsConfirmation(t *testing.T) {
	env := newEnv()
	id := env.createDraft(t)
	env.do(t, http.MethodPost, "/drafts/"+id+"/method", map[string]any{"method": "manual"})
	env.do(t, http.MethodPatch, "/drafts/"+id, map[string]any{"title": "Judul manual"})

	if code, _ := env.do(t, http.MethodPost, "/drafts/"+id+"/method", map[string]any{"method": "google_form"}); code != http.StatusConflict {
		t.Fatalf("switch without confirmation: code %d, want 409", code)
	}

	code, got := env.do(t, http.MethodPost, "/drafts/"+id+"/method", map[string]any{"method": "google_form", "confirmed": true})
	if code != http.StatusOK {
		t.Fatalf("confirmed switch: code %d", code)
	}
	d := draftOf(t, got)
	if d.FormData.Title != "" || d.FormData.DetailsPhase != wizard.PhaseGoogleFormImport {
		t.Errorf("unexpected form after switch %+v", d.FormData)
	}

	if code, _ := env.do(t, http.MethodPost, "/drafts/"+id+"/method", map[string]any{"method": "paper"}); code != http.StatusBadRequest {
		t.Errorf("unknown method: code %d, want 400", code)
	}
}

func TestImportForm(t *testing.T) {
	env := newEnv()
	id := env.createDraft(t)
	env.do(t, http.MethodPost, "/drafts/"+id+"/method", map[string]any{"method": "google_form"})

	if code, _ := env.do(t, http.MethodPost, "/drafts/"+id+"/import", map[string]any{"formId": "form-1"}); code != http.StatusUnauthorized {
		t.Errorf("import without token: code %d, want 401", code)
	}

	code, got := env.do(t, http.MethodPost, "/drafts/"+id+"/import", map[string]any{"formId": "form-1"}, formimport.TokenHeader, "ya29.token")
	if code != http.StatusOK {
		t.Fatalf("import: code %d", code)
	}
	d := draftOf(t, got)
	if d.FormData.QuestionCount != 18 || !d.FormData.HasPersonalDataQuestions || d.FormData.DetailsPhase != wizard.PhaseFormFieldsReview {
		t.Errorf("unexpected imported form %+v", d.FormData)
	}
	if d.Cost.RatePerDay != 200000 {
		t.Errorf("rate per day = %d, want 200000", d.Cost.RatePerDay)
	}

	if code, _ := env.do(t, http.MethodPost, "/drafts/"+id+"/import", map[string]any{"formId": "missing"}, formimport.TokenHeader, "ya29.token"); code != http.StatusNotFound {
		t.Errorf("unknown form: code %d, want 404", code)
	}
}

func TestUnknownDraft(t *testing.T) {
	env := newEnv()
	code, got := env.do(t, http.MethodGet, "/drafts/9b2e2f8e-7d7c-4a53-9a55-6a3f3c2f1d10", nil)
	if code != http.StatusOK {
		t.Fatalf("code %d, want 200", code)
	}
	if d := draftOf(t, got); d.CurrentStep != wizard.StepSurveyDetails || d.FormData.Title != "" {
		t.Errorf("unknown draft should start from defaults, got step %d title %q", d.CurrentStep, d.FormData.Title)
	}
	if code, _ := env.do(t, http.MethodGet, "/drafts/not-a-uuid", nil); code != http.StatusBadRequest {
		t.Errorf("code %d, want 400", code)
	}
}

// ============================================================================
// Submit
// ============================================================================

func TestSubmitDraft(t *testing.T) {
	env := newEnv()
	id := env.draftAtPayment(t)

	code, got := env.do(t, http.MethodPost, "/drafts/"+id+"/submit", nil)
	if code != http.StatusCreated {
		t.Fatalf("submit: code %d (%s)", code, got.Message)
	}

	var checkout submissions.CheckoutResponse
	if err := json.Unmarshal(got.Data, &checkout); err != nil {
		t.Fatal(err)
	}
	if checkout.Submission.TotalCost != 350000 {
		t.Errorf("total cost = %d, want 350000", checkout.Submission.TotalCost)
	}
	if checkout.RedirectURL == "" || checkout.OrderID == "" {
		t.Errorf("missing payment details %+v", checkout)
	}

	stored := env.store.Get(checkout.Submission.ID)
	if !stored.PaymentReference.Valid || stored.PaymentReference.String != checkout.OrderID {
		t.Errorf("payment reference not recorded: %+v", stored.PaymentReference)
	}
	if len(env.notifier.Notified) != 1 || len(env.notifier.Receipts) != 1 {
		t.Errorf("notifier calls: %d notify, %d receipt", len(env.notifier.Notified), len(env.notifier.Receipts))
	}

	code, got = env.do(t, http.MethodGet, "/drafts/"+id, nil)
	if code != http.StatusOK {
		t.Fatalf("code %d, want 200", code)
	}
	if d := draftOf(t, got); d.CurrentStep != wizard.StepSurveyDetails || d.FormData.Title != "" {
		t.Errorf("draft should be discarded after submit, got step %d title %q", d.CurrentStep, d.FormData.Title)
	}
}

func TestSubmitBeforePaymentStep(t *testing.T) {
	env := newEnv()
	id := env.createDraft(t)

	if code, _ := env.do(t, http.MethodPost, "/drafts/"+id+"/submit", nil); code != http.StatusConflict {
		t.Errorf("code %d, want 409", code)
	}
	if len(env.store.Submissions) != 0 {
		t.Errorf("nothing should be stored")
	}
}

func TestSubmitWithPaymentFailure(t *testing.T) {
	env := newEnv()
	env.gateway.Err = errors.New("gateway timeout")
	id := env.draftAtPayment(t)

	code, got := env.do(t, http.MethodPost, "/drafts/"+id+"/submit", nil)
	if code != http.StatusBadGateway {
		t.Fatalf("code %d, want 502", code)
	}

	var failed submissions.PaymentFailedResponse
	if err := json.Unmarshal(got.Data, &failed); err != nil {
		t.Fatal(err)
	}
	if failed.SubmissionID == "" || failed.RetryURL != "/submissions/"+failed.SubmissionID+"/payment" {
		t.Errorf("unexpected retry hint %+v", failed)
	}
	if len(env.store.Submissions) != 1 {
		t.Errorf("submission should be kept, have %d", len(env.store.Submissions))
	}
	if len(env.notifier.Notified) != 1 || len(env.notifier.Receipts) != 0 {
		t.Errorf("notifier calls: %d notify, %d receipt", len(env.notifier.Notified), len(env.notifier.Receipts))
	}
}

func TestSubmitWhenStoreFails(t *testing.T) {
	env := newEnv()
	id := env.draftAtPayment(t)
	env.store.ShouldFail = true

	if code, _ := env.do(t, http.MethodPost, "/drafts/"+id+"/submit", nil); code != http.StatusInternalServerError {
		t.Errorf("code %d, want 500", code)
	}
	code, got := env.do(t, http.MethodGet, "/drafts/"+id, nil)
	if code != http.StatusOK {
		t.Fatalf("code %d, want 200", code)
	}
	if d := draftOf(t, got); d.CurrentStep != wizard.StepPayment {
		t.Errorf("draft should be kept when the store fails, got step %d", d.CurrentStep)
	}
}
