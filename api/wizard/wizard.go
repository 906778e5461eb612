package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Adedunmol/jakpat-univ/api/custom_errors"
	"github.com/Adedunmol/jakpat-univ/api/pricing"
	"github.com/Adedunmol/jakpat-univ/logger"
)

type Step int

const (
	StepSurveyDetails Step = iota + 1
	StepCriteria
	StepReview
	StepPayment
)

const (
	FirstStep = StepSurveyDetails
	LastStep  = StepPayment
)

var ErrInvalidMethod = errors.New("entry method must be google_form or manual")

func (s Step) String() string {
	switch s {
	case StepSurveyDetails:
		return "survey_details"
	case StepCriteria:
		return "criteria_incentives"
	case StepReview:
		return "review"
	case StepPayment:
		return "payment"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// State is the persisted draft: the whole pair is saved on every change.
type State struct {
	CurrentStep Step           `json:"currentStep"`
	FormData    SurveyFormData `json:"formData"`
}

type Transition struct {
	From        Step `json:"from"`
	To          Step `json:"to"`
	ScrollToTop bool `json:"scrollToTop"`
}

type Option func(*Wizard)

// WithClock overrides time.Now, used for the default start date.
func WithClock(now func() time.Time) Option {
	return func(w *Wizard) {
		w.now = now
	}
}

type Wizard struct {
	id    string
	state State
	repo  DraftRepository
	now   func() time.Time
}

// New starts a fresh draft at the first step; nothing is persisted until the first change.
func New(id string, repo DraftRepository, opts ...Option) *Wizard {
	w := &Wizard{id: id, repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(w)
	}
	w.state = w.defaultState()
	return w
}

// Restore loads a saved draft. A missing draft or one that cannot be decoded falls back to defaults.
func Restore(ctx context.Context, id string, repo DraftRepository, opts ...Option) (*Wizard, error) {
	w := New(id, repo, opts...)

	raw, err := repo.LoadDraft(ctx, id)
	if errors.Is(err, custom_errors.ErrNotFound) {
		return w, nil
	}
	if err != nil {
		return nil, err
	}

	var state State
	if err := json.Unmarshal(raw, &state); err != nil || !validStep(state.CurrentStep) {
		logger.WithField("draft_id", id).Warnf("discarding unreadable draft: %v", err)
		return w, nil
	}
	if state.FormData.DetectedKeywords == nil {
		state.FormData.DetectedKeywords = []string{}
	}

	w.state = state
	return w, nil
}

func (w *Wizard) ID() string {
	return w.id
}

func (w *Wizard) State() State {
	state := w.state
	state.FormData.DetectedKeywords = append([]string{}, w.state.FormData.DetectedKeywords...)
	return state
}

func (w *Wizard) CurrentStep() Step {
	return w.state.CurrentStep
}

func (w *Wizard) FormData() SurveyFormData {
	return w.State().FormData
}

// Cost prices the current form data.
func (w *Wizard) Cost() pricing.CostCalculation {
	data := w.state.FormData
	return pricing.Calculate(pricing.CostInput{
		QuestionCount:  data.QuestionCount,
		Duration:       data.Duration,
		WinnerCount:    data.WinnerCount,
		PrizePerWinner: data.PrizePerWinner,
		VoucherCode:    data.VoucherCode,
	})
}

// Next advances one step if the current step validates, clamped to the last step.
func (w *Wizard) Next(ctx context.Context) (Transition, error) {
	from := w.state.CurrentStep

	if err := ValidateStep(from, w.state.FormData); err != nil {
		return Transition{From: from, To: from}, err
	}

	to := from + 1
	if to > LastStep {
		to = LastStep
	}

	w.state.CurrentStep = to
	if err := w.save(ctx); err != nil {
		w.state.CurrentStep = from
		return Transition{From: from, To: from}, err
	}

	return Transition{From: from, To: to, ScrollToTop: to != from}, nil
}

// Prev goes back one step without validation, clamped to the first step.
func (w *Wizard) Prev(ctx context.Context) (Transition, error) {
	from := w.state.CurrentStep

	to := from - 1
	if to < FirstStep {
		to = FirstStep
	}

	w.state.CurrentStep = to
	if err := w.save(ctx); err != nil {
		w.state.CurrentStep = from
		return Transition{From: from, To: from}, err
	}

	return Transition{From: from, To: to, ScrollToTop: to != from}, nil
}

// Reset clears the persisted draft and starts over; it must be confirmed.
func (w *Wizard) Reset(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return custom_errors.ErrConfirmationRequired
	}

	if err := w.repo.ClearDraft(ctx, w.id); err != nil {
		return fmt.Errorf("error clearing draft: %w", err)
	}

	w.state = w.defaultState()
	return nil
}

// Update applies a patch and persists the result.
func (w *Wizard) Update(ctx context.Context, patch FormPatch) error {
	previous := w.State()

	w.state.FormData.apply(patch)

	if err := w.save(ctx); err != nil {
		w.state = previous
		return err
	}
	return nil
}

// SelectMethod moves the details step to Google import or manual entry. Switching
// away from a method whose fields were already filled in discards them and must be confirmed.
func (w *Wizard) SelectMethod(ctx context.Context, method EntryMethod, confirmed bool) error {
	if method != MethodGoogleForm && method != MethodManual {
		return ErrInvalidMethod
	}

	data := &w.state.FormData
	previous := w.State()

	if data.EntryMethod == method && data.DetailsPhase != PhaseMethodSelection {
		return nil
	}

	if data.EntryMethod != MethodNone && data.EntryMethod != method && data.hasSurveyFields() {
		if !confirmed {
			return custom_errors.ErrConfirmationRequired
		}
		data.clearSurveyFields()
	}

	data.EntryMethod = method
	data.IsManualEntry = method == MethodManual
	if method == MethodManual {
		data.DetailsPhase = PhaseManualEntry
	} else {
		data.DetailsPhase = PhaseGoogleFormImport
	}

	if err := w.save(ctx); err != nil {
		w.state = previous
		return err
	}
	return nil
}

// ApplyImport copies an extracted form into the draft and moves on to reviewing its fields.
func (w *Wizard) ApplyImport(ctx context.Context, form ImportedForm) error {
	data := &w.state.FormData
	if data.EntryMethod != MethodGoogleForm {
		return fmt.Errorf("%w: select google_form before importing", ErrInvalidMethod)
	}

	previous := w.State()

	data.GoogleFormID = form.FormID
	data.Title = form.Title
	data.Description = form.Description
	data.QuestionCount = form.QuestionCount
	if form.ResponderURL != "" {
		data.SurveyURL = form.ResponderURL
	}
	data.DetectedKeywords = append([]string{}, form.DetectedKeywords...)
	data.HasPersonalDataQuestions = len(form.DetectedKeywords) > 0
	data.IsManualEntry = false
	data.DetailsPhase = PhaseFormFieldsReview

	if err := w.save(ctx); err != nil {
		w.state = previous
		return err
	}
	return nil
}

// ValidateAll checks every step, used before the final submit.
func (w *Wizard) ValidateAll() error {
	return ValidateStep(StepPayment, w.state.FormData)
}

// Discard removes the persisted draft after a successful submit.
func (w *Wizard) Discard(ctx context.Context) error {
	if err := w.repo.ClearDraft(ctx, w.id); err != nil {
		return fmt.Errorf("error clearing draft: %w", err)
	}
	return nil
}

// Save persists the current state as-is.
func (w *Wizard) Save(ctx context.Context) error {
	return w.save(ctx)
}

func (w *Wizard) save(ctx context.Context) error {
	raw, err := json.Marshal(w.state)
	if err != nil {
		return fmt.Errorf("error encoding draft: %w", err)
	}

	if err := w.repo.SaveDraft(ctx, w.id, raw); err != nil {
		return fmt.Errorf("error saving draft: %w", err)
	}
	return nil
}

func (w *Wizard) defaultState() State {
	return State{
		CurrentStep: FirstStep,
		FormData:    DefaultFormData(w.now()),
	}
}

func validStep(s Step) bool {
	return s >= FirstStep && s <= LastStep
}
