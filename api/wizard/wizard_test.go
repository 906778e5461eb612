package wizard_test

import (
	"context"
	"testing"
	"time"

	"github.com/Adedunmol/jakpat-univ/api/custom_errors"
	"github.com/Adedunmol/jakpat-univ/api/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func ptr[T any](v T) *T { return &v }

func newWizard(t *testing.T) (*wizard.Wizard, *wizard.MemoryDraftStore) {
	t.Helper()
	store := wizard.NewMemoryDraftStore()
	return wizard.New("draft-1", store, wizard.WithClock(clock)), store
}

// completeDetails walks step 1 through manual entry.
func completeDetails(t *testing.T, w *wizard.Wizard) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, w.SelectMethod(ctx, wizard.MethodManual, false))
	require.NoError(t, w.Update(ctx, wizard.FormPatch{
		SurveyURL:     ptr("https://forms.gle/abc123"),
		Title:         ptr("Kebiasaan belajar mahasiswa"),
		Description:   ptr("Survei tentang pola belajar"),
		QuestionCount: ptr(20),
		Duration:      ptr(3),
	}))
	_, err := w.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, wizard.StepCriteria, w.CurrentStep())
}

func TestDefaults(t *testing.T) {
	w, _ := newWizard(t)

	state := w.State()
	assert.Equal(t, wizard.StepSurveyDetails, state.CurrentStep)
	assert.Equal(t, wizard.PhaseMethodSelection, state.FormData.DetailsPhase)
	assert.Equal(t, "2026-10-17", state.FormData.StartDate)
	assert.Equal(t, "2026-10-18", state.FormData.EndDate)
	assert.Equal(t, 2, state.FormData.WinnerCount)
	assert.Equal(t, int64(25_000), state.FormData.PrizePerWinner)
	assert.True(t, state.FormData.IsManualEntry)
}

func TestNext_Step1RequiresMethod(t *testing.T) {
	w, _ := newWizard(t)

	tr, err := w.Next(context.Background())

	var verr *wizard.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, wizard.StepSurveyDetails, verr.Step)
	assert.Contains(t, verr.Messages, "choose how to enter the survey details")
	assert.Equal(t, wizard.StepSurveyDetails, tr.To)
	assert.False(t, tr.ScrollToTop)
}

func TestNext_Step2WinnerCount(t *testing.T) {
	ctx := context.Background()

	t.Run("one winner is rejected", func(t *testing.T) {
		w, _ := newWizard(t)
		completeDetails(t, w)

		require.NoError(t, w.Update(ctx, wizard.FormPatch{
			CriteriaResponden: ptr("Mahasiswa aktif S1"),
			WinnerCount:       ptr(1),
		}))

		_, err := w.Next(ctx)

		var verr *wizard.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Messages, "winnerCount must be between 2 and 5")
		assert.Equal(t, wizard.StepCriteria, w.CurrentStep())
	})

	t.Run("two winners at the minimum prize advance", func(t *testing.T) {
		w, _ := newWizard(t)
		completeDetails(t, w)

		require.NoError(t, w.Update(ctx, wizard.FormPatch{
			CriteriaResponden: ptr("Mahasiswa aktif S1"),
			WinnerCount:       ptr(2),
			PrizePerWinner:    ptr(int64(25_000)),
		}))

		tr, err := w.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, wizard.StepReview, w.CurrentStep())
		assert.True(t, tr.ScrollToTop)
	})

	t.Run("prize below the minimum is rejected", func(t *testing.T) {
		w, _ := newWizard(t)
		completeDetails(t, w)

		require.NoError(t, w.Update(ctx, wizard.FormPatch{
			CriteriaResponden: ptr("Mahasiswa aktif S1"),
			PrizePerWinner:    ptr(int64(20_000)),
		}))

		_, err := w.Next(ctx)
		var verr *wizard.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, wizard.StepCriteria, w.CurrentStep())
	})
}

func TestPrev_ClampsAtFirstStep(t *testing.T) {
	w, _ := newWizard(t)

	tr, err := w.Prev(context.Background())
	require.NoError(t, err)
	assert.Equal(t, wizard.StepSurveyDetails, tr.To)
	assert.False(t, tr.ScrollToTop)
}

func TestNext_ClampsAtLastStep(t *testing.T) {
	ctx := context.Background()
	w, _ := newWizard(t)
	completeDetails(t, w)

	require.NoError(t, w.Update(ctx, wizard.FormPatch{
		CriteriaResponden: ptr("Mahasiswa aktif S1"),
		FullName:          ptr("Sari Dewi"),
		Email:             ptr("sari@ugm.ac.id"),
		PhoneNumber:       ptr("081234567890"),
		University:        ptr("Universitas Gadjah Mada"),
		Department:        ptr("Psikologi"),
	}))

	_, err := w.Next(ctx)
	require.NoError(t, err)
	_, err = w.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, wizard.StepPayment, w.CurrentStep())

	tr, err := w.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, wizard.StepPayment, tr.To)
	assert.NoError(t, w.ValidateAll())
}

func TestUpdate_RecomputesEndDate(t *testing.T) {
	ctx := context.Background()
	w, _ := newWizard(t)

	require.NoError(t, w.Update(ctx, wizard.FormPatch{Duration: ptr(14)}))
	assert.Equal(t, "2026-10-31", w.FormData().EndDate)

	require.NoError(t, w.Update(ctx, wizard.FormPatch{StartDate: ptr("2026-12-25")}))
	assert.Equal(t, "2027-01-08", w.FormData().EndDate)
}

func TestRestore(t *testing.T) {
	ctx := context.Background()

	t.Run("restores saved step and form data", func(t *testing.T) {
		w, store := newWizard(t)
		completeDetails(t, w)
		require.NoError(t, w.Update(ctx, wizard.FormPatch{VoucherCode: ptr("RA2025")}))

		restored, err := wizard.Restore(ctx, "draft-1", store, wizard.WithClock(clock))
		require.NoError(t, err)

		assert.Equal(t, w.State(), restored.State())
	})

	t.Run("corrupted draft falls back to defaults", func(t *testing.T) {
		store := wizard.NewMemoryDraftStore()
		require.NoError(t, store.SaveDraft(ctx, "broken", []byte(`{"currentStep": 3, "formData": {`)))

		restored, err := wizard.Restore(ctx, "broken", store, wizard.WithClock(clock))
		require.NoError(t, err)

		assert.Equal(t, wizard.StepSurveyDetails, restored.CurrentStep())
		assert.Equal(t, wizard.DefaultFormData(fixedNow), restored.FormData())
	})

	t.Run("out of range step falls back to defaults", func(t *testing.T) {
		store := wizard.NewMemoryDraftStore()
		require.NoError(t, store.SaveDraft(ctx, "weird", []byte(`{"currentStep": 9, "formData": {}}`)))

		restored, err := wizard.Restore(ctx, "weird", store, wizard.WithClock(clock))
		require.NoError(t, err)
		assert.Equal(t, wizard.StepSurveyDetails, restored.CurrentStep())
	})

	t.Run("missing draft starts from defaults", func(t *testing.T) {
		restored, err := wizard.Restore(ctx, "nope", wizard.NewMemoryDraftStore(), wizard.WithClock(clock))
		require.NoError(t, err)

		assert.Equal(t, wizard.StepSurveyDetails, restored.CurrentStep())
		assert.Equal(t, wizard.DefaultFormData(fixedNow), restored.FormData())
	})
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	w, store := newWizard(t)
	completeDetails(t, w)

	err := w.Reset(ctx, false)
	assert.ErrorIs(t, err, custom_errors.ErrConfirmationRequired)
	assert.Equal(t, wizard.StepCriteria, w.CurrentStep())

	require.NoError(t, w.Reset(ctx, true))
	assert.Equal(t, wizard.StepSurveyDetails, w.CurrentStep())
	assert.Equal(t, wizard.DefaultFormData(fixedNow), w.FormData())

	_, err = store.LoadDraft(ctx, "draft-1")
	assert.ErrorIs(t, err, custom_errors.ErrNotFound)
}

func TestSelectMethod_SwitchingDiscardsFields(t *testing.T) {
	ctx := context.Background()
	w, _ := newWizard(t)

	require.NoError(t, w.SelectMethod(ctx, wizard.MethodGoogleForm, false))
	require.NoError(t, w.ApplyImport(ctx, wizard.ImportedForm{
		FormID:           "1FAIpQL",
		Title:            "Survei kesehatan mental",
		Description:      "Kuesioner",
		QuestionCount:    18,
		ResponderURL:     "https://docs.google.com/forms/d/e/1FAIpQL/viewform",
		DetectedKeywords: []string{"nomor telepon"},
	}))

	data := w.FormData()
	assert.Equal(t, wizard.PhaseFormFieldsReview, data.DetailsPhase)
	assert.False(t, data.IsManualEntry)
	assert.True(t, data.HasPersonalDataQuestions)

	err := w.SelectMethod(ctx, wizard.MethodManual, false)
	assert.ErrorIs(t, err, custom_errors.ErrConfirmationRequired)
	assert.Equal(t, "Survei kesehatan mental", w.FormData().Title)

	require.NoError(t, w.SelectMethod(ctx, wizard.MethodManual, true))
	data = w.FormData()
	assert.Empty(t, data.Title)
	assert.Zero(t, data.QuestionCount)
	assert.Empty(t, data.DetectedKeywords)
	assert.Equal(t, wizard.PhaseManualEntry, data.DetailsPhase)
	assert.True(t, data.IsManualEntry)
}

func TestSelectMethod_Invalid(t *testing.T) {
	w, _ := newWizard(t)
	assert.ErrorIs(t, w.SelectMethod(context.Background(), "fax", false), wizard.ErrInvalidMethod)
}

func TestApplyImport_RequiresGoogleMethod(t *testing.T) {
	w, _ := newWizard(t)
	err := w.ApplyImport(context.Background(), wizard.ImportedForm{FormID: "x"})
	assert.ErrorIs(t, err, wizard.ErrInvalidMethod)
}

func TestCost(t *testing.T) {
	ctx := context.Background()
	w, _ := newWizard(t)
	completeDetails(t, w)

	require.NoError(t, w.Update(ctx, wizard.FormPatch{
		PrizePerWinner: ptr(int64(30_000)),
		VoucherCode:    ptr("RA2025"),
	}))

	cost := w.Cost()
	assert.Equal(t, int64(600_000), cost.AdCost)
	assert.Equal(t, int64(60_000), cost.IncentiveCost)
	assert.Equal(t, int64(60_000), cost.Discount)
	assert.Equal(t, int64(600_000), cost.TotalCost)
}
