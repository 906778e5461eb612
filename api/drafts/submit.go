package drafts

import (
	"net/http"

	"github.com/Adedunmol/jakpat-univ/api/jsonutil"
	"github.com/Adedunmol/jakpat-univ/api/submissions"
	"github.com/Adedunmol/jakpat-univ/api/wizard"
	"github.com/Adedunmol/jakpat-univ/logger"
)

// SubmitDraftHandler stores the finished draft, opens its payment and clears the draft.
// A stored submission is never rolled back: when the payment cannot be opened the
// response carries the submission id and the retry endpoint instead.
func (h *Handler) SubmitDraftHandler(responseWriter http.ResponseWriter, request *http.Request) {
	ctx := request.Context()

	w, ok := h.restore(responseWriter, request)
	if !ok {
		return
	}

	if w.CurrentStep() != wizard.StepPayment {
		jsonutil.WriteError(responseWriter, "the draft is not at the payment step", http.StatusConflict)
		return
	}

	if err := w.ValidateAll(); err != nil {
		writeError(responseWriter, err)
		return
	}

	cost := w.Cost()
	newSubmission, err := submissions.FromForm(w.FormData(), cost)
	if err != nil {
		jsonutil.WriteError(responseWriter, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	submission, err := h.Submissions.Save(ctx, newSubmission)
	if err != nil {
		logger.WithField("draft_id", w.ID()).WithError(err).Error("error saving submission")
		jsonutil.WriteError(responseWriter, "could not save the submission, please try again", http.StatusInternalServerError)
		return
	}

	entry := logger.WithFields(map[string]any{"draft_id": w.ID(), "submission_id": submission.ID})
	entry.Info("submission stored")

	checkout, payErr := h.Checkout.StartPayment(ctx, submission)
	if payErr == nil {
		submission = checkout.Submission
	}

	h.Notifier.Notify(ctx, submission)

	if err := w.Discard(ctx); err != nil {
		entry.WithError(err).Warn("error discarding submitted draft")
	}

	if payErr != nil {
		entry.WithError(payErr).Error("payment could not be created")
		jsonutil.WriteJSONResponse(responseWriter, jsonutil.Response{
			Status:  "error",
			Message: "submission saved but payment could not be created, please retry",
			Data: submissions.PaymentFailedResponse{
				SubmissionID: submission.ID.String(),
				RetryURL:     submissions.RetryPath(submission.ID),
			},
		}, http.StatusBadGateway)
		return
	}

	h.Notifier.Receipt(ctx, submission, checkout.RedirectURL)

	jsonutil.WriteJSONResponse(responseWriter, jsonutil.Response{
		Status:  "success",
		Message: "submission created, continue to payment",
		Data:    checkout,
	}, http.StatusCreated)
}
