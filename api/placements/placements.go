package placements

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Adedunmol/jakpat-univ/api/custom_errors"
	"github.com/Adedunmol/jakpat-univ/api/jsonutil"
	"github.com/Adedunmol/jakpat-univ/api/submissions"
	"github.com/Adedunmol/jakpat-univ/database"
	"github.com/Adedunmol/jakpat-univ/logger"
	"github.com/Adedunmol/jakpat-univ/queue"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/spf13/cast"
)

type Handler struct {
	Store       Store
	Submissions SubmissionGetter
	Queue       queue.Queue
}

func (h *Handler) CreatePlacementHandler(responseWriter http.ResponseWriter, request *http.Request) {
	ctx := request.Context()

	data, err := jsonutil.UnmarshalJsonResponse[CreatePlacementBody](request)
	if err != nil {
		jsonutil.WriteError(responseWriter, err.Error(), http.StatusBadRequest)
		return
	}

	if !data.EndAt.After(data.StartAt) {
		jsonutil.WriteError(responseWriter, "endAt must be after startAt", http.StatusBadRequest)
		return
	}

	submissionID, ok := parseID(responseWriter, request, "invalid submission id")
	if !ok {
		return
	}

	submission, err := h.Submissions.GetByID(ctx, submissionID)
	if err != nil {
		writeStoreError(responseWriter, err, "submission not found")
		return
	}

	if !submissions.Settled(submission.PaymentStatus) {
		jsonutil.WriteError(responseWriter, "submission payment is "+submission.PaymentStatus, http.StatusConflict)
		return
	}
	if submission.Status != database.SubmissionStatusApproved && submission.Status != database.SubmissionStatusScheduled {
		jsonutil.WriteError(responseWriter, "submission must be approved before scheduling, it is "+submission.Status, http.StatusConflict)
		return
	}

	placement, err := h.Store.Schedule(ctx, NewPlacement{
		SubmissionID: submission.ID,
		Channel:      data.Channel,
		StartAt:      data.StartAt,
		EndAt:        data.EndAt,
	})
	if err != nil {
		writeStoreError(responseWriter, err, "submission not found")
		return
	}

	entry := logger.WithFields(map[string]any{"placement_id": placement.ID, "submission_id": submission.ID})
	if err := h.enqueue(placement.ID, data.StartAt, data.EndAt); err != nil {
		entry.WithError(err).Error("error queueing placement tasks")
	}
	entry.Infof("placement scheduled on %s from %s to %s", placement.Channel, data.StartAt.Format(time.RFC3339), data.EndAt.Format(time.RFC3339))

	response := jsonutil.Response{
		Status:  "success",
		Message: "placement scheduled",
		Data:    placement,
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusCreated)
}

func (h *Handler) enqueue(placementID uuid.UUID, startAt, endAt time.Time) error {
	activate := placementTask{taskType: TypePlacementActivate, placementID: placementID}
	if err := h.Queue.Enqueue(activate, asynq.ProcessAt(startAt), asynq.TaskID(taskID(TypePlacementActivate, placementID))); err != nil {
		return err
	}

	complete := placementTask{taskType: TypePlacementComplete, placementID: placementID}
	return h.Queue.Enqueue(complete, asynq.ProcessAt(endAt), asynq.TaskID(taskID(TypePlacementComplete, placementID)))
}

// ListPlacementsHandler returns placements overlapping [from, to).
func (h *Handler) ListPlacementsHandler(responseWriter http.ResponseWriter, request *http.Request) {
	from, err := timeParam(request, "from")
	if err != nil {
		jsonutil.WriteError(responseWriter, err.Error(), http.StatusBadRequest)
		return
	}
	to, err := timeParam(request, "to")
	if err != nil {
		jsonutil.WriteError(responseWriter, err.Error(), http.StatusBadRequest)
		return
	}

	data, err := h.Store.List(request.Context(), from, to)
	if err != nil {
		writeStoreError(responseWriter, err, "placement not found")
		return
	}

	response := jsonutil.Response{
		Status:  "success",
		Message: "retrieved placements successfully",
		Data:    data,
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusOK)
}

// CancelPlacementHandler marks the placement cancelled; its pending tasks then do nothing.
func (h *Handler) CancelPlacementHandler(responseWriter http.ResponseWriter, request *http.Request) {
	id, ok := parseID(responseWriter, request, "invalid placement id")
	if !ok {
		return
	}

	placement, err := h.Store.GetByID(request.Context(), id)
	if err != nil {
		writeStoreError(responseWriter, err, "placement not found")
		return
	}

	if placement.Status != database.PlacementStatusScheduled && placement.Status != database.PlacementStatusLive {
		jsonutil.WriteError(responseWriter, "placement is already "+placement.Status, http.StatusConflict)
		return
	}

	updated, err := h.Store.UpdateStatus(request.Context(), id, database.PlacementStatusCancelled)
	if err != nil {
		writeStoreError(responseWriter, err, "placement not found")
		return
	}

	response := jsonutil.Response{
		Status:  "success",
		Message: "placement cancelled",
		Data:    updated,
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusOK)
}

// timeParam accepts RFC 3339 timestamps and plain dates.
func timeParam(request *http.Request, name string) (*time.Time, error) {
	raw := request.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := cast.ToTimeE(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be a date or timestamp", name)
	}
	return &t, nil
}

func parseID(responseWriter http.ResponseWriter, request *http.Request, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(request, "id"))
	if err != nil {
		jsonutil.WriteError(responseWriter, message, http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func writeStoreError(responseWriter http.ResponseWriter, err error, notFound string) {
	if errors.Is(err, custom_errors.ErrNotFound) {
		jsonutil.WriteError(responseWriter, notFound, http.StatusNotFound)
		return
	}
	logger.WithError(err).Error("placement store error")
	jsonutil.WriteError(responseWriter, custom_errors.ErrInternalServer.Error(), http.StatusInternalServerError)
}
