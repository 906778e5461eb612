package placements

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Adedunmol/jakpat-univ/api/custom_errors"
	"github.com/Adedunmol/jakpat-univ/api/submissions"
	"github.com/Adedunmol/jakpat-univ/database"
	"github.com/Adedunmol/jakpat-univ/logger"
	"github.com/Adedunmol/jakpat-univ/queue"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	TypePlacementActivate = "placement:activate"
	TypePlacementComplete = "placement:complete"
)

type TaskPayload struct {
	PlacementID uuid.UUID
}

type placementTask struct {
	taskType    string
	placementID uuid.UUID
}

func (p placementTask) Process() (*asynq.Task, error) {
	body, err := json.Marshal(TaskPayload{PlacementID: p.placementID})
	if err != nil {
		return nil, fmt.Errorf("marshal placement payload: %w", err)
	}
	return asynq.NewTask(p.taskType, body, asynq.MaxRetry(5), asynq.Queue(queue.QueueDefault)), nil
}

func (p placementTask) ProcessorName() string {
	return p.taskType
}

// taskID makes a second enqueue of the same transition a no-op.
func taskID(taskType string, placementID uuid.UUID) string {
	return taskType + ":" + placementID.String()
}

type step struct {
	from       string
	to         string
	submission string
}

var steps = map[string]step{
	TypePlacementActivate: {from: database.PlacementStatusScheduled, to: database.PlacementStatusLive, submission: database.SubmissionStatusLive},
	TypePlacementComplete: {from: database.PlacementStatusLive, to: database.PlacementStatusCompleted, submission: database.SubmissionStatusCompleted},
}

type SubmissionGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (database.FormSubmission, error)
}

// TaskHandler runs the delayed activation and completion of placements.
type TaskHandler struct {
	Store       Store
	Submissions SubmissionGetter
}

func (h *TaskHandler) Register(mux *asynq.ServeMux) {
	mux.Handle(TypePlacementActivate, h)
	mux.Handle(TypePlacementComplete, h)
}

func (h *TaskHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	next, ok := steps[t.Type()]
	if !ok {
		return fmt.Errorf("unknown placement task %s: %w", t.Type(), asynq.SkipRetry)
	}

	var payload TaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("error decoding placement payload: %v: %w", err, asynq.SkipRetry)
	}

	entry := logger.WithFields(map[string]any{"placement_id": payload.PlacementID, "task": t.Type()})

	placement, err := h.Store.GetByID(ctx, payload.PlacementID)
	if err != nil {
		if errors.Is(err, custom_errors.ErrNotFound) {
			return fmt.Errorf("placement %s: %v: %w", payload.PlacementID, err, asynq.SkipRetry)
		}
		return err
	}

	if placement.Status != next.from {
		entry.Infof("placement is %s, nothing to do", placement.Status)
		return nil
	}

	advance := Advance{
		PlacementID:     placement.ID,
		PlacementStatus: next.to,
		SubmissionID:    placement.SubmissionID,
	}

	submission, err := h.Submissions.GetByID(ctx, placement.SubmissionID)
	if err != nil {
		return err
	}
	if err := submissions.CheckTransition(submission.Status, next.submission); err == nil {
		advance.SubmissionStatus = next.submission
	} else {
		entry.WithError(err).Info("submission status left unchanged")
	}

	if _, err := h.Store.Advance(ctx, advance); err != nil {
		return err
	}

	entry.Infof("placement is now %s", next.to)
	return nil
}
