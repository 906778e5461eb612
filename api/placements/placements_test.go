package placements_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Adedunmol/jakpat-univ/api/custom_errors"
	"github.com/Adedunmol/jakpat-univ/api/placements"
	"github.com/Adedunmol/jakpat-univ/api/submissions/submissionstest"
	"github.com/Adedunmol/jakpat-univ/database"
	"github.com/Adedunmol/jakpat-univ/queue/queuetest"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// StubPlacementStore keeps placements in memory and forwards submission changes to the
// in-memory submission store, mirroring the transactional repository.
type StubPlacementStore struct {
	mu          sync.Mutex
	Placements  map[uuid.UUID]database.AdPlacement
	Submissions *submissionstest.Store
	ShouldFail  bool
}

func (s *StubPlacementStore) Schedule(ctx context.Context, p placements.NewPlacement) (database.AdPlacement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ShouldFail {
		return database.AdPlacement{}, errors.New("database error")
	}
	placement := database.AdPlacement{
		ID:           uuid.New(),
		SubmissionID: p.SubmissionID,
		Channel:      p.Channel,
		StartAt:      pgtype.Timestamptz{Time: p.StartAt, Valid: true},
		EndAt:        pgtype.Timestamptz{Time: p.EndAt, Valid: true},
		Status:       database.PlacementStatusScheduled,
	}
	if _, err := s.Submissions.UpdateSchedule(ctx, p.SubmissionID, p.StartAt, p.EndAt, database.SubmissionStatusScheduled); err != nil {
		return database.AdPlacement{}, err
	}
	s.Placements[placement.ID] = placement
	return placement, nil
}

func (s *StubPlacementStore) GetByID(ctx context.Context, id uuid.UUID) (database.AdPlacement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	placement, ok := s.Placements[id]
	if !ok {
		return database.AdPlacement{}, custom_errors.ErrNotFound
	}
	return placement, nil
}

func (s *StubPlacementStore) List(ctx context.Context, from, to *time.Time) ([]database.AdPlacement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := []database.AdPlacement{}
	for _, p := range s.Placements {
		if from != nil && p.EndAt.Time.Before(*from) {
			continue
		}
		if to != nil && !p.StartAt.Time.Before(*to) {
			continue
		}
		items = append(items, p)
	}
	return items, nil
}

func (s *StubPlacementStore) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (database.AdPlacement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	placement, ok := s.Placements[id]
	if !ok {
		return database.AdPlacement{}, custom_errors.ErrNotFound
	}
	placement.Status = status
	s.Placements[id] = placement
	return placement, nil
}

func (s *StubPlacementStore) Advance(ctx context.Context, a placements.Advance) (database.AdPlacement, error) {
	placement, err := s.UpdateStatus(ctx, a.PlacementID, a.PlacementStatus)
	if err != nil || a.SubmissionStatus == "" {
		return placement, err
	}
	_, err = s.Submissions.UpdateStatus(ctx, a.SubmissionID, a.SubmissionStatus, nil)
	return placement, err
}

type testEnv struct {
	router      *chi.Mux
	submissions *submissionstest.Store
	store       *StubPlacementStore
	queue       *queuetest.Queue
	tasks       *placements.TaskHandler
}

func newEnv(items ...database.FormSubmission) *testEnv {
	subs := submissionstest.NewStore(items...)
	env := &testEnv{
		router:      chi.NewRouter(),
		submissions: subs,
		store:       &StubPlacementStore{Placements: make(map[uuid.UUID]database.AdPlacement), Submissions: subs},
		queue:       &queuetest.Queue{},
	}
	placements.Routes(&placements.Handler{Store: env.store, Submissions: subs, Queue: env.queue})(env.router)
	env.tasks = &placements.TaskHandler{Store: env.store, Submissions: subs}
	return env
}

func (env *testEnv) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(method, path, &buf))
	return rec
}

func (env *testEnv) run(t *testing.T, taskType string, placementID uuid.UUID) error {
	t.Helper()
	payload, err := json.Marshal(placements.TaskPayload{PlacementID: placementID})
	require.NoError(t, err)
	return env.tasks.ProcessTask(context.Background(), asynq.NewTask(taskType, payload))
}

func approvedSubmission(paymentStatus string) database.FormSubmission {
	return database.FormSubmission{
		ID:            uuid.New(),
		Title:         "Survei Kebiasaan Membaca",
		Email:         "rina@ui.ac.id",
		Status:        database.SubmissionStatusApproved,
		PaymentStatus: paymentStatus,
	}
}

var (
	startAt = time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	endAt   = time.Date(2025, 4, 4, 0, 0, 0, 0, time.UTC)
)

func placementBody() map[string]any {
	return map[string]any{"channel": "instagram", "startAt": startAt, "endAt": endAt}
}

func processAt(opts []asynq.Option) time.Time {
	for _, opt := range opts {
		if opt.Type() == asynq.ProcessAtOpt {
			if at, ok := opt.Value().(time.Time); ok {
				return at
			}
		}
	}
	return time.Time{}
}

func TestCreatePlacement(t *testing.T) {
	submission := approvedSubmission(database.PaymentStatusPaid)
	env := newEnv(submission)

	rec := env.do(http.MethodPost, "/submissions/"+submission.ID.String()+"/placements", placementBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	stored := env.submissions.Get(submission.ID)
	assert.Equal(t, database.SubmissionStatusScheduled, stored.Status)
	assert.True(t, stored.AdStartDate.Valid)

	require.Len(t, env.queue.Tasks, 2)
	assert.Equal(t, placements.TypePlacementActivate, env.queue.Tasks[0].ProcessorName())
	assert.True(t, startAt.Equal(processAt(env.queue.Options[0])))
	assert.Equal(t, placements.TypePlacementComplete, env.queue.Tasks[1].ProcessorName())
	assert.True(t, endAt.Equal(processAt(env.queue.Options[1])))
}

func TestCreatePlacementRules(t *testing.T) {
	t.Run("simulated payment is accepted", func(t *testing.T) {
		submission := approvedSubmission(database.PaymentStatusSimulated)
		env := newEnv(submission)
		rec := env.do(http.MethodPost, "/submissions/"+submission.ID.String()+"/placements", placementBody())
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("unpaid submission", func(t *testing.T) {
		submission := approvedSubmission(database.PaymentStatusPending)
		env := newEnv(submission)
		rec := env.do(http.MethodPost, "/submissions/"+submission.ID.String()+"/placements", placementBody())
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Empty(t, env.queue.Tasks)
	})

	t.Run("submission not approved", func(t *testing.T) {
		submission := approvedSubmission(database.PaymentStatusPaid)
		submission.Status = database.SubmissionStatusInReview
		env := newEnv(submission)
		rec := env.do(http.MethodPost, "/submissions/"+submission.ID.String()+"/placements", placementBody())
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("end before start", func(t *testing.T) {
		submission := approvedSubmission(database.PaymentStatusPaid)
		env := newEnv(submission)
		body := map[string]any{"channel": "instagram", "startAt": endAt, "endAt": startAt}
		rec := env.do(http.MethodPost, "/submissions/"+submission.ID.String()+"/placements", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown channel", func(t *testing.T) {
		submission := approvedSubmission(database.PaymentStatusPaid)
		env := newEnv(submission)
		body := map[string]any{"channel": "billboard", "startAt": startAt, "endAt": endAt}
		rec := env.do(http.MethodPost, "/submissions/"+submission.ID.String()+"/placements", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown submission", func(t *testing.T) {
		env := newEnv()
		rec := env.do(http.MethodPost, "/submissions/"+uuid.NewString()+"/placements", placementBody())
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestPlacementLifecycle(t *testing.T) {
	submission := approvedSubmission(database.PaymentStatusPaid)
	env := newEnv(submission)

	rec := env.do(http.MethodPost, "/submissions/"+submission.ID.String()+"/placements", placementBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	var placementID uuid.UUID
	for id := range env.store.Placements {
		placementID = id
	}

	require.NoError(t, env.run(t, placements.TypePlacementActivate, placementID))
	assert.Equal(t, database.PlacementStatusLive, env.store.Placements[placementID].Status)
	assert.Equal(t, database.SubmissionStatusLive, env.submissions.Get(submission.ID).Status)

	require.NoError(t, env.run(t, placements.TypePlacementComplete, placementID))
	assert.Equal(t, database.PlacementStatusCompleted, env.store.Placements[placementID].Status)
	assert.Equal(t, database.SubmissionStatusCompleted, env.submissions.Get(submission.ID).Status)

	require.NoError(t, env.run(t, placements.TypePlacementComplete, placementID))
}

func TestCancelledPlacementIsNotActivated(t *testing.T) {
	submission := approvedSubmission(database.PaymentStatusPaid)
	env := newEnv(submission)

	rec := env.do(http.MethodPost, "/submissions/"+submission.ID.String()+"/placements", placementBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	var placementID uuid.UUID
	for id := range env.store.Placements {
		placementID = id
	}

	rec = env.do(http.MethodDelete, "/placements/"+placementID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodDelete, "/placements/"+placementID.String(), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	require.NoError(t, env.run(t, placements.TypePlacementActivate, placementID))
	assert.Equal(t, database.PlacementStatusCancelled, env.store.Placements[placementID].Status)
	assert.Equal(t, database.SubmissionStatusScheduled, env.submissions.Get(submission.ID).Status)
}

func TestTaskForUnknownPlacementIsNotRetried(t *testing.T) {
	env := newEnv()
	err := env.run(t, placements.TypePlacementActivate, uuid.New())
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestListPlacements(t *testing.T) {
	submission := approvedSubmission(database.PaymentStatusPaid)
	env := newEnv(submission)
	rec := env.do(http.MethodPost, "/submissions/"+submission.ID.String()+"/placements", placementBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	count := func(query string) int {
		rec := env.do(http.MethodGet, "/placements"+query, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var envelope struct {
			Data []database.AdPlacement `json:"data"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
		return len(envelope.Data)
	}

	assert.Equal(t, 1, count(""))
	assert.Equal(t, 1, count("?from=2025-04-02&to=2025-04-03"))
	assert.Equal(t, 0, count("?from=2025-05-01"))

	rec = env.do(http.MethodGet, "/placements?from=besok", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
