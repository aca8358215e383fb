package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"projector-backend/internal/config"
	"projector-backend/internal/handler"
	"projector-backend/internal/metrics"
	"projector-backend/internal/middleware"
	"projector-backend/internal/model"
	"projector-backend/internal/service"
	"projector-backend/internal/util"
)

type memWorkerStore struct {
	mu      sync.Mutex
	nextID  int64
	workers map[int64]model.Worker
}

func (s *memWorkerStore) FindByID(_ context.Context, id int64) (model.Worker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.workers[id]
	if !ok {
		return model.Worker{}, model.ErrWorkerNotFound
	}
	return w, nil
}

func (s *memWorkerStore) FindByEmployeeID(_ context.Context, employeeID string) (model.Worker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.workers {
		if w.EmployeeID == employeeID {
			return w, nil
		}
	}
	return model.Worker{}, model.ErrWorkerNotFound
}

func (s *memWorkerStore) List(_ context.Context, _ model.WorkersFilter, _ int, _ int, _ string, _ string) ([]model.Worker, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Worker, 0, len(s.workers))
	for _, w := range s.workers {
		out = append(out, w)
	}
	return out, len(out), nil
}

func (s *memWorkerStore) ExistsByEmployeeID(_ context.Context, employeeID string) (bool, error) {
	_, err := s.FindByEmployeeID(context.Background(), employeeID)
	return err == nil, nil
}

func (s *memWorkerStore) Create(_ context.Context, w model.Worker) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	w.WorkerID = s.nextID
	s.workers[s.nextID] = w
	return s.nextID, nil
}

func (s *memWorkerStore) Update(_ context.Context, w model.Worker) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workers[w.WorkerID] = w
	return nil
}

func (s *memWorkerStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.workers, id)
	return nil
}

type memTokenStore struct {
	mu      sync.Mutex
	nextID  int64
	records map[int64]model.RefreshTokenRecord
}

func (s *memTokenStore) Insert(_ context.Context, tokenHash string, tokenID string, workerID int64, expiresAt time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.records[s.nextID] = model.RefreshTokenRecord{
		ID:        s.nextID,
		TokenHash: tokenHash,
		TokenID:   tokenID,
		WorkerID:  workerID,
		ExpiresAt: expiresAt,
	}
	return s.nextID, nil
}

func (s *memTokenStore) FindByTokenID(_ context.Context, tokenID string) (model.RefreshTokenRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.records {
		if rec.TokenID == tokenID {
			return rec, nil
		}
	}
	return model.RefreshTokenRecord{}, model.ErrTokenNotFound
}

func (s *memTokenStore) DeleteByID(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return false, nil
	}
	delete(s.records, id)
	return true, nil
}

func (s *memTokenStore) DeleteAllByTokenID(_ context.Context, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, rec := range s.records {
		if rec.TokenID == tokenID {
			delete(s.records, id)
		}
	}
	return nil
}

func (s *memTokenStore) DeleteAllForWorker(_ context.Context, workerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, rec := range s.records {
		if rec.WorkerID == workerID {
			delete(s.records, id)
		}
	}
	return nil
}

type memProgramRepo struct {
	mu       sync.Mutex
	nextID   int64
	programs map[int64]model.Program
}

func (r *memProgramRepo) FindByID(_ context.Context, id int64) (model.Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.programs[id]
	if !ok {
		return model.Program{}, model.ErrProgramNotFound
	}
	return p, nil
}

func (r *memProgramRepo) List(_ context.Context, _ model.ProgramsFilter, _ int, _ int, _ string, _ string) ([]model.Program, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Program, 0, len(r.programs))
	for _, p := range r.programs {
		out = append(out, p)
	}
	return out, len(out), nil
}

func (r *memProgramRepo) Create(_ context.Context, p model.Program) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p.ProgramID = r.nextID
	r.programs[r.nextID] = p
	return r.nextID, nil
}

func (r *memProgramRepo) Update(_ context.Context, p model.Program) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.programs[p.ProgramID] = p
	return nil
}

func (r *memProgramRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.programs, id)
	return nil
}

type memLookups struct{}

func (memLookups) All(context.Context) (model.Lookups, error) {
	return model.Lookups{}, nil
}

type healthyDB struct{}

func (healthyDB) Health(context.Context) error { return nil }

func seedWorker(t *testing.T, store *memWorkerStore, employeeID string, password string, role model.Role) model.Worker {
	t.Helper()
	hash, err := util.HashSecret(password)
	require.NoError(t, err)

	id, err := store.Create(context.Background(), model.Worker{
		EmployeeID:   employeeID,
		FullName:     employeeID + " (test)",
		Email:        employeeID + "@example.com",
		PasswordHash: hash,
		RoleID:       role.RoleID,
		Role:         role,
	})
	require.NoError(t, err)

	worker, err := store.FindByID(context.Background(), id)
	require.NoError(t, err)
	return worker
}

func newTestServer(t *testing.T) (*httptest.Server, *memWorkerStore) {
	t.Helper()

	workers := &memWorkerStore{workers: map[int64]model.Worker{}}
	tokens := &memTokenStore{records: map[int64]model.RefreshTokenRecord{}}
	programs := &memProgramRepo{programs: map[int64]model.Program{}}

	authService, err := service.NewAuthService(
		"access-secret-0123456789-0123456789-abc",
		"refresh-secret-0123456789-0123456789-xyz",
		15*time.Minute, 7*24*time.Hour, workers, tokens,
	)
	require.NoError(t, err)

	workerService := service.NewWorkerService(workers, tokens)
	programService := service.NewProgramService(programs)

	cfg := &config.Config{
		RequestTimeout:   30 * time.Second,
		CORSOrigins:      []string{"*"},
		RateLimitRPM:     100000,
		AuthRateLimitRPM: 100000,
	}

	mux := New(cfg, middleware.NewAuthMiddleware(authService, workers), metrics.New(), Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Worker:  handler.NewWorkerHandler(workerService),
		Program: handler.NewProgramHandler(programService),
		Lookup:  handler.NewLookupHandler(memLookups{}),
		Health:  handler.NewHealthHandler(healthyDB{}),
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, workers
}

func postJSON(t *testing.T, url string, accessToken string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeData[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.True(t, envelope.Success)

	var data T
	require.NoError(t, json.Unmarshal(envelope.Data, &data))
	return data
}

func TestAdminSessionLifecycle(t *testing.T) {
	srv, workers := newTestServer(t)

	seedWorker(t, workers, "ADMIN001", "admin-password", model.Role{
		RoleID:          1,
		RoleDescription: "Administrator",
		Permissions:     model.ParsePermissions(`*`),
	})

	// Login as the bootstrap administrator.
	resp := postJSON(t, srv.URL+"/api/v1/auth/login", "", model.LoginRequest{
		EmployeeID: "ADMIN001",
		Password:   "admin-password",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decodeData[model.LoginResult](t, resp)
	require.Equal(t, "Administrator", login.User.Role)
	require.NotEmpty(t, login.AccessToken)
	require.NotEmpty(t, login.RefreshToken)

	// The wildcard role clears the create_program gate.
	resp = postJSON(t, srv.URL+"/api/v1/programs", login.AccessToken, model.CreateProgramRequest{
		WorkYear:          2026,
		RequiredQuarter:   "Q3/26",
		Title:             "Server room cooling upgrade",
		RequesterWorkerID: 1,
		DepartmentID:      1,
		DomainID:          1,
		EngagementTypeID:  1,
		PlanningSource:    model.PlanningSourceAnnual,
		ComplexityLevel:   1,
		StatusKey:         "draft",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeData[model.Program](t, resp)
	require.NotZero(t, created.ProgramID)

	// Rotate the session. The new pair is distinct and usable.
	resp = postJSON(t, srv.URL+"/api/v1/auth/refresh", "", model.RefreshRequest{RefreshToken: login.RefreshToken})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	pair := decodeData[model.TokenPair](t, resp)
	require.NotEqual(t, login.RefreshToken, pair.RefreshToken)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/auth/me", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	meResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	profile := decodeData[model.WorkerProfile](t, meResp)
	require.Equal(t, "ADMIN001", profile.EmployeeID)

	// The rotated-out token is dead.
	resp = postJSON(t, srv.URL+"/api/v1/auth/refresh", "", model.RefreshRequest{RefreshToken: login.RefreshToken})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestPermissionGateOverHTTP(t *testing.T) {
	srv, workers := newTestServer(t)

	seedWorker(t, workers, "VIEW001", "viewer-password", model.Role{
		RoleID:          2,
		RoleDescription: "Viewer",
		Permissions:     model.ParsePermissions(`["view_program"]`),
	})

	resp := postJSON(t, srv.URL+"/api/v1/auth/login", "", model.LoginRequest{
		EmployeeID: "VIEW001",
		Password:   "viewer-password",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decodeData[model.LoginResult](t, resp)

	// Authenticated but unauthorized: listing is open to any logged-in
	// worker, creating requires create_program.
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/programs/", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	listResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	listResp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/v1/programs", login.AccessToken, model.CreateProgramRequest{
		WorkYear:          2026,
		RequiredQuarter:   "Q1/26",
		Title:             "Should be rejected",
		RequesterWorkerID: 1,
		DepartmentID:      1,
		DomainID:          1,
		EngagementTypeID:  1,
		PlanningSource:    model.PlanningSourceAnnual,
		ComplexityLevel:   1,
		StatusKey:         "draft",
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	var envelope model.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	resp.Body.Close()
	require.False(t, envelope.Success)
	require.Equal(t, "FORBIDDEN", envelope.Error.Code)

	// No token at all never reaches the permission check.
	resp = postJSON(t, srv.URL+"/api/v1/programs", "", model.CreateProgramRequest{})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}
