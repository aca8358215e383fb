package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"projector-backend/internal/model"
	"projector-backend/internal/util"
	"projector-backend/pkg/apierror"
)

type WorkerRepo interface {
	FindByID(ctx context.Context, id int64) (model.Worker, error)
	List(ctx context.Context, filter model.WorkersFilter, offset int, limit int, sortBy string, sortOrder string) ([]model.Worker, int, error)
	ExistsByEmployeeID(ctx context.Context, employeeID string) (bool, error)
	Create(ctx context.Context, w model.Worker) (int64, error)
	Update(ctx context.Context, w model.Worker) error
	Delete(ctx context.Context, id int64) error
}

// SessionRevoker drops every refresh token record for a worker. Used when a
// worker is deleted so their outstanding sessions cannot be refreshed.
type SessionRevoker interface {
	DeleteAllForWorker(ctx context.Context, workerID int64) error
}

type WorkerService struct {
	repo     WorkerRepo
	sessions SessionRevoker
}

func NewWorkerService(repo WorkerRepo, sessions SessionRevoker) *WorkerService {
	return &WorkerService{repo: repo, sessions: sessions}
}

func (s *WorkerService) GetByID(ctx context.Context, id int64) (model.Worker, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *WorkerService) List(ctx context.Context, filter model.WorkersFilter, page int, limit int, sortBy string, sortOrder string) ([]model.Worker, *model.Meta, error) {
	page, limit = normalizePage(page, limit)

	workers, total, err := s.repo.List(ctx, filter, (page-1)*limit, limit, sortBy, sortOrder)
	if err != nil {
		return nil, nil, err
	}
	return workers, model.NewMeta(page, limit, total), nil
}

func (s *WorkerService) Create(ctx context.Context, req model.CreateWorkerRequest) (model.Worker, error) {
	req.EmployeeID = strings.TrimSpace(req.EmployeeID)
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(req.Email)

	if req.EmployeeID == "" || req.FullName == "" || req.Password == "" {
		return model.Worker{}, apierror.BadRequest("employee_id, full_name and password are required", "")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return model.Worker{}, apierror.BadRequest("invalid email address", req.Email)
	}
	if req.DivisionID <= 0 || req.DepartmentID <= 0 || req.TeamID <= 0 || req.RoleID <= 0 {
		return model.Worker{}, apierror.BadRequest("division_id, department_id, team_id and role_id are required", "")
	}

	exists, err := s.repo.ExistsByEmployeeID(ctx, req.EmployeeID)
	if err != nil {
		return model.Worker{}, err
	}
	if exists {
		return model.Worker{}, model.ErrEmployeeIDTaken
	}

	hash, err := util.HashSecret(req.Password)
	if err != nil {
		return model.Worker{}, fmt.Errorf("hash password: %w", err)
	}

	workDays := req.AvailableWorkDays
	if workDays <= 0 {
		workDays = 5
	}

	worker := model.Worker{
		EmployeeID:        req.EmployeeID,
		FullName:          req.FullName,
		JobDescription:    strings.TrimSpace(req.JobDescription),
		Email:             req.Email,
		PasswordHash:      hash,
		AvailableWorkDays: workDays,
		DivisionID:        req.DivisionID,
		DepartmentID:      req.DepartmentID,
		TeamID:            req.TeamID,
		RoleID:            req.RoleID,
	}

	id, err := s.repo.Create(ctx, worker)
	if err != nil {
		return model.Worker{}, err
	}

	slog.Info("worker created", "worker_id", id, "employee_id", req.EmployeeID)
	return s.repo.FindByID(ctx, id)
}

func (s *WorkerService) Update(ctx context.Context, id int64, req model.UpdateWorkerRequest) (model.Worker, error) {
	worker, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return model.Worker{}, err
	}

	if req.FullName != nil {
		worker.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.JobDescription != nil {
		worker.JobDescription = strings.TrimSpace(*req.JobDescription)
	}
	if req.Email != nil {
		if _, err := mail.ParseAddress(*req.Email); err != nil {
			return model.Worker{}, apierror.BadRequest("invalid email address", *req.Email)
		}
		worker.Email = strings.TrimSpace(*req.Email)
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := util.HashSecret(*req.Password)
		if err != nil {
			return model.Worker{}, fmt.Errorf("hash password: %w", err)
		}
		worker.PasswordHash = hash
	}
	if req.AvailableWorkDays != nil {
		worker.AvailableWorkDays = *req.AvailableWorkDays
	}
	if req.DivisionID != nil {
		worker.DivisionID = *req.DivisionID
	}
	if req.DepartmentID != nil {
		worker.DepartmentID = *req.DepartmentID
	}
	if req.TeamID != nil {
		worker.TeamID = *req.TeamID
	}
	if req.RoleID != nil {
		worker.RoleID = *req.RoleID
	}

	if err := s.repo.Update(ctx, worker); err != nil {
		return model.Worker{}, err
	}

	slog.Info("worker updated", "worker_id", id)
	return s.repo.FindByID(ctx, id)
}

func (s *WorkerService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	// Outstanding refresh tokens for a deleted worker are dead weight at
	// best and a liability at worst.
	if err := s.sessions.DeleteAllForWorker(ctx, id); err != nil {
		slog.Error("failed to revoke sessions for deleted worker", "worker_id", id, "error", err)
	}

	slog.Info("worker deleted", "worker_id", id)
	return nil
}

func normalizePage(page int, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
