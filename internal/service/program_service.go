package service

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"projector-backend/internal/model"
	"projector-backend/pkg/apierror"
)

var quarterPattern = regexp.MustCompile(`^Q[1-4]/[0-9]{2}$`)

type ProgramRepo interface {
	FindByID(ctx context.Context, id int64) (model.Program, error)
	List(ctx context.Context, filter model.ProgramsFilter, offset int, limit int, sortBy string, sortOrder string) ([]model.Program, int, error)
	Create(ctx context.Context, p model.Program) (int64, error)
	Update(ctx context.Context, p model.Program) error
	Delete(ctx context.Context, id int64) error
}

type ProgramService struct {
	repo ProgramRepo
}

func NewProgramService(repo ProgramRepo) *ProgramService {
	return &ProgramService{repo: repo}
}

func (s *ProgramService) GetByID(ctx context.Context, id int64) (model.Program, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ProgramService) List(ctx context.Context, filter model.ProgramsFilter, page int, limit int, sortBy string, sortOrder string) ([]model.Program, *model.Meta, error) {
	page, limit = normalizePage(page, limit)

	programs, total, err := s.repo.List(ctx, filter, (page-1)*limit, limit, sortBy, sortOrder)
	if err != nil {
		return nil, nil, err
	}
	return programs, model.NewMeta(page, limit, total), nil
}

func (s *ProgramService) Create(ctx context.Context, req model.CreateProgramRequest) (model.Program, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return model.Program{}, apierror.BadRequest("title is required", "")
	}
	if req.RequesterWorkerID <= 0 || req.DepartmentID <= 0 || req.DomainID <= 0 || req.EngagementTypeID <= 0 {
		return model.Program{}, apierror.BadRequest("requester_worker_id, department_id, domain_id and engagement_type_id are required", "")
	}
	if err := validateProgramFields(req.RequiredQuarter, req.PlanningSource, req.ComplexityLevel, req.StartRequiredMonth); err != nil {
		return model.Program{}, err
	}

	program := model.Program{
		WorkYear:           req.WorkYear,
		RequiredQuarter:    req.RequiredQuarter,
		Title:              req.Title,
		Description:        req.Description,
		RequesterWorkerID:  req.RequesterWorkerID,
		AssigneeWorkerID:   req.AssigneeWorkerID,
		DepartmentID:       req.DepartmentID,
		DomainID:           req.DomainID,
		EstimatedAmount:    req.EstimatedAmount,
		Currency:           req.Currency,
		PossibleSuppliers:  req.PossibleSuppliers,
		Notes:              req.Notes,
		PlanningSource:     req.PlanningSource,
		ComplexityLevel:    req.ComplexityLevel,
		EngagementTypeID:   req.EngagementTypeID,
		StatusKey:          req.StatusKey,
		StartRequiredMonth: req.StartRequiredMonth,
		PlanningComment:    req.PlanningComment,
		AssigneeComment:    req.AssigneeComment,
	}

	id, err := s.repo.Create(ctx, program)
	if err != nil {
		return model.Program{}, err
	}

	slog.Info("program created", "program_id", id, "title", req.Title)
	return s.repo.FindByID(ctx, id)
}

func (s *ProgramService) Update(ctx context.Context, id int64, req model.UpdateProgramRequest) (model.Program, error) {
	program, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return model.Program{}, err
	}

	if req.WorkYear != nil {
		program.WorkYear = *req.WorkYear
	}
	if req.RequiredQuarter != nil {
		program.RequiredQuarter = *req.RequiredQuarter
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return model.Program{}, apierror.BadRequest("title cannot be empty", "")
		}
		program.Title = title
	}
	if req.Description != nil {
		program.Description = *req.Description
	}
	if req.AssigneeWorkerID != nil {
		program.AssigneeWorkerID = req.AssigneeWorkerID
	}
	if req.DepartmentID != nil {
		program.DepartmentID = *req.DepartmentID
	}
	if req.DomainID != nil {
		program.DomainID = *req.DomainID
	}
	if req.EstimatedAmount != nil {
		program.EstimatedAmount = *req.EstimatedAmount
	}
	if req.Currency != nil {
		program.Currency = *req.Currency
	}
	if req.PossibleSuppliers != nil {
		program.PossibleSuppliers = *req.PossibleSuppliers
	}
	if req.Notes != nil {
		program.Notes = *req.Notes
	}
	if req.PlanningSource != nil {
		program.PlanningSource = *req.PlanningSource
	}
	if req.ComplexityLevel != nil {
		program.ComplexityLevel = *req.ComplexityLevel
	}
	if req.EngagementTypeID != nil {
		program.EngagementTypeID = *req.EngagementTypeID
	}
	if req.StatusKey != nil {
		program.StatusKey = *req.StatusKey
	}
	if req.StartRequiredMonth != nil {
		program.StartRequiredMonth = req.StartRequiredMonth
	}
	if req.PlanningComment != nil {
		program.PlanningComment = *req.PlanningComment
	}
	if req.AssigneeComment != nil {
		program.AssigneeComment = *req.AssigneeComment
	}

	if err := validateProgramFields(program.RequiredQuarter, program.PlanningSource, program.ComplexityLevel, program.StartRequiredMonth); err != nil {
		return model.Program{}, err
	}

	if err := s.repo.Update(ctx, program); err != nil {
		return model.Program{}, err
	}

	slog.Info("program updated", "program_id", id)
	return s.repo.FindByID(ctx, id)
}

func (s *ProgramService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("program deleted", "program_id", id)
	return nil
}

func validateProgramFields(quarter string, planningSource string, complexity int, startMonth *int) error {
	if !quarterPattern.MatchString(quarter) {
		return apierror.BadRequest("invalid quarter format, expected Q1/24 through Q4/99", quarter)
	}

	switch planningSource {
	case model.PlanningSourceAnnual, model.PlanningSourceUnplanned, model.PlanningSourceCarryOver:
	default:
		return apierror.BadRequest("planning_source must be Annual, Unplanned or CarryOver", planningSource)
	}

	if complexity < 1 || complexity > 3 {
		return apierror.BadRequest("complexity_level must be between 1 and 3", "")
	}

	if startMonth != nil && (*startMonth < 1 || *startMonth > 12) {
		return apierror.BadRequest("start_required_month must be between 1 and 12", "")
	}

	return nil
}
