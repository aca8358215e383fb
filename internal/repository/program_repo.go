package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"projector-backend/internal/model"
)

const programColumns = `
	p.program_id, p.work_year, p.required_quarter, p.title, p.description,
	p.requester_worker_id, p.assignee_worker_id, p.department_id, p.domain_id,
	p.estimated_amount, p.currency, p.possible_suppliers, p.notes,
	p.planning_source, p.complexity_level, p.engagement_type_id, p.status_key,
	p.start_required_month, p.planning_comment, p.assignee_comment,
	p.created_at, p.updated_at,
	rq.worker_id, rq.employee_id, rq.full_name, rq.email,
	asg.worker_id, asg.employee_id, asg.full_name, asg.email,
	s.display_label`

const programJoins = `
	 FROM programs p
	 JOIN workers rq ON rq.worker_id = p.requester_worker_id
	 LEFT JOIN workers asg ON asg.worker_id = p.assignee_worker_id
	 JOIN statuses s ON s.status_key = p.status_key`

type ProgramRepository struct {
	pool *pgxpool.Pool
}

func NewProgramRepository(pool *pgxpool.Pool) *ProgramRepository {
	return &ProgramRepository{pool: pool}
}

func scanProgram(row pgx.Row) (model.Program, error) {
	var p model.Program
	var asgID *int64
	var asgEmployeeID, asgFullName, asgEmail *string

	err := row.Scan(
		&p.ProgramID, &p.WorkYear, &p.RequiredQuarter, &p.Title, &p.Description,
		&p.RequesterWorkerID, &p.AssigneeWorkerID, &p.DepartmentID, &p.DomainID,
		&p.EstimatedAmount, &p.Currency, &p.PossibleSuppliers, &p.Notes,
		&p.PlanningSource, &p.ComplexityLevel, &p.EngagementTypeID, &p.StatusKey,
		&p.StartRequiredMonth, &p.PlanningComment, &p.AssigneeComment,
		&p.CreatedAt, &p.UpdatedAt,
		&p.Requester.WorkerID, &p.Requester.EmployeeID, &p.Requester.FullName, &p.Requester.Email,
		&asgID, &asgEmployeeID, &asgFullName, &asgEmail,
		&p.StatusLabel)
	if err != nil {
		return model.Program{}, err
	}

	if asgID != nil {
		p.Assignee = &model.WorkerRef{
			WorkerID:   *asgID,
			EmployeeID: *asgEmployeeID,
			FullName:   *asgFullName,
			Email:      *asgEmail,
		}
	}
	return p, nil
}

func (r *ProgramRepository) FindByID(ctx context.Context, id int64) (model.Program, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+programColumns+programJoins+` WHERE p.program_id = $1`, id)

	p, err := scanProgram(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Program{}, model.ErrProgramNotFound
	}
	if err != nil {
		return model.Program{}, fmt.Errorf("find program by id: %w", err)
	}
	return p, nil
}

func (r *ProgramRepository) List(ctx context.Context, filter model.ProgramsFilter, offset int, limit int, sortBy string, sortOrder string) ([]model.Program, int, error) {
	where, args := buildProgramsWhere(filter)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM programs p`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count programs: %w", err)
	}

	query := `SELECT ` + programColumns + programJoins + where +
		` ORDER BY ` + programSortColumn(sortBy) + ` ` + sortDirection(sortOrder) +
		fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list programs: %w", err)
	}
	defer rows.Close()

	programs := make([]model.Program, 0)
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan program: %w", err)
		}
		programs = append(programs, p)
	}
	return programs, total, rows.Err()
}

func buildProgramsWhere(filter model.ProgramsFilter) (string, []any) {
	clauses := make([]string, 0, 8)
	args := make([]any, 0, 8)

	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filter.WorkYear > 0 {
		add("p.work_year = $%d", filter.WorkYear)
	}
	if filter.RequiredQuarter != "" {
		add("p.required_quarter = $%d", filter.RequiredQuarter)
	}
	if filter.Title != "" {
		add("p.title ILIKE $%d", "%"+filter.Title+"%")
	}
	if filter.StatusKey != "" {
		add("p.status_key = $%d", filter.StatusKey)
	}
	if filter.DomainID > 0 {
		add("p.domain_id = $%d", filter.DomainID)
	}
	if filter.EngagementTypeID > 0 {
		add("p.engagement_type_id = $%d", filter.EngagementTypeID)
	}
	if filter.DepartmentID > 0 {
		add("p.department_id = $%d", filter.DepartmentID)
	}
	if filter.AssigneeWorkerID > 0 {
		add("p.assignee_worker_id = $%d", filter.AssigneeWorkerID)
	}
	if filter.RequesterWorkerID > 0 {
		add("p.requester_worker_id = $%d", filter.RequesterWorkerID)
	}
	if filter.PlanningSource != "" {
		add("p.planning_source = $%d", filter.PlanningSource)
	}
	if filter.ComplexityLevel > 0 {
		add("p.complexity_level = $%d", filter.ComplexityLevel)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func programSortColumn(sortBy string) string {
	switch sortBy {
	case "work_year":
		return "p.work_year"
	case "title":
		return "p.title"
	case "estimated_amount":
		return "p.estimated_amount"
	case "updated_at":
		return "p.updated_at"
	default:
		return "p.created_at"
	}
}

func (r *ProgramRepository) Create(ctx context.Context, p model.Program) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO programs (work_year, required_quarter, title, description,
		                       requester_worker_id, assignee_worker_id, department_id, domain_id,
		                       estimated_amount, currency, possible_suppliers, notes,
		                       planning_source, complexity_level, engagement_type_id, status_key,
		                       start_required_month, planning_comment, assignee_comment,
		                       created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $20)
		 RETURNING program_id`,
		p.WorkYear, p.RequiredQuarter, p.Title, p.Description,
		p.RequesterWorkerID, p.AssigneeWorkerID, p.DepartmentID, p.DomainID,
		p.EstimatedAmount, p.Currency, p.PossibleSuppliers, p.Notes,
		p.PlanningSource, p.ComplexityLevel, p.EngagementTypeID, p.StatusKey,
		p.StartRequiredMonth, p.PlanningComment, p.AssigneeComment,
		time.Now().UTC()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create program: %w", err)
	}
	return id, nil
}

func (r *ProgramRepository) Update(ctx context.Context, p model.Program) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE programs
		 SET work_year = $2, required_quarter = $3, title = $4, description = $5,
		     assignee_worker_id = $6, department_id = $7, domain_id = $8,
		     estimated_amount = $9, currency = $10, possible_suppliers = $11, notes = $12,
		     planning_source = $13, complexity_level = $14, engagement_type_id = $15,
		     status_key = $16, start_required_month = $17, planning_comment = $18,
		     assignee_comment = $19, updated_at = $20
		 WHERE program_id = $1`,
		p.ProgramID, p.WorkYear, p.RequiredQuarter, p.Title, p.Description,
		p.AssigneeWorkerID, p.DepartmentID, p.DomainID,
		p.EstimatedAmount, p.Currency, p.PossibleSuppliers, p.Notes,
		p.PlanningSource, p.ComplexityLevel, p.EngagementTypeID,
		p.StatusKey, p.StartRequiredMonth, p.PlanningComment,
		p.AssigneeComment, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update program: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProgramNotFound
	}
	return nil
}

func (r *ProgramRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM programs WHERE program_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete program: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProgramNotFound
	}
	return nil
}
