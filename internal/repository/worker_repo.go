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

const workerColumns = `
	w.worker_id, w.employee_id, w.full_name, w.job_description, w.email, w.password_hash,
	w.available_work_days, w.division_id, w.department_id, w.team_id, w.role_id,
	w.created_at, w.updated_at,
	r.role_id, r.role_description, r.role_permissions`

type WorkerRepository struct {
	pool *pgxpool.Pool
}

func NewWorkerRepository(pool *pgxpool.Pool) *WorkerRepository {
	return &WorkerRepository{pool: pool}
}

func scanWorker(row pgx.Row) (model.Worker, error) {
	var w model.Worker
	var rawPermissions string
	err := row.Scan(
		&w.WorkerID, &w.EmployeeID, &w.FullName, &w.JobDescription, &w.Email, &w.PasswordHash,
		&w.AvailableWorkDays, &w.DivisionID, &w.DepartmentID, &w.TeamID, &w.RoleID,
		&w.CreatedAt, &w.UpdatedAt,
		&w.Role.RoleID, &w.Role.RoleDescription, &rawPermissions)
	if err != nil {
		return model.Worker{}, err
	}

	// Permissions are normalized here, at the data-model boundary, so the
	// rest of the system only ever sees the parsed set.
	w.Role.Permissions = model.ParsePermissions(rawPermissions)
	return w, nil
}

func (r *WorkerRepository) FindByID(ctx context.Context, id int64) (model.Worker, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+workerColumns+`
		 FROM workers w JOIN roles r ON r.role_id = w.role_id
		 WHERE w.worker_id = $1`, id)

	w, err := scanWorker(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Worker{}, model.ErrWorkerNotFound
	}
	if err != nil {
		return model.Worker{}, fmt.Errorf("find worker by id: %w", err)
	}
	return w, nil
}

func (r *WorkerRepository) FindByEmployeeID(ctx context.Context, employeeID string) (model.Worker, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+workerColumns+`
		 FROM workers w JOIN roles r ON r.role_id = w.role_id
		 WHERE w.employee_id = $1`, strings.TrimSpace(employeeID))

	w, err := scanWorker(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Worker{}, model.ErrWorkerNotFound
	}
	if err != nil {
		return model.Worker{}, fmt.Errorf("find worker by employee id: %w", err)
	}
	return w, nil
}

func (r *WorkerRepository) List(ctx context.Context, filter model.WorkersFilter, offset int, limit int, sortBy string, sortOrder string) ([]model.Worker, int, error) {
	where, args := buildWorkersWhere(filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM workers w` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count workers: %w", err)
	}

	query := `SELECT ` + workerColumns + `
		 FROM workers w JOIN roles r ON r.role_id = w.role_id` + where +
		` ORDER BY ` + workerSortColumn(sortBy) + ` ` + sortDirection(sortOrder) +
		fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list workers: %w", err)
	}
	defer rows.Close()

	workers := make([]model.Worker, 0)
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan worker: %w", err)
		}
		workers = append(workers, w)
	}
	return workers, total, rows.Err()
}

func buildWorkersWhere(filter model.WorkersFilter) (string, []any) {
	clauses := make([]string, 0, 6)
	args := make([]any, 0, 6)

	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filter.EmployeeID != "" {
		add("w.employee_id = $%d", filter.EmployeeID)
	}
	if filter.FullName != "" {
		add("w.full_name ILIKE $%d", "%"+filter.FullName+"%")
	}
	if filter.DivisionID > 0 {
		add("w.division_id = $%d", filter.DivisionID)
	}
	if filter.DepartmentID > 0 {
		add("w.department_id = $%d", filter.DepartmentID)
	}
	if filter.TeamID > 0 {
		add("w.team_id = $%d", filter.TeamID)
	}
	if filter.RoleID > 0 {
		add("w.role_id = $%d", filter.RoleID)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func workerSortColumn(sortBy string) string {
	switch sortBy {
	case "employee_id":
		return "w.employee_id"
	case "full_name":
		return "w.full_name"
	case "updated_at":
		return "w.updated_at"
	default:
		return "w.created_at"
	}
}

func sortDirection(order string) string {
	if strings.EqualFold(order, "asc") {
		return "ASC"
	}
	return "DESC"
}

func (r *WorkerRepository) ExistsByEmployeeID(ctx context.Context, employeeID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM workers WHERE employee_id = $1)`,
		strings.TrimSpace(employeeID)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check employee id exists: %w", err)
	}
	return exists, nil
}

func (r *WorkerRepository) Create(ctx context.Context, w model.Worker) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO workers (employee_id, full_name, job_description, email, password_hash,
		                      available_work_days, division_id, department_id, team_id, role_id,
		                      created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
		 RETURNING worker_id`,
		w.EmployeeID, w.FullName, w.JobDescription, w.Email, w.PasswordHash,
		w.AvailableWorkDays, w.DivisionID, w.DepartmentID, w.TeamID, w.RoleID,
		time.Now().UTC()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create worker: %w", err)
	}
	return id, nil
}

func (r *WorkerRepository) Update(ctx context.Context, w model.Worker) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE workers
		 SET full_name = $2, job_description = $3, email = $4, password_hash = $5,
		     available_work_days = $6, division_id = $7, department_id = $8,
		     team_id = $9, role_id = $10, updated_at = $11
		 WHERE worker_id = $1`,
		w.WorkerID, w.FullName, w.JobDescription, w.Email, w.PasswordHash,
		w.AvailableWorkDays, w.DivisionID, w.DepartmentID, w.TeamID, w.RoleID,
		time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update worker: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrWorkerNotFound
	}
	return nil
}

func (r *WorkerRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM workers WHERE worker_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete worker: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrWorkerNotFound
	}
	return nil
}

// ListPasswordHashes returns every worker's stored password hash keyed by
// employee id. Used by the startup security audit.
func (r *WorkerRepository) ListPasswordHashes(ctx context.Context) (map[string]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT employee_id, password_hash FROM workers`)
	if err != nil {
		return nil, fmt.Errorf("list password hashes: %w", err)
	}
	defer rows.Close()

	hashes := make(map[string]string)
	for rows.Next() {
		var employeeID, hash string
		if err := rows.Scan(&employeeID, &hash); err != nil {
			return nil, fmt.Errorf("scan password hash: %w", err)
		}
		hashes[employeeID] = hash
	}
	return hashes, rows.Err()
}
