package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"projector-backend/internal/model"
)

// LookupRepository reads the dictionary tables the dashboard uses to populate
// filter dropdowns. All reads are ordered for stable rendering.
type LookupRepository struct {
	pool *pgxpool.Pool
}

func NewLookupRepository(pool *pgxpool.Pool) *LookupRepository {
	return &LookupRepository{pool: pool}
}

func (r *LookupRepository) All(ctx context.Context) (model.Lookups, error) {
	var out model.Lookups

	rows, err := r.pool.Query(ctx, `SELECT division_id, division_name FROM divisions ORDER BY division_name`)
	if err != nil {
		return out, fmt.Errorf("list divisions: %w", err)
	}
	for rows.Next() {
		var d model.Division
		if err := rows.Scan(&d.DivisionID, &d.DivisionName); err != nil {
			rows.Close()
			return out, fmt.Errorf("scan division: %w", err)
		}
		out.Divisions = append(out.Divisions, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return out, err
	}

	rows, err = r.pool.Query(ctx, `SELECT department_id, department_name, division_id FROM departments ORDER BY department_name`)
	if err != nil {
		return out, fmt.Errorf("list departments: %w", err)
	}
	for rows.Next() {
		var d model.Department
		if err := rows.Scan(&d.DepartmentID, &d.DepartmentName, &d.DivisionID); err != nil {
			rows.Close()
			return out, fmt.Errorf("scan department: %w", err)
		}
		out.Departments = append(out.Departments, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return out, err
	}

	rows, err = r.pool.Query(ctx, `SELECT team_id, team_name, department_id FROM teams ORDER BY team_name`)
	if err != nil {
		return out, fmt.Errorf("list teams: %w", err)
	}
	for rows.Next() {
		var t model.Team
		if err := rows.Scan(&t.TeamID, &t.TeamName, &t.DepartmentID); err != nil {
			rows.Close()
			return out, fmt.Errorf("scan team: %w", err)
		}
		out.Teams = append(out.Teams, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return out, err
	}

	rows, err = r.pool.Query(ctx, `SELECT role_id, role_description FROM roles ORDER BY role_description`)
	if err != nil {
		return out, fmt.Errorf("list roles: %w", err)
	}
	for rows.Next() {
		var role model.RoleRef
		if err := rows.Scan(&role.RoleID, &role.RoleDescription); err != nil {
			rows.Close()
			return out, fmt.Errorf("scan role: %w", err)
		}
		out.Roles = append(out.Roles, role)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return out, err
	}

	rows, err = r.pool.Query(ctx, `SELECT domain_id, domain_name FROM program_domains ORDER BY domain_name`)
	if err != nil {
		return out, fmt.Errorf("list domains: %w", err)
	}
	for rows.Next() {
		var d model.ProgramDomain
		if err := rows.Scan(&d.DomainID, &d.DomainName); err != nil {
			rows.Close()
			return out, fmt.Errorf("scan domain: %w", err)
		}
		out.Domains = append(out.Domains, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return out, err
	}

	rows, err = r.pool.Query(ctx, `SELECT engagement_type_id, engagement_type_name FROM engagement_types ORDER BY engagement_type_name`)
	if err != nil {
		return out, fmt.Errorf("list engagement types: %w", err)
	}
	for rows.Next() {
		var e model.EngagementType
		if err := rows.Scan(&e.EngagementTypeID, &e.EngagementTypeName); err != nil {
			rows.Close()
			return out, fmt.Errorf("scan engagement type: %w", err)
		}
		out.EngagementTypes = append(out.EngagementTypes, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return out, err
	}

	rows, err = r.pool.Query(ctx, `SELECT status_key, display_label FROM statuses ORDER BY status_key`)
	if err != nil {
		return out, fmt.Errorf("list statuses: %w", err)
	}
	for rows.Next() {
		var s model.Status
		if err := rows.Scan(&s.StatusKey, &s.DisplayLabel); err != nil {
			rows.Close()
			return out, fmt.Errorf("scan status: %w", err)
		}
		out.Statuses = append(out.Statuses, s)
	}
	rows.Close()
	return out, rows.Err()
}
