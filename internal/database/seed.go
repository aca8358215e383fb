package database

import (
	"context"
	"fmt"
	"log/slog"

	"projector-backend/internal/util"
)

// Seed upserts the dictionary tables and, when the workers table is empty,
// creates the bootstrap administrator ADMIN001. The administrator role holds
// the wildcard permission; other roles carry explicit JSON permission arrays.
func (db *DB) Seed(ctx context.Context, adminPassword string) error {
	statuses := [][2]string{
		{"DRAFT", "Draft"},
		{"SUBMITTED", "Submitted"},
		{"UNDER_REVIEW", "Under Review"},
		{"APPROVED", "Approved"},
		{"REJECTED", "Rejected"},
		{"IN_PROGRESS", "In Progress"},
		{"COMPLETED", "Completed"},
		{"CANCELLED", "Cancelled"},
	}
	for _, s := range statuses {
		if _, err := db.Pool.Exec(ctx, `
			INSERT INTO statuses (status_key, display_label) VALUES ($1, $2)
			ON CONFLICT (status_key) DO UPDATE SET display_label = EXCLUDED.display_label
		`, s[0], s[1]); err != nil {
			return fmt.Errorf("seed status %s: %w", s[0], err)
		}
	}

	for _, name := range []string{"IT", "Logistics", "Facilities", "Professional Services"} {
		if _, err := db.Pool.Exec(ctx, `
			INSERT INTO program_domains (domain_name) VALUES ($1) ON CONFLICT (domain_name) DO NOTHING
		`, name); err != nil {
			return fmt.Errorf("seed domain %s: %w", name, err)
		}
	}

	for _, name := range []string{"Tender", "Framework Agreement", "Direct Purchase", "RFP"} {
		if _, err := db.Pool.Exec(ctx, `
			INSERT INTO engagement_types (engagement_type_name) VALUES ($1)
			ON CONFLICT (engagement_type_name) DO NOTHING
		`, name); err != nil {
			return fmt.Errorf("seed engagement type %s: %w", name, err)
		}
	}

	roles := [][2]string{
		{"Administrator", `*`},
		{"Procurement Manager", `["create_program","update_program","delete_program","create_worker","update_worker"]`},
		{"Requester", `["create_program"]`},
		{"Viewer", `[]`},
	}
	for _, r := range roles {
		if _, err := db.Pool.Exec(ctx, `
			INSERT INTO roles (role_description, role_permissions) VALUES ($1, $2)
			ON CONFLICT (role_description) DO UPDATE SET role_permissions = EXCLUDED.role_permissions
		`, r[0], r[1]); err != nil {
			return fmt.Errorf("seed role %s: %w", r[0], err)
		}
	}

	var workerCount int
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM workers`).Scan(&workerCount); err != nil {
		return fmt.Errorf("count workers: %w", err)
	}
	if workerCount > 0 {
		return nil
	}

	if adminPassword == "" {
		slog.Warn("workers table is empty and SEED_ADMIN_PASSWORD is not set; skipping bootstrap administrator")
		return nil
	}

	hash, err := util.HashSecret(adminPassword)
	if err != nil {
		return fmt.Errorf("hash bootstrap password: %w", err)
	}

	if _, err := db.Pool.Exec(ctx, `
		WITH div AS (
			INSERT INTO divisions (division_name) VALUES ('Head Office')
			ON CONFLICT (division_name) DO UPDATE SET division_name = EXCLUDED.division_name
			RETURNING division_id
		), dep AS (
			INSERT INTO departments (department_name, division_id)
			SELECT 'Procurement', division_id FROM div
			ON CONFLICT (department_name, division_id) DO UPDATE SET department_name = EXCLUDED.department_name
			RETURNING department_id, division_id
		), tm AS (
			INSERT INTO teams (team_name, department_id)
			SELECT 'Operations', department_id FROM dep
			ON CONFLICT (team_name, department_id) DO UPDATE SET team_name = EXCLUDED.team_name
			RETURNING team_id, department_id
		)
		INSERT INTO workers (employee_id, full_name, job_description, email, password_hash,
		                     division_id, department_id, team_id, role_id)
		SELECT 'ADMIN001', 'System Administrator', 'Administration', 'admin@example.com', $1,
		       dep.division_id, dep.department_id, tm.team_id, r.role_id
		FROM dep, tm, roles r
		WHERE r.role_description = 'Administrator'
	`, hash); err != nil {
		return fmt.Errorf("seed bootstrap administrator: %w", err)
	}

	slog.Info("seeded bootstrap administrator", "employee_id", "ADMIN001")
	return nil
}
