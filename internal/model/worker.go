package model

import (
	"encoding/json"
	"strings"
	"time"
)

type Worker struct {
	WorkerID          int64     `json:"worker_id"`
	EmployeeID        string    `json:"employee_id"`
	FullName          string    `json:"full_name"`
	JobDescription    string    `json:"job_description"`
	Email             string    `json:"email"`
	PasswordHash      string    `json:"-"`
	AvailableWorkDays int       `json:"available_work_days"`
	DivisionID        int64     `json:"division_id"`
	DepartmentID      int64     `json:"department_id"`
	TeamID            int64     `json:"team_id"`
	RoleID            int64     `json:"role_id"`
	Role              Role      `json:"role"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type Role struct {
	RoleID          int64         `json:"role_id"`
	RoleDescription string        `json:"role_description"`
	Permissions     PermissionSet `json:"permissions"`
}

// PermissionSet is the parsed form of a role's stored permission field. The
// raw column holds either a JSON array of permission strings or a single bare
// string; parsing happens once, when the role is loaded, so authorization
// checks never touch the raw representation.
type PermissionSet struct {
	Wildcard bool
	names    map[string]struct{}
}

// ParsePermissions normalizes a raw role_permissions value into a
// PermissionSet. A single "*" entry (bare or inside the array) grants
// everything. Malformed JSON falls back to treating the value as one bare
// permission name, matching how the data was written historically.
func ParsePermissions(raw string) PermissionSet {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return PermissionSet{names: map[string]struct{}{}}
	}

	var entries []string
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		entries = []string{raw}
	}

	set := PermissionSet{names: make(map[string]struct{}, len(entries))}
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if entry == "*" {
			set.Wildcard = true
			continue
		}
		set.names[entry] = struct{}{}
	}

	return set
}

func (p PermissionSet) Has(permission string) bool {
	if p.Wildcard {
		return true
	}
	_, ok := p.names[permission]
	return ok
}

// HasAll reports whether every required permission is granted. An empty
// requirement always passes.
func (p PermissionSet) HasAll(required []string) bool {
	for _, permission := range required {
		if !p.Has(permission) {
			return false
		}
	}
	return true
}

// Names returns the explicit permission names in no particular order. The
// wildcard is rendered as "*" so diagnostics show what the caller holds.
func (p PermissionSet) Names() []string {
	out := make([]string, 0, len(p.names)+1)
	if p.Wildcard {
		out = append(out, "*")
	}
	for name := range p.names {
		out = append(out, name)
	}
	return out
}

func (p PermissionSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Names())
}

// WorkerProfile is the public projection returned by auth and worker
// endpoints. It never carries the password hash.
type WorkerProfile struct {
	WorkerID   int64  `json:"worker_id"`
	EmployeeID string `json:"employee_id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
}

func (w Worker) Profile() WorkerProfile {
	return WorkerProfile{
		WorkerID:   w.WorkerID,
		EmployeeID: w.EmployeeID,
		FullName:   w.FullName,
		Email:      w.Email,
		Role:       w.Role.RoleDescription,
	}
}

type WorkersFilter struct {
	EmployeeID   string
	FullName     string
	DivisionID   int64
	DepartmentID int64
	TeamID       int64
	RoleID       int64
}
