package model

import "time"

// Planning sources accepted for a program.
const (
	PlanningSourceAnnual    = "Annual"
	PlanningSourceUnplanned = "Unplanned"
	PlanningSourceCarryOver = "CarryOver"
)

type Program struct {
	ProgramID          int64      `json:"program_id"`
	WorkYear           int        `json:"work_year"`
	RequiredQuarter    string     `json:"required_quarter"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	RequesterWorkerID  int64      `json:"requester_worker_id"`
	AssigneeWorkerID   *int64     `json:"assignee_worker_id,omitempty"`
	DepartmentID       int64      `json:"department_id"`
	DomainID           int64      `json:"domain_id"`
	EstimatedAmount    float64    `json:"estimated_amount"`
	Currency           string     `json:"currency"`
	PossibleSuppliers  string     `json:"possible_suppliers"`
	Notes              string     `json:"notes,omitempty"`
	PlanningSource     string     `json:"planning_source"`
	ComplexityLevel    int        `json:"complexity_level"`
	EngagementTypeID   int64      `json:"engagement_type_id"`
	StatusKey          string     `json:"status_key"`
	StartRequiredMonth *int       `json:"start_required_month,omitempty"`
	PlanningComment    string     `json:"planning_comment,omitempty"`
	AssigneeComment    string     `json:"assignee_comment,omitempty"`
	Requester          WorkerRef  `json:"requester_worker"`
	Assignee           *WorkerRef `json:"assignee_worker,omitempty"`
	StatusLabel        string     `json:"status_label"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// WorkerRef is the compact worker projection embedded in program responses.
type WorkerRef struct {
	WorkerID   int64  `json:"worker_id"`
	EmployeeID string `json:"employee_id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
}

type ProgramsFilter struct {
	WorkYear          int
	RequiredQuarter   string
	Title             string
	StatusKey         string
	DomainID          int64
	EngagementTypeID  int64
	DepartmentID      int64
	AssigneeWorkerID  int64
	RequesterWorkerID int64
	PlanningSource    string
	ComplexityLevel   int
}

// Lookup dictionary rows.
type Division struct {
	DivisionID   int64  `json:"division_id"`
	DivisionName string `json:"division_name"`
}

type Department struct {
	DepartmentID   int64  `json:"department_id"`
	DepartmentName string `json:"department_name"`
	DivisionID     int64  `json:"division_id"`
}

type Team struct {
	TeamID       int64  `json:"team_id"`
	TeamName     string `json:"team_name"`
	DepartmentID int64  `json:"department_id"`
}

type RoleRef struct {
	RoleID          int64  `json:"role_id"`
	RoleDescription string `json:"role_description"`
}

type ProgramDomain struct {
	DomainID   int64  `json:"domain_id"`
	DomainName string `json:"domain_name"`
}

type EngagementType struct {
	EngagementTypeID   int64  `json:"engagement_type_id"`
	EngagementTypeName string `json:"engagement_type_name"`
}

type Status struct {
	StatusKey    string `json:"status_key"`
	DisplayLabel string `json:"display_label"`
}

type Lookups struct {
	Divisions       []Division       `json:"divisions"`
	Departments     []Department     `json:"departments"`
	Teams           []Team           `json:"teams"`
	Roles           []RoleRef        `json:"roles"`
	Domains         []ProgramDomain  `json:"domains"`
	EngagementTypes []EngagementType `json:"engagement_types"`
	Statuses        []Status         `json:"statuses"`
}
