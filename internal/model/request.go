package model

type LoginRequest struct {
	EmployeeID string `json:"employee_id"`
	Password   string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type CreateWorkerRequest struct {
	EmployeeID        string `json:"employee_id"`
	FullName          string `json:"full_name"`
	JobDescription    string `json:"job_description"`
	Email             string `json:"email"`
	Password          string `json:"password"`
	AvailableWorkDays int    `json:"available_work_days"`
	DivisionID        int64  `json:"division_id"`
	DepartmentID      int64  `json:"department_id"`
	TeamID            int64  `json:"team_id"`
	RoleID            int64  `json:"role_id"`
}

// UpdateWorkerRequest uses pointers so absent fields are left untouched.
type UpdateWorkerRequest struct {
	FullName          *string `json:"full_name"`
	JobDescription    *string `json:"job_description"`
	Email             *string `json:"email"`
	Password          *string `json:"password"`
	AvailableWorkDays *int    `json:"available_work_days"`
	DivisionID        *int64  `json:"division_id"`
	DepartmentID      *int64  `json:"department_id"`
	TeamID            *int64  `json:"team_id"`
	RoleID            *int64  `json:"role_id"`
}

type CreateProgramRequest struct {
	WorkYear           int     `json:"work_year"`
	RequiredQuarter    string  `json:"required_quarter"`
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	RequesterWorkerID  int64   `json:"requester_worker_id"`
	AssigneeWorkerID   *int64  `json:"assignee_worker_id"`
	DepartmentID       int64   `json:"department_id"`
	DomainID           int64   `json:"domain_id"`
	EstimatedAmount    float64 `json:"estimated_amount"`
	Currency           string  `json:"currency"`
	PossibleSuppliers  string  `json:"possible_suppliers"`
	Notes              string  `json:"notes"`
	PlanningSource     string  `json:"planning_source"`
	ComplexityLevel    int     `json:"complexity_level"`
	EngagementTypeID   int64   `json:"engagement_type_id"`
	StatusKey          string  `json:"status_key"`
	StartRequiredMonth *int    `json:"start_required_month"`
	PlanningComment    string  `json:"planning_comment"`
	AssigneeComment    string  `json:"assignee_comment"`
}

type UpdateProgramRequest struct {
	WorkYear           *int     `json:"work_year"`
	RequiredQuarter    *string  `json:"required_quarter"`
	Title              *string  `json:"title"`
	Description        *string  `json:"description"`
	AssigneeWorkerID   *int64   `json:"assignee_worker_id"`
	DepartmentID       *int64   `json:"department_id"`
	DomainID           *int64   `json:"domain_id"`
	EstimatedAmount    *float64 `json:"estimated_amount"`
	Currency           *string  `json:"currency"`
	PossibleSuppliers  *string  `json:"possible_suppliers"`
	Notes              *string  `json:"notes"`
	PlanningSource     *string  `json:"planning_source"`
	ComplexityLevel    *int     `json:"complexity_level"`
	EngagementTypeID   *int64   `json:"engagement_type_id"`
	StatusKey          *string  `json:"status_key"`
	StartRequiredMonth *int     `json:"start_required_month"`
	PlanningComment    *string  `json:"planning_comment"`
	AssigneeComment    *string  `json:"assignee_comment"`
}
