package handler

import (
	"encoding/json"
	"net/http"

	"projector-backend/internal/model"
	"projector-backend/internal/service"
	"projector-backend/pkg/apierror"
)

type ProgramHandler struct {
	service *service.ProgramService
}

func NewProgramHandler(service *service.ProgramService) *ProgramHandler {
	return &ProgramHandler{service: service}
}

func (h *ProgramHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := model.ProgramsFilter{
		WorkYear:          queryInt(q.Get("work_year")),
		RequiredQuarter:   q.Get("required_quarter"),
		Title:             q.Get("title"),
		StatusKey:         q.Get("status_key"),
		DomainID:          queryInt64(q.Get("domain_id")),
		EngagementTypeID:  queryInt64(q.Get("engagement_type_id")),
		DepartmentID:      queryInt64(q.Get("department_id")),
		AssigneeWorkerID:  queryInt64(q.Get("assignee_worker_id")),
		RequesterWorkerID: queryInt64(q.Get("requester_worker_id")),
		PlanningSource:    q.Get("planning_source"),
		ComplexityLevel:   queryInt(q.Get("complexity_level")),
	}

	programs, meta, err := h.service.List(r.Context(), filter,
		queryInt(q.Get("page")), queryInt(q.Get("limit")),
		q.Get("sort_by"), q.Get("sort_order"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, programs, meta)
}

func (h *ProgramHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	program, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, program, nil)
}

func (h *ProgramHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.CreateProgramRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	program, err := h.service.Create(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, program, nil)
}

func (h *ProgramHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var payload model.UpdateProgramRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	program, err := h.service.Update(r.Context(), id, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, program, nil)
}

func (h *ProgramHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"deleted": true}, nil)
}
