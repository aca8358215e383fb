package handler

import (
	"context"
	"net/http"

	"projector-backend/internal/model"
)

type lookupSource interface {
	All(ctx context.Context) (model.Lookups, error)
}

type LookupHandler struct {
	lookups lookupSource
}

func NewLookupHandler(lookups lookupSource) *LookupHandler {
	return &LookupHandler{lookups: lookups}
}

func (h *LookupHandler) All(w http.ResponseWriter, r *http.Request) {
	lookups, err := h.lookups.All(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, lookups, nil)
}
