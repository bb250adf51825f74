package api

import (
	"encoding/json"
	"net/http"

	"github.com/dreamdive/dreamdive/internal/api/respond"
	"github.com/dreamdive/dreamdive/internal/services"
)

type DreamHandler struct {
	svc *services.DreamService
}

func NewDreamHandler(svc *services.DreamService) *DreamHandler { return &DreamHandler{svc: svc} }

func (h *DreamHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var in struct {
		DreamText string `json:"dreamText"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	res, err := h.svc.Analyze(r.Context(), SessionToken(r), in.DreamText)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, res)
}

func (h *DreamHandler) Usage(w http.ResponseWriter, r *http.Request) {
	usage, err := h.svc.Usage(r.Context(), SessionToken(r))
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, usage)
}

func (h *DreamHandler) History(w http.ResponseWriter, r *http.Request) {
	recs, err := h.svc.History(r.Context(), SessionToken(r))
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, recs)
}
