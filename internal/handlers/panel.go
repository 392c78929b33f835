package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"breakerbox/internal/highlight"
	"breakerbox/internal/layout"
	"breakerbox/internal/models"
	"breakerbox/internal/services"
	"breakerbox/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PanelHandler struct {
	service *services.PanelService
	logr    *zap.Logger
}

func NewPanelHandler(svc *services.PanelService, logr *zap.Logger) *PanelHandler {
	return &PanelHandler{service: svc, logr: logr}
}

// GetLayout handles GET /api/v1/panels/{panelId}/grid
func (h *PanelHandler) GetLayout(w http.ResponseWriter, r *http.Request) {
	panelID, ok := h.uuidParam(w, r, "panelId")
	if !ok {
		return
	}

	res, err := h.service.GetLayout(r.Context(), panelID)
	if err != nil {
		h.fail(w, err, "failed to build panel layout")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    res,
		"issues":  len(res.Grid.Issues),
	})
}

// GetTandems handles GET /api/v1/panels/{panelId}/tandems
func (h *PanelHandler) GetTandems(w http.ResponseWriter, r *http.Request) {
	panelID, ok := h.uuidParam(w, r, "panelId")
	if !ok {
		return
	}

	res, err := h.service.GetTandems(r.Context(), panelID)
	if err != nil {
		h.fail(w, err, "failed to group tandem breakers")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    res,
		"total":   len(res.Groups),
	})
}

// Highlight handles GET /api/v1/panels/{panelId}/highlight
//
//	?breakerId=...          devices fed by a breaker (virtual half ids accepted)
//	?deviceId=...           the device's breaker and its sibling devices
//	?circuit=a,b            union over several breakers
func (h *PanelHandler) Highlight(w http.ResponseWriter, r *http.Request) {
	panelID, ok := h.uuidParam(w, r, "panelId")
	if !ok {
		return
	}

	q := r.URL.Query()
	query := services.HighlightQuery{
		BreakerID: strings.TrimSpace(q.Get("breakerId")),
		DeviceID:  strings.TrimSpace(q.Get("deviceId")),
		Circuit:   utils.ParseQueryList(q, "circuit"),
	}

	set := 0
	for _, on := range []bool{query.BreakerID != "", query.DeviceID != "", len(query.Circuit) > 0} {
		if on {
			set++
		}
	}
	if set > 1 {
		writeError(w, http.StatusBadRequest, "use only one of breakerId, deviceId or circuit")
		return
	}

	res, err := h.service.Highlight(r.Context(), panelID, query)
	if err != nil {
		h.fail(w, err, "failed to resolve highlight")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    res,
	})
}

// ExportSchedule handles GET /api/v1/panels/{panelId}/schedule.xlsx
func (h *PanelHandler) ExportSchedule(w http.ResponseWriter, r *http.Request) {
	panelID, ok := h.uuidParam(w, r, "panelId")
	if !ok {
		return
	}

	data, name, err := h.service.ExportSchedule(r.Context(), panelID)
	if err != nil {
		h.fail(w, err, "failed to export schedule")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// MoveBreaker handles PUT /api/v1/panels/{panelId}/breakers/{breakerId}/position
func (h *PanelHandler) MoveBreaker(w http.ResponseWriter, r *http.Request) {
	panelID, ok := h.uuidParam(w, r, "panelId")
	if !ok {
		return
	}
	breakerID, ok := h.uuidParam(w, r, "breakerId")
	if !ok {
		return
	}

	var req models.MoveBreakerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Position) == "" {
		writeError(w, http.StatusBadRequest, "position is required")
		return
	}

	res, err := h.service.MoveBreaker(r.Context(), panelID, breakerID, req.Position)
	if err != nil {
		h.fail(w, err, "failed to move breaker")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    res,
	})
}

// DeleteBreaker handles DELETE /api/v1/panels/{panelId}/breakers/{breakerId}
func (h *PanelHandler) DeleteBreaker(w http.ResponseWriter, r *http.Request) {
	panelID, ok := h.uuidParam(w, r, "panelId")
	if !ok {
		return
	}
	breakerID, ok := h.uuidParam(w, r, "breakerId")
	if !ok {
		return
	}

	res, err := h.service.DeleteBreaker(r.Context(), panelID, breakerID)
	if err != nil {
		h.fail(w, err, "failed to delete breaker")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    res,
	})
}

func (h *PanelHandler) uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid %s", name))
		return uuid.Nil, false
	}
	return id, true
}

// fail maps service errors onto status codes; anything unknown is logged and hidden
func (h *PanelHandler) fail(w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, services.ErrPanelNotFound),
		errors.Is(err, services.ErrBreakerNotFound),
		errors.Is(err, highlight.ErrUnknownBreaker),
		errors.Is(err, highlight.ErrUnknownDevice):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrPlacementRejected):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, layout.ErrNegativeSlots):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logr.Error(msg, zap.Error(err))
		writeError(w, http.StatusInternalServerError, msg)
	}
}
