package http

import (
	"net/http"

	"keyportal-backend/internal/domain"
	"keyportal-backend/internal/service"
)

type FlexHandler struct {
	flexSvc      service.FlexService
	reconcileSvc service.ReconciliationService
}

func NewFlexHandler(flexSvc service.FlexService, reconcileSvc service.ReconciliationService) *FlexHandler {
	return &FlexHandler{flexSvc: flexSvc, reconcileSvc: reconcileSvc}
}

type keySelectionRequest struct {
	KeyIDs []int32 `json:"key_ids"`
}

// PlanFlex groups the selected keys and reports each group's current
// flex number and conflicts without writing anything.
func (h *FlexHandler) PlanFlex(w http.ResponseWriter, r *http.Request) {
	var req keySelectionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	plans, err := h.flexSvc.Plan(r.Context(), req.KeyIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"groups": plans})
}

type flexGroupRequest struct {
	Group    domain.FlexGroup `json:"group"`
	Count    int32            `json:"count"`
	Baseline *int32           `json:"baseline,omitempty"`
}

type generateFlexRequest struct {
	RentalObjectCode string             `json:"rental_object_code"`
	KeyIDs           []int32            `json:"key_ids"`
	Groups           []flexGroupRequest `json:"groups"`
}

func (h *FlexHandler) GenerateFlex(w http.ResponseWriter, r *http.Request) {
	var req generateFlexRequest
	if !decodeBody(w, r, &req) {
		return
	}
	requests := make([]service.FlexGroupRequest, 0, len(req.Groups))
	for _, g := range req.Groups {
		requests = append(requests, service.FlexGroupRequest{
			Group:    g.Group,
			Count:    g.Count,
			Baseline: g.Baseline,
		})
	}
	results, err := h.flexSvc.Generate(r.Context(), req.RentalObjectCode, req.KeyIDs, requests)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"results": results})
}

func (h *FlexHandler) OrderExtraKeys(w http.ResponseWriter, r *http.Request) {
	var req keySelectionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	event, err := h.flexSvc.OrderExtraKeys(r.Context(), req.KeyIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

func (h *FlexHandler) IncomingForKeys(w http.ResponseWriter, r *http.Request) {
	var req keySelectionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	incoming, err := h.reconcileSvc.IncomingForKeys(r.Context(), req.KeyIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"incoming": incoming})
}

type markReceivedRequest struct {
	DisposeKeyIDs []int32 `json:"dispose_key_ids"`
}

func (h *FlexHandler) MarkReceived(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "id")
	if err != nil {
		writeError(w, domain.Validationf("invalid event id"))
		return
	}
	var req markReceivedRequest
	if !decodeBody(w, r, &req) {
		return
	}
	result, err := h.reconcileSvc.MarkReceived(r.Context(), eventID, req.DisposeKeyIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
