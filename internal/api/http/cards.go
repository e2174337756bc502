package http

import (
	"net/http"

	"keyportal-backend/internal/service"

	"github.com/gorilla/mux"
)

type CardHandler struct {
	inventorySvc service.InventoryService
}

func NewCardHandler(inventorySvc service.InventoryService) *CardHandler {
	return &CardHandler{inventorySvc: inventorySvc}
}

// ListCards handles GET /rental-objects/{code}/cards.
func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	includeLoans := r.URL.Query().Get("includeLoans") == "true"

	cards, err := h.inventorySvc.ListCards(r.Context(), code, includeLoans)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cards": cards})
}
