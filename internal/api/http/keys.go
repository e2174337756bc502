package http

import (
	"net/http"
	"strconv"

	"keyportal-backend/internal/domain"
	"keyportal-backend/internal/repository"
	"keyportal-backend/internal/service"

	"github.com/gorilla/mux"
)

type KeyHandler struct {
	inventorySvc service.InventoryService
}

func NewKeyHandler(inventorySvc service.InventoryService) *KeyHandler {
	return &KeyHandler{inventorySvc: inventorySvc}
}

// ListKeys handles GET /rental-objects/{code}/keys with optional
// include flags (loans, events, keySystem).
func (h *KeyHandler) ListKeys(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	q := r.URL.Query()
	opts := repository.KeyListOptions{
		IncludeLoans:     q.Get("includeLoans") == "true",
		IncludeEvents:    q.Get("includeEvents") == "true",
		IncludeKeySystem: q.Get("includeKeySystem") == "true",
	}

	keys, err := h.inventorySvc.ListKeys(r.Context(), code, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"keys": keys})
}

func (h *KeyHandler) CreateKey(w http.ResponseWriter, r *http.Request) {
	var key domain.Key
	if !decodeBody(w, r, &key) {
		return
	}
	if err := h.inventorySvc.CreateKey(r.Context(), &key); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, key)
}

func (h *KeyHandler) UpdateKey(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, domain.Validationf("invalid key id"))
		return
	}
	var key domain.Key
	if !decodeBody(w, r, &key) {
		return
	}
	key.ID = id
	if err := h.inventorySvc.UpdateKey(r.Context(), &key); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, key)
}

type disposeRequest struct {
	KeyIDs []int32 `json:"key_ids"`
}

func (h *KeyHandler) DisposeKeys(w http.ResponseWriter, r *http.Request) {
	var req disposeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.inventorySvc.DisposeKeys(r.Context(), req.KeyIDs); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"disposed": req.KeyIDs})
}

func (h *KeyHandler) UndoDisposal(w http.ResponseWriter, r *http.Request) {
	var req disposeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.inventorySvc.UndoDisposal(r.Context(), req.KeyIDs); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"restored": req.KeyIDs})
}

func pathID(r *http.Request, name string) (int32, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 32)
	return int32(id), err
}
