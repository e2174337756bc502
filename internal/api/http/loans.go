package http

import (
	"net/http"
	"time"

	"keyportal-backend/internal/domain"
	"keyportal-backend/internal/service"
)

type LoanHandler struct {
	loanSvc     service.LoanService
	transferSvc service.TransferService
}

func NewLoanHandler(loanSvc service.LoanService, transferSvc service.TransferService) *LoanHandler {
	return &LoanHandler{loanSvc: loanSvc, transferSvc: transferSvc}
}

type openLoanRequest struct {
	RentalObjectCode string          `json:"rental_object_code"`
	Type             domain.LoanType `json:"type"`
	KeyIDs           []int32         `json:"key_ids"`
	CardIDs          []int32         `json:"card_ids"`
	ContactCode      string          `json:"contact_code"`
	Contact2Code     *string         `json:"contact2_code,omitempty"`
	Comment          string          `json:"comment"`
}

func (r openLoanRequest) toInput() service.OpenLoanInput {
	return service.OpenLoanInput{
		RentalObjectCode: r.RentalObjectCode,
		Type:             r.Type,
		KeyIDs:           r.KeyIDs,
		CardIDs:          r.CardIDs,
		ContactCode:      r.ContactCode,
		Contact2Code:     r.Contact2Code,
		Comment:          r.Comment,
	}
}

func (h *LoanHandler) OpenLoan(w http.ResponseWriter, r *http.Request) {
	var req openLoanRequest
	if !decodeBody(w, r, &req) {
		return
	}
	result, err := h.loanSvc.OpenLoan(r.Context(), req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"loan":       result.Loan,
		"receipt_id": result.ReceiptID,
	})
}

type returnLoanRequest struct {
	KeyIDs          []int32    `json:"key_ids"`
	CardIDs         []int32    `json:"card_ids"`
	SelectedKeyIDs  []int32    `json:"selected_key_ids"`
	SelectedCardIDs []int32    `json:"selected_card_ids"`
	AvailableFrom   *time.Time `json:"available_from,omitempty"`
	Comment         string     `json:"comment"`
	Replacement     bool       `json:"replacement"`
}

func (h *LoanHandler) ReturnLoan(w http.ResponseWriter, r *http.Request) {
	var req returnLoanRequest
	if !decodeBody(w, r, &req) {
		return
	}
	outcome, err := h.loanSvc.ReturnLoan(r.Context(), service.ReturnLoanInput{
		KeyIDs:          req.KeyIDs,
		CardIDs:         req.CardIDs,
		SelectedKeyIDs:  req.SelectedKeyIDs,
		SelectedCardIDs: req.SelectedCardIDs,
		AvailableFrom:   req.AvailableFrom,
		Comment:         req.Comment,
		Replacement:     req.Replacement,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (h *LoanHandler) AcknowledgeReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, domain.Validationf("invalid loan id"))
		return
	}
	if err := h.loanSvc.AcknowledgeReceipt(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"loan_id": id})
}

func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, domain.Validationf("invalid loan id"))
		return
	}
	includeCards := r.URL.Query().Get("includeCards") == "true"
	details, err := h.loanSvc.GetLoan(r.Context(), id, includeCards)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (h *LoanHandler) RemoveLoan(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, domain.Validationf("invalid loan id"))
		return
	}
	if err := h.loanSvc.RemoveLoan(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LoanHandler) GetLoansForKey(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, domain.Validationf("invalid key id"))
		return
	}
	loans, err := h.loanSvc.GetLoansForKey(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"loans": loans})
}

func (h *LoanHandler) GetLoansForCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, domain.Validationf("invalid card id"))
		return
	}
	loans, err := h.loanSvc.GetLoansForCard(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"loans": loans})
}

type detectTransferRequest struct {
	RentalObjectCode string   `json:"rental_object_code"`
	ContactCodes     []string `json:"contact_codes"`
}

func (h *LoanHandler) DetectTransfer(w http.ResponseWriter, r *http.Request) {
	var req detectTransferRequest
	if !decodeBody(w, r, &req) {
		return
	}
	detection, err := h.transferSvc.Detect(r.Context(), req.RentalObjectCode, req.ContactCodes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detection)
}

func (h *LoanHandler) ExecuteTransfer(w http.ResponseWriter, r *http.Request) {
	var req openLoanRequest
	if !decodeBody(w, r, &req) {
		return
	}
	result, err := h.transferSvc.Execute(r.Context(), req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}
