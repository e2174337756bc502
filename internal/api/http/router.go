package http

import (
	"net/http"

	"keyportal-backend/internal/security"
	"keyportal-backend/internal/service"

	"github.com/gorilla/mux"
)

// RouterDeps bundles everything the REST surface needs.
type RouterDeps struct {
	Inventory      service.InventoryService
	Loans          service.LoanService
	Transfers      service.TransferService
	Flex           service.FlexService
	Reconciliation service.ReconciliationService
	Notifications  service.NotificationService
	Auth           service.AuthService
	Tokens         security.TokenManager
}

// NewRouter builds the public API: /auth/login is open, everything
// else sits behind bearer-token auth.
func NewRouter(deps RouterDeps) *mux.Router {
	keyHandler := NewKeyHandler(deps.Inventory)
	cardHandler := NewCardHandler(deps.Inventory)
	loanHandler := NewLoanHandler(deps.Loans, deps.Transfers)
	flexHandler := NewFlexHandler(deps.Flex, deps.Reconciliation)
	authHandler := NewAuthHandler(deps.Auth)
	notificationHandler := NewNotificationHandler(deps.Notifications)

	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(deps.Tokens))

	api.HandleFunc("/rental-objects/{code}/keys", keyHandler.ListKeys).Methods(http.MethodGet)
	api.HandleFunc("/rental-objects/{code}/cards", cardHandler.ListCards).Methods(http.MethodGet)
	api.HandleFunc("/keys", keyHandler.CreateKey).Methods(http.MethodPost)
	api.HandleFunc("/keys/{id}", keyHandler.UpdateKey).Methods(http.MethodPut)
	api.HandleFunc("/keys/dispose", keyHandler.DisposeKeys).Methods(http.MethodPost)
	api.HandleFunc("/keys/dispose/undo", keyHandler.UndoDisposal).Methods(http.MethodPost)
	api.HandleFunc("/keys/{id}/loans", loanHandler.GetLoansForKey).Methods(http.MethodGet)

	api.HandleFunc("/cards/{id}/loans", loanHandler.GetLoansForCard).Methods(http.MethodGet)

	api.HandleFunc("/loans", loanHandler.OpenLoan).Methods(http.MethodPost)
	api.HandleFunc("/loans/return", loanHandler.ReturnLoan).Methods(http.MethodPost)
	api.HandleFunc("/loans/{id}", loanHandler.GetLoan).Methods(http.MethodGet)
	api.HandleFunc("/loans/{id}", loanHandler.RemoveLoan).Methods(http.MethodDelete)
	api.HandleFunc("/loans/{id}/receipt", loanHandler.AcknowledgeReceipt).Methods(http.MethodPost)

	api.HandleFunc("/transfers/detect", loanHandler.DetectTransfer).Methods(http.MethodPost)
	api.HandleFunc("/transfers", loanHandler.ExecuteTransfer).Methods(http.MethodPost)

	api.HandleFunc("/flex/plan", flexHandler.PlanFlex).Methods(http.MethodPost)
	api.HandleFunc("/flex/generate", flexHandler.GenerateFlex).Methods(http.MethodPost)
	api.HandleFunc("/orders/extra-keys", flexHandler.OrderExtraKeys).Methods(http.MethodPost)
	api.HandleFunc("/orders/incoming", flexHandler.IncomingForKeys).Methods(http.MethodPost)
	api.HandleFunc("/events/{id}/received", flexHandler.MarkReceived).Methods(http.MethodPost)

	api.HandleFunc("/operators", authHandler.CreateOperator).Methods(http.MethodPost)
	api.HandleFunc("/notifications", notificationHandler.GetNotifications).Methods(http.MethodGet)
	api.HandleFunc("/notifications/{id}/read", notificationHandler.MarkAsRead).Methods(http.MethodPost)

	return r
}
