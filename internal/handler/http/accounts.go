package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndmitriev/coinwatch/internal/logger"
	"github.com/ndmitriev/coinwatch/internal/utils"
	"github.com/ndmitriev/coinwatch/models"
)

func (h *Handler) listAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.services.AccountService.ListAccounts(r.Context())
	if err != nil {
		h.handleError(w, r, err, "account listing failed")
		return
	}

	utils.WriteJSON(w, accounts, http.StatusOK)
}

func (h *Handler) getAccount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	account, found, err := h.services.AccountService.FindByID(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err, "account lookup failed")
		return
	}
	if !found {
		http.Error(w, "account was not found", http.StatusNotFound)
		return
	}

	utils.WriteJSON(w, account, http.StatusOK)
}

// searchAccount resolves ?name= or ?email= into a single account.
// Exactly one of the two parameters must be supplied.
func (h *Handler) searchAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	name := r.URL.Query().Get("name")
	email := r.URL.Query().Get("email")

	var (
		account models.Account
		found   bool
		err     error
	)
	switch {
	case name != "" && email == "":
		account, found, err = h.services.AccountService.FindByName(ctx, name)
	case email != "" && name == "":
		account, found, err = h.services.AccountService.FindByEmail(ctx, email)
	default:
		http.Error(w, "exactly one of `name` or `email` query parameters is required", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.handleError(w, r, err, "account search failed")
		return
	}
	if !found {
		http.Error(w, "account was not found", http.StatusNotFound)
		return
	}

	utils.WriteJSON(w, account, http.StatusOK)
}

func (h *Handler) updateAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	id := chi.URLParam(r, "id")

	var update models.AccountUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Err(err).Str("func", "*Handler.updateAccount").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	account, err := h.services.AccountService.UpdateAccount(ctx, id, update)
	if err != nil {
		h.handleError(w, r, err, "account update failed")
		return
	}

	log.Debug().Str("id", account.ID).Msg("account updated")
	utils.WriteJSON(w, account, http.StatusOK)
}

func (h *Handler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	id := chi.URLParam(r, "id")

	if err := h.services.AccountService.DeleteAccount(r.Context(), id); err != nil {
		h.handleError(w, r, err, "account deletion failed")
		return
	}

	log.Debug().Str("id", id).Msg("account deleted")
	w.WriteHeader(http.StatusNoContent)
}
