package http

import (
	"encoding/json"
	"net/http"

	"github.com/ndmitriev/coinwatch/internal/logger"
	"github.com/ndmitriev/coinwatch/internal/utils"
	"github.com/ndmitriev/coinwatch/models"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.register").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	account, err := h.services.AccountService.CreateAccount(ctx, req)
	if err != nil {
		h.handleError(w, r, err, "account registration failed")
		return
	}

	log.Debug().Str("id", account.ID).Str("email", account.Email).Msg("account registered")
	utils.WriteJSON(w, account, http.StatusOK)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.login").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	result, err := h.services.AccountService.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		h.handleError(w, r, err, "authentication failed")
		return
	}

	log.Debug().Str("id", result.Account.ID).Msg("account successfully logged in")

	w.Header().Set("Authorization", "Bearer "+result.Token)
	utils.WriteJSON(w, result, http.StatusOK)
}
