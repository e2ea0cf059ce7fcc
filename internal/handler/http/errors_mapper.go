package http

import (
	"errors"
	"net/http"

	"github.com/ndmitriev/coinwatch/internal/adapter"
	"github.com/ndmitriev/coinwatch/internal/logger"
	"github.com/ndmitriev/coinwatch/internal/service"
	"github.com/ndmitriev/coinwatch/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrMissingCredentials:    http.StatusBadRequest,
	service.ErrInvalidDataProvided:   http.StatusBadRequest,
	service.ErrInvalidImageReference: http.StatusBadRequest,
	service.ErrEmailInUse:            http.StatusBadRequest,

	service.ErrInvalidCredentials:      http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,

	service.ErrDeletionFailed:      http.StatusInternalServerError,
	service.ErrTokenCreationFailed: http.StatusInternalServerError,

	store.ErrDuplicateAccount:   http.StatusBadRequest,
	store.ErrEmailAlreadyExists: http.StatusBadRequest,
	store.ErrNameAlreadyExists:  http.StatusBadRequest,
	store.ErrAccountNotFound:    http.StatusNotFound,
	store.ErrNothingToUpdate:    http.StatusBadRequest,
	store.ErrBuildingSQLQuery:   http.StatusInternalServerError,
	store.ErrExecutingQuery:     http.StatusInternalServerError,
	store.ErrExecutingStatement: http.StatusInternalServerError,
	store.ErrScanningRow:        http.StatusInternalServerError,
	store.ErrScanningRows:       http.StatusInternalServerError,

	adapter.ErrRateLimited:         http.StatusTooManyRequests,
	adapter.ErrProviderUnavailable: http.StatusBadGateway,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// handleError logs err and writes an error response whose status is derived
// from [errorStatusMap]. 5xx responses carry a generic body so internal
// details never leak to the client.
func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	log := logger.FromRequest(r)
	log.Err(err).Msg(msg)

	status := statusFromError(err)
	if status >= http.StatusInternalServerError {
		http.Error(w, http.StatusText(status), status)
		return
	}
	http.Error(w, msg, status)
}
