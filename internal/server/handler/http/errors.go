package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/atinyakov/CafeMenu/internal/models"
)

// isNoop reports whether err is a validation, duplicate or stale-id failure
// that admin handlers answer with a plain redirect.
func isNoop(err error) bool {
	return errors.Is(err, models.ErrInvalidInput) ||
		errors.Is(err, models.ErrDuplicateKey) ||
		errors.Is(err, models.ErrNotFound)
}

// internalError logs err and answers 500 without leaking details.
func internalError(w http.ResponseWriter, log *zap.Logger, msg string, err error) {
	log.Error(msg, zap.Error(err))
	http.Error(w, "internal error", http.StatusInternalServerError)
}

// pathID parses a positive integer URL parameter.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func formatAmount(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64)
}
