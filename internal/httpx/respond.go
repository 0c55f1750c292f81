package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ecofinds/marketplace/internal/account"
	"github.com/ecofinds/marketplace/internal/catalog"
	"github.com/ecofinds/marketplace/internal/checkout"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the domain error taxonomy onto HTTP statuses. Conflicts
// carry the offending listing ids so the buyer can prune the cart and
// retry.
func writeError(w http.ResponseWriter, err error) {
	var conflict *checkout.ConflictError
	if errors.As(err, &conflict) {
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":     conflict.Error(),
			"conflicts": conflict.ListingIDs,
		})
		return
	}

	var iq *checkout.InvalidQuantityError
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, catalog.ErrForbidden):
		code = http.StatusForbidden
	case errors.Is(err, catalog.ErrInvalidState):
		code = http.StatusConflict
	case errors.Is(err, catalog.ErrInvalidInput), errors.Is(err, account.ErrInvalidInput):
		code = http.StatusBadRequest
	case errors.Is(err, checkout.ErrEmptyCart), errors.As(err, &iq):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, account.ErrAlreadyExists):
		code = http.StatusConflict
	case errors.Is(err, account.ErrUnauthorized):
		code = http.StatusUnauthorized
	}
	if code == http.StatusInternalServerError {
		// don't leak storage details to clients
		writeJSON(w, code, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
