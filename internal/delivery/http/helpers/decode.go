package helpers

import (
	"encoding/json"
	"net/http"
)

// Decode decodes the request body into dest. On failure it writes a 400
// APIError and returns false; callers should return immediately then.
func Decode(w http.ResponseWriter, r *http.Request, dest any) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}
