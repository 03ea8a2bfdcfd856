package handle

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

const (
	WaitTime = 10
)

// ErrUnauthorized is the single body every authentication rejection gets,
// whatever the actual cause was.
var ErrUnauthorized = errors.New("Unauthorized")

// decodeBody parses the JSON request body into dst.
func decodeBody(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

// ExtractToken pulls the session token from the request: the token cookie
// first, then the Authorization: Bearer header.
func ExtractToken(r *http.Request) string {
	if cookie, err := r.Cookie("token"); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// JsonResponse writes the given data as a JSON-encoded HTTP response.
func JsonResponse(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// JsonError writes an error response as JSON with the specified HTTP status code.
func JsonError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"message": err.Error(),
		"code":    code,
	})
}
