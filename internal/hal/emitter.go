package hal

import (
	"encoding/json"
	"net/http"

	"github.com/MpDev89/lednode/internal/httpd"
)

// maxErrorMessageLen bounds the message carried by the fallback error
// body. Longer messages are truncated rather than rejected.
const maxErrorMessageLen = 96

// reservedStatusCodes have a canonical error body owned by the
// underlying server library.
var reservedStatusCodes = map[int]bool{
	http.StatusBadRequest:            true,
	http.StatusUnauthorized:          true,
	http.StatusNotFound:              true,
	http.StatusRequestEntityTooLarge: true,
	http.StatusInternalServerError:   true,
}

// SendJSON writes a JSON success response: numeric status line, JSON
// content type, full body in one call.
func SendJSON(w http.ResponseWriter, code int, body []byte) error {
	return httpd.WriteJSON(w, code, body)
}

// SendError writes an error response. Reserved status codes delegate to
// the underlying server's canonical responder; any other code falls
// back to a minimal JSON object {"error": "<msg>"} with the message
// truncated to a fixed bound.
func SendError(w http.ResponseWriter, code int, msg string) error {
	if reservedStatusCodes[code] {
		return httpd.WriteError(w, code, msg)
	}

	if len(msg) > maxErrorMessageLen {
		msg = msg[:maxErrorMessageLen]
	}
	body, err := json.Marshal(struct {
		Error string `json:"error"`
	}{Error: msg})
	if err != nil {
		return err
	}
	return SendJSON(w, code, body)
}
