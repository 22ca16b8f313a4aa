package httpd

import (
	"encoding/json"
	"net/http"
)

// errorBody is the canonical error payload shape.
type errorBody struct {
	Code    int    `json:"code"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// WriteError emits the canonical error response for a status code:
// a JSON body carrying the numeric code, the standard reason phrase and
// the supplied message.
func WriteError(w http.ResponseWriter, code int, msg string) error {
	body, err := json.Marshal(errorBody{
		Code:    code,
		Status:  http.StatusText(code),
		Message: msg,
	})
	if err != nil {
		return err
	}
	return WriteJSON(w, code, body)
}

// WriteJSON writes a complete JSON response in one shot: status line,
// content type, body.
func WriteJSON(w http.ResponseWriter, code int, body []byte) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, err := w.Write(body)
	return err
}
