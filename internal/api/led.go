package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/MpDev89/lednode/internal/hal"
	"github.com/MpDev89/lednode/internal/led"
)

// ledStatus is the wire shape shared by the query endpoint and the
// huma operation.
type ledStatus struct {
	OK        bool `json:"ok"`
	LED       bool `json:"led" doc:"Logical LED state"`
	GPIOLevel int  `json:"gpio_level" doc:"Raw level on the GPIO pin"`
}

// LEDSetRequest sets the LED state via JSON body.
type LEDSetRequest struct {
	Body struct {
		State bool `json:"state" example:"true" doc:"Desired logical LED state"`
	}
}

// LEDStatusResponse reports the LED state after the operation.
type LEDStatusResponse struct {
	Body ledStatus
}

// registerLEDRoutes declares the LED endpoints: a query-parameter GET
// registered straight on the facade, and a JSON POST through huma.
func (s *Server) registerLEDRoutes() {
	if err := s.hal.Register(hal.Endpoint{
		URI:     "/api/led",
		Method:  http.MethodGet,
		Handler: http.HandlerFunc(s.handleLEDQuery),
	}); err != nil {
		s.logger.Error("Failed registering LED endpoint", "error", err)
	}

	huma.Register(s.api, huma.Operation{
		OperationID: "set-led",
		Method:      http.MethodPost,
		Path:        "/api/led",
		Summary:     "Set LED",
		Description: "Set the logical LED state. The GPIO level follows the board polarity.",
		Tags:        []string{"led"},
		Errors:      []int{500},
	}, func(ctx context.Context, input *LEDSetRequest) (*LEDStatusResponse, error) {
		if err := s.led.SetState(input.Body.State); err != nil {
			return nil, huma.Error500InternalServerError("Failed to drive LED", err)
		}
		return &LEDStatusResponse{Body: s.currentStatus()}, nil
	})
}

// handleLEDQuery reads or sets the LED through query parameters.
// "level" takes a raw GPIO level, "state" a logical on/off word; with
// neither the current state is returned unchanged. Bad values are
// rejected before any pin write.
func (s *Server) handleLEDQuery(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if raw := query.Get("level"); raw != "" {
		level := -1
		switch raw {
		case "0":
			level = 0
		case "1":
			level = 1
		}
		if level < 0 {
			hal.SendError(w, http.StatusBadRequest, "level must be 0 or 1")
			return
		}
		if err := s.led.SetLevel(level); err != nil {
			hal.SendError(w, http.StatusInternalServerError, "Failed to drive LED")
			return
		}
	} else if raw := query.Get("state"); raw != "" {
		state, ok := led.ParseState(raw)
		if !ok {
			hal.SendError(w, http.StatusBadRequest, "state must be on/off, true/false or 1/0")
			return
		}
		if err := s.led.SetState(state == 1); err != nil {
			hal.SendError(w, http.StatusInternalServerError, "Failed to drive LED")
			return
		}
	}

	body, err := json.Marshal(s.currentStatus())
	if err != nil {
		hal.SendError(w, http.StatusInternalServerError, "Failed to encode response")
		return
	}
	hal.SendJSON(w, http.StatusOK, body)
}

func (s *Server) currentStatus() ledStatus {
	state := s.led.State()
	return ledStatus{
		OK:        true,
		LED:       state.On,
		GPIOLevel: state.GPIOLevel,
	}
}
