package http

import (
	"encoding/json"
	"net/http"
)

const (
	msgInternalError    = "internal error"
	msgMethodNotAllowed = "method not allowed"
	msgInvalidBody      = "invalid request body"
	msgUnauthorized     = "Unauthorized"
)

type dataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dataResponse{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{Error: msg})
	if err != nil {
		_, _ = w.Write([]byte(`{"success":false,"error":"internal error"}`))
		return
	}
	_, _ = w.Write(payload)
}
