package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cimillas/ticketline/internal/app"
	"github.com/cimillas/ticketline/internal/domain"
)

// Authenticator is the minimal interface needed for register and login.
type Authenticator interface {
	Register(ctx context.Context, cred app.Credentials) (app.Session, error)
	Login(ctx context.Context, cred app.Credentials) (app.Session, error)
}

// HandleRegister returns the HTTP handler for POST /register.
func HandleRegister(svc Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cred, ok := decodeCredentials(w, r)
		if !ok {
			return
		}

		session, err := svc.Register(r.Context(), cred)
		if err != nil {
			switch err {
			case domain.ErrCredentialsRequired:
				writeError(w, http.StatusBadRequest, "Missing userId or password")
			case domain.ErrUserExists:
				writeError(w, http.StatusBadRequest, "User already exists")
			default:
				writeError(w, http.StatusInternalServerError, msgInternalError)
			}
			return
		}

		writeData(w, http.StatusOK, sessionResponse{Token: session.Token, UserID: session.UserID})
	}
}

// HandleLogin returns the HTTP handler for POST /login.
func HandleLogin(svc Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cred, ok := decodeCredentials(w, r)
		if !ok {
			return
		}

		session, err := svc.Login(r.Context(), cred)
		if err != nil {
			switch err {
			case domain.ErrCredentialsRequired:
				writeError(w, http.StatusBadRequest, "Missing userId or password")
			case domain.ErrInvalidCredentials:
				writeError(w, http.StatusUnauthorized, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, msgInternalError)
			}
			return
		}

		writeData(w, http.StatusOK, sessionResponse{Token: session.Token, UserID: session.UserID})
	}
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (app.Credentials, bool) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
		return app.Credentials{}, false
	}

	var req credentialsRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return app.Credentials{}, false
	}
	return app.Credentials{UserID: req.UserID, Password: req.Password}, true
}

type credentialsRequest struct {
	UserID   string `json:"userId"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}
