// Package auth implements the opaque-token collaborator contract: tokens are
// issued on login/registration and resolved back to a userId on requests.
// The rest of the service treats the credential as opaque.
package auth

import (
	"net/http"
	"strings"

	"github.com/cimillas/ticketline/internal/domain"
)

const tokenPrefix = "token-"

// Token issues the opaque credential for a user.
func Token(userID string) string {
	return tokenPrefix + userID
}

// VerifyRequest resolves the Authorization header into a userId. It fails
// with ErrUnauthorized when the credential is missing or malformed.
func VerifyRequest(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	userID, ok := strings.CutPrefix(header, tokenPrefix)
	if !ok || userID == "" {
		return "", domain.ErrUnauthorized
	}
	return userID, nil
}
