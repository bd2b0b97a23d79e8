package auth

import "taskboard/internal/domain/models"

// TokenVerifier is the identity collaborator: it validates a credential
// string and resolves it to the stable numeric user identifier carried in
// the claims. The core treats that id as an opaque authorization subject.
type TokenVerifier interface {
	// VerifyToken validates a JWT token string and returns the parsed claims.
	// Returns an error if the token is invalid, expired, or has an invalid
	// signature.
	VerifyToken(tokenString string) (*models.AccessClaims, error)

	// Close releases any resources held by the verifier (e.g., HTTP
	// connections for JWKS refresh).
	Close() error
}
