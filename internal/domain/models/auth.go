package models

import "github.com/golang-jwt/jwt/v5"

// AccessClaims is the JWT claims structure issued by the identity
// collaborator. The numeric uid claim is the only thing the core reads;
// everything else is standard JWT metadata.
type AccessClaims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"uid"`
	Email  string `json:"email"`
}

// GetUserID returns the stable numeric user identifier for the caller.
func (c *AccessClaims) GetUserID() int64 {
	return c.UserID
}
