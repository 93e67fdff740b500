package auth

import "github.com/golang-jwt/jwt/v5"

// RoleAdmin is the only role minted today; it gates the order and
// production views.
const RoleAdmin = "admin"

// AdminClaims is the JWT body issued on admin login. Subject carries the
// admin username.
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}
