package utils

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// ParseIDTokenAccount extracts a human-readable account label from an OpenID
// Connect id_token. The token is parsed without signature verification: the
// value is informational only (a display label) and the token was received
// over TLS directly from the provider's token endpoint.
//
// Preference order: "email" claim, then "sub".
func ParseIDTokenAccount(idToken string) (string, error) {
	token, _, err := jwt.NewParser().ParseUnverified(idToken, jwt.MapClaims{})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token claims")
	}

	if email, ok := claims["email"].(string); ok && email != "" {
		return email, nil
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return "", err
	}
	if sub == "" {
		return "", errors.New("empty subject error")
	}

	return sub, nil
}
