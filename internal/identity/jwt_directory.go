package identity

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"task-marketplace.com/task-marketplace/internal/constants"
)

// Claims is the token payload issued by the identity service: the subject is
// the actor id and userType its kind ("user"/"requester" or "provider").
type Claims struct {
	Email    string `json:"email,omitempty"`
	UserType string `json:"userType"`
	jwt.RegisteredClaims
}

// JWTDirectory verifies HMAC-signed bearer tokens.
type JWTDirectory struct {
	secret []byte
	parser *jwt.Parser
}

func NewJWTDirectory(secret string) *JWTDirectory {
	return &JWTDirectory{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		),
	}
}

func (d *JWTDirectory) Resolve(_ context.Context, credential string) (Actor, error) {
	var claims Claims
	_, err := d.parser.ParseWithClaims(credential, &claims, func(*jwt.Token) (interface{}, error) {
		return d.secret, nil
	})
	if err != nil {
		return Actor{}, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}

	if claims.Subject == "" {
		return Actor{}, fmt.Errorf("%w: missing subject", ErrInvalidCredential)
	}

	kind, err := constants.ParseActorKind(claims.UserType)
	if err != nil {
		return Actor{}, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}

	return Actor{ID: claims.Subject, Kind: kind}, nil
}
