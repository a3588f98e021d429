package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/jbmukiza/mahudhurio/core"
	"github.com/jbmukiza/mahudhurio/core/access"
)

// appJWTConfig is the default JWT auth middleware config. Tokens are issued
// by the Identity service with the shared signing key; this API only ever
// verifies them.
var appJWTConfig = middleware.JWTConfig{
	SigningKey:    []byte(core.Conf.SecretKey),
	SigningMethod: middleware.AlgorithmHS256,
	ContextKey:    "callerToken",
	Claims:        new(Claims),
}

// Claims represents the authorization claims transmitted via a JWT.
// Subject is the caller's directory id; Role is one of the access roles.
type Claims struct {
	jwt.StandardClaims
	Name string `json:"name,omitempty"`
	Role string `json:"role,omitempty"`
}

// GetIdentityClaims builds the claims the Identity service would issue for a
// caller. Exposed for tests and local tooling.
func GetIdentityClaims(ident access.Identity, name string) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    core.Conf.AppName,
			Subject:   ident.ID,
			ExpiresAt: now.Add(core.Conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Name: name,
		Role: ident.Role,
	}
}

// GenerateToken generates a signed JWT token string representing the claims.
func GenerateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(appJWTConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(appJWTConfig.SigningKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(appJWTConfig.ContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// contextIdentity resolves the authenticated caller for scope checks.
func contextIdentity(ctx echo.Context) (access.Identity, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return access.Identity{}, err
	}
	return access.Identity{ID: claims.Subject, Role: claims.Role}, nil
}
