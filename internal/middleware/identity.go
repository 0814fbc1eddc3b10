package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const ctxIdentityKey contextKey = "identity"

// Identity is the Discord identity asserted by the upstream identity
// provider's token. The storefront trusts it; it never re-verifies the
// Discord account itself.
type Identity struct {
	DiscordID string
	Email     string
}

// IdentityFromCtx returns the authenticated identity, or nil.
func IdentityFromCtx(ctx context.Context) *Identity {
	id, _ := ctx.Value(ctxIdentityKey).(*Identity)
	return id
}

// IdentityVerifier validates identity-provider tokens (HS256, shared secret).
type IdentityVerifier struct {
	secret []byte
}

func NewIdentityVerifier(secret []byte) *IdentityVerifier {
	return &IdentityVerifier{secret: secret}
}

type identityClaims struct {
	jwt.RegisteredClaims
	Email        string `json:"email"`
	UserMetadata struct {
		ProviderID string `json:"provider_id"`
		Sub        string `json:"sub"`
	} `json:"user_metadata"`
}

func (v *IdentityVerifier) Verify(token string) (*Identity, error) {
	tok, err := jwt.ParseWithClaims(token, &identityClaims{}, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return nil, err
	}
	c, ok := tok.Claims.(*identityClaims)
	if !ok || !tok.Valid {
		return nil, errors.New("invalid token")
	}
	// The provider stores the Discord snowflake in user metadata; older
	// tokens carry it in the metadata sub.
	discordID := c.UserMetadata.ProviderID
	if discordID == "" {
		discordID = c.UserMetadata.Sub
	}
	if discordID == "" {
		return nil, errors.New("token has no Discord identity")
	}
	return &Identity{DiscordID: discordID, Email: c.Email}, nil
}

// IdentityAuth authenticates storefront requests with a Bearer token minted
// by the identity provider and puts the Discord identity into the context.
func IdentityAuth(verifier *IdentityVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := extractBearer(r)
			if raw == "" {
				http.Error(w, `{"error":"missing or malformed Authorization header"}`, http.StatusUnauthorized)
				return
			}
			id, err := verifier.Verify(raw)
			if err != nil {
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), ctxIdentityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearer(r *http.Request) string {
	authz := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(authz, prefix) {
		return ""
	}
	return strings.TrimSpace(authz[len(prefix):])
}
