package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/djmax1976/nuvana-backoffice/api/responses"
	"github.com/djmax1976/nuvana-backoffice/internal/apikeys"
	pkgerrors "github.com/djmax1976/nuvana-backoffice/pkg/errors"
	"github.com/djmax1976/nuvana-backoffice/pkg/logger"
)

const apiKeyHeader = "X-Api-Key"

type keyAuthenticator interface {
	Authenticate(ctx context.Context, secret string) (*apikeys.APIKeyDTO, error)
}

// APIKeyAuth authenticates a terminal's API key secret and seeds the request
// context with the resolved key. The secret may arrive either in X-Api-Key or
// as a bearer token.
func APIKeyAuth(svc keyAuthenticator, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			secret := strings.TrimSpace(r.Header.Get(apiKeyHeader))
			if secret == "" {
				raw := strings.TrimSpace(r.Header.Get("Authorization"))
				if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
					secret = strings.TrimSpace(raw[7:])
				}
			}
			if secret == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing api key"))
				return
			}

			key, err := svc.Authenticate(r.Context(), secret)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithAPIKey(r.Context(), key)
			ctx = context.WithValue(ctx, ctxStoreID, key.StoreID.String())
			if logg != nil {
				ctx = logg.WithAPIKeyID(ctx, key.ID.String())
				ctx = logg.WithStoreID(ctx, key.StoreID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
