package controllers

import (
	"net/http"
	"time"

	"github.com/djmax1976/nuvana-backoffice/api/responses"
	"github.com/djmax1976/nuvana-backoffice/api/validators"
	"github.com/djmax1976/nuvana-backoffice/internal/apikeys"
	pkgerrors "github.com/djmax1976/nuvana-backoffice/pkg/errors"
	"github.com/djmax1976/nuvana-backoffice/pkg/logger"
)

type apiKeyCreateRequest struct {
	Label     string     `json:"label" validate:"required,min=1"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// APIKeyCreate mints a terminal credential. The plaintext secret appears only
// in this response.
func APIKeyCreate(svc apikeys.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "api key service unavailable"))
			return
		}

		storeID, err := uuidParam(r, "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		actorID, err := actorIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload apiKeyCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Create(r.Context(), storeID, actorID, apikeys.CreateKeyInput{
			Label:     payload.Label,
			ExpiresAt: payload.ExpiresAt,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func APIKeyList(svc apikeys.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "api key service unavailable"))
			return
		}

		storeID, err := uuidParam(r, "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.List(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// APIKeyRotate retires the old secret and mints a replacement under the same
// key record.
func APIKeyRotate(svc apikeys.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "api key service unavailable"))
			return
		}

		storeID, err := uuidParam(r, "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		keyID, err := uuidParam(r, "keyId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		actorID, err := actorIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Rotate(r.Context(), storeID, keyID, actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func apiKeyStatusAction(action func(apikeys.Service, *http.Request) error, svc apikeys.Service, logg *logger.Logger, status string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "api key service unavailable"))
			return
		}

		if err := action(svc, r); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": status})
	}
}

func APIKeyRevoke(svc apikeys.Service, logg *logger.Logger) http.HandlerFunc {
	return apiKeyStatusAction(func(svc apikeys.Service, r *http.Request) error {
		storeID, err := uuidParam(r, "storeId")
		if err != nil {
			return err
		}
		keyID, err := uuidParam(r, "keyId")
		if err != nil {
			return err
		}
		return svc.Revoke(r.Context(), storeID, keyID)
	}, svc, logg, "revoked")
}

func APIKeySuspend(svc apikeys.Service, logg *logger.Logger) http.HandlerFunc {
	return apiKeyStatusAction(func(svc apikeys.Service, r *http.Request) error {
		storeID, err := uuidParam(r, "storeId")
		if err != nil {
			return err
		}
		keyID, err := uuidParam(r, "keyId")
		if err != nil {
			return err
		}
		return svc.Suspend(r.Context(), storeID, keyID)
	}, svc, logg, "suspended")
}

func APIKeyResume(svc apikeys.Service, logg *logger.Logger) http.HandlerFunc {
	return apiKeyStatusAction(func(svc apikeys.Service, r *http.Request) error {
		storeID, err := uuidParam(r, "storeId")
		if err != nil {
			return err
		}
		keyID, err := uuidParam(r, "keyId")
		if err != nil {
			return err
		}
		return svc.Resume(r.Context(), storeID, keyID)
	}, svc, logg, "resumed")
}
