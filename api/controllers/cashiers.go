package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/djmax1976/nuvana-backoffice/api/responses"
	"github.com/djmax1976/nuvana-backoffice/api/validators"
	"github.com/djmax1976/nuvana-backoffice/internal/cashiers"
	"github.com/djmax1976/nuvana-backoffice/pkg/enums"
	pkgerrors "github.com/djmax1976/nuvana-backoffice/pkg/errors"
	"github.com/djmax1976/nuvana-backoffice/pkg/logger"
)

type cashierCreateRequest struct {
	DisplayName string     `json:"display_name" validate:"required,min=1"`
	CashierCode string     `json:"cashier_code" validate:"required,min=1"`
	Pin         string     `json:"pin" validate:"required"`
	EmployeeID  *uuid.UUID `json:"employee_id,omitempty"`
}

func (r cashierCreateRequest) toInput() cashiers.CreateCashierInput {
	return cashiers.CreateCashierInput{
		DisplayName: r.DisplayName,
		CashierCode: r.CashierCode,
		Pin:         r.Pin,
		EmployeeID:  r.EmployeeID,
	}
}

type cashierUpdateRequest struct {
	DisplayName *string    `json:"display_name,omitempty" validate:"omitempty,min=1"`
	EmployeeID  *uuid.UUID `json:"employee_id,omitempty"`
	Pin         *string    `json:"pin,omitempty"`
}

func (r cashierUpdateRequest) toInput() cashiers.UpdateCashierInput {
	return cashiers.UpdateCashierInput{
		DisplayName: r.DisplayName,
		EmployeeID:  r.EmployeeID,
		Pin:         r.Pin,
	}
}

type cashierStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func CashierCreate(svc cashiers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cashier service unavailable"))
			return
		}

		storeID, err := uuidParam(r, "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cashierCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Create(r.Context(), storeID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func CashierList(svc cashiers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cashier service unavailable"))
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

func CashierGet(svc cashiers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cashier service unavailable"))
			return
		}

		storeID, err := uuidParam(r, "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cashierID, err := uuidParam(r, "cashierId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.GetByID(r.Context(), storeID, cashierID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func CashierUpdate(svc cashiers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cashier service unavailable"))
			return
		}

		storeID, err := uuidParam(r, "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cashierID, err := uuidParam(r, "cashierId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cashierUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Update(r.Context(), storeID, cashierID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// CashierSetStatus activates or deactivates an operator.
func CashierSetStatus(svc cashiers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cashier service unavailable"))
			return
		}

		storeID, err := uuidParam(r, "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cashierID, err := uuidParam(r, "cashierId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cashierStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseCashierStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		dto, err := svc.SetStatus(r.Context(), storeID, cashierID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}
