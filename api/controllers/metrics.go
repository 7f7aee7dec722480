package controllers

import (
	"net/http"

	"github.com/djmax1976/nuvana-backoffice/api/responses"
	"github.com/djmax1976/nuvana-backoffice/internal/querymetrics"
	pkgerrors "github.com/djmax1976/nuvana-backoffice/pkg/errors"
	"github.com/djmax1976/nuvana-backoffice/pkg/logger"
)

// QueryStats dumps the in-process query recorder. Prometheus scrapes cover
// the same counters; this endpoint exists for ad-hoc inspection.
func QueryStats(rec *querymetrics.Recorder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if rec == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "query recorder unavailable"))
			return
		}
		responses.WriteSuccess(w, rec.Snapshot())
	}
}
