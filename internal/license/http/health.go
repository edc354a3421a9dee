package http

import (
	"net/http"

	"github.com/opsgate/keygate/internal/license/store"
	"github.com/opsgate/keygate/pkg/httpx"
	"github.com/opsgate/keygate/pkg/licensesdk"
	"github.com/opsgate/keygate/pkg/slogx"
)

// HealthzHandler godoc
//
//	@Summary		Health Check Endpoint
//	@Description	Liveness probe. Always returns ok while the process is running.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	licensesdk.HealthResponse	"ok"
//	@Router			/healthz [get].
func HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, licensesdk.HealthResponse{OK: true})
	}
}

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe. Pings the account store and reports 503 when it is unreachable.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	licensesdk.HealthResponse	"ok"
//	@Failure		503	{object}	licensesdk.HealthResponse	"ok=false, reason=server_error"
//	@Router			/readyz [get].
func ReadyzHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := st.Ping(r.Context()); err != nil {
			slogx.FromContext(r.Context()).Error("store ping failed", "err", err)
			httpx.WriteJSON(w, http.StatusServiceUnavailable,
				licensesdk.HealthResponse{OK: false, Reason: licensesdk.ReasonServerError})
			return
		}
		httpx.WriteJSON(w, http.StatusOK, licensesdk.HealthResponse{OK: true})
	}
}
