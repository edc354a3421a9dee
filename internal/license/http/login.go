package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/opsgate/keygate/internal/license/service"
	"github.com/opsgate/keygate/pkg/httpx"
	"github.com/opsgate/keygate/pkg/licensesdk"
	"github.com/opsgate/keygate/pkg/slogx"
)

type LoginHandler struct {
	AccountService *service.AccountService
}

// ServeHTTP godoc
//
//	@Summary		Login Check-In Endpoint
//	@Description	Evaluate a license check-in. Succeeds only while the account is approved and the expiry date has not passed; the response reports the exact denial reason otherwise.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		licensesdk.LoginRequest		true	"id and pw"
//	@Success		200		{object}	licensesdk.LoginResponse	"ok, expire_at; or ok=false with reason"
//	@Failure		500		{object}	licensesdk.LoginResponse	"ok=false, reason=server_error"
//	@Router			/v1/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req licensesdk.LoginRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	decision, err := h.AccountService.Login(ctx, req.ID, req.PW)
	if err != nil {
		if reason, ok := service.Reason(err); ok {
			resp := licensesdk.LoginResponse{OK: false, Reason: reason}
			if errors.Is(err, service.ErrExpired) {
				// The expired payload reports when access ended.
				resp.ExpireAt = decision.ExpiresOn
			}
			httpx.WriteJSON(w, http.StatusOK, resp)
			return
		}
		log.Error("failed to evaluate login", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError,
			licensesdk.LoginResponse{OK: false, Reason: licensesdk.ReasonServerError})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, licensesdk.LoginResponse{
		OK:       true,
		ExpireAt: decision.ExpiresOn,
	})
}
