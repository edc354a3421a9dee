package http

import (
	"encoding/json"
	"net/http"

	"github.com/opsgate/keygate/internal/license/service"
	"github.com/opsgate/keygate/pkg/httpx"
	"github.com/opsgate/keygate/pkg/licensesdk"
	"github.com/opsgate/keygate/pkg/slogx"
)

type RegisterHandler struct {
	AccountService *service.AccountService
}

// ServeHTTP godoc
//
//	@Summary		Register Account Endpoint
//	@Description	Register a new account. The account starts pending and cannot log in until an administrator approves it with an expiry date.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		licensesdk.RegisterRequest	true	"id and pw"
//	@Success		200		{object}	licensesdk.RegisterResponse	"ok, id, approved=false; or ok=false with reason"
//	@Failure		500		{object}	licensesdk.RegisterResponse	"ok=false, reason=server_error"
//	@Router			/v1/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	// A malformed body behaves like an empty one: the missing-field check
	// below produces the reason code, not a transport-level error.
	var req licensesdk.RegisterRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	account, err := h.AccountService.Register(ctx, req.ID, req.PW)
	if err != nil {
		if reason, ok := service.Reason(err); ok {
			httpx.WriteJSON(w, http.StatusOK, licensesdk.RegisterResponse{OK: false, Reason: reason})
			return
		}
		log.Error("failed to register account", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError,
			licensesdk.RegisterResponse{OK: false, Reason: licensesdk.ReasonServerError})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, licensesdk.RegisterResponse{
		OK:       true,
		ID:       account.Identity,
		Approved: false,
	})
}
