package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/opsgate/keygate/internal/license/service"
	"github.com/opsgate/keygate/pkg/httpx"
	"github.com/opsgate/keygate/pkg/licensesdk"
	"github.com/opsgate/keygate/pkg/slogx"
)

type ApprovalHandler struct {
	AdminService *service.AdminService
}

// ServeHTTP godoc
//
//	@Summary		Admin Approval Endpoint
//	@Description	Approve an account through an expiry date or revoke it. The admin secret is accepted from the X-Admin-Key header or the admin_key body field; revoking clears the stored expiry.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			X-Admin-Key	header		string							false	"Admin secret (alternative to admin_key body field)"
//	@Param			request		body		licensesdk.ApprovalRequest		true	"id, approved, expire_at (required when approving)"
//	@Success		200			{object}	licensesdk.ApprovalResponse		"ok, id, approved, expire_at; or ok=false with reason"
//	@Failure		500			{object}	licensesdk.ApprovalResponse		"ok=false, reason=server_error"
//	@Router			/v1/admin/approval [post].
func (h *ApprovalHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req licensesdk.ApprovalRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	// Ordered candidate channels for the admin secret: header, then body.
	candidates := []string{r.Header.Get(licensesdk.AdminKeyHeader), req.AdminKey}

	if err := h.AdminService.Authorize(candidates); err != nil {
		writeApprovalFailure(w, err)
		return
	}

	approved, err := licensesdk.ParseApprovedFlag(req.Approved)
	if err != nil {
		httpx.WriteJSON(w, http.StatusOK,
			licensesdk.ApprovalResponse{OK: false, Reason: licensesdk.ReasonMissingApproved})
		return
	}

	account, err := h.AdminService.SetApproval(ctx, candidates, req.ID, approved, req.ExpireAt)
	if err != nil {
		if reason, ok := service.Reason(err); ok {
			writeApprovalReason(w, reason)
			return
		}
		log.Error("failed to set approval", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError,
			licensesdk.ApprovalResponse{OK: false, Reason: licensesdk.ReasonServerError})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, licensesdk.ApprovalResponse{
		OK:       true,
		ID:       account.Identity,
		Approved: approved,
		ExpireAt: account.ExpiresOn,
	})
}

func writeApprovalFailure(w http.ResponseWriter, err error) {
	reason, ok := service.Reason(err)
	if !ok {
		reason = licensesdk.ReasonServerError
	}
	writeApprovalReason(w, reason)
}

func writeApprovalReason(w http.ResponseWriter, reason string) {
	httpx.WriteJSON(w, http.StatusOK, licensesdk.ApprovalResponse{OK: false, Reason: reason})
}

type AccountListHandler struct {
	AdminService *service.AdminService
}

// ServeHTTP godoc
//
//	@Summary		Admin Account List Endpoint
//	@Description	List all registered accounts with their approval state and expiry. Secret digests are never included.
//	@Tags			Admin
//	@Produce		json
//	@Param			X-Admin-Key	header		string							true	"Admin secret"
//	@Success		200			{object}	licensesdk.AccountListResponse	"ok, accounts; or ok=false with reason"
//	@Failure		500			{object}	licensesdk.AccountListResponse	"ok=false, reason=server_error"
//	@Router			/v1/admin/accounts [get].
func (h *AccountListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	candidates := []string{r.Header.Get(licensesdk.AdminKeyHeader)}

	accounts, err := h.AdminService.ListAccounts(ctx, candidates)
	if err != nil {
		if reason, ok := service.Reason(err); ok {
			httpx.WriteJSON(w, http.StatusOK,
				licensesdk.AccountListResponse{OK: false, Reason: reason})
			return
		}
		log.Error("failed to list accounts", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError,
			licensesdk.AccountListResponse{OK: false, Reason: licensesdk.ReasonServerError})
		return
	}

	summaries := make([]licensesdk.AccountSummary, 0, len(accounts))
	for _, a := range accounts {
		summaries = append(summaries, licensesdk.AccountSummary{
			ID:        a.ID,
			Identity:  a.Identity,
			State:     string(a.State),
			ExpireAt:  a.ExpiresOn,
			CreatedAt: a.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	httpx.WriteJSON(w, http.StatusOK, licensesdk.AccountListResponse{
		OK:       true,
		Accounts: summaries,
	})
}
