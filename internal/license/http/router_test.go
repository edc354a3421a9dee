package http_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	httpapi "github.com/opsgate/keygate/internal/license/http"
	"github.com/opsgate/keygate/internal/license/service"
	"github.com/opsgate/keygate/internal/license/store"
	"github.com/opsgate/keygate/internal/license/store/drivers/sqlite"
	"github.com/opsgate/keygate/pkg/cryptox"
	"github.com/opsgate/keygate/pkg/licensesdk"
	"github.com/stretchr/testify/require"
)

const testAdminKey = "router-test-admin-key"

func newTestRouter(t *testing.T) (*httpapi.Router, store.Store) {
	t.Helper()

	cryptox.SetPepperPath(filepath.Join(t.TempDir(), "pepper"))

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	r := httpapi.NewRouter(st, slog.New(slog.DiscardHandler))
	r.AccountService = &service.AccountService{Store: st}
	r.AdminService = &service.AdminService{Store: st, AdminKey: testAdminKey}
	r.ApplyRoutes()

	return r, st
}

func doJSON(t *testing.T, h http.Handler, method, path string, headers map[string]string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), target))
}

func adminHeader() map[string]string {
	return map[string]string{licensesdk.AdminKeyHeader: testAdminKey}
}

func TestRegisterEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	t.Run("creates a pending account", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/register", nil,
			licensesdk.RegisterRequest{ID: "alice", PW: "pw1234"})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp licensesdk.RegisterResponse
		decodeInto(t, rec, &resp)
		require.True(t, resp.OK)
		require.Equal(t, "alice", resp.ID)
		require.False(t, resp.Approved)
	})

	t.Run("duplicate identity", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/register", nil,
			licensesdk.RegisterRequest{ID: "alice", PW: "other"})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp licensesdk.RegisterResponse
		decodeInto(t, rec, &resp)
		require.False(t, resp.OK)
		require.Equal(t, licensesdk.ReasonIDExists, resp.Reason)
	})

	t.Run("missing input", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/register", nil,
			licensesdk.RegisterRequest{ID: "bob"})

		var resp licensesdk.RegisterResponse
		decodeInto(t, rec, &resp)
		require.False(t, resp.OK)
		require.Equal(t, licensesdk.ReasonMissingIDOrPw, resp.Reason)
	})

	t.Run("malformed body is treated as empty", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/register", nil, "{not json")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp licensesdk.RegisterResponse
		decodeInto(t, rec, &resp)
		require.False(t, resp.OK)
		require.Equal(t, licensesdk.ReasonMissingIDOrPw, resp.Reason)
	})
}

func TestLoginEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	register := func(t *testing.T, id, pw string) {
		t.Helper()
		rec := doJSON(t, router, http.MethodPost, "/v1/register", nil,
			licensesdk.RegisterRequest{ID: id, PW: pw})
		var resp licensesdk.RegisterResponse
		decodeInto(t, rec, &resp)
		require.True(t, resp.OK)
	}

	approve := func(t *testing.T, id, expireAt string) {
		t.Helper()
		rec := doJSON(t, router, http.MethodPost, "/v1/admin/approval", adminHeader(),
			licensesdk.ApprovalRequest{ID: id, Approved: json.RawMessage("true"), ExpireAt: expireAt})
		var resp licensesdk.ApprovalResponse
		decodeInto(t, rec, &resp)
		require.True(t, resp.OK)
	}

	login := func(t *testing.T, id, pw string) licensesdk.LoginResponse {
		t.Helper()
		rec := doJSON(t, router, http.MethodPost, "/v1/login", nil,
			licensesdk.LoginRequest{ID: id, PW: pw})
		require.Equal(t, http.StatusOK, rec.Code)
		var resp licensesdk.LoginResponse
		decodeInto(t, rec, &resp)
		return resp
	}

	register(t, "alice", "pw1234")

	t.Run("unknown identity", func(t *testing.T) {
		resp := login(t, "ghost", "pw1234")
		require.False(t, resp.OK)
		require.Equal(t, licensesdk.ReasonNoUser, resp.Reason)
	})

	t.Run("pending account is denied before the secret is checked", func(t *testing.T) {
		resp := login(t, "alice", "pw1234")
		require.False(t, resp.OK)
		require.Equal(t, licensesdk.ReasonNotApproved, resp.Reason)
	})

	t.Run("wrong secret", func(t *testing.T) {
		resp := login(t, "alice", "wrong")
		require.False(t, resp.OK)
		require.Equal(t, licensesdk.ReasonWrongPw, resp.Reason)
	})

	t.Run("approved account logs in with its expiry", func(t *testing.T) {
		approve(t, "alice", "2099-01-01")

		resp := login(t, "alice", "pw1234")
		require.True(t, resp.OK)
		require.Equal(t, "2099-01-01", resp.ExpireAt)
	})

	t.Run("expired account reports its expiry", func(t *testing.T) {
		yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
		approve(t, "alice", yesterday)

		resp := login(t, "alice", "pw1234")
		require.False(t, resp.OK)
		require.Equal(t, licensesdk.ReasonExpired, resp.Reason)
		require.Equal(t, yesterday, resp.ExpireAt)
	})

	t.Run("revoked account is denied", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/admin/approval", adminHeader(),
			licensesdk.ApprovalRequest{ID: "alice", Approved: json.RawMessage("false")})
		var approval licensesdk.ApprovalResponse
		decodeInto(t, rec, &approval)
		require.True(t, approval.OK)

		resp := login(t, "alice", "pw1234")
		require.False(t, resp.OK)
		require.Equal(t, licensesdk.ReasonNotApproved, resp.Reason)
	})
}

func TestApprovalEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/register", nil,
		licensesdk.RegisterRequest{ID: "alice", PW: "pw1234"})
	require.Equal(t, http.StatusOK, rec.Code)

	approval := func(t *testing.T, headers map[string]string, body any) licensesdk.ApprovalResponse {
		t.Helper()
		rec := doJSON(t, router, http.MethodPost, "/v1/admin/approval", headers, body)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp licensesdk.ApprovalResponse
		decodeInto(t, rec, &resp)
		return resp
	}

	t.Run("authorizes via header", func(t *testing.T) {
		resp := approval(t, adminHeader(),
			licensesdk.ApprovalRequest{ID: "alice", Approved: json.RawMessage("true"), ExpireAt: "2099-01-01"})
		require.True(t, resp.OK)
		require.Equal(t, "alice", resp.ID)
		require.True(t, resp.Approved)
		require.Equal(t, "2099-01-01", resp.ExpireAt)
	})

	t.Run("authorizes via body field", func(t *testing.T) {
		resp := approval(t, nil, licensesdk.ApprovalRequest{
			AdminKey: testAdminKey,
			ID:       "alice",
			Approved: json.RawMessage("true"),
			ExpireAt: "2099-06-30",
		})
		require.True(t, resp.OK)
		require.Equal(t, "2099-06-30", resp.ExpireAt)
	})

	t.Run("tolerant approved forms", func(t *testing.T) {
		for _, raw := range []string{`"true"`, `"1"`, `1`} {
			resp := approval(t, adminHeader(),
				licensesdk.ApprovalRequest{ID: "alice", Approved: json.RawMessage(raw), ExpireAt: "2099-01-01"})
			require.True(t, resp.OK, "approved=%s", raw)
			require.True(t, resp.Approved, "approved=%s", raw)
		}
	})

	t.Run("revoke clears the expiry", func(t *testing.T) {
		resp := approval(t, adminHeader(),
			licensesdk.ApprovalRequest{ID: "alice", Approved: json.RawMessage("false")})
		require.True(t, resp.OK)
		require.False(t, resp.Approved)
		require.Empty(t, resp.ExpireAt)
	})

	t.Run("wrong key", func(t *testing.T) {
		resp := approval(t, map[string]string{licensesdk.AdminKeyHeader: "wrong"},
			licensesdk.ApprovalRequest{ID: "alice", Approved: json.RawMessage("true"), ExpireAt: "2099-01-01"})
		require.False(t, resp.OK)
		require.Equal(t, licensesdk.ReasonUnauthorized, resp.Reason)
	})

	t.Run("absent key", func(t *testing.T) {
		resp := approval(t, nil,
			licensesdk.ApprovalRequest{ID: "alice", Approved: json.RawMessage("true"), ExpireAt: "2099-01-01"})
		require.False(t, resp.OK)
		require.Equal(t, licensesdk.ReasonUnauthorized, resp.Reason)
	})

	t.Run("missing approved flag", func(t *testing.T) {
		for _, body := range []any{
			licensesdk.ApprovalRequest{ID: "alice"},
			`{"id":"alice","approved":null}`,
			`{"id":"alice","approved":"maybe"}`,
		} {
			resp := approval(t, adminHeader(), body)
			require.False(t, resp.OK)
			require.Equal(t, licensesdk.ReasonMissingApproved, resp.Reason)
		}
	})

	t.Run("missing identity", func(t *testing.T) {
		resp := approval(t, adminHeader(),
			licensesdk.ApprovalRequest{Approved: json.RawMessage("true"), ExpireAt: "2099-01-01"})
		require.False(t, resp.OK)
		require.Equal(t, licensesdk.ReasonMissingID, resp.Reason)
	})

	t.Run("approving without an expiry", func(t *testing.T) {
		resp := approval(t, adminHeader(),
			licensesdk.ApprovalRequest{ID: "alice", Approved: json.RawMessage("true")})
		require.False(t, resp.OK)
		require.Equal(t, licensesdk.ReasonMissingExpireAt, resp.Reason)
	})

	t.Run("malformed expiry", func(t *testing.T) {
		resp := approval(t, adminHeader(),
			licensesdk.ApprovalRequest{ID: "alice", Approved: json.RawMessage("true"), ExpireAt: "next week"})
		require.False(t, resp.OK)
		require.Equal(t, licensesdk.ReasonBadExpireFormat, resp.Reason)
	})

	t.Run("unknown identity", func(t *testing.T) {
		resp := approval(t, adminHeader(),
			licensesdk.ApprovalRequest{ID: "ghost", Approved: json.RawMessage("true"), ExpireAt: "2099-01-01"})
		require.False(t, resp.OK)
		require.Equal(t, licensesdk.ReasonNoUser, resp.Reason)
	})
}

func TestAccountListEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, id := range []string{"alice", "bob"} {
		rec := doJSON(t, router, http.MethodPost, "/v1/register", nil,
			licensesdk.RegisterRequest{ID: id, PW: "pw1234"})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	t.Run("requires authorization", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/v1/admin/accounts", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp licensesdk.AccountListResponse
		decodeInto(t, rec, &resp)
		require.False(t, resp.OK)
		require.Equal(t, licensesdk.ReasonUnauthorized, resp.Reason)
		require.Empty(t, resp.Accounts)
	})

	t.Run("lists accounts without secret material", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/v1/admin/accounts", adminHeader(), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp licensesdk.AccountListResponse
		decodeInto(t, rec, &resp)
		require.True(t, resp.OK)
		require.Len(t, resp.Accounts, 2)

		for _, a := range resp.Accounts {
			require.NotEmpty(t, a.ID)
			require.NotEmpty(t, a.Identity)
			require.Equal(t, "pending", a.State)
			require.NotEmpty(t, a.CreatedAt)
		}
		require.NotContains(t, rec.Body.String(), "argon2id")
	})
}

func TestHealthEndpoints(t *testing.T) {
	router, st := newTestRouter(t)

	t.Run("healthz", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/healthz", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp licensesdk.HealthResponse
		decodeInto(t, rec, &resp)
		require.True(t, resp.OK)
	})

	t.Run("readyz", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/readyz", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("readyz reports a closed store", func(t *testing.T) {
		require.NoError(t, st.Close())

		rec := doJSON(t, router, http.MethodGet, "/readyz", nil, nil)
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var resp licensesdk.HealthResponse
		decodeInto(t, rec, &resp)
		require.False(t, resp.OK)
		require.Equal(t, licensesdk.ReasonServerError, resp.Reason)
	})
}
