package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"event-ticketing/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestIdentity_SetsUserContextFromHeaders(t *testing.T) {
	userID := uuid.New()

	var gotUserID uuid.UUID
	var gotRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = utils.GetUserIDFromContext(r.Context())
		gotRole, _ = utils.GetRoleFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/wallet", nil)
	req.Header.Set("X-User-ID", userID.String())
	req.Header.Set("X-User-Role", "admin")
	rec := httptest.NewRecorder()

	Identity(zap.NewNop())(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, gotUserID)
	assert.Equal(t, "admin", gotRole)
}

func TestIdentity_DefaultsRoleToCustomer(t *testing.T) {
	var gotRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRole, _ = utils.GetRoleFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/wallet", nil)
	req.Header.Set("X-User-ID", uuid.New().String())
	rec := httptest.NewRecorder()

	Identity(zap.NewNop())(next).ServeHTTP(rec, req)

	assert.Equal(t, "customer", gotRole)
}

func TestIdentity_RejectsMissingOrInvalidHeader(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/wallet", nil)
	rec := httptest.NewRecorder()
	Identity(zap.NewNop())(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/wallet", nil)
	req.Header.Set("X-User-ID", "not-a-uuid")
	rec = httptest.NewRecorder()
	Identity(zap.NewNop())(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdmin_RejectsNonAdminRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	chain := Identity(zap.NewNop())(Admin(zap.NewNop())(next))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/events/x/revenue", nil)
	req.Header.Set("X-User-ID", uuid.New().String())
	req.Header.Set("X-User-Role", "customer")
	rec := httptest.NewRecorder()

	chain.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdmin_AllowsAdminRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	chain := Identity(zap.NewNop())(Admin(zap.NewNop())(next))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/events/x/revenue", nil)
	req.Header.Set("X-User-ID", uuid.New().String())
	req.Header.Set("X-User-Role", "admin")
	rec := httptest.NewRecorder()

	chain.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
