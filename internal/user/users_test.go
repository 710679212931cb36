package user

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshop/internal/entity"
	"bookshop/internal/mutate"
	"bookshop/internal/testutil"
)

func testUsers() []entity.User {
	return []entity.User{testutil.TestAdmin, testutil.TestUser}
}

func newUsersFixture(t *testing.T, me entity.User) (*Service, *testutil.Server, *testutil.Notices, *testutil.ConfirmAll) {
	t.Helper()
	srv := testutil.NewServer(t)
	srv.HandleData(http.MethodGet, "/users", testUsers())
	srv.HandleData(http.MethodGet, "/users/stats", entity.UserStats{TotalCount: 2, AdminCount: 1, ActiveCount: 2})

	notices := &testutil.Notices{}
	confirm := &testutil.ConfirmAll{}
	coord := mutate.New(notices, confirm.Confirm)
	svc := New(srv.Client("admin-tok"), coord, notices, func() *entity.User { return &me }, nil)
	return svc, srv, notices, confirm
}

func TestUsersRefresh(t *testing.T) {
	t.Run("list and stats", func(t *testing.T) {
		svc, _, _, _ := newUsersFixture(t, testutil.TestAdmin)

		require.NoError(t, svc.Refresh(context.Background()))
		assert.Len(t, svc.Cache().All(), 2)
		require.NotNil(t, svc.Stats())
		assert.Equal(t, 1, svc.Stats().AdminCount)
	})

	t.Run("page envelope shape", func(t *testing.T) {
		svc, srv, _, _ := newUsersFixture(t, testutil.TestAdmin)
		srv.HandleData(http.MethodGet, "/users", entity.Page[entity.User]{Content: testUsers(), Total: 2})

		require.NoError(t, svc.Refresh(context.Background()))
		assert.Len(t, svc.Cache().All(), 2)
	})

	t.Run("stats failure does not fail the refresh", func(t *testing.T) {
		svc, srv, notices, _ := newUsersFixture(t, testutil.TestAdmin)
		srv.Handle(http.MethodGet, "/users/stats", func(w http.ResponseWriter, r *http.Request) {
			testutil.WriteError(w, http.StatusInternalServerError, "stats broke")
		})

		require.NoError(t, svc.Refresh(context.Background()))
		assert.Len(t, svc.Cache().All(), 2, "user table still loads")
		assert.Nil(t, svc.Stats())
		assert.NotEmpty(t, notices.Warnings, "failure logged, not fatal")
	})
}

func TestToggleRole(t *testing.T) {
	svc, srv, _, confirm := newUsersFixture(t, testutil.TestAdmin)
	require.NoError(t, svc.Refresh(context.Background()))
	srv.HandleData(http.MethodPut, "/users/u1/role", nil)

	require.NoError(t, svc.ToggleRole(context.Background(), "u1"))

	var body struct {
		Role string `json:"role"`
	}
	reqs := srv.Requests()
	for _, r := range reqs {
		if r.Method == http.MethodPut {
			testutil.DecodeBody(t, r, &body)
		}
	}
	assert.Equal(t, entity.RoleAdmin, body.Role, "USER flips to ADMIN")
	require.Len(t, confirm.Prompts, 1)
	assert.Contains(t, confirm.Prompts[0], "reader")
}

func TestToggleStatus(t *testing.T) {
	svc, srv, _, confirm := newUsersFixture(t, testutil.TestAdmin)
	require.NoError(t, svc.Refresh(context.Background()))
	srv.HandleData(http.MethodPut, "/users/u1/status", nil)

	require.NoError(t, svc.ToggleStatus(context.Background(), "u1"))

	var body struct {
		Enabled bool `json:"enabled"`
	}
	for _, r := range srv.Requests() {
		if r.Method == http.MethodPut {
			testutil.DecodeBody(t, r, &body)
		}
	}
	assert.False(t, body.Enabled, "enabled account gets disabled")
	assert.Contains(t, confirm.Prompts[0], "Disable")
}

func TestDeleteUser(t *testing.T) {
	t.Run("self-deletion rejected before any request", func(t *testing.T) {
		svc, srv, notices, _ := newUsersFixture(t, testutil.TestAdmin)
		require.NoError(t, svc.Refresh(context.Background()))

		err := svc.Delete(context.Background(), testutil.TestAdmin.ID)
		assert.ErrorIs(t, err, ErrSelfDelete)
		assert.Equal(t, 0, srv.Calls(http.MethodDelete, "/users/"+testutil.TestAdmin.ID))
		assert.NotEmpty(t, notices.Errors)
	})

	t.Run("other accounts delete after confirmation", func(t *testing.T) {
		svc, srv, _, confirm := newUsersFixture(t, testutil.TestAdmin)
		require.NoError(t, svc.Refresh(context.Background()))
		srv.HandleData(http.MethodDelete, "/users/u1", nil)

		require.NoError(t, svc.Delete(context.Background(), "u1"))
		assert.Equal(t, 1, srv.Calls(http.MethodDelete, "/users/u1"))
		require.Len(t, confirm.Prompts, 1)
		assert.Contains(t, confirm.Prompts[0], "reader")
	})
}
