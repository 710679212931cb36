package catalog

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

var testCategories = []entity.Category{
	{ID: "c1", Name: "Thiếu nhi"},
	{ID: "c2", Name: "Văn học"},
}

func newCategoriesFixture(t *testing.T, books func() []entity.Book) (*Categories, *testutil.Server, *testutil.Notices, *testutil.ConfirmAll) {
	t.Helper()
	srv := testutil.NewServer(t)
	notices := &testutil.Notices{}
	confirm := &testutil.ConfirmAll{}
	coord := mutate.New(notices, confirm.Confirm)
	cats := NewCategories(srv.Client("tok"), coord, notices, books, nil)
	return cats, srv, notices, confirm
}

func TestCategoriesFetchShapes(t *testing.T) {
	cases := []struct {
		name string
		data any
	}{
		{"page envelope", map[string]any{"content": testCategories, "total": 2}},
		{"categories wrapper", map[string]any{"categories": testCategories}},
		{"bare array", testCategories},
		{"legacy strings", []string{"Thiếu nhi", "Văn học"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cats, srv, _, _ := newCategoriesFixture(t, nil)
			srv.HandleData(http.MethodGet, "/categories", tc.data)

			require.NoError(t, cats.Refresh(context.Background()))
			all := cats.Cache().All()
			require.Len(t, all, 2)
			assert.Equal(t, "Thiếu nhi", all[0].Name)
		})
	}
}

func TestCategoriesFetchFailureHasNoFallback(t *testing.T) {
	cats, _, _, _ := newCategoriesFixture(t, nil)
	// no handler registered; the endpoint 404s

	require.Error(t, cats.Refresh(context.Background()))
	assert.False(t, cats.Cache().Loaded())
	assert.Empty(t, cats.Cache().All(), "no hardcoded category list")
}

func TestCategoriesCreate(t *testing.T) {
	t.Run("duplicate name rejected locally", func(t *testing.T) {
		cats, srv, notices, _ := newCategoriesFixture(t, nil)
		srv.HandleData(http.MethodGet, "/categories", testCategories)
		require.NoError(t, cats.Refresh(context.Background()))

		err := cats.Create(context.Background(), entity.CategoryInput{Name: "văn học"})
		require.Error(t, err)
		assert.Equal(t, 0, srv.Calls(http.MethodPost, "/categories"), "case-insensitive match issues no request")
		assert.NotEmpty(t, notices.Errors)
	})

	t.Run("new name posts and refreshes", func(t *testing.T) {
		cats, srv, _, _ := newCategoriesFixture(t, nil)
		srv.HandleData(http.MethodGet, "/categories", testCategories)
		srv.HandleData(http.MethodPost, "/categories", map[string]string{"id": "c3"})
		require.NoError(t, cats.Refresh(context.Background()))
		fetches := srv.Calls(http.MethodGet, "/categories")

		require.NoError(t, cats.Create(context.Background(), entity.CategoryInput{Name: "Công nghệ"}))
		assert.Equal(t, 1, srv.Calls(http.MethodPost, "/categories"))
		assert.Equal(t, fetches+1, srv.Calls(http.MethodGet, "/categories"))
	})
}

func TestCategoriesRenameKeepsOwnName(t *testing.T) {
	cats, srv, _, _ := newCategoriesFixture(t, nil)
	srv.HandleData(http.MethodGet, "/categories", testCategories)
	srv.HandleData(http.MethodPut, "/categories/c2", nil)
	require.NoError(t, cats.Refresh(context.Background()))

	// renaming to its own (case-folded) name is not a duplicate
	require.NoError(t, cats.Rename(context.Background(), "c2", entity.CategoryInput{Name: "VĂN HỌC"}))
	assert.Equal(t, 1, srv.Calls(http.MethodPut, "/categories/c2"))
}

func TestCategoriesDelete(t *testing.T) {
	booksIn := func(categoryID string, n int) func() []entity.Book {
		return func() []entity.Book {
			out := make([]entity.Book, n)
			for i := range out {
				out[i] = entity.Book{ID: "b", CategoryID: categoryID}
			}
			return out
		}
	}

	t.Run("no dependents asks once", func(t *testing.T) {
		cats, srv, _, confirm := newCategoriesFixture(t, booksIn("other", 2))
		srv.HandleData(http.MethodGet, "/categories", testCategories)
		srv.HandleData(http.MethodDelete, "/categories/c1", nil)
		require.NoError(t, cats.Refresh(context.Background()))

		require.NoError(t, cats.Delete(context.Background(), "c1"))
		assert.Len(t, confirm.Prompts, 1)
	})

	t.Run("dependents add a second prompt", func(t *testing.T) {
		cats, srv, _, confirm := newCategoriesFixture(t, booksIn("c1", 3))
		srv.HandleData(http.MethodGet, "/categories", testCategories)
		srv.HandleData(http.MethodDelete, "/categories/c1", nil)
		require.NoError(t, cats.Refresh(context.Background()))

		require.NoError(t, cats.Delete(context.Background(), "c1"))
		require.Len(t, confirm.Prompts, 2)
		assert.Contains(t, confirm.Prompts[1], "3 book(s)")
		assert.Equal(t, 1, srv.Calls(http.MethodDelete, "/categories/c1"))
	})
}
