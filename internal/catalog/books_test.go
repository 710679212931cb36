package catalog

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshop/internal/entity"
	"bookshop/internal/mutate"
	"bookshop/internal/testutil"
	"bookshop/internal/viewcache"
)

func newBooksFixture(t *testing.T) (*Books, *testutil.Server, *testutil.Notices, *testutil.ConfirmAll) {
	t.Helper()
	srv := testutil.NewServer(t)
	srv.HandleData(http.MethodGet, "/books", testutil.BooksPage(testutil.TestBooks))

	notices := &testutil.Notices{}
	confirm := &testutil.ConfirmAll{}
	coord := mutate.New(notices, confirm.Confirm)
	books := NewBooks(srv.Client("tok"), coord, notices, nil)
	return books, srv, notices, confirm
}

func TestBooksRefresh(t *testing.T) {
	books, _, _, _ := newBooksFixture(t)

	require.NoError(t, books.Refresh(context.Background()))
	assert.True(t, books.Cache().Loaded())
	assert.Len(t, books.Cache().All(), 3)
}

func TestBooksFilterByCategory(t *testing.T) {
	books, srv, _, _ := newBooksFixture(t)
	require.NoError(t, books.Refresh(context.Background()))
	fetches := srv.Calls(http.MethodGet, "/books")

	books.FilterByCategory("c2")
	all := books.Cache().All()
	require.Len(t, all, 1)
	assert.Equal(t, "Số Đỏ", all[0].Title)

	t.Run("all clears the filter", func(t *testing.T) {
		books.FilterByCategory("all")
		assert.Len(t, books.Cache().All(), 3)
	})

	assert.Equal(t, fetches, srv.Calls(http.MethodGet, "/books"),
		"filtering never re-fetches")
}

func TestBooksSort(t *testing.T) {
	books, _, _, _ := newBooksFixture(t)
	require.NoError(t, books.Refresh(context.Background()))

	books.Sort(viewcache.SortPriceDesc)
	all := books.Cache().All()
	assert.Equal(t, "Clean Code", all[0].Title)
	assert.Equal(t, "Dế Mèn Phiêu Lưu Ký", all[2].Title)

	t.Run("filter and sort compose", func(t *testing.T) {
		books.FilterByCategory("c1")
		require.Len(t, books.Cache().All(), 1)
		books.FilterByCategory("")
		all := books.Cache().All()
		assert.Equal(t, "Clean Code", all[0].Title, "sort survives filter changes")
	})
}

func TestBooksSearch(t *testing.T) {
	t.Run("narrows to server matches", func(t *testing.T) {
		books, srv, _, _ := newBooksFixture(t)
		require.NoError(t, books.Refresh(context.Background()))
		srv.HandleData(http.MethodGet, "/books/search", entity.SearchResult{
			Keyword: "code", Count: 1, Books: testutil.TestBooks[2:],
		})

		require.NoError(t, books.Search(context.Background(), "  code  "))
		all := books.Cache().All()
		require.Len(t, all, 1)
		assert.Equal(t, "Clean Code", all[0].Title)
	})

	t.Run("empty keyword clears the filter", func(t *testing.T) {
		books, _, _, _ := newBooksFixture(t)
		require.NoError(t, books.Refresh(context.Background()))
		books.FilterByCategory("c1")

		require.NoError(t, books.Search(context.Background(), "   "))
		assert.Len(t, books.Cache().All(), 3)
	})

	t.Run("falls back to local filter on failure", func(t *testing.T) {
		books, _, notices, _ := newBooksFixture(t)
		require.NoError(t, books.Refresh(context.Background()))
		// no /books/search handler registered; the endpoint 404s

		err := books.Search(context.Background(), "tô hoài")
		require.Error(t, err)
		assert.NotEmpty(t, notices.Errors, "failure is surfaced before the fallback")

		all := books.Cache().All()
		require.Len(t, all, 1)
		assert.Equal(t, "Dế Mèn Phiêu Lưu Ký", all[0].Title, "author matched case-insensitively")
	})
}

func TestBooksCreate(t *testing.T) {
	input := entity.BookInput{
		Title:      "Truyện Kiều",
		Author:     "Nguyễn Du",
		CategoryID: "c2",
		Price:      decimal.NewFromInt(88000),
	}

	t.Run("posts then refreshes once", func(t *testing.T) {
		books, srv, notices, _ := newBooksFixture(t)
		require.NoError(t, books.Refresh(context.Background()))
		srv.HandleData(http.MethodPost, "/books", map[string]string{"id": "b9"})
		fetches := srv.Calls(http.MethodGet, "/books")

		require.NoError(t, books.Create(context.Background(), input))
		assert.Equal(t, 1, srv.Calls(http.MethodPost, "/books"))
		assert.Equal(t, fetches+1, srv.Calls(http.MethodGet, "/books"))
		assert.Contains(t, notices.Success, "book created")
	})

	t.Run("validation failure issues no request", func(t *testing.T) {
		books, srv, notices, _ := newBooksFixture(t)
		bad := input
		bad.Price = decimal.Zero

		err := books.Create(context.Background(), bad)
		require.Error(t, err)
		assert.Equal(t, 0, srv.Calls(http.MethodPost, "/books"))
		assert.NotEmpty(t, notices.Errors)
	})
}

func TestBooksDelete(t *testing.T) {
	t.Run("confirms with the title", func(t *testing.T) {
		books, srv, _, confirm := newBooksFixture(t)
		require.NoError(t, books.Refresh(context.Background()))
		srv.HandleData(http.MethodDelete, "/books/b1", nil)

		require.NoError(t, books.Delete(context.Background(), "b1"))
		require.Len(t, confirm.Prompts, 1)
		assert.Contains(t, confirm.Prompts[0], "Dế Mèn Phiêu Lưu Ký")
		assert.Equal(t, 1, srv.Calls(http.MethodDelete, "/books/b1"))
	})

	t.Run("decline aborts before any request", func(t *testing.T) {
		srv := testutil.NewServer(t)
		srv.HandleData(http.MethodGet, "/books", testutil.BooksPage(testutil.TestBooks))
		notices := &testutil.Notices{}
		coord := mutate.New(notices, testutil.ConfirmNone)
		books := NewBooks(srv.Client("tok"), coord, notices, nil)
		require.NoError(t, books.Refresh(context.Background()))

		err := books.Delete(context.Background(), "b1")
		assert.ErrorIs(t, err, mutate.ErrCancelled)
		assert.Equal(t, 0, srv.Calls(http.MethodDelete, "/books/b1"))
	})
}
