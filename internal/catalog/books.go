// Package catalog is the storefront and admin view of books and
// categories: list caches, keyword search with a client-side fallback,
// category filtering, sorting, and the admin CRUD mutations.
package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"bookshop/internal/api"
	"bookshop/internal/entity"
	"bookshop/internal/mutate"
	"bookshop/internal/ui"
	"bookshop/internal/validate"
	"bookshop/internal/viewcache"
)

// BooksPerPage is the storefront page size.
const BooksPerPage = 12

// nameCollator compares titles with the UI locale's collation rules.
var nameCollator = sync.OnceValue(func() *collate.Collator {
	return collate.New(language.Vietnamese)
})

// bookComparators are the sort orders offered by the storefront. All of
// them are used with a stable sort, so ties keep server order.
func bookComparators() map[viewcache.SortKey]func(a, b entity.Book) bool {
	return map[viewcache.SortKey]func(a, b entity.Book) bool{
		viewcache.SortPriceAsc: func(a, b entity.Book) bool {
			return a.Price.Cmp(b.Price) < 0
		},
		viewcache.SortPriceDesc: func(a, b entity.Book) bool {
			return a.Price.Cmp(b.Price) > 0
		},
		viewcache.SortNameAsc: func(a, b entity.Book) bool {
			return nameCollator().CompareString(a.Title, b.Title) < 0
		},
		viewcache.SortNameDesc: func(a, b entity.Book) bool {
			return nameCollator().CompareString(a.Title, b.Title) > 0
		},
	}
}

type Books struct {
	client *api.Client
	coord  *mutate.Coordinator
	notify ui.Notifier
	cache  *viewcache.Cache[entity.Book]
}

func NewBooks(client *api.Client, coord *mutate.Coordinator, notify ui.Notifier, onChange func()) *Books {
	b := &Books{client: client, coord: coord, notify: notify}
	b.cache = viewcache.New(b.fetch,
		viewcache.WithComparators(bookComparators()),
		viewcache.WithPageSize[entity.Book](BooksPerPage),
		viewcache.WithNotifier[entity.Book](notify),
		viewcache.WithOnChange[entity.Book](onChange),
	)
	return b
}

func (b *Books) fetch(ctx context.Context, _, _ int) ([]entity.Book, viewcache.PageInfo, error) {
	var page entity.Page[entity.Book]
	if err := b.client.Get(ctx, "/books", &page); err != nil {
		return nil, viewcache.PageInfo{}, err
	}
	return page.Content, viewcache.PageInfo{}, nil
}

// Cache exposes the list cache to the render layer.
func (b *Books) Cache() *viewcache.Cache[entity.Book] { return b.cache }

func (b *Books) Refresh(ctx context.Context) error { return b.cache.Refresh(ctx) }

// FilterByCategory narrows the view to one category. Empty or "all"
// clears the filter. No server round-trip.
func (b *Books) FilterByCategory(categoryID string) {
	if categoryID == "" || categoryID == "all" {
		b.cache.ApplyFilter(nil)
		return
	}
	b.cache.ApplyFilter(func(book entity.Book) bool {
		return book.CategoryID == categoryID
	})
}

func (b *Books) Sort(key viewcache.SortKey) { b.cache.ApplySort(key) }

// Search delegates to the server's keyword search and narrows the view
// to the returned books. When the search endpoint fails, it falls back
// to a local title/author substring filter over the cached collection,
// after surfacing the failure. An empty keyword clears the filter.
func (b *Books) Search(ctx context.Context, keyword string) error {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		b.cache.ApplyFilter(nil)
		return nil
	}

	var result entity.SearchResult
	err := b.client.Get(ctx, "/books/search?keyword="+url.QueryEscape(keyword), &result)
	if err != nil {
		b.notify.Errorf("search failed: %v", err)
		lower := strings.ToLower(keyword)
		b.cache.ApplyFilter(func(book entity.Book) bool {
			return strings.Contains(strings.ToLower(book.Title), lower) ||
				strings.Contains(strings.ToLower(book.Author), lower)
		})
		return err
	}

	matched := make(map[string]struct{}, len(result.Books))
	for _, book := range result.Books {
		matched[book.ID] = struct{}{}
	}
	b.cache.ApplyFilter(func(book entity.Book) bool {
		_, ok := matched[book.ID]
		return ok
	})
	return nil
}

// Create adds a book and re-fetches the list, so server-derived fields
// (the denormalized category name) come back authoritative.
func (b *Books) Create(ctx context.Context, input entity.BookInput) error {
	return b.coord.Do(ctx, mutate.Op{
		Validate: func() *validate.FieldError { return validate.Struct(input) },
		Call: func(ctx context.Context) error {
			return b.client.Post(ctx, "/books", input, nil)
		},
		Refresh:        b.cache.Refresh,
		SuccessMessage: "book created",
	})
}

func (b *Books) Update(ctx context.Context, id string, input entity.BookInput) error {
	return b.coord.Do(ctx, mutate.Op{
		Validate: func() *validate.FieldError { return validate.Struct(input) },
		Call: func(ctx context.Context) error {
			return b.client.Put(ctx, "/books/"+id, input, nil)
		},
		Refresh:        b.cache.Refresh,
		SuccessMessage: "book updated",
	})
}

func (b *Books) Delete(ctx context.Context, id string) error {
	title := id
	for _, book := range b.cache.Items() {
		if book.ID == id {
			title = book.Title
			break
		}
	}
	return b.coord.Do(ctx, mutate.Op{
		ConfirmPrompts: []string{fmt.Sprintf("Delete book %q?", title)},
		Call: func(ctx context.Context) error {
			return b.client.Delete(ctx, "/books/"+id, nil)
		},
		Refresh:        b.cache.Refresh,
		SuccessMessage: "book deleted",
	})
}
