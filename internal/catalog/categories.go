package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"bookshop/internal/api"
	"bookshop/internal/entity"
	"bookshop/internal/mutate"
	"bookshop/internal/ui"
	"bookshop/internal/validate"
	"bookshop/internal/viewcache"
)

type Categories struct {
	client *api.Client
	coord  *mutate.Coordinator
	notify ui.Notifier
	cache  *viewcache.Cache[entity.Category]

	// books supplies the current book collection for the dependent-book
	// warning on delete; injected instead of sharing a module-level
	// array with the books view.
	books func() []entity.Book
}

func NewCategories(client *api.Client, coord *mutate.Coordinator, notify ui.Notifier, books func() []entity.Book, onChange func()) *Categories {
	c := &Categories{client: client, coord: coord, notify: notify, books: books}
	c.cache = viewcache.New(c.fetch,
		viewcache.WithNotifier[entity.Category](notify),
		viewcache.WithOnChange[entity.Category](onChange),
	)
	return c
}

// fetch tolerates the three list shapes the backend has shipped: a page
// envelope, a {categories:[...]} wrapper, and a bare array. A failed
// fetch keeps prior data and surfaces the error; there is no default
// category list to fall back to.
func (c *Categories) fetch(ctx context.Context, _, _ int) ([]entity.Category, viewcache.PageInfo, error) {
	var raw json.RawMessage
	if err := c.client.Get(ctx, "/categories?limit=100", &raw); err != nil {
		return nil, viewcache.PageInfo{}, err
	}

	var page entity.Page[entity.Category]
	if err := json.Unmarshal(raw, &page); err == nil && page.Content != nil {
		return page.Content, viewcache.PageInfo{}, nil
	}
	var wrapper struct {
		Categories []entity.Category `json:"categories"`
	}
	if err := json.Unmarshal(raw, &wrapper); err == nil && wrapper.Categories != nil {
		return wrapper.Categories, viewcache.PageInfo{}, nil
	}
	var list []entity.Category
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, viewcache.PageInfo{}, fmt.Errorf("unexpected categories payload: %w", err)
	}
	return list, viewcache.PageInfo{}, nil
}

func (c *Categories) Cache() *viewcache.Cache[entity.Category] { return c.cache }

func (c *Categories) Refresh(ctx context.Context) error { return c.cache.Refresh(ctx) }

// nameTaken pre-checks uniqueness before a write. The server remains
// the authority; this just avoids a doomed round-trip.
func (c *Categories) nameTaken(name, excludeID string) bool {
	for _, cat := range c.cache.Items() {
		if cat.ID != excludeID && strings.EqualFold(cat.Name, name) {
			return true
		}
	}
	return false
}

func (c *Categories) Create(ctx context.Context, input entity.CategoryInput) error {
	return c.coord.Do(ctx, mutate.Op{
		Validate: func() *validate.FieldError {
			if fieldErr := validate.Struct(input); fieldErr != nil {
				return fieldErr
			}
			if c.nameTaken(input.Name, "") {
				return &validate.FieldError{Field: "name", Message: "category already exists"}
			}
			return nil
		},
		Call: func(ctx context.Context) error {
			return c.client.Post(ctx, "/categories", input, nil)
		},
		Refresh:        c.cache.Refresh,
		SuccessMessage: "category created",
	})
}

func (c *Categories) Rename(ctx context.Context, id string, input entity.CategoryInput) error {
	return c.coord.Do(ctx, mutate.Op{
		Validate: func() *validate.FieldError {
			if fieldErr := validate.Struct(input); fieldErr != nil {
				return fieldErr
			}
			if c.nameTaken(input.Name, id) {
				return &validate.FieldError{Field: "name", Message: "category already exists"}
			}
			return nil
		},
		Call: func(ctx context.Context) error {
			return c.client.Put(ctx, "/categories/"+id, input, nil)
		},
		Refresh:        c.cache.Refresh,
		SuccessMessage: "category updated",
	})
}

// Delete asks for confirmation, and a second time when books still
// reference the category. The server decides whether the deletion is
// actually permitted.
func (c *Categories) Delete(ctx context.Context, id string) error {
	name := id
	for _, cat := range c.cache.Items() {
		if cat.ID == id {
			name = cat.Name
			break
		}
	}

	prompts := []string{fmt.Sprintf("Delete category %q?", name)}
	if c.books != nil {
		dependents := 0
		for _, book := range c.books() {
			if book.CategoryID == id || book.CategoryName == name {
				dependents++
			}
		}
		if dependents > 0 {
			prompts = append(prompts, fmt.Sprintf("Category %q still has %d book(s). Delete anyway?", name, dependents))
		}
	}

	return c.coord.Do(ctx, mutate.Op{
		ConfirmPrompts: prompts,
		Call: func(ctx context.Context) error {
			return c.client.Delete(ctx, "/categories/"+id, nil)
		},
		Refresh:        c.cache.Refresh,
		SuccessMessage: "category deleted",
	})
}
