// Package user is the admin user-management view: the user table, role
// and status toggles, deletion with a self-deletion guard, and the
// best-effort aggregate stats.
package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"bookshop/internal/api"
	"bookshop/internal/entity"
	"bookshop/internal/mutate"
	"bookshop/internal/ui"
	"bookshop/internal/viewcache"
)

// ErrSelfDelete is returned when an admin tries to delete their own
// account. The request is never issued.
var ErrSelfDelete = errors.New("cannot delete your own account")

// CurrentUserFunc supplies the logged-in user for the self-deletion
// guard.
type CurrentUserFunc func() *entity.User

type Service struct {
	client  *api.Client
	coord   *mutate.Coordinator
	notify  ui.Notifier
	current CurrentUserFunc
	cache   *viewcache.Cache[entity.User]

	mu    sync.Mutex
	stats *entity.UserStats
}

func New(client *api.Client, coord *mutate.Coordinator, notify ui.Notifier, current CurrentUserFunc, onChange func()) *Service {
	s := &Service{client: client, coord: coord, notify: notify, current: current}
	s.cache = viewcache.New(s.fetch,
		viewcache.WithNotifier[entity.User](notify),
		viewcache.WithOnChange[entity.User](onChange),
	)
	return s
}

// fetch tolerates both list shapes the backend has shipped: a page
// envelope and a bare array.
func (s *Service) fetch(ctx context.Context, _, _ int) ([]entity.User, viewcache.PageInfo, error) {
	var raw json.RawMessage
	if err := s.client.Get(ctx, "/users", &raw); err != nil {
		return nil, viewcache.PageInfo{}, err
	}

	var page entity.Page[entity.User]
	if err := json.Unmarshal(raw, &page); err == nil && page.Content != nil {
		return page.Content, viewcache.PageInfo{}, nil
	}
	var list []entity.User
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, viewcache.PageInfo{}, fmt.Errorf("unexpected users payload: %w", err)
	}
	return list, viewcache.PageInfo{}, nil
}

func (s *Service) Cache() *viewcache.Cache[entity.User] { return s.cache }

// Refresh reloads the user list and then the stats. The stats call is
// best-effort: its failure is logged and never fails the refresh.
func (s *Service) Refresh(ctx context.Context) error {
	if err := s.cache.Refresh(ctx); err != nil {
		return err
	}

	var stats entity.UserStats
	if err := s.client.Get(ctx, "/users/stats", &stats); err != nil {
		s.notify.Warnf("user stats unavailable: %v", err)
		return nil
	}
	s.mu.Lock()
	s.stats = &stats
	s.mu.Unlock()
	return nil
}

// Stats returns the last fetched aggregate, or nil when it has never
// been available.
func (s *Service) Stats() *entity.UserStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *Service) find(id string) *entity.User {
	for _, u := range s.cache.Items() {
		if u.ID == id {
			return &u
		}
	}
	return nil
}

// ToggleRole flips a user between USER and ADMIN.
func (s *Service) ToggleRole(ctx context.Context, id string) error {
	u := s.find(id)
	if u == nil {
		s.notify.Errorf("user not found")
		return fmt.Errorf("user %s not in list", id)
	}

	newRole := entity.RoleAdmin
	if u.Role == entity.RoleAdmin {
		newRole = entity.RoleUser
	}
	body := struct {
		Role string `json:"role"`
	}{newRole}

	return s.coord.Do(ctx, mutate.Op{
		ConfirmPrompts: []string{fmt.Sprintf("Change role of %q to %s?", u.Username, newRole)},
		Call: func(ctx context.Context) error {
			return s.client.Put(ctx, "/users/"+id+"/role", body, nil)
		},
		Refresh:        s.refreshAll,
		SuccessMessage: "role updated",
	})
}

// ToggleStatus enables or disables a user account.
func (s *Service) ToggleStatus(ctx context.Context, id string) error {
	u := s.find(id)
	if u == nil {
		s.notify.Errorf("user not found")
		return fmt.Errorf("user %s not in list", id)
	}

	action := "Disable"
	if !u.Enabled {
		action = "Enable"
	}
	body := struct {
		Enabled bool `json:"enabled"`
	}{!u.Enabled}

	return s.coord.Do(ctx, mutate.Op{
		ConfirmPrompts: []string{fmt.Sprintf("%s account %q?", action, u.Username)},
		Call: func(ctx context.Context) error {
			return s.client.Put(ctx, "/users/"+id+"/status", body, nil)
		},
		Refresh:        s.refreshAll,
		SuccessMessage: "account status updated",
	})
}

// Delete removes a user after confirmation. Deleting the logged-in
// account is rejected locally before any request is issued.
func (s *Service) Delete(ctx context.Context, id string) error {
	if me := s.current(); me != nil && me.ID == id {
		s.notify.Errorf("you cannot delete your own account")
		return ErrSelfDelete
	}

	name := id
	if u := s.find(id); u != nil {
		name = u.Username
	}

	return s.coord.Do(ctx, mutate.Op{
		ConfirmPrompts: []string{fmt.Sprintf("Delete user %q? This cannot be undone.", name)},
		Call: func(ctx context.Context) error {
			return s.client.Delete(ctx, "/users/"+id, nil)
		},
		Refresh:        s.refreshAll,
		SuccessMessage: "user deleted",
	})
}

func (s *Service) refreshAll(ctx context.Context) error { return s.Refresh(ctx) }
