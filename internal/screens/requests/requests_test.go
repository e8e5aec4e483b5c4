package requests

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studyforge/internal/router"
	"github.com/abhisek/studyforge/internal/store"
)

func openRepo(t *testing.T) store.RequestEventRepo {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	s, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s.RequestEventRepo()
}

func seed(t *testing.T, repo store.RequestEventRepo) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	events := []store.RequestEvent{
		{Timestamp: base, Method: "GET", Path: "/users/me", Status: 200, LatencyMs: 12, Success: true},
		{Timestamp: base.Add(time.Second), Method: "GET", Path: "/syllabi/user/1", Status: 503, LatencyMs: 900, Attempts: 3, ErrorMessage: "service unavailable"},
		{Timestamp: base.Add(2 * time.Second), Method: "POST", Path: "/topics/5/progress", Status: 200, LatencyMs: 30, Success: true},
	}
	for _, ev := range events {
		if err := repo.Append(ctx, ev); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
}

func loaded(t *testing.T, repo store.RequestEventRepo) *RequestsScreen {
	t.Helper()
	s := New(context.Background(), repo)
	s.Update(s.Init()())
	return s
}

func key(k string) tea.KeyPressMsg {
	switch k {
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	}
	return tea.KeyPressMsg{Code: rune(k[0]), Text: k}
}

func TestRequests_NewestFirst(t *testing.T) {
	repo := openRepo(t)
	seed(t, repo)
	s := loaded(t, repo)

	if len(s.events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(s.events))
	}
	if s.events[0].Path != "/topics/5/progress" {
		t.Errorf("expected newest first, got %q", s.events[0].Path)
	}

	view := s.View(120, 30)
	for _, want := range []string{"3 requests", "/users/me", "503", "×3"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestRequests_FailureFilterAndDetails(t *testing.T) {
	repo := openRepo(t)
	seed(t, repo)
	s := loaded(t, repo)

	s.Update(key("f"))
	if got := len(s.visible()); got != 1 {
		t.Fatalf("expected 1 failure, got %d", got)
	}
	s.Update(key("enter"))
	view := s.View(120, 30)
	if !strings.Contains(view, "(failures)") || !strings.Contains(view, "service unavailable") {
		t.Errorf("expected expanded failure, got:\n%s", view)
	}

	s.Update(key("f"))
	if got := len(s.visible()); got != 3 {
		t.Errorf("expected filter off, got %d", got)
	}
}

func TestRequests_Navigation(t *testing.T) {
	repo := openRepo(t)
	seed(t, repo)
	s := loaded(t, repo)

	for i := 0; i < 5; i++ {
		s.Update(key("down"))
	}
	if s.selected != 2 {
		t.Errorf("expected cursor clamped at 2, got %d", s.selected)
	}

	_, cmd := s.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestRequests_Empty(t *testing.T) {
	s := loaded(t, openRepo(t))
	if !strings.Contains(s.View(120, 30), "No requests recorded yet.") {
		t.Error("expected empty message")
	}
}

type failingRepo struct{ store.RequestEventRepo }

func (failingRepo) Query(context.Context, store.QueryOpts) ([]store.RequestEvent, error) {
	return nil, errors.New("database is locked")
}

func TestRequests_QueryError(t *testing.T) {
	s := loaded(t, failingRepo{})
	if !strings.Contains(s.View(120, 30), "database is locked") {
		t.Error("expected error in view")
	}
}
