package users

import (
	"context"
	"testing"

	"github.com/daxzwashe/ref-bot/internal/domain/model"
)

type fakeRepo struct {
	items     []model.UserListItem
	lastLimit int
	lastOff   int

	byIDCalls   []int64
	textQueries []string
}

func (f *fakeRepo) List(_ context.Context, limit, offset int) ([]model.UserListItem, int64, error) {
	f.lastLimit, f.lastOff = limit, offset
	end := offset + limit
	if offset > len(f.items) {
		return nil, int64(len(f.items)), nil
	}
	if end > len(f.items) {
		end = len(f.items)
	}
	return f.items[offset:end], int64(len(f.items)), nil
}

func (f *fakeRepo) FindByID(_ context.Context, tgID int64) ([]model.UserListItem, error) {
	f.byIDCalls = append(f.byIDCalls, tgID)
	for _, item := range f.items {
		if item.TgID == tgID {
			return []model.UserListItem{item}, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) SearchByText(_ context.Context, query string) ([]model.UserListItem, error) {
	f.textQueries = append(f.textQueries, query)
	return f.items, nil
}

func manyUsers(n int) []model.UserListItem {
	items := make([]model.UserListItem, n)
	for i := range items {
		items[i].TgID = int64(i + 1)
	}
	return items
}

func TestListPagination(t *testing.T) {
	repo := &fakeRepo{items: manyUsers(31)}
	svc := NewService(repo)

	items, page, err := svc.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != PageSize {
		t.Fatalf("page 0 size = %d, want %d", len(items), PageSize)
	}
	if !page.HasNext || page.HasPrev {
		t.Fatalf("page 0 flags wrong: %+v", page)
	}

	items, page, err = svc.List(context.Background(), 2)
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("page 2 size = %d, want 1", len(items))
	}
	if page.HasNext || !page.HasPrev {
		t.Fatalf("page 2 flags wrong: %+v", page)
	}
}

func TestListClampsNegativePage(t *testing.T) {
	repo := &fakeRepo{items: manyUsers(3)}
	svc := NewService(repo)

	if _, _, err := svc.List(context.Background(), -5); err != nil {
		t.Fatalf("list: %v", err)
	}
	if repo.lastOff != 0 {
		t.Fatalf("offset = %d, want 0", repo.lastOff)
	}
}

func TestSearchNumericGoesByID(t *testing.T) {
	repo := &fakeRepo{items: manyUsers(3)}
	svc := NewService(repo)

	items, err := svc.Search(context.Background(), " 2 ")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(repo.byIDCalls) != 1 || repo.byIDCalls[0] != 2 {
		t.Fatalf("expected id lookup for 2, got %v", repo.byIDCalls)
	}
	if len(repo.textQueries) != 0 {
		t.Fatalf("numeric query must not hit text search: %v", repo.textQueries)
	}
	if len(items) != 1 || items[0].TgID != 2 {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestSearchTextStripsAt(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	if _, err := svc.Search(context.Background(), "@ivan"); err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(repo.textQueries) != 1 || repo.textQueries[0] != "ivan" {
		t.Fatalf("expected stripped query, got %v", repo.textQueries)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	items, err := svc.Search(context.Background(), "   ")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if items != nil {
		t.Fatalf("expected nil for empty query, got %+v", items)
	}
	if len(repo.byIDCalls)+len(repo.textQueries) != 0 {
		t.Fatal("empty query must not hit the repo")
	}
}
