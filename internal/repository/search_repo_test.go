package repository

import (
	"context"
	"testing"
	"time"

	"srt-booking/internal/domain"
)

func TestMemorySearchRepository_ListByOwner(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySearchRepository(3)
	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	for i, owner := range []string{"a", "b", "a", "a", "a"} {
		_ = repo.Create(ctx, domain.SearchRecord{
			ID:        string(rune('1' + i)),
			OwnerHash: owner,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	got, err := repo.ListByOwner(ctx, "a", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	// Solo quedan los tres mas recientes.
	if len(got) != 3 || got[0].ID != "5" || got[2].ID != "3" {
		t.Fatalf("unexpected records: %+v", got)
	}

	got, _ = repo.ListByOwner(ctx, "a", 1)
	if len(got) != 1 || got[0].ID != "5" {
		t.Fatalf("expected limit to apply, got %+v", got)
	}
	if got, _ := repo.ListByOwner(ctx, "b", 10); len(got) != 0 {
		t.Fatalf("expected evicted owner to have no records, got %+v", got)
	}
}
