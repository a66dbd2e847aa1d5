package ledger_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"mediapick/internal/ledger"
	"mediapick/internal/testsupport"
)

func TestRecordAndListSelections(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLedger(t, cfg)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first := ledger.Selection{
		InvocationID: "inv-1",
		Mode:         "library",
		InputCount:   3,
		OutputCount:  3,
		Path:         ledger.PathReview,
		StartedAt:    base,
		FinishedAt:   base.Add(2 * time.Second),
	}
	second := ledger.Selection{
		InvocationID: "inv-2",
		Mode:         "camera",
		InputCount:   1,
		Path:         ledger.PathChain,
		Cancelled:    true,
		StartedAt:    base.Add(time.Minute),
		FinishedAt:   base.Add(time.Minute + time.Second),
	}
	for _, sel := range []ledger.Selection{first, second} {
		if err := store.RecordSelection(ctx, sel); err != nil {
			t.Fatalf("RecordSelection failed: %v", err)
		}
	}

	list, err := store.ListSelections(ctx, 0)
	if err != nil {
		t.Fatalf("ListSelections failed: %v", err)
	}
	if diff := cmp.Diff([]ledger.Selection{second, first}, list); diff != "" {
		t.Fatalf("unexpected selections (-want +got):\n%s", diff)
	}
	if list[1].Duration() != 2*time.Second {
		t.Fatalf("expected 2s duration, got %s", list[1].Duration())
	}
	if list[0].Outcome() != "cancelled" || list[1].Outcome() != "delivered" {
		t.Fatalf("unexpected outcomes %q %q", list[0].Outcome(), list[1].Outcome())
	}

	limited, err := store.ListSelections(ctx, 1)
	if err != nil || len(limited) != 1 || limited[0].InvocationID != "inv-2" {
		t.Fatalf("expected newest selection only, got %+v err=%v", limited, err)
	}

	stats, err := store.SelectionStats(ctx)
	if err != nil {
		t.Fatalf("SelectionStats failed: %v", err)
	}
	if stats != (ledger.Stats{Total: 2, Delivered: 1, Cancelled: 1}) {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestRecordSelectionRejectsDuplicatesAndBlankIDs(t *testing.T) {
	store := testsupport.MustOpenLedger(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if err := store.RecordSelection(ctx, ledger.Selection{}); err == nil {
		t.Fatal("expected error for blank invocation id")
	}
	sel := ledger.Selection{InvocationID: "dup", Mode: "library"}
	if err := store.RecordSelection(ctx, sel); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	if err := store.RecordSelection(ctx, sel); err == nil {
		t.Fatal("expected duplicate invocation to be rejected")
	}
	got, err := store.GetSelection(ctx, "dup")
	if err != nil || got == nil || got.Path != ledger.PathPassthrough {
		t.Fatalf("expected defaulted path, got %+v err=%v", got, err)
	}
	missing, err := store.GetSelection(ctx, "nope")
	if err != nil || missing != nil {
		t.Fatalf("expected nil for missing selection, got %+v err=%v", missing, err)
	}
}

func TestAlbumAssets(t *testing.T) {
	store := testsupport.MustOpenLedger(t, testsupport.NewConfig(t))
	ctx := context.Background()
	now := time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)

	assets := []ledger.AlbumAsset{
		{ID: "a", InvocationID: "inv", Album: "Trips", Path: "/album/trips/a.jpg", Width: 4, Height: 3, FromCamera: true, CreatedAt: now},
		{ID: "b", Album: "Trips", Path: "/album/trips/b.jpg", CreatedAt: now.Add(time.Second)},
		{ID: "c", InvocationID: "inv", Album: "Pets", Path: "/album/pets/c.jpg", CreatedAt: now.Add(2 * time.Second)},
	}
	for _, asset := range assets {
		if err := store.RecordAlbumAsset(ctx, asset); err != nil {
			t.Fatalf("RecordAlbumAsset failed: %v", err)
		}
	}

	trips, err := store.ListAlbumAssets(ctx, "Trips")
	if err != nil {
		t.Fatalf("ListAlbumAssets failed: %v", err)
	}
	if diff := cmp.Diff(assets[:2], trips); diff != "" {
		t.Fatalf("unexpected assets (-want +got):\n%s", diff)
	}
	all, err := store.ListAlbumAssets(ctx, "")
	if err != nil || len(all) != 3 {
		t.Fatalf("expected 3 assets, got %d err=%v", len(all), err)
	}
	count, err := store.AssetsForInvocation(ctx, "inv")
	if err != nil || count != 2 {
		t.Fatalf("expected 2 assets for invocation, got %d err=%v", count, err)
	}
	if err := store.RecordAlbumAsset(ctx, ledger.AlbumAsset{ID: "x"}); err == nil {
		t.Fatal("expected error for asset without path")
	}
}

func TestReopenKeepsDataAndRejectsOtherVersions(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := ledger.Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := store.RecordSelection(context.Background(), ledger.Selection{InvocationID: "keep", Mode: "camera"}); err != nil {
		t.Fatalf("RecordSelection failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := testsupport.MustOpenLedger(t, cfg)
	if got, err := reopened.GetSelection(context.Background(), "keep"); err != nil || got == nil {
		t.Fatalf("expected selection to survive reopen, got %+v err=%v", got, err)
	}
	if err := reopened.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	db, err := sql.Open("sqlite", cfg.LedgerPath())
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	_ = db.Close()

	if _, err := ledger.Open(cfg); !errors.Is(err, ledger.ErrSchemaMismatch) {
		t.Fatalf("expected schema mismatch, got %v", err)
	}
}

func TestClearSelections(t *testing.T) {
	store := testsupport.MustOpenLedger(t, testsupport.NewConfig(t))
	ctx := context.Background()
	for _, id := range []string{"a", "b"} {
		if err := store.RecordSelection(ctx, ledger.Selection{InvocationID: id, Mode: "library"}); err != nil {
			t.Fatalf("RecordSelection failed: %v", err)
		}
	}
	removed, err := store.ClearSelections(ctx)
	if err != nil || removed != 2 {
		t.Fatalf("expected 2 rows removed, got %d err=%v", removed, err)
	}
}
