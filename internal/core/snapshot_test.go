package core

import (
	"testing"
	"time"
)

func TestCaptureSnapshotTotals(t *testing.T) {
	s := testState()
	now := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

	snap, list := CaptureSnapshot(s, now)

	if snap.Month != "2025-03" {
		t.Fatalf("month key = %q, want 2025-03", snap.Month)
	}
	if snap.Currency != "EUR" {
		t.Fatalf("currency = %q, want EUR", snap.Currency)
	}
	if snap.AssetsTotal != s.AssetsTotal("EUR") {
		t.Fatalf("assets total = %v, want %v", snap.AssetsTotal, s.AssetsTotal("EUR"))
	}
	if snap.NetWorth != Round2(snap.AssetsTotal-snap.LiabilitiesTotal) {
		t.Fatalf("net worth %v does not match assets %v - liabilities %v",
			snap.NetWorth, snap.AssetsTotal, snap.LiabilitiesTotal)
	}
	if snap.ID == "" {
		t.Fatal("snapshot must have an identity")
	}
	if len(list) != 1 || list[0].ID != snap.ID {
		t.Fatalf("expected list with the single new snapshot, got %d entries", len(list))
	}
}

func TestCaptureSnapshotDedupesByMonth(t *testing.T) {
	s := testState()
	march := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	first, list := CaptureSnapshot(s, march)
	s.Snapshots = list

	// Totals change between captures within the same month.
	s.Assets = append(s.Assets, Asset{ID: "a9", Name: "bonus", Currency: "EUR", Value: 5000, Owner: OwnerSelf})

	second, list := CaptureSnapshot(s, march.AddDate(0, 0, 20))
	monthCount := 0
	for _, snap := range list {
		if snap.Month == "2025-03" && snap.Currency == "EUR" {
			monthCount++
			if snap.AssetsTotal != second.AssetsTotal {
				t.Fatalf("surviving snapshot must carry the latest totals, got %v want %v",
					snap.AssetsTotal, second.AssetsTotal)
			}
		}
	}
	if monthCount != 1 {
		t.Fatalf("expected exactly one snapshot for 2025-03, got %d", monthCount)
	}
	if second.ID == first.ID {
		t.Fatal("recapture must mint a fresh identity")
	}
}

func TestCaptureSnapshotKeepsOtherMonthsAndCurrencies(t *testing.T) {
	s := testState()
	s.Snapshots = []Snapshot{
		{ID: "old-feb", Month: "2025-02", Currency: "EUR", NetWorth: 10},
		{ID: "old-mar-usd", Month: "2025-03", Currency: "USD", NetWorth: 20},
	}

	snap, list := CaptureSnapshot(s, time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC))

	if len(list) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(list))
	}
	// New snapshot is prepended; unrelated keys keep their relative order.
	if list[0].ID != snap.ID || list[1].ID != "old-feb" || list[2].ID != "old-mar-usd" {
		t.Fatalf("unexpected order: %s, %s, %s", list[0].ID, list[1].ID, list[2].ID)
	}
}
