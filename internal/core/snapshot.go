package core

import (
	"time"

	"github.com/google/uuid"
)

// MonthKey formats t as the YYYY-MM snapshot key.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// CaptureSnapshot materializes a net-worth snapshot for the state's display
// currency at the given instant and returns it together with the updated
// snapshot list. Any existing snapshot for the same (month, currency) key is
// removed and the new one is prepended, so the list holds at most one entry
// per key, most recent insertion first. Recapturing within a month replaces
// the slot but mints a fresh identity.
func CaptureSnapshot(s AppState, now time.Time) (Snapshot, []Snapshot) {
	snap := Snapshot{
		ID:               uuid.NewString(),
		Month:            MonthKey(now),
		Currency:         s.DisplayCurrency,
		AssetsTotal:      s.AssetsTotal(s.DisplayCurrency),
		LiabilitiesTotal: s.LiabilitiesTotal(s.DisplayCurrency),
		NetWorth:         s.NetWorth(s.DisplayCurrency),
		CreatedAt:        now,
	}

	updated := make([]Snapshot, 0, len(s.Snapshots)+1)
	updated = append(updated, snap)
	for _, old := range s.Snapshots {
		if old.Month == snap.Month && old.Currency == snap.Currency {
			continue
		}
		updated = append(updated, old)
	}
	return snap, updated
}
