package service

import (
	"context"
	"time"

	"prompt_badges/internal/domain"
	"prompt_badges/internal/metrics"
)

// Invalidator drops cached leaderboards after a ledger change.
type Invalidator interface {
	Invalidate()
}

// LedgerWriter applies award and upgrade decisions. Atomicity comes from
// the store's conditional writes; there is no lock here.
type LedgerWriter struct {
	store       BadgeLedgerStore
	invalidator Invalidator
	now         func() time.Time
}

func NewLedgerWriter(store BadgeLedgerStore, invalidator Invalidator) *LedgerWriter {
	return &LedgerWriter{store: store, invalidator: invalidator, now: time.Now}
}

// Award records a first award. A lost race against a concurrent award is
// reported as applied=false, not as an error.
func (w *LedgerWriter) Award(ctx context.Context, userID int64, badgeID string, level int, progress float64) (bool, error) {
	applied, err := w.store.AppendBadgeIfAbsent(ctx, userID, domain.UserBadge{
		BadgeID:  badgeID,
		Level:    max(level, 1),
		Progress: progress,
		EarnedAt: w.now(),
	})
	if err != nil {
		return false, err
	}
	w.record("award", applied)
	return applied, nil
}

// Upgrade raises a held level. Lower or equal levels are ignored.
func (w *LedgerWriter) Upgrade(ctx context.Context, userID int64, badgeID string, newLevel int, progress float64) (bool, error) {
	applied, err := w.store.SetBadgeLevelIfGreater(ctx, userID, badgeID, newLevel, w.now(), progress)
	if err != nil {
		return false, err
	}
	w.record("upgrade", applied)
	return applied, nil
}

func (w *LedgerWriter) record(kind string, applied bool) {
	if !applied {
		metrics.BadgeWrites.WithLabelValues(kind, "noop").Inc()
		return
	}
	metrics.BadgeWrites.WithLabelValues(kind, "applied").Inc()
	if w.invalidator != nil {
		w.invalidator.Invalidate()
	}
}
