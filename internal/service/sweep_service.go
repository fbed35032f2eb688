package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"prompt_badges/internal/badges"
	"prompt_badges/internal/domain"
	"prompt_badges/internal/logger"
	"prompt_badges/internal/metrics"

	"github.com/google/uuid"
)

var ErrSweepRunning = errors.New("time based sweep already running")

const defaultSweepBatchSize = 500

// SweepUserResult is recorded for every user that got a badge or failed.
type SweepUserResult struct {
	UserID        int64                      `json:"user_id"`
	Notifications []domain.BadgeNotification `json:"notifications,omitempty"`
	Error         string                     `json:"error,omitempty"`
}

type SweepSummary struct {
	RunID        string            `json:"run_id"`
	StartedAt    time.Time         `json:"started_at"`
	FinishedAt   time.Time         `json:"finished_at"`
	UsersScanned int               `json:"users_scanned"`
	UsersFailed  int               `json:"users_failed"`
	Awarded      int               `json:"awarded"`
	Upgraded     int               `json:"upgraded"`
	Results      []SweepUserResult `json:"results"`
}

// SweepService re-evaluates time based badges for every user, one user at a
// time. A failing user is recorded and skipped.
type SweepService struct {
	users     UserStore
	catalog   *badges.Catalog
	badges    *BadgeService
	batchSize int
	running   sync.Mutex
	now       func() time.Time
}

func NewSweepService(users UserStore, catalog *badges.Catalog, badgeService *BadgeService, batchSize int) *SweepService {
	if batchSize <= 0 {
		batchSize = defaultSweepBatchSize
	}
	return &SweepService{
		users:     users,
		catalog:   catalog,
		badges:    badgeService,
		batchSize: batchSize,
		now:       time.Now,
	}
}

// RunTimeBasedSweep pages through all users. Only a failure to list users or
// a cancelled ctx stops the run early; the partial summary is returned too.
func (s *SweepService) RunTimeBasedSweep(ctx context.Context) (sum SweepSummary, err error) {
	if !s.running.TryLock() {
		return SweepSummary{}, ErrSweepRunning
	}
	defer s.running.Unlock()

	sum = SweepSummary{
		RunID:     uuid.NewString(),
		StartedAt: s.now(),
		Results:   []SweepUserResult{},
	}
	log := logger.WithContext(ctx).With("run_id", sum.RunID)
	defs := s.catalog.TimeBased()
	log.Info("time based sweep started", "badges", len(defs), "batch_size", s.batchSize)

	defer func() {
		sum.FinishedAt = s.now()
		metrics.SweepDuration.Observe(sum.FinishedAt.Sub(sum.StartedAt).Seconds())
	}()

	if len(defs) == 0 {
		return sum, nil
	}

	var after int64
	for {
		ids, listErr := s.users.ListUserIDs(ctx, after, s.batchSize)
		if listErr != nil {
			err = fmt.Errorf("sweep list users after %d: %w", after, listErr)
			log.Error("time based sweep aborted", "error", err)
			return sum, err
		}

		for _, id := range ids {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return sum, ctxErr
			}
			s.sweepUser(ctx, id, defs, &sum)
		}

		if len(ids) < s.batchSize {
			break
		}
		after = ids[len(ids)-1]
	}

	log.Info("time based sweep finished",
		"users", sum.UsersScanned, "failed", sum.UsersFailed,
		"awarded", sum.Awarded, "upgraded", sum.Upgraded,
		"duration", s.now().Sub(sum.StartedAt))
	return sum, nil
}

func (s *SweepService) sweepUser(ctx context.Context, userID int64, defs []*badges.Definition, sum *SweepSummary) {
	sum.UsersScanned++
	notes, err := s.badges.checkUserBadges(ctx, userID, defs)

	for _, n := range notes {
		if n.Upgrade {
			sum.Upgraded++
		} else {
			sum.Awarded++
		}
	}

	if err != nil {
		sum.UsersFailed++
		metrics.SweepUsers.WithLabelValues("failed").Inc()
		logger.WithContext(ctx).Warn("sweep user failed", "user_id", userID, "error", err)
		sum.Results = append(sum.Results, SweepUserResult{UserID: userID, Notifications: notes, Error: err.Error()})
		return
	}

	metrics.SweepUsers.WithLabelValues("ok").Inc()
	if len(notes) > 0 {
		sum.Results = append(sum.Results, SweepUserResult{UserID: userID, Notifications: notes})
	}
}
