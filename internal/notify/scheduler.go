package notify

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/victormarques-ia/apex/internal/model"
	"github.com/victormarques-ia/apex/internal/service"
)

const (
	DefaultSchedule = "0 6 * * *"
	athletePageSize = 100
)

// Notifier delivers an athlete's agenda for the day.
type Notifier interface {
	Notify(ctx context.Context, athlete model.Athlete, agenda *service.DailyAgenda) error
}

// Scheduler composes the daily agenda of every visible athlete and hands it
// to a Notifier, either once or on a cron schedule.
type Scheduler struct {
	repo     service.Repository
	notifier Notifier
	log      *zap.Logger
	now      func() time.Time
}

func NewScheduler(repo service.Repository, notifier Notifier, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{repo: repo, notifier: notifier, log: log, now: time.Now}
}

// RunOnce sends the agenda for date to every athlete visible to the context
// actor. Athletes with nothing scheduled are skipped. A failure for one
// athlete is logged and the pass continues; only listing errors abort it.
func (s *Scheduler) RunOnce(ctx context.Context, date time.Time) (int, error) {
	sent := 0
	for offset := 0; ; offset += athletePageSize {
		page, err := s.repo.ListAthletes(ctx, service.ListAthletesFilter{Limit: athletePageSize, Offset: offset})
		if err != nil {
			return sent, fmt.Errorf("list athletes: %w", err)
		}
		for _, a := range page.Docs {
			if err := ctx.Err(); err != nil {
				return sent, err
			}
			agenda, err := service.DailyActivities(ctx, s.repo, a.ID, date)
			if err != nil {
				s.log.Warn("compose agenda failed", zap.String("athlete_id", a.ID), zap.Error(err))
				continue
			}
			if len(agenda.Activities) == 0 {
				s.log.Debug("nothing scheduled", zap.String("athlete_id", a.ID), zap.String("date", agenda.Date))
				continue
			}
			if err := s.notifier.Notify(ctx, a, agenda); err != nil {
				s.log.Warn("notify failed", zap.String("athlete_id", a.ID), zap.Error(err))
				continue
			}
			sent++
		}
		if len(page.Docs) < athletePageSize || offset+len(page.Docs) >= page.TotalDocs {
			break
		}
	}
	s.log.Info("reminder pass finished", zap.String("date", date.Format("2006-01-02")), zap.Int("sent", sent))
	return sent, nil
}

// Run triggers RunOnce on the cron schedule until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context, schedule string) error {
	if strings.TrimSpace(schedule) == "" {
		schedule = DefaultSchedule
	}
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		s.log.Info("starting reminder pass")
		if _, err := s.RunOnce(ctx, s.now()); err != nil {
			s.log.Error("reminder pass failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("schedule reminders %q: %w", schedule, err)
	}
	c.Start()
	s.log.Info("reminder scheduler started", zap.String("schedule", schedule))

	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

// WriterNotifier prints each agenda as a plain text block.
type WriterNotifier struct {
	W  io.Writer
	mu sync.Mutex
}

func (n *WriterNotifier) Notify(_ context.Context, athlete model.Athlete, agenda *service.DailyAgenda) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, err := fmt.Fprintf(n.W, "%s (%s) - %s\n", athlete.Name, athlete.ID, agenda.Date); err != nil {
		return fmt.Errorf("write agenda header: %w", err)
	}
	for _, item := range agenda.Activities {
		line := fmt.Sprintf("  %s  %-9s %s", item.Time, item.Type, item.Activity)
		if item.Details != nil && *item.Details != "" && *item.Details != strings.TrimPrefix(item.Activity, "Treino: ") {
			line += " (" + *item.Details + ")"
		}
		if _, err := fmt.Fprintln(n.W, line); err != nil {
			return fmt.Errorf("write agenda item: %w", err)
		}
	}
	return nil
}
