package scheduler

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Pruner drops expired entries and reports how many were removed.
type Pruner interface {
	Prune(now time.Time) int
}

// Scheduler periodically expires old runs from the session history.
type Scheduler struct {
	scheduler *gocron.Scheduler
	pruner    Pruner
	interval  time.Duration
}

// New creates a new Scheduler.
func New(pruner Pruner, interval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		pruner:    pruner,
		interval:  interval,
	}
}

// Start schedules the prune job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.pruner == nil {
		log.Println("scheduler: no history configured; nothing to schedule")
		return nil
	}

	_, err := s.scheduler.Every(pruneEvery(s.interval)).Do(s.runOnce)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// DefaultInterval applies when no positive prune interval is configured.
const DefaultInterval = 10 * time.Minute

func pruneEvery(interval time.Duration) time.Duration {
	if interval <= 0 {
		return DefaultInterval
	}
	return interval
}

func (s *Scheduler) runOnce() {
	if n := s.pruner.Prune(time.Now()); n > 0 {
		log.Printf("scheduler: pruned %d expired runs", n)
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
