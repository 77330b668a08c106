package worker

import (
	"sync"

	"github.com/sirupsen/logrus"
)

type Worker interface {
	Start()
	Stop()
}

// Scheduler owns the lifecycle of background workers.
type Scheduler struct {
	workers []Worker
	log     *logrus.Logger
	started bool
	stopped bool
	mu      sync.RWMutex
}

func NewScheduler(log *logrus.Logger) *Scheduler {
	return &Scheduler{
		workers: make([]Worker, 0),
		log:     log,
	}
}

func (s *Scheduler) AddWorker(worker Worker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workers = append(s.workers, worker)
}

// Start starts every registered worker once; a stopped scheduler stays stopped.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped || s.started {
		return
	}
	s.started = true

	s.log.WithField("workers", len(s.workers)).Info("Starting scheduler")

	for _, worker := range s.workers {
		worker.Start()
	}
}

// Stop stops workers in reverse registration order and waits for each.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	workers := append([]Worker(nil), s.workers...)
	s.mu.Unlock()

	s.log.Info("Stopping scheduler...")

	for i := len(workers) - 1; i >= 0; i-- {
		workers[i].Stop()
	}

	s.log.Info("Scheduler stopped")
}

func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started && !s.stopped
}
