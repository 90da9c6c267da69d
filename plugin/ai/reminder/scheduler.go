package reminder

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Scheduler periodically fires due reminders.
type Scheduler struct {
	service  *Service
	interval time.Duration
	running  bool
	stopCh   chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
	logger   *slog.Logger
	stats    Stats

	processedChan chan int // test hook: processed count per cycle
}

// SchedulerConfig holds configuration for the scheduler.
type SchedulerConfig struct {
	Interval time.Duration // how often due reminders are checked
}

// DefaultSchedulerConfig returns default scheduler configuration.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{Interval: time.Minute}
}

// NewScheduler creates a new reminder scheduler.
func NewScheduler(service *Service, config SchedulerConfig) *Scheduler {
	if config.Interval <= 0 {
		config.Interval = time.Minute
	}
	return &Scheduler{
		service:  service,
		interval: config.Interval,
		stopCh:   make(chan struct{}),
		logger:   service.logger,
	}
}

// Start begins the scheduler loop. Starting a running scheduler is a no-op.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("reminder scheduler started", slog.Duration("interval", s.interval))
	return nil
}

// Stop stops the loop and waits for the running cycle to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("reminder scheduler stopped")
}

// IsRunning returns whether the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// EnableTestMode returns a channel receiving the processed count of every cycle.
func (s *Scheduler) EnableTestMode() <-chan int {
	s.processedChan = make(chan int, 100)
	return s.processedChan
}

func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.processCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			s.mu.Lock()
			s.running = false
			s.mu.Unlock()
			s.logger.Info("scheduler context cancelled")
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.processCycle(ctx)
		}
	}
}

func (s *Scheduler) processCycle(ctx context.Context) {
	processed, err := s.RunOnce(ctx)
	if err != nil {
		s.logger.Error("failed to process due reminders", slog.String("error", err.Error()))
		return
	}
	if processed > 0 {
		s.logger.Info("processed due reminders", slog.Int("count", processed))
	}

	if s.processedChan != nil {
		select {
		case s.processedChan <- processed:
		default:
		}
	}
}

// RunOnce processes due reminders once.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	processed, err := s.service.ProcessDueReminders(ctx)

	s.mu.Lock()
	s.stats.Cycles++
	s.stats.TotalProcessed += int64(processed)
	s.stats.LastRunAt = s.service.now()
	if err != nil {
		s.stats.TotalFailed++
	}
	s.mu.Unlock()

	return processed, err
}

// Stats holds scheduler statistics.
type Stats struct {
	Running        bool      `json:"running"`
	Cycles         int64     `json:"cycles"`
	TotalProcessed int64     `json:"total_processed"`
	TotalFailed    int64     `json:"total_failed"`
	LastRunAt      time.Time `json:"last_run_at"`
}

// Stats returns a copy of the current statistics.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := s.stats
	stats.Running = s.running
	return stats
}
