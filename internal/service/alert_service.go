package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dkrasnov/fintrack-backend/internal/domain"
	"github.com/dkrasnov/fintrack-backend/internal/notify"
	"github.com/dkrasnov/fintrack-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// AlertNotifier is what the write path depends on. Implementations must
// never block the caller or surface delivery failures to it.
type AlertNotifier interface {
	NotifyIfNeeded(userID uuid.UUID, categoryID int32, date time.Time)
}

// NoOpNotifier satisfies AlertNotifier and does nothing (tests, disabled alerts).
type NoOpNotifier struct{}

// NotifyIfNeeded does nothing
func (NoOpNotifier) NotifyIfNeeded(userID uuid.UUID, categoryID int32, date time.Time) {}

// AlertConfig holds configuration for the alert dispatcher
type AlertConfig struct {
	Enabled   bool
	QueueSize int // pending checks before new ones are dropped
	Workers   int
}

// DefaultAlertConfig returns sensible defaults
func DefaultAlertConfig() AlertConfig {
	return AlertConfig{
		Enabled:   true,
		QueueSize: 256,
		Workers:   2,
	}
}

type alertJob struct {
	userID     uuid.UUID
	categoryID int32
	date       time.Time
}

// AlertService checks cumulative category spend against the category's
// monthly budget after every transaction write and dispatches a
// notification when a threshold is crossed.
//
// Dispatch is fire-and-forget: NotifyIfNeeded only enqueues, a worker pool
// does the aggregation and delivery, and channel failures are logged and
// swallowed. No state suppresses repeats; two writes in the same period
// can both alert. That mirrors the product behavior and is covered by
// tests rather than "fixed".
type AlertService struct {
	categoryRepo domain.CategoryRepository
	userRepo     domain.UserRepository
	reports      *ReportService
	channel      notify.Channel
	publisher    websocket.EventPublisher
	logger       zerolog.Logger
	enabled      bool

	jobs    chan alertJob
	workers int
	stopCh  chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// NewAlertService creates a new AlertService
func NewAlertService(
	categoryRepo domain.CategoryRepository,
	userRepo domain.UserRepository,
	reports *ReportService,
	channel notify.Channel,
	publisher websocket.EventPublisher,
	logger zerolog.Logger,
	config AlertConfig,
) *AlertService {
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultAlertConfig().QueueSize
	}
	if config.Workers <= 0 {
		config.Workers = DefaultAlertConfig().Workers
	}
	if publisher == nil {
		publisher = &websocket.NoOpPublisher{}
	}

	return &AlertService{
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
		reports:      reports,
		channel:      channel,
		publisher:    publisher,
		logger:       logger.With().Str("component", "alert_dispatcher").Logger(),
		enabled:      config.Enabled,
		jobs:         make(chan alertJob, config.QueueSize),
		workers:      config.Workers,
		stopCh:       make(chan struct{}),
	}
}

// Start launches the worker pool
func (s *AlertService) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running || !s.enabled {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.logger.Info().
		Int("workers", s.workers).
		Int("queue_size", cap(s.jobs)).
		Msg("Starting alert dispatcher")

	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.run(ctx)
	}
}

// Stop signals the workers and waits for in-flight checks to finish.
// Queued but unstarted checks are discarded.
func (s *AlertService) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	s.logger.Info().Msg("Stopping alert dispatcher")
	close(s.stopCh)
	s.wg.Wait()
	s.logger.Info().Msg("Alert dispatcher stopped")
}

// NotifyIfNeeded queues a threshold check for the category the written
// transaction belongs to, scoped to the month containing its date. It
// never blocks: when the dispatcher is disabled, stopped, or saturated the
// check is dropped with a log line and the write proceeds unaffected.
func (s *AlertService) NotifyIfNeeded(userID uuid.UUID, categoryID int32, date time.Time) {
	if !s.enabled {
		return
	}

	job := alertJob{userID: userID, categoryID: categoryID, date: date}
	select {
	case s.jobs <- job:
	default:
		s.logger.Warn().
			Stringer("user_id", userID).
			Int32("category_id", categoryID).
			Msg("Alert queue full, dropping check")
	}
}

// run is a single dispatcher worker
func (s *AlertService) run(ctx context.Context) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case job := <-s.jobs:
			s.process(ctx, job)
		}
	}
}

// process performs one threshold check end to end. Every failure path
// logs and returns; nothing here may panic the process or reach the
// request that queued the job.
func (s *AlertService) process(ctx context.Context, job alertJob) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Interface("panic", r).
				Stringer("user_id", job.userID).
				Msg("Recovered panic in alert check")
		}
	}()

	category, err := s.categoryRepo.GetByID(job.categoryID)
	if err != nil {
		if !errors.Is(err, domain.ErrCategoryNotFound) {
			s.logger.Error().Err(err).Int32("category_id", job.categoryID).Msg("Failed to load category")
		}
		return
	}
	if !category.BudgetEnabled() {
		return
	}

	period := domain.PeriodOf(job.date)
	spend, err := s.reports.CategorySpend(job.userID, job.categoryID, period)
	if err != nil {
		s.logger.Error().Err(err).Int32("category_id", job.categoryID).Msg("Failed to compute category spend")
		return
	}

	state := domain.EvaluateThreshold(spend, category.MonthlyBudget)
	if state == domain.ThresholdNone {
		return
	}

	user, err := s.userRepo.GetByID(job.userID)
	if err != nil {
		s.logger.Error().Err(err).Stringer("user_id", job.userID).Msg("Failed to load user for alert")
		return
	}

	percent := domain.BudgetPercent(spend, category.MonthlyBudget)
	subject, body := composeAlert(user.Name, category.Name, spend, category.MonthlyBudget, percent, state)

	if err := s.channel.Send(ctx, user.Email, subject, body); err != nil {
		// Delivery failure is invisible to the user: an alert may be lost,
		// the originating write never is.
		s.logger.Error().
			Err(err).
			Stringer("user_id", job.userID).
			Int32("category_id", category.ID).
			Str("state", string(state)).
			Msg("Failed to deliver budget alert")
	} else {
		s.logger.Info().
			Stringer("user_id", job.userID).
			Int32("category_id", category.ID).
			Str("state", string(state)).
			Int64("percent", percent).
			Msg("Budget alert dispatched")
	}

	s.publisher.Publish(job.userID, websocket.AlertTriggered(websocket.AlertPayload{
		CategoryID:   category.ID,
		CategoryName: category.Name,
		State:        string(state),
		Spent:        spend.Round(2).StringFixed(2),
		Budget:       category.MonthlyBudget.StringFixed(2),
		Percent:      percent,
	}))
}

// composeAlert builds the user-facing message for a threshold state.
func composeAlert(userName, categoryName string, spend, budget decimal.Decimal, percent int64, state domain.ThresholdState) (subject, body string) {
	if state == domain.ThresholdWarning {
		subject = fmt.Sprintf("Budget warning: %s nearly reached", categoryName)
	} else {
		subject = fmt.Sprintf("Budget alert: %s limit exceeded", categoryName)
	}

	verb := "exceeded"
	if state == domain.ThresholdWarning {
		verb = "reached 90% of"
	}

	body = fmt.Sprintf(
		"Hello %s,\n\nYou have %s your monthly budget for %s.\n\nBudget: %s\nTotal spent: %s (%d%%)\n\nCheck your dashboard to review your recent expenses.\n",
		userName,
		verb,
		categoryName,
		budget.StringFixed(2),
		spend.Round(2).StringFixed(2),
		percent,
	)
	return subject, body
}
