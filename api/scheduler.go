/*
scheduler.go - Automated monthly leave accrual

PURPOSE:
  Periodically credits each employee's monthly leave allowance for the
  current month, so the ledger has a credit row before any slip for that
  month is generated.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - A month that already carries a positive credit is skipped, so runs
    are idempotent and safe to repeat every interval
  - A month known only through leave taken (credit 0) gets the credit
    added with its debit dates kept
  - Failures for one employee are logged and do not stop the run

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Credit: Days credited per month; zero disables crediting

USAGE:
  scheduler := NewAccrualScheduler(store, credit, logger)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: RunAccruals endpoint (manual run)
  - ledger/ledger.go: MonthEvents
*/
package api

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/payslip-engine/core"
	"github.com/warp/payslip-engine/ledger"
	"github.com/warp/payslip-engine/payslip"
)

// AccrualScheduler credits monthly leave for every employee.
type AccrualScheduler struct {
	Store         payslip.Store
	Credit        decimal.Decimal
	CheckInterval time.Duration
	Logger        *slog.Logger

	// Now is the clock; tests replace it.
	Now func() time.Time

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewAccrualScheduler creates a scheduler with an hourly interval.
func NewAccrualScheduler(store payslip.Store, credit decimal.Decimal, logger *slog.Logger) *AccrualScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccrualScheduler{
		Store:         store,
		Credit:        credit,
		CheckInterval: time.Hour,
		Logger:        logger,
		Now:           time.Now,
	}
}

// Start begins the scheduler. A zero interval or credit leaves it stopped.
func (s *AccrualScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.CheckInterval <= 0 || !s.Credit.IsPositive() {
		s.Logger.Info("accrual scheduler disabled")
		return
	}
	if s.ticker != nil {
		return
	}

	s.ticker = time.NewTicker(s.CheckInterval)
	s.stop = make(chan struct{})
	s.wg.Add(1)
	go s.run()

	s.Logger.Info("accrual scheduler started",
		slog.Duration("interval", s.CheckInterval),
		slog.String("credit", s.Credit.String()))
}

// Stop stops the scheduler and waits for a running pass to finish.
func (s *AccrualScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker == nil {
		return
	}
	s.ticker.Stop()
	close(s.stop)
	s.wg.Wait()
	s.ticker = nil
	s.Logger.Info("accrual scheduler stopped")
}

func (s *AccrualScheduler) run() {
	defer s.wg.Done()

	// Run immediately on start
	s.tick()

	for {
		select {
		case <-s.ticker.C:
			s.tick()
		case <-s.stop:
			return
		}
	}
}

func (s *AccrualScheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	now := s.Now()
	month := core.YearMonth{Year: now.Year(), Month: now.Month()}
	if _, err := s.RunMonth(ctx, month); err != nil {
		s.Logger.Error("accrual run failed", slog.String("month", month.String()), slog.Any("err", err))
	}
}

// RunMonth credits month for every employee that has no credit for it yet.
func (s *AccrualScheduler) RunMonth(ctx context.Context, month core.YearMonth) (AccrualRunDTO, error) {
	run := AccrualRunDTO{Month: month.String()}
	if err := month.Validate(); err != nil {
		return run, err
	}
	if !s.Credit.IsPositive() {
		return run, &core.ArgumentError{Field: "monthlyCredit", Value: s.Credit.String(), Reason: "must be positive to accrue"}
	}

	employees, err := s.Store.ListEmployees(ctx)
	if err != nil {
		return run, err
	}

	for _, emp := range employees {
		credited, err := s.accrue(ctx, emp.ID, month)
		switch {
		case err != nil:
			run.Failed++
			s.Logger.Warn("accrual failed",
				slog.String("employee_id", string(emp.ID)),
				slog.String("month", month.String()),
				slog.Any("err", err))
		case credited:
			run.Credited++
		default:
			run.Skipped++
		}
	}

	s.Logger.Info("accrual run complete",
		slog.String("month", run.Month),
		slog.Int("credited", run.Credited),
		slog.Int("skipped", run.Skipped),
		slog.Int("failed", run.Failed))
	return run, nil
}

func (s *AccrualScheduler) accrue(ctx context.Context, id core.EmployeeID, month core.YearMonth) (bool, error) {
	history, err := s.Store.LoadLeaveHistory(ctx, id, month)
	if err != nil {
		return false, err
	}

	ev := ledger.MonthEvents{Month: month, Credit: s.Credit}
	for _, m := range history {
		if m.Month != month {
			continue
		}
		if m.Credit.IsPositive() {
			return false, nil
		}
		ev.DebitDates = m.DebitDates
	}
	return true, s.Store.SaveLeaveMonth(ctx, id, ev)
}
