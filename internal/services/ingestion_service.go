package services

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"task-manager/internal/domain"
	"task-manager/internal/errors"
	"task-manager/internal/logging"
)

// ErrRefreshInProgress is returned when a refresh starts while another is still running.
var ErrRefreshInProgress = stderrors.New("bill refresh already in progress")

// ingestionServiceImpl implements the IngestionService interface
type ingestionServiceImpl struct {
	fetcher BillFetcher
	tasks   TaskService
	now     func() time.Time

	mu          sync.Mutex
	loading     bool
	lastErr     error
	lastRefresh time.Time
	lastCount   int
	initialDone bool

	wg sync.WaitGroup
}

// NewIngestionService creates an IngestionService. A nil fetcher means the
// payment provider is not configured; every refresh then fails with a config error.
func NewIngestionService(fetcher BillFetcher, tasks TaskService) IngestionService {
	return &ingestionServiceImpl{
		fetcher: fetcher,
		tasks:   tasks,
		now:     time.Now,
	}
}

// begin marks a refresh as in flight, or reports that one already is.
// Any refresh counts as the initial one.
func (s *ingestionServiceImpl) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading {
		return false
	}
	s.initialDone = true
	s.loading = true
	s.lastErr = nil
	return true
}

func (s *ingestionServiceImpl) finish(count int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.lastErr = err
	if err == nil {
		s.lastRefresh = s.now()
		s.lastCount = count
	}
}

// run fetches today's bills and ingests them. The caller must have called begin.
func (s *ingestionServiceImpl) run(ctx context.Context) ([]domain.Task, error) {
	logger := logging.FromContext(ctx)

	tasks, err := s.fetchAndIngest(ctx)
	s.finish(len(tasks), err)

	if err != nil {
		if errors.ShouldLogError(err) {
			logger.Error().Err(err).Fields(errors.LogFields(err)).Msg("bill refresh failed")
		}
		return nil, err
	}

	logger.Info().Int("tasks", len(tasks)).Msg("bill refresh completed")
	return tasks, nil
}

func (s *ingestionServiceImpl) fetchAndIngest(ctx context.Context) ([]domain.Task, error) {
	records, err := s.FetchBills(ctx, "")
	if err != nil {
		return nil, err
	}
	return s.tasks.IngestBills(ctx, records)
}

// Refresh fetches today's bills and appends them as completed tasks.
// On failure the task collection is left untouched.
func (s *ingestionServiceImpl) Refresh(ctx context.Context) ([]domain.Task, error) {
	if !s.begin() {
		return nil, ErrRefreshInProgress
	}
	return s.run(ctx)
}

// RefreshOnce runs the initial refresh at most once per service
func (s *ingestionServiceImpl) RefreshOnce(ctx context.Context) error {
	s.mu.Lock()
	if s.initialDone {
		s.mu.Unlock()
		return nil
	}
	s.initialDone = true
	s.mu.Unlock()

	_, err := s.Refresh(ctx)
	return err
}

// StartInitialRefresh starts the initial refresh in the background and
// reports whether it did. Loading is already true when it returns true.
func (s *ingestionServiceImpl) StartInitialRefresh(ctx context.Context) bool {
	s.mu.Lock()
	if s.initialDone || s.loading {
		s.mu.Unlock()
		return false
	}
	s.initialDone = true
	s.loading = true
	s.lastErr = nil
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()
	return true
}

// Wait blocks until background refreshes have finished
func (s *ingestionServiceImpl) Wait() {
	s.wg.Wait()
}

// FetchBills returns the provider's records for date without ingesting them.
// An empty date means today.
func (s *ingestionServiceImpl) FetchBills(ctx context.Context, date string) ([]domain.BillRecord, error) {
	if s.fetcher == nil {
		return nil, errors.NewConfigError("wechat", "merchant credentials are not configured")
	}
	if date == "" {
		return s.fetcher.FetchTodayBills(ctx)
	}
	return s.fetcher.FetchBills(ctx, date)
}

// Loading reports whether a refresh is in flight
func (s *ingestionServiceImpl) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// LastError returns the localized error indicator, empty after a successful refresh
func (s *ingestionServiceImpl) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastErr == nil {
		return ""
	}
	return errors.FetchFailedMessage
}

// Status returns a snapshot of the refresh state
func (s *ingestionServiceImpl) Status() IngestionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := IngestionStatus{
		Loading:   s.loading,
		LastCount: s.lastCount,
	}
	if s.lastErr != nil {
		status.Error = errors.FetchFailedMessage
		status.Detail = errors.GetUserMessage(s.lastErr)
	}
	if !s.lastRefresh.IsZero() {
		last := s.lastRefresh
		status.LastRefresh = &last
	}
	return status
}
