package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-manager/internal/domain"
	"task-manager/internal/errors"
)

// fakeFetcher returns canned records or an error. When release is set every
// fetch blocks until it is closed.
type fakeFetcher struct {
	records []domain.BillRecord
	err     error
	started chan struct{}
	release chan struct{}

	mu    sync.Mutex
	calls int
	dates []string
}

func (f *fakeFetcher) FetchTodayBills(ctx context.Context) ([]domain.BillRecord, error) {
	return f.FetchBills(ctx, "today")
}

func (f *fakeFetcher) FetchBills(ctx context.Context, date string) ([]domain.BillRecord, error) {
	f.mu.Lock()
	f.calls++
	f.dates = append(f.dates, date)
	f.mu.Unlock()

	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	return f.records, f.err
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func setupIngestionService(t *testing.T, fetcher BillFetcher) (IngestionService, TaskService) {
	tasks := setupTaskService(t)
	return NewIngestionService(fetcher, tasks), tasks
}

func TestIngestionService_Refresh(t *testing.T) {
	fetcher := &fakeFetcher{records: []domain.BillRecord{coffeeRecord()}}
	service, tasks := setupIngestionService(t, fetcher)
	ctx := context.Background()

	_, err := tasks.Add(ctx, "buy milk")
	require.NoError(t, err)

	ingested, err := service.Refresh(ctx)
	require.NoError(t, err)
	require.Len(t, ingested, 1)
	assert.Equal(t, "支付: coffee", ingested[0].Text)

	all, err := tasks.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "buy milk", all[0].Text)
	assert.Equal(t, "支付: coffee", all[1].Text)

	status := service.Status()
	assert.False(t, status.Loading)
	assert.Empty(t, status.Error)
	assert.Equal(t, 1, status.LastCount)
	assert.NotNil(t, status.LastRefresh)
	assert.Equal(t, []string{"today"}, fetcher.dates)
}

func TestIngestionService_RefreshFailureLeavesTasksUntouched(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.NewFetchError("query trade bill", 500, nil)}
	service, tasks := setupIngestionService(t, fetcher)
	ctx := context.Background()

	_, err := tasks.Add(ctx, "buy milk")
	require.NoError(t, err)

	ingested, err := service.Refresh(ctx)
	require.Error(t, err)
	assert.Nil(t, ingested)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeFetch))

	all, err := tasks.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "buy milk", all[0].Text)

	assert.False(t, service.Loading())
	assert.Equal(t, "获取账单失败", service.LastError())
	assert.Equal(t, "获取账单失败", service.Status().Error)

	// a later successful refresh clears the indicator
	fetcher.err = nil
	_, err = service.Refresh(ctx)
	require.NoError(t, err)
	assert.Empty(t, service.LastError())
}

func TestIngestionService_EmptyResultIsNotAnError(t *testing.T) {
	service, tasks := setupIngestionService(t, &fakeFetcher{})

	ingested, err := service.Refresh(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ingested)
	assert.Empty(t, service.LastError())

	summary, err := tasks.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Total)
}

func TestIngestionService_NotConfigured(t *testing.T) {
	service, _ := setupIngestionService(t, nil)

	_, err := service.Refresh(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeConfig))
	assert.Equal(t, "获取账单失败", service.LastError())
	assert.Contains(t, service.Status().Detail, "credentials")
}

func TestIngestionService_OverlappingRefreshRejected(t *testing.T) {
	fetcher := &fakeFetcher{
		records: []domain.BillRecord{coffeeRecord()},
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	service, tasks := setupIngestionService(t, fetcher)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := service.Refresh(ctx)
		done <- err
	}()
	<-fetcher.started

	assert.True(t, service.Loading())
	_, err := service.Refresh(ctx)
	assert.ErrorIs(t, err, ErrRefreshInProgress)

	close(fetcher.release)
	require.NoError(t, <-done)

	assert.Equal(t, 1, fetcher.callCount())
	summary, err := tasks.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Total)
	assert.False(t, service.Loading())
}

func TestIngestionService_RefreshOnce(t *testing.T) {
	fetcher := &fakeFetcher{records: []domain.BillRecord{coffeeRecord()}}
	service, tasks := setupIngestionService(t, fetcher)
	ctx := context.Background()

	require.NoError(t, service.RefreshOnce(ctx))
	require.NoError(t, service.RefreshOnce(ctx))
	assert.Equal(t, 1, fetcher.callCount())

	// explicit refreshes still run
	_, err := service.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.callCount())

	summary, err := tasks.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Total)
}

func TestIngestionService_StartInitialRefresh(t *testing.T) {
	fetcher := &fakeFetcher{
		records: []domain.BillRecord{coffeeRecord()},
		release: make(chan struct{}),
	}
	service, tasks := setupIngestionService(t, fetcher)
	ctx := context.Background()

	assert.True(t, service.StartInitialRefresh(ctx))
	assert.True(t, service.Loading())
	assert.False(t, service.StartInitialRefresh(ctx))

	close(fetcher.release)
	service.Wait()

	assert.False(t, service.Loading())
	assert.Equal(t, 1, fetcher.callCount())
	summary, err := tasks.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Total)

	// the initial refresh never runs twice
	assert.False(t, service.StartInitialRefresh(ctx))
	assert.NoError(t, service.RefreshOnce(ctx))
	assert.Equal(t, 1, fetcher.callCount())
}

func TestIngestionService_FetchBillsForDate(t *testing.T) {
	fetcher := &fakeFetcher{records: []domain.BillRecord{coffeeRecord()}}
	service, tasks := setupIngestionService(t, fetcher)
	ctx := context.Background()

	records, err := service.FetchBills(ctx, "2024-01-01")
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, []string{"2024-01-01"}, fetcher.dates)

	// previewing does not ingest
	summary, err := tasks.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Total)
}
