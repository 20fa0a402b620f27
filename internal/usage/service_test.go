package usage

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dajeong-labs/dajeong/internal/config"
)

// memStore is an in-memory store with the same read/increment contract as
// the Postgres repository.
type memStore struct {
	mu     sync.Mutex
	counts map[string]int
	maxes  map[string]int
	reads  int
}

func newMemStore() *memStore {
	return &memStore{counts: make(map[string]int), maxes: make(map[string]int)}
}

func (m *memStore) Get(ctx context.Context, date string, defaultMax int) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	max, ok := m.maxes[date]
	if !ok {
		max = defaultMax
	}
	return Snapshot{Date: date, UsersCount: m.counts[date], MaxUsers: max}, nil
}

func (m *memStore) Increment(ctx context.Context, date string, defaultMax int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.maxes[date]; !ok {
		m.maxes[date] = defaultMax
	}
	m.counts[date]++
	return m.counts[date], nil
}

func newTestService(t *testing.T, store *memStore, aiEnabled bool) *Service {
	t.Helper()
	svc, err := NewService(store, nil, config.QuotaConfig{
		MaxUsers: 125, ResetHour: 5, Timezone: "Asia/Seoul",
	}, aiEnabled)
	require.NoError(t, err)
	return svc
}

func TestCheckCapacity_IsIdempotent(t *testing.T) {
	store := newMemStore()
	svc := newTestService(t, store, true)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		snap, err := svc.CheckCapacity(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, snap.UsersCount)
		assert.Equal(t, 125, snap.MaxUsers)
		assert.True(t, snap.HasCapacity())
	}
	assert.Equal(t, 0, store.counts[svc.Today()], "reads must not materialize or mutate the counter")
}

func TestAdmitOne_CountsExactlyOnce(t *testing.T) {
	store := newMemStore()
	svc := newTestService(t, store, true)
	ctx := context.Background()

	count, err := svc.AdmitOne(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	snap, err := svc.CheckCapacity(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.UsersCount)
}

func TestAdmitOne_ConcurrentNoLostUpdates(t *testing.T) {
	const admits = 50
	store := newMemStore()
	svc := newTestService(t, store, true)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < admits; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AdmitOne(ctx)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	snap, err := svc.CheckCapacity(ctx)
	require.NoError(t, err)
	assert.Equal(t, admits, snap.UsersCount)
}

func TestDayRollsOverAtResetHour(t *testing.T) {
	store := newMemStore()
	svc := newTestService(t, store, true)
	loc := svc.loc

	svc.now = func() time.Time { return time.Date(2025, 3, 10, 4, 59, 0, 0, loc) }
	before := svc.Today()
	svc.now = func() time.Time { return time.Date(2025, 3, 10, 5, 1, 0, 0, loc) }
	after := svc.Today()

	assert.Equal(t, "2025-03-09", before)
	assert.Equal(t, "2025-03-10", after)
}

func TestAdmissions_DoNotCarryAcrossReset(t *testing.T) {
	store := newMemStore()
	svc := newTestService(t, store, true)
	loc := svc.loc
	ctx := context.Background()

	svc.now = func() time.Time { return time.Date(2025, 3, 10, 4, 0, 0, 0, loc) }
	_, err := svc.AdmitOne(ctx)
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Date(2025, 3, 10, 6, 0, 0, 0, loc) }
	snap, err := svc.CheckCapacity(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.UsersCount, "new usage date starts from zero")
}

func TestStatus_NoCredentialMeansNoCapacity(t *testing.T) {
	store := newMemStore()
	svc := newTestService(t, store, false)

	status, err := svc.Status(context.Background())
	require.NoError(t, err)
	assert.False(t, status.HasCapacity, "quota may be unused, but no credential means no AI capacity")
	assert.Equal(t, 125, status.Remaining)
}

func TestStatus_ExhaustedQuota(t *testing.T) {
	store := newMemStore()
	svc := newTestService(t, store, true)
	ctx := context.Background()

	date := svc.Today()
	store.counts[date] = 125
	store.maxes[date] = 125

	status, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.False(t, status.HasCapacity)
	assert.Equal(t, 0, status.Remaining)
}

func TestRemaining_NeverNegativeOnOvershoot(t *testing.T) {
	store := newMemStore()
	svc := newTestService(t, store, true)
	ctx := context.Background()

	// The check-then-admit race can push the count past the max.
	date := svc.Today()
	store.counts[date] = 127
	store.maxes[date] = 125

	status, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, status.Remaining)
	assert.Equal(t, 127, status.UsersCount)
}

func TestAdminStats(t *testing.T) {
	store := newMemStore()
	svc := newTestService(t, store, true)
	ctx := context.Background()

	date := svc.Today()
	store.counts[date] = 25
	store.maxes[date] = 125

	stats, err := svc.AdminStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, date, stats.Date)
	assert.InDelta(t, 0.2, stats.UtilizationRate, 1e-9)
	assert.Equal(t, "05:00", stats.ResetTime)
	assert.True(t, stats.AIEnabled)
}
