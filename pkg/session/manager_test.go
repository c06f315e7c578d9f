package session_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gridline-labs/gridline/pkg/adapters/memory"
	"github.com/gridline-labs/gridline/pkg/domain"
	"github.com/gridline-labs/gridline/pkg/ports"
	"github.com/gridline-labs/gridline/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slowStore adds latency to widen race windows.
type slowStore struct {
	*memory.Store
}

func (s slowStore) Load(ctx context.Context, id string) (*domain.Session, error) {
	time.Sleep(5 * time.Millisecond)
	return s.Store.Load(ctx, id)
}

func (s slowStore) Save(ctx context.Context, sess *domain.Session) error {
	time.Sleep(5 * time.Millisecond)
	return s.Store.Save(ctx, sess)
}

// failingStore fails every load with err.
type failingStore struct {
	*memory.Store
	err error
}

func (s failingStore) Load(context.Context, string) (*domain.Session, error) {
	return nil, s.err
}

func TestManager_WithLockSerializesReadModifyWrite(t *testing.T) {
	store := slowStore{memory.NewStore()}
	mgr := session.NewManager(store)
	ctx := context.Background()
	id := "race-test"

	_, _, err := mgr.LoadOrStart(ctx, id, "start")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := mgr.WithLock(ctx, id, func(ctx context.Context) error {
				s, _, err := mgr.LoadOrStartLocked(ctx, id, "start")
				if err != nil {
					return err
				}
				s.MistakeCount++
				return mgr.SaveLocked(ctx, s)
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	s, err := mgr.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 10, s.MistakeCount, "no increments lost")
}

func TestManager_LoadOrStart(t *testing.T) {
	fixed := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	mgr := session.NewManager(slowStore{memory.NewStore()}, session.WithClock(func() time.Time { return fixed }))
	ctx := context.Background()

	var created atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, isNew, err := mgr.LoadOrStart(ctx, "atomic-init", "start")
			assert.NoError(t, err)
			assert.NotNil(t, s)
			if isNew {
				created.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), created.Load(), "exactly one caller creates the session")

	s, err := mgr.Load(ctx, "atomic-init")
	require.NoError(t, err)
	assert.Equal(t, "start", s.State)
	assert.Equal(t, domain.LanguageUnknown, s.Language)
	assert.True(t, s.CreatedAt.Equal(fixed))
}

type fakeLocker struct {
	mu       sync.Mutex
	locked   []string
	unlocked []string
	ttl      time.Duration
	err      error
}

func (f *fakeLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	f.locked = append(f.locked, key)
	f.ttl = ttl
	f.mu.Unlock()
	return func(ctx context.Context) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.unlocked = append(f.unlocked, key)
		return nil
	}, nil
}

func TestManager_DistributedLocker(t *testing.T) {
	locker := &fakeLocker{}
	mgr := session.NewManager(memory.NewStore(), session.WithLocker(locker), session.WithLockTTL(time.Minute))

	require.NoError(t, mgr.Delete(context.Background(), "abc"))
	assert.Equal(t, []string{"abc"}, locker.locked)
	assert.Equal(t, []string{"abc"}, locker.unlocked)
	assert.Equal(t, time.Minute, locker.ttl)
}

func TestManager_DistributedLockerFailure(t *testing.T) {
	locker := &fakeLocker{err: errors.New("redis down")}
	mgr := session.NewManager(memory.NewStore(), session.WithLocker(locker))

	called := false
	err := mgr.WithLock(context.Background(), "abc", func(context.Context) error {
		called = true
		return nil
	})
	assert.Error(t, err)
	assert.False(t, called)
}

func TestManager_SaveStampsUpdatedAt(t *testing.T) {
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	later := created.Add(time.Minute)
	clock := created
	mgr := session.NewManager(memory.NewStore(), session.WithClock(func() time.Time { return clock }))
	ctx := context.Background()

	s, _, err := mgr.LoadOrStart(ctx, "stamp", "start")
	require.NoError(t, err)

	clock = later
	s.State = "english_menu"
	require.NoError(t, mgr.Save(ctx, s))

	got, err := mgr.Load(ctx, "stamp")
	require.NoError(t, err)
	assert.True(t, got.CreatedAt.Equal(created))
	assert.True(t, got.UpdatedAt.Equal(later))
}

func TestManager_LockedVariantsRunInsideWithLock(t *testing.T) {
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := created
	mgr := session.NewManager(memory.NewStore(), session.WithClock(func() time.Time { return clock }))
	ctx := context.Background()

	err := mgr.WithLock(ctx, "turn", func(ctx context.Context) error {
		s, isNew, err := mgr.LoadOrStartLocked(ctx, "turn", "start")
		require.NoError(t, err)
		assert.True(t, isNew)
		assert.Equal(t, "start", s.State)
		assert.True(t, s.CreatedAt.Equal(created))

		clock = created.Add(time.Minute)
		s.State = "english_menu"
		return mgr.SaveLocked(ctx, s)
	})
	require.NoError(t, err)
	assert.True(t, mgr.Now().Equal(created.Add(time.Minute)))

	err = mgr.WithLock(ctx, "turn", func(ctx context.Context) error {
		s, isNew, err := mgr.LoadOrStartLocked(ctx, "turn", "start")
		require.NoError(t, err)
		assert.False(t, isNew)
		assert.Equal(t, "english_menu", s.State)
		assert.True(t, s.CreatedAt.Equal(created))
		assert.True(t, s.UpdatedAt.Equal(created.Add(time.Minute)))
		return mgr.DeleteLocked(ctx, "turn")
	})
	require.NoError(t, err)

	_, err = mgr.Load(ctx, "turn")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	ids, err := mgr.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestManager_LoadOrStartLockedStoreFailure(t *testing.T) {
	mgr := session.NewManager(failingStore{Store: memory.NewStore(), err: errors.New("disk full")})

	_, _, err := mgr.LoadOrStartLocked(context.Background(), "x", "start")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to check session existence")
}
