package session

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/flight-reservation/internal/booking"
)

func TestRegistryCreateAndRemove(t *testing.T) {
	r := NewRegistry(0)
	id := r.Create()
	assert.Equal(t, 1, r.Len())

	var seen *booking.Session
	require.NoError(t, r.With(id, func(s *booking.Session) error {
		seen = s
		return nil
	}))
	require.NoError(t, r.With(id, func(s *booking.Session) error {
		assert.Same(t, seen, s)
		return nil
	}))

	r.Remove(id)
	assert.ErrorIs(t, r.With(id, func(*booking.Session) error { return nil }), ErrUnknownSession)
	assert.ErrorIs(t, r.With("nope", func(*booking.Session) error { return nil }), ErrUnknownSession)
}

func TestRegistryExpiry(t *testing.T) {
	now := time.Unix(1000, 0)
	r := NewRegistry(time.Minute)
	r.now = func() time.Time { return now }

	a := r.Create()
	b := r.Create()
	now = now.Add(45 * time.Second)
	require.NoError(t, r.With(a, func(*booking.Session) error { return nil }))

	now = now.Add(30 * time.Second)
	assert.Equal(t, 1, r.Sweep())
	assert.ErrorIs(t, r.With(b, func(*booking.Session) error { return nil }), ErrUnknownSession)
	assert.NoError(t, r.With(a, func(*booking.Session) error { return nil }))
}

func TestRegistrySerializesOneSession(t *testing.T) {
	r := NewRegistry(0)
	id := r.Create()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.With(id, func(*booking.Session) error {
				n := atomic.AddInt32(&inside, 1)
				for {
					m := atomic.LoadInt32(&maxInside)
					if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&inside, -1)
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxInside)
}
