package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolidaysBetween(t *testing.T) {
	from := time.Date(2025, 12, 20, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	es := HolidaysBetween("es", from, to)
	require.NotEmpty(t, es)
	joined := strings.Join(es, "\n")
	assert.Contains(t, joined, "2025-12-25 ")
	assert.Contains(t, joined, "2026-01-01 ")

	us := HolidaysBetween("US", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 7, 7, 0, 0, 0, 0, time.UTC))
	assert.Contains(t, strings.Join(us, "\n"), "2025-07-04 ")

	assert.Nil(t, HolidaysBetween("ZZ", from, to))
	assert.Nil(t, HolidaysBetween("ES", to, from))
	assert.True(t, HolidaySupported("pt"))
	assert.False(t, HolidaySupported("ZZ"))
}

func TestDistanceKm(t *testing.T) {
	// Madrid to Barcelona
	d := DistanceKm(40.4168, -3.7038, 41.3874, 2.1686)
	assert.InDelta(t, 505, d, 10)
	assert.Equal(t, 0.0, DistanceKm(40.4168, -3.7038, 40.4168, -3.7038))
}

func TestTimeZoneFor(t *testing.T) {
	assert.Equal(t, "Europe/Madrid", TimeZoneFor(40.4168, -3.7038, "UTC"))
	assert.Equal(t, "America/New_York", TimeZoneFor(40.7128, -74.0060, "UTC"))
}

func TestKeyedMutexSerializesPerKey(t *testing.T) {
	km := NewKeyedMutex()
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock("acc")
			defer unlock()

			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)

	// other keys are independent
	unlockA := km.Lock("a")
	done := make(chan struct{})
	go func() {
		unlockB := km.Lock("b")
		unlockB()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on b blocked behind a")
	}
	unlockA()
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Hour, time.Hour)
	c.Set("onboarding:progress:1", "a")
	c.Set("onboarding:progress:2", "b")
	c.Set("msp:draft:1", "c")

	v, ok := c.Get("msp:draft:1")
	require.True(t, ok)
	assert.Equal(t, "c", v)

	assert.Equal(t, 2, c.ClearPrefix("onboarding:progress:"))
	_, ok = c.Get("onboarding:progress:1")
	assert.False(t, ok)

	c.Clear("msp:draft:1")
	_, ok = c.Get("msp:draft:1")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Sweep())
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(10*time.Millisecond, time.Hour)
	c.Set("k", 1)
	time.Sleep(30 * time.Millisecond)
	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Sweep())
}

func TestRandomNumericString(t *testing.T) {
	s, err := RandomNumericString(6)
	require.NoError(t, err)
	assert.Len(t, s, 6)
	for _, r := range s {
		assert.True(t, r >= '0' && r <= '9')
	}
}

func TestPasswordHash(t *testing.T) {
	PasswordHashCost = 4
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestHandleAppError(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleAppError(rec, NewAppError(http.StatusConflict, ErrCodeLimitReached, "Too many competitors", ErrLimitReached))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"code":"limit_reached","message":"Too many competitors"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	HandleAppError(rec, errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), ErrCodeInternal)
}

func TestRespondErrorWithDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondErrorWithCode(rec, http.StatusUnprocessableEntity, ErrCodePartialBatchFailure, "Some periods were not saved", map[string]int{"created": 1})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"code":"partial_batch_failure","message":"Some periods were not saved","details":{"created":1}}`, rec.Body.String())
}
