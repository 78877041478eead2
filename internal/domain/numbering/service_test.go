package numbering

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldops/internal/core/apperror"
	corenumbering "fieldops/internal/core/numbering"
)

// memStore is an in-memory Store whose Mutate serializes writers under a
// mutex, matching the atomicity contract of the real backends.
type memStore struct {
	mu      sync.Mutex
	tenants map[string]corenumbering.FormatMap
	writes  int
}

func newMemStore(tenantIDs ...string) *memStore {
	s := &memStore{tenants: make(map[string]corenumbering.FormatMap)}
	for _, id := range tenantIDs {
		s.tenants[id] = corenumbering.FormatMap{}
	}
	return s
}

func (s *memStore) GetFormats(_ context.Context, tenantID string) (corenumbering.FormatMap, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.tenants[tenantID]
	if !ok {
		return nil, false, nil
	}
	return stored.Clone(), true, nil
}

func (s *memStore) Mutate(_ context.Context, tenantID string, fn func(corenumbering.FormatMap) (corenumbering.FormatMap, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.tenants[tenantID]
	if !ok {
		return apperror.NewNotFound("tenant", tenantID)
	}
	updated, err := fn(stored.Clone())
	if err != nil {
		return err
	}
	s.tenants[tenantID] = updated
	s.writes++
	return nil
}

func (s *memStore) ReplaceFormats(_ context.Context, tenantID string, formats corenumbering.FormatMap) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tenants[tenantID]; !ok {
		return apperror.NewNotFound("tenant", tenantID)
	}
	s.tenants[tenantID] = formats.Clone()
	s.writes++
	return nil
}

func (s *memStore) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

var year2025 = time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)

func TestGenerate_EndToEndDefaults(t *testing.T) {
	store := newMemStore("biz-1")
	svc := NewServiceWithClock(store, fixedClock(year2025))
	ctx := context.Background()

	first, err := svc.Generate(ctx, "biz-1", corenumbering.TypeWorkOrder)
	require.NoError(t, err)
	assert.Equal(t, "WO-2025-00001", first)

	second, err := svc.Generate(ctx, "biz-1", corenumbering.TypeWorkOrder)
	require.NoError(t, err)
	assert.Equal(t, "WO-2025-00002", second)
}

func TestGenerate_MonotonicSequence(t *testing.T) {
	store := newMemStore("biz-1")
	svc := NewServiceWithClock(store, fixedClock(year2025))
	ctx := context.Background()

	for i := 1; i <= 25; i++ {
		num, err := svc.Generate(ctx, "biz-1", corenumbering.TypeClient)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("CLIENT-%06d", i), num)
	}
}

func TestGenerate_IndependentCountersPerType(t *testing.T) {
	store := newMemStore("biz-1")
	svc := NewServiceWithClock(store, fixedClock(year2025))
	ctx := context.Background()

	_, err := svc.Generate(ctx, "biz-1", corenumbering.TypeWorkOrder)
	require.NoError(t, err)
	_, err = svc.Generate(ctx, "biz-1", corenumbering.TypeWorkOrder)
	require.NoError(t, err)

	sched, err := svc.Generate(ctx, "biz-1", corenumbering.TypeScheduling)
	require.NoError(t, err)
	assert.Equal(t, "SCH-00001", sched)
}

func TestGenerate_TenantNotFound(t *testing.T) {
	store := newMemStore("registered")
	svc := NewServiceWithClock(store, fixedClock(year2025))

	_, err := svc.Generate(context.Background(), "ghost", corenumbering.TypeInvoice)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	assert.Equal(t, 0, store.writeCount())
}

func TestGenerate_InvalidType(t *testing.T) {
	store := newMemStore("biz-1")
	svc := NewServiceWithClock(store, fixedClock(year2025))

	_, err := svc.Generate(context.Background(), "biz-1", corenumbering.Type("bogusType"))
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidNumberType, appErr.Code)
	// Failure paths persist nothing.
	assert.Equal(t, 0, store.writeCount())
}

func TestGenerate_CustomTypeWithStoredConfig(t *testing.T) {
	store := newMemStore("biz-1")
	store.tenants["biz-1"] = corenumbering.FormatMap{
		corenumbering.Type("purchaseOrder"): {
			Format: "PO-{COUNTER:4}", Counter: 7, Padding: 4, ResetPeriod: corenumbering.ResetNever,
		},
	}
	svc := NewServiceWithClock(store, fixedClock(year2025))

	num, err := svc.Generate(context.Background(), "biz-1", corenumbering.Type("purchaseOrder"))
	require.NoError(t, err)
	assert.Equal(t, "PO-0007", num)
}

func TestGenerate_MonthlyReset(t *testing.T) {
	lastReset := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	store := newMemStore("biz-1")
	store.tenants["biz-1"] = corenumbering.FormatMap{
		corenumbering.TypeInvoice: {
			Format:      "INV-{YEAR}{MONTH}-{COUNTER:4}",
			Counter:     42,
			Padding:     4,
			ResetPeriod: corenumbering.ResetMonthly,
			LastReset:   lastReset,
		},
	}

	t.Run("month boundary resets before formatting", func(t *testing.T) {
		now := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
		svc := NewServiceWithClock(store, fixedClock(now))

		num, err := svc.Generate(context.Background(), "biz-1", corenumbering.TypeInvoice)
		require.NoError(t, err)
		assert.Equal(t, "INV-202402-0001", num)

		persisted := store.tenants["biz-1"][corenumbering.TypeInvoice]
		assert.Equal(t, int64(2), persisted.Counter)
		assert.Equal(t, now, persisted.LastReset)
	})
}

func TestGenerate_NoResetWithinPeriod(t *testing.T) {
	lastReset := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	store := newMemStore("biz-1")
	store.tenants["biz-1"] = corenumbering.FormatMap{
		corenumbering.TypeInvoice: {
			Format:      "INV-{YEAR}{MONTH}-{COUNTER:4}",
			Counter:     42,
			Padding:     4,
			ResetPeriod: corenumbering.ResetMonthly,
			LastReset:   lastReset,
		},
	}

	now := time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC)
	svc := NewServiceWithClock(store, fixedClock(now))

	num, err := svc.Generate(context.Background(), "biz-1", corenumbering.TypeInvoice)
	require.NoError(t, err)
	assert.Equal(t, "INV-202401-0042", num)

	persisted := store.tenants["biz-1"][corenumbering.TypeInvoice]
	assert.Equal(t, int64(43), persisted.Counter)
	// lastReset only moves when a reset is applied.
	assert.Equal(t, lastReset, persisted.LastReset)
}

func TestGenerate_DailyReset(t *testing.T) {
	store := newMemStore("biz-1")
	store.tenants["biz-1"] = corenumbering.FormatMap{
		corenumbering.TypeScheduling: {
			Format:      "SCH-{YEAR}{MONTH}{DAY}-{COUNTER:3}",
			Counter:     9,
			Padding:     3,
			ResetPeriod: corenumbering.ResetDaily,
			LastReset:   time.Date(2024, time.March, 1, 23, 0, 0, 0, time.UTC),
		},
	}

	now := time.Date(2024, time.March, 2, 8, 0, 0, 0, time.UTC)
	svc := NewServiceWithClock(store, fixedClock(now))

	num, err := svc.Generate(context.Background(), "biz-1", corenumbering.TypeScheduling)
	require.NoError(t, err)
	assert.Equal(t, "SCH-20240302-001", num)
}

func TestGenerate_ConcurrentUniqueness(t *testing.T) {
	const n = 200

	store := newMemStore("biz-1")
	svc := NewServiceWithClock(store, fixedClock(year2025))
	ctx := context.Background()

	results := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			num, err := svc.Generate(ctx, "biz-1", corenumbering.TypeWorkOrder)
			assert.NoError(t, err)
			results <- num
		}()
	}
	wg.Wait()
	close(results)

	counterRe := regexp.MustCompile(`^WO-2025-(\d{5,})$`)
	seen := make(map[string]bool, n)
	counters := make(map[int64]bool, n)
	for num := range results {
		require.False(t, seen[num], "duplicate number issued: %s", num)
		seen[num] = true

		m := counterRe.FindStringSubmatch(num)
		require.NotNil(t, m, "unexpected shape: %s", num)
		c, err := strconv.ParseInt(m[1], 10, 64)
		require.NoError(t, err)
		counters[c] = true
	}
	require.Len(t, seen, n)
	require.Len(t, counters, n)

	// Next counter to consume is exactly n+1.
	assert.Equal(t, int64(n+1), store.tenants["biz-1"][corenumbering.TypeWorkOrder].Counter)
}

func TestGetFormats(t *testing.T) {
	t.Run("unregistered tenant yields pure defaults", func(t *testing.T) {
		svc := NewServiceWithClock(newMemStore(), fixedClock(year2025))
		got, err := svc.GetFormats(context.Background(), "ghost")
		require.NoError(t, err)
		assert.Equal(t, corenumbering.Defaults(), got)
	})

	t.Run("read is idempotent", func(t *testing.T) {
		store := newMemStore("biz-1")
		svc := NewServiceWithClock(store, fixedClock(year2025))
		ctx := context.Background()

		first, err := svc.GetFormats(ctx, "biz-1")
		require.NoError(t, err)
		second, err := svc.GetFormats(ctx, "biz-1")
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, 0, store.writeCount())
	})

	t.Run("stored config wins over defaults", func(t *testing.T) {
		store := newMemStore("biz-1")
		store.tenants["biz-1"] = corenumbering.FormatMap{
			corenumbering.TypeContract: {Format: "K-{COUNTER:2}", Counter: 5, Padding: 2, ResetPeriod: corenumbering.ResetNever},
		}
		svc := NewServiceWithClock(store, fixedClock(year2025))

		got, err := svc.GetFormats(context.Background(), "biz-1")
		require.NoError(t, err)
		assert.Equal(t, "K-{COUNTER:2}", got[corenumbering.TypeContract].Format)
		assert.Equal(t, corenumbering.DefaultConfig(corenumbering.TypeInvoice), got[corenumbering.TypeInvoice])
	})
}

func TestUpdateFormats(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects empty format", func(t *testing.T) {
		svc := NewServiceWithClock(newMemStore("biz-1"), fixedClock(year2025))
		_, err := svc.UpdateFormats(ctx, "biz-1", corenumbering.FormatMap{
			corenumbering.TypeInvoice: {Format: ""},
		})
		require.Error(t, err)
		assert.True(t, apperror.IsValidation(err))
	})

	t.Run("rejects unrecognized type key", func(t *testing.T) {
		svc := NewServiceWithClock(newMemStore("biz-1"), fixedClock(year2025))
		_, err := svc.UpdateFormats(ctx, "biz-1", corenumbering.FormatMap{
			corenumbering.Type("bogusType"): {Format: "B-{COUNTER}"},
		})
		require.Error(t, err)
		assert.True(t, apperror.IsValidation(err))
	})

	t.Run("rejects invalid reset period", func(t *testing.T) {
		svc := NewServiceWithClock(newMemStore("biz-1"), fixedClock(year2025))
		_, err := svc.UpdateFormats(ctx, "biz-1", corenumbering.FormatMap{
			corenumbering.TypeInvoice: {Format: "I-{COUNTER}", ResetPeriod: "weekly"},
		})
		require.Error(t, err)
		assert.True(t, apperror.IsValidation(err))
	})

	t.Run("omitted counter and lastReset get defaults", func(t *testing.T) {
		store := newMemStore("biz-1")
		svc := NewServiceWithClock(store, fixedClock(year2025))

		merged, err := svc.UpdateFormats(ctx, "biz-1", corenumbering.FormatMap{
			corenumbering.TypeWorkOrder: {Format: "JOB-{COUNTER:3}", Padding: 3},
		})
		require.NoError(t, err)

		got := merged[corenumbering.TypeWorkOrder]
		assert.Equal(t, int64(1), got.Counter)
		assert.Equal(t, year2025, got.LastReset)
		assert.Equal(t, corenumbering.ResetNever, got.ResetPeriod)
	})

	t.Run("merge leaves untouched types intact", func(t *testing.T) {
		store := newMemStore("biz-1")
		store.tenants["biz-1"] = corenumbering.FormatMap{
			corenumbering.TypeClient: {Format: "C-{COUNTER}", Counter: 88, Padding: 4, ResetPeriod: corenumbering.ResetNever},
		}
		svc := NewServiceWithClock(store, fixedClock(year2025))

		merged, err := svc.UpdateFormats(ctx, "biz-1", corenumbering.FormatMap{
			corenumbering.TypeInvoice: {Format: "FV-{YY}-{COUNTER:4}", Padding: 4, ResetPeriod: corenumbering.ResetYearly},
		})
		require.NoError(t, err)

		assert.Equal(t, int64(88), merged[corenumbering.TypeClient].Counter)
		assert.Equal(t, "FV-{YY}-{COUNTER:4}", merged[corenumbering.TypeInvoice].Format)
		// Untouched types still come back default-filled.
		assert.Equal(t, corenumbering.DefaultConfig(corenumbering.TypeContract), merged[corenumbering.TypeContract])
	})

	t.Run("updated format drives the next generate", func(t *testing.T) {
		store := newMemStore("biz-1")
		svc := NewServiceWithClock(store, fixedClock(year2025))

		_, err := svc.UpdateFormats(ctx, "biz-1", corenumbering.FormatMap{
			corenumbering.TypeWorkOrder: {Format: "JOB/{YY}/{COUNTER:3}", Padding: 3},
		})
		require.NoError(t, err)

		num, err := svc.Generate(ctx, "biz-1", corenumbering.TypeWorkOrder)
		require.NoError(t, err)
		assert.Equal(t, "JOB/25/001", num)
	})
}

func TestPreviewFormat(t *testing.T) {
	svc := NewServiceWithClock(newMemStore(), fixedClock(year2025))

	assert.Equal(t, "WO-2025-00042", svc.PreviewFormat("WO-{YEAR}-{COUNTER:5}", 42, 0))
	// Preview is lenient and stateless: malformed templates pass through.
	assert.Equal(t, "ORDER-{UNKNOWN}-005", svc.PreviewFormat("ORDER-{UNKNOWN}-{COUNTER:3}", 5, 0))
}
