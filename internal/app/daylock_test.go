package app

import (
	"context"
	"sync"
	"testing"

	"github.com/louro2023/agendaflow/internal/schedule"
	"github.com/louro2023/agendaflow/internal/storage"
	memorystorage "github.com/louro2023/agendaflow/internal/storage/memory"
	"github.com/stretchr/testify/require"
)

func lockedDays(a *App) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.dayLocks)
}

func TestLockDayReleasesEntries(t *testing.T) {
	a := New(memorystorage.New(), schedule.Validator{}, nil)
	date := storage.Date{Year: 2024, Month: 6, Day: 10}

	unlock := a.lockDay(date)
	require.Equal(t, 1, lockedDays(a))
	unlock()
	require.Equal(t, 0, lockedDays(a))
}

func TestLockDayContendedRelease(t *testing.T) {
	// The entry stays while any holder or waiter references it and goes away
	// with the last one, so the map cannot grow with the calendar.
	a := New(memorystorage.New(), schedule.Validator{}, nil)
	ctx := context.Background()

	dates := []string{"2024-06-10", "2024-06-10", "2024-06-11", "2024-07-01"}
	clocks := []string{"08:00", "14:00", "08:00", "08:00"}
	var wg sync.WaitGroup
	for i := range dates {
		d, err := storage.ParseDate(dates[i])
		require.NoError(t, err)
		c, err := storage.ParseClock(clocks[i])
		require.NoError(t, err)
		wg.Add(1)
		go func(e storage.Event) {
			defer wg.Done()
			_, _ = a.CreateEvent(ctx, e)
		}(storage.Event{Title: "test", Date: d, Clock: c})
	}
	wg.Wait()

	require.Equal(t, 0, lockedDays(a))

	events, err := a.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 4)
}
