package client

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

// scriptedStatusSource returns statuses in sequence, repeating the last
type scriptedStatusSource struct {
	mu       sync.Mutex
	statuses []string
	errs     []error
	calls    int
}

func (s *scriptedStatusSource) Status(ctx context.Context, courseID, employeeID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if len(s.statuses) == 0 {
		return "", nil
	}
	if i >= len(s.statuses) {
		i = len(s.statuses) - 1
	}
	return s.statuses[i], nil
}

func (s *scriptedStatusSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// collectOutcomes returns a settle callback that counts invocations
func collectOutcomes() (func(SettleOutcome), func() (int, SettleOutcome)) {
	var mu sync.Mutex
	var count int
	var last SettleOutcome

	onSettled := func(outcome SettleOutcome) {
		mu.Lock()
		defer mu.Unlock()
		count++
		last = outcome
	}
	read := func() (int, SettleOutcome) {
		mu.Lock()
		defer mu.Unlock()
		return count, last
	}
	return onSettled, read
}

func TestPoller_SettlesCompleted(t *testing.T) {
	source := &scriptedStatusSource{statuses: []string{"pending", "in_progress", "completed"}}
	poller := NewPoller(source, 5*time.Millisecond, 60, time.Minute, arbor.NewLogger())

	onSettled, read := collectOutcomes()
	poller.Watch(context.Background(), "course-1", "emp-1", onSettled)

	require.Eventually(t, func() bool {
		count, outcome := read()
		return count == 1 && outcome == SettleCompleted
	}, time.Second, 5*time.Millisecond)

	// Settled exactly once, no further calls after settling
	time.Sleep(50 * time.Millisecond)
	count, _ := read()
	assert.Equal(t, 1, count)
}

func TestPoller_SettlesTimeoutExactlyOnce(t *testing.T) {
	// Status never reports completed; the attempt cap must settle timeout
	// exactly once
	source := &scriptedStatusSource{statuses: []string{"in_progress"}}
	poller := NewPoller(source, 2*time.Millisecond, 5, time.Minute, arbor.NewLogger())

	onSettled, read := collectOutcomes()
	poller.Watch(context.Background(), "course-1", "emp-1", onSettled)

	require.Eventually(t, func() bool {
		count, outcome := read()
		return count == 1 && outcome == SettleTimeout
	}, time.Second, 2*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	count, _ := read()
	assert.Equal(t, 1, count)
	assert.LessOrEqual(t, source.callCount(), 5)
}

func TestPoller_AbsoluteDeadlineSettlesTimeout(t *testing.T) {
	// Attempt cap is generous; the wall-clock deadline must fire first
	source := &scriptedStatusSource{statuses: []string{"in_progress"}}
	poller := NewPoller(source, 5*time.Millisecond, 1000, 30*time.Millisecond, arbor.NewLogger())

	onSettled, read := collectOutcomes()
	poller.Watch(context.Background(), "course-1", "emp-1", onSettled)

	require.Eventually(t, func() bool {
		count, outcome := read()
		return count == 1 && outcome == SettleTimeout
	}, time.Second, 5*time.Millisecond)
}

func TestPoller_ReadErrorsKeepPolling(t *testing.T) {
	source := &scriptedStatusSource{
		statuses: []string{"", "", "completed"},
		errs:     []error{errors.New("network blip"), errors.New("network blip")},
	}
	poller := NewPoller(source, 2*time.Millisecond, 60, time.Minute, arbor.NewLogger())

	onSettled, read := collectOutcomes()
	poller.Watch(context.Background(), "course-1", "emp-1", onSettled)

	require.Eventually(t, func() bool {
		count, outcome := read()
		return count == 1 && outcome == SettleCompleted
	}, time.Second, 2*time.Millisecond)
}

func TestPoller_CancelStopsWithoutSettling(t *testing.T) {
	source := &scriptedStatusSource{statuses: []string{"in_progress"}}
	poller := NewPoller(source, 2*time.Millisecond, 1000, time.Minute, arbor.NewLogger())

	onSettled, read := collectOutcomes()
	handle := poller.Watch(context.Background(), "course-1", "emp-1", onSettled)

	time.Sleep(20 * time.Millisecond)
	handle.Cancel()
	time.Sleep(20 * time.Millisecond)

	callsAfterCancel := source.callCount()
	time.Sleep(20 * time.Millisecond)

	count, _ := read()
	assert.Equal(t, 0, count)
	assert.Equal(t, callsAfterCancel, source.callCount())
}
