// internal/scheduler/warmer_test.go
package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seasonal-story-workers/internal/common/logger"
)

type recordingWarmer struct {
	mu     sync.Mutex
	calls  map[string][]string
	failOn string
}

func (r *recordingWarmer) Warm(_ context.Context, location string, categories []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.calls == nil {
		r.calls = make(map[string][]string)
	}
	r.calls[location] = categories
	if location == r.failOn {
		return errors.New("upstream unavailable")
	}
	return nil
}

func (r *recordingWarmer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func TestWarmer_Run(t *testing.T) {
	source := &recordingWarmer{failOn: "Busan"}
	w := NewWarmer(source, []string{"Seoul", "Busan", "Incheon"}, []string{"coffee"}, time.Minute, logger.NewTestLogger(t))

	ok := w.Run()

	assert.Equal(t, 2, ok)
	assert.Equal(t, 3, source.count())
	assert.Equal(t, []string{"coffee"}, source.calls["Seoul"])
}

func TestWarmer_StartRunsImmediately(t *testing.T) {
	source := &recordingWarmer{}
	w := NewWarmer(source, []string{"Seoul"}, nil, time.Hour, logger.NewTestLogger(t))

	require.NoError(t, w.Start())
	defer w.Stop()

	assert.Eventually(t, func() bool { return source.count() == 1 }, time.Second, 10*time.Millisecond)
}

func TestWarmer_NoLocations(t *testing.T) {
	source := &recordingWarmer{}
	w := NewWarmer(source, nil, nil, 0, logger.NewNoOpLogger())

	require.NoError(t, w.Start())
	w.Stop()
	assert.Equal(t, 0, source.count())
}
