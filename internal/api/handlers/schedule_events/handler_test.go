package schedule_events

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/schedulestore"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type fakeNotifier struct {
	mu           sync.Mutex
	listener     schedulestore.Listener
	subscribed   chan struct{}
	unsubscribed chan struct{}
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{
		subscribed:   make(chan struct{}),
		unsubscribed: make(chan struct{}),
	}
}

func (f *fakeNotifier) Subscribe(fn schedulestore.Listener) func() {
	f.mu.Lock()
	f.listener = fn
	f.mu.Unlock()
	close(f.subscribed)
	return func() { close(f.unsubscribed) }
}

func (f *fakeNotifier) fire(snapshot domain.ScheduleSnapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listener(snapshot)
}

func TestHandle_StreamsScheduleChanges(t *testing.T) {
	notifier := newFakeNotifier()
	server := httptest.NewServer(http.HandlerFunc(NewHandler(notifier, logger.NewNop()).Handle))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	select {
	case <-notifier.subscribed:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not subscribe")
	}

	notifier.fire(domain.ScheduleSnapshot{LoadedAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)})

	reader := bufio.NewReader(resp.Body)
	var lines []string
	for len(lines) < 2 {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	assert.Equal(t, "event: schedule.changed", lines[0])
	assert.Equal(t, `data: {"loadedAt":"2026-03-02T09:00:00Z"}`, lines[1])

	cancel()
	select {
	case <-notifier.unsubscribed:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not unsubscribe after disconnect")
	}
}

func TestHandle_ListenerNeverBlocks(t *testing.T) {
	notifier := newFakeNotifier()
	h := NewHandler(notifier, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)

	done := make(chan struct{})
	go func() {
		h.Handle(httptest.NewRecorder(), req)
		close(done)
	}()
	<-notifier.subscribed

	fired := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			notifier.fire(domain.ScheduleSnapshot{})
		}
		close(fired)
	}()

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("listener blocked")
	}

	cancel()
	<-done
}
