package agui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/scout/event"
)

type noFlush struct{ http.ResponseWriter }

func TestNewSSEWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	_, err := NewSSEWriter(rec)
	require.NoError(t, err)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))

	_, err = NewSSEWriter(noFlush{httptest.NewRecorder()})
	assert.ErrorIs(t, err, ErrStreamingUnsupported)
}

func TestStream(t *testing.T) {
	rec := httptest.NewRecorder()
	w, err := NewSSEWriter(rec)
	require.NoError(t, err)

	ch := make(chan event.Event, 8)
	ch <- event.Event{Type: event.RunStart}
	ch <- event.Event{Type: event.MessageStart, MessageID: "m1"}
	ch <- event.Event{Type: event.MessageDelta, MessageID: "m1", Delta: "Hello"}
	ch <- event.Event{Type: event.ToolCallStart}
	ch <- event.Event{Type: event.MessageEnd, MessageID: "m1"}
	ch <- event.Event{Type: event.RunEnd}
	close(ch)

	n, err := Stream(context.Background(), w, NewMapper("th", "run"), ch)
	require.NoError(t, err)
	assert.Equal(t, 5, n, "incomplete tool event is skipped")

	body := rec.Body.String()
	frames := strings.Split(strings.TrimSpace(body), "\n\n")
	require.Len(t, frames, 5)
	assert.True(t, strings.HasPrefix(frames[0], "event: RUN_STARTED\ndata: {"))
	assert.Contains(t, frames[2], "Hello")
	assert.True(t, strings.HasPrefix(frames[4], "event: RUN_FINISHED\n"))
}

func TestStreamStopsOnCancel(t *testing.T) {
	w, err := NewSSEWriter(httptest.NewRecorder())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = Stream(ctx, w, NewMapper("", ""), make(chan event.Event))
	assert.ErrorIs(t, err, context.Canceled)
}
