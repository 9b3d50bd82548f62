package agui

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/spetersoncode/scout/event"
)

// ErrStreamingUnsupported is returned when the response writer cannot flush.
var ErrStreamingUnsupported = errors.New("agui: streaming not supported")

// SSEWriter writes AG-UI events as server-sent events.
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter prepares w for an event stream and writes the SSE headers.
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrStreamingUnsupported
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &SSEWriter{w: w, flusher: flusher}, nil
}

// Write sends one event frame and flushes it.
func (s *SSEWriter) Write(ev events.Event) error {
	data, err := ev.ToJSON()
	if err != nil {
		return fmt.Errorf("agui: encode %s: %w", ev.Type(), err)
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", ev.Type(), data); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// Stream maps every event from ch and writes it to w until ch closes or
// ctx is done. It returns the number of frames written. On a write error
// the channel is still drained so the producer can finish.
func Stream(ctx context.Context, w *SSEWriter, m *Mapper, ch <-chan event.Event) (int, error) {
	var written int
	for {
		select {
		case <-ctx.Done():
			return written, ctx.Err()
		case e, ok := <-ch:
			if !ok {
				return written, nil
			}
			ev := m.MapEvent(e)
			if ev == nil {
				continue
			}
			if err := w.Write(ev); err != nil {
				go drain(ch)
				return written, err
			}
			written++
		}
	}
}

func drain(ch <-chan event.Event) {
	for range ch {
	}
}
