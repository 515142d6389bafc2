package emit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// LogEmitter implements Emitter by writing structured log output to a writer.
//
// Two output modes:
// - Text mode (default): human-readable key=value lines.
// - JSON mode: one JSON object per line (JSONL).
//
// Example text output:
//
//	[step_completed] workflow=wf-001 wave=1 step=fetch
//
// Example JSON output:
//
//	{"workflow_id":"wf-001","wave":1,"step_id":"fetch","msg":"step_completed","meta":null}
type LogEmitter struct {
	writer   io.Writer
	jsonMode bool
}

// NewLogEmitter creates a LogEmitter writing to the given writer
// (os.Stdout when nil). jsonMode selects JSONL output.
func NewLogEmitter(writer io.Writer, jsonMode bool) *LogEmitter {
	if writer == nil {
		writer = os.Stdout
	}
	return &LogEmitter{writer: writer, jsonMode: jsonMode}
}

// Emit writes one event in the configured format.
func (l *LogEmitter) Emit(event Event) {
	if l.jsonMode {
		l.emitJSON(event)
	} else {
		l.emitText(event)
	}
}

func (l *LogEmitter) emitJSON(event Event) {
	data, err := json.Marshal(struct {
		WorkflowID string         `json:"workflow_id"`
		Wave       int            `json:"wave"`
		StepID     string         `json:"step_id"`
		Msg        string         `json:"msg"`
		Meta       map[string]any `json:"meta"`
	}{
		WorkflowID: event.WorkflowID,
		Wave:       event.Wave,
		StepID:     event.StepID,
		Msg:        event.Msg,
		Meta:       event.Meta,
	})
	if err != nil {
		_, _ = fmt.Fprintf(l.writer, "{\"error\":\"failed to marshal event: %v\"}\n", err)
		return
	}
	_, _ = fmt.Fprintf(l.writer, "%s\n", data)
}

func (l *LogEmitter) emitText(event Event) {
	_, _ = fmt.Fprintf(l.writer, "[%s] workflow=%s wave=%d step=%s",
		event.Msg, event.WorkflowID, event.Wave, event.StepID)

	if len(event.Meta) > 0 {
		if metaJSON, err := json.Marshal(event.Meta); err == nil {
			_, _ = fmt.Fprintf(l.writer, " meta=%s", metaJSON)
		} else {
			_, _ = fmt.Fprintf(l.writer, " meta=%v", event.Meta)
		}
	}

	_, _ = fmt.Fprint(l.writer, "\n")
}

// EmitBatch writes all events in order. Always attempts every event.
func (l *LogEmitter) EmitBatch(_ context.Context, events []Event) error {
	for _, event := range events {
		l.Emit(event)
	}
	return nil
}

// Flush is a no-op: LogEmitter writes directly without buffering. Wrap the
// writer in a bufio.Writer and flush that if buffered output is needed.
func (l *LogEmitter) Flush(_ context.Context) error {
	return nil
}
