// Package logging emits one JSON object per line on stdout. The
// classifier is a one-shot batch process, so there is no level
// filtering and no logger handle: callers pick Info or Error and the
// line is written immediately.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

var out io.Writer = os.Stdout

type line struct {
	Level  string         `json:"level"`
	TS     string         `json:"ts"`
	Msg    string         `json:"msg"`
	Fields map[string]any `json:"fields,omitempty"`
}

func emit(level, msg string, fields map[string]any) {
	l := line{
		Level:  level,
		TS:     time.Now().UTC().Format(time.RFC3339Nano),
		Msg:    msg,
		Fields: fields,
	}
	b, err := json.Marshal(l)
	if err != nil {
		fmt.Fprintf(out, `{"level":"error","msg":"logging: %s"}`+"\n", err)
		return
	}
	fmt.Fprintln(out, string(b))
}

// Info writes an info-level line.
func Info(msg string, fields map[string]any) { emit("info", msg, fields) }

// Error writes an error-level line.
func Error(msg string, fields map[string]any) { emit("error", msg, fields) }
