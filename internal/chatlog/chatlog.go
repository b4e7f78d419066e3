// Package chatlog appends one record per question/answer exchange for
// offline quality review. It is never read at runtime.
package chatlog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

type Logger struct {
	Dir string
}

func New(dir string) *Logger {
	return &Logger{Dir: dir}
}

// Record appends (timestamp, question, answer) to the current day's file.
func (l *Logger) Record(ts time.Time, question, answer string) error {
	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create log dir: %w", err)
	}

	path := filepath.Join(l.Dir, fmt.Sprintf("chat_%s.csv", ts.Format("2006-01-02")))
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open chat log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{ts.Format(time.RFC3339), question, answer}); err != nil {
		return fmt.Errorf("failed to write chat log: %w", err)
	}
	w.Flush()
	return w.Error()
}
