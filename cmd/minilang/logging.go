package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// newLogger creates a logger writing text to w and, if file is not empty, JSON
// to that file. The returned function closes the file.
func newLogger(w io.Writer, level, file string) (*slog.Logger, func() error, error) {
	var lv slog.Level
	if err := lv.UnmarshalText([]byte(level)); err != nil {
		return nil, nil, fmt.Errorf("bad log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: lv}
	handlers := []slog.Handler{slog.NewTextHandler(w, opts)}
	closer := func() error { return nil }
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		handlers = append(handlers, slog.NewJSONHandler(f, opts))
		closer = f.Close
	}
	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}

// closeInto calls c and stores its error in *err if *err is nil.
func closeInto(err *error, c func() error) {
	if cerr := c(); cerr != nil && *err == nil {
		*err = fmt.Errorf("closing log: %w", cerr)
	}
}
