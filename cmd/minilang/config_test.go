package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "minilang.toml")
	require.NoError(t, os.WriteFile(name, []byte(text), 0o644))
	return name
}

func TestLoadConfig(t *testing.T) {
	name := writeConfig(t, `
parser = "shunt"
mode = "program"
format = "yaml"
precision = 128
verb = "%.2f"

[given]
b = "a * 2"
a = "3"

[log]
level = "debug"
file = "x.log"
`)
	cfg, err := loadConfig(name)
	require.NoError(t, err)
	require.Equal(t, &Config{
		Parser:    "shunt",
		Mode:      "program",
		Format:    "yaml",
		Precision: 128,
		Verb:      "%.2f",
		Given:     map[string]string{"a": "3", "b": "a * 2"},
		Log:       LogConfig{Level: "debug", File: "x.log"},
	}, cfg)
	require.Equal(t, []string{"a=3", "b=a * 2"}, cfg.givens())
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := loadConfig(writeConfig(t, `parser = "shunt"`+"\nprecison = 5\n"))
	require.ErrorContains(t, err, "precison")
	_, err = loadConfig(writeConfig(t, `parser = `))
	require.Error(t, err)
}

func TestConfigDefaults(t *testing.T) {
	name := writeConfig(t, `
format = "go"
precision = 200
verb = "%.1f"

[given]
r = "2"
`)
	out, _, err := execute(t, "", "--config", name, "-e", "r * 3")
	require.NoError(t, err)
	require.Equal(t, "6.0\n", out)

	// Flags override the file.
	out, _, err = execute(t, "", "--config", name, "--format", "text", "--given", "r=5", "r + 1")
	require.NoError(t, err)
	require.Equal(t, "(r + 1)\n", out)
	out, _, err = execute(t, "", "--config", name, "-e", "--given", "r=5", "--verb", "%g", "r + 1")
	require.NoError(t, err)
	require.Equal(t, "6\n", out)
}

func TestLogging(t *testing.T) {
	logfile := filepath.Join(t.TempDir(), "minilang.log")
	name := writeConfig(t, "[log]\nlevel = \"debug\"\nfile = "+`"`+filepath.ToSlash(logfile)+`"`+"\n")
	_, errs, err := execute(t, "", "--config", name, "1 + 1")
	require.NoError(t, err)
	require.Contains(t, errs, "level=DEBUG")
	require.Contains(t, errs, "msg=parsed")
	b, err := os.ReadFile(logfile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.NotEmpty(t, lines)
	require.Contains(t, string(b), `"msg":"parsed"`)
	require.Contains(t, string(b), `"tree":"(1 + 1)"`)

	// The default level hides debug logs.
	_, errs, err = execute(t, "", "1 + 1")
	require.NoError(t, err)
	require.Empty(t, errs)
}

func TestCloseLog(t *testing.T) {
	bad := errors.New("disk full")
	var err error
	closeInto(&err, func() error { return nil })
	require.NoError(t, err)
	closeInto(&err, func() error { return bad })
	require.ErrorIs(t, err, bad)
	require.ErrorContains(t, err, "closing log")

	// An earlier error wins.
	first := errors.New("first")
	err = first
	closeInto(&err, func() error { return bad })
	require.Equal(t, first, err)

	// A closed log file reports its second close.
	_, closeLog, err := newLogger(io.Discard, "info", filepath.Join(t.TempDir(), "x.log"))
	require.NoError(t, err)
	require.NoError(t, closeLog())
	closeInto(&err, closeLog)
	require.ErrorIs(t, err, os.ErrClosed)
}
