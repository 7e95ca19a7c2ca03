package convert

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestPandocMissingBinary(t *testing.T) {
	p := &Pandoc{Command: "definitely-not-a-real-converter"}
	_, err := p.Convert(context.Background(), `\documentclass{article}`, t.TempDir())
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	var convErr *ConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("expected *ConversionError, got %T", err)
	}
	if convErr.Command != "definitely-not-a-real-converter" {
		t.Errorf("command = %q", convErr.Command)
	}
}

func TestPandocTimeout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on a shell script stand-in")
	}
	dir := t.TempDir()
	slow := filepath.Join(dir, "slow-converter.sh")
	if err := os.WriteFile(slow, []byte("#!/bin/sh\nsleep 30\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	p := &Pandoc{Command: slow, Timeout: 50 * time.Millisecond}
	start := time.Now()
	_, err := p.Convert(context.Background(), "ignored", dir)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("conversion was not cancelled promptly: %v", elapsed)
	}
	var convErr *ConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("expected *ConversionError, got %T", err)
	}
	if !errors.Is(convErr.Err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", convErr.Err)
	}
}

func TestPandocWritesInput(t *testing.T) {
	dir := t.TempDir()
	p := &Pandoc{Command: "true"} // exits 0 without producing output
	markup := `\documentclass{article}\begin{document}hi\end{document}`
	_, err := p.Convert(context.Background(), markup, dir)
	// The converter "succeeds" but produces no archive, so reading the
	// output must fail.
	if err == nil {
		t.Fatal("expected error reading missing output")
	}
	if !strings.Contains(err.Error(), "reading converter output") {
		t.Errorf("unexpected error: %v", err)
	}
	data, readErr := os.ReadFile(filepath.Join(dir, "prepared.tex"))
	if readErr != nil {
		t.Fatalf("prepared input not written: %v", readErr)
	}
	if string(data) != markup {
		t.Errorf("prepared input = %q", data)
	}
}

func TestConversionErrorMessage(t *testing.T) {
	e := &ConversionError{Command: "pandoc", Stderr: "bad input", Err: errors.New("exit status 64")}
	if got := e.Error(); !strings.Contains(got, "pandoc") || !strings.Contains(got, "bad input") {
		t.Errorf("error message = %q", got)
	}
}
