package formatter

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/logtools-dev/logtools/core"
)

func TestNewPatternFormatter_Empty(t *testing.T) {
	if _, err := NewPatternFormatter(""); err == nil {
		t.Fatal("Expected error for empty pattern")
	}
}

func TestNewPatternFormatter_Invalid(t *testing.T) {
	if _, err := NewPatternFormatter("{{.Message"); err == nil {
		t.Fatal("Expected error for unclosed action")
	}
}

func TestPatternFormatter_Simple(t *testing.T) {
	f, err := NewPatternFormatter(SimplePattern)
	if err != nil {
		t.Fatalf("NewPatternFormatter() error = %v", err)
	}

	entry := &core.Entry{
		Time:    time.Now(),
		Level:   core.InfoLevel,
		Message: "service started",
		Fields: []core.Field{
			{Key: "port", Type: core.IntType, Int64: 8080},
		},
	}

	result, err := f.Format(entry)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := string(result)
	want := fmt.Sprintf("%s[%d]: service started port=8080", core.Program(), core.PID())
	if !strings.Contains(output, want) {
		t.Errorf("Expected %q in output, got: %s", want, output)
	}
	if !strings.HasSuffix(output, "\n") {
		t.Error("Expected trailing newline")
	}
}

func TestPatternFormatter_Qualified(t *testing.T) {
	f, err := NewPatternFormatter(QualifiedPattern)
	if err != nil {
		t.Fatalf("NewPatternFormatter() error = %v", err)
	}

	entry := &core.Entry{
		Time:    time.Now(),
		Level:   core.WarnLevel,
		Message: "disk almost full",
		Caller: core.CallerInfo{
			File:      "/src/app/monitor.go",
			ShortFile: "monitor.go",
			Line:      42,
			Function:  "app.checkDisk",
			Defined:   true,
		},
	}

	result, err := f.Format(entry)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := string(result)
	for _, want := range []string{
		"[WARN]",
		"disk almost full",
		"in app.checkDisk",
		"line 42",
		"(file /src/app/monitor.go)",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected %q in output, got: %s", want, output)
		}
	}
}

func TestPatternFormatter_EntryError(t *testing.T) {
	f, err := NewPatternFormatter(SimplePattern)
	if err != nil {
		t.Fatalf("NewPatternFormatter() error = %v", err)
	}

	entry := &core.Entry{
		Time:    time.Now(),
		Level:   core.ErrorLevel,
		Message: "upload failed",
		Err:     errors.New("timeout"),
	}

	result, err := f.Format(entry)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	if !strings.Contains(string(result), "error=timeout") {
		t.Errorf("Expected entry error in output, got: %s", result)
	}
}

func TestPatternFormatter_SprigFunctions(t *testing.T) {
	f, err := NewPatternFormatter(`{{upper .Level}} {{.Message | trunc 5}}`)
	if err != nil {
		t.Fatalf("NewPatternFormatter() error = %v", err)
	}

	entry := &core.Entry{
		Time:    time.Now(),
		Level:   core.InfoLevel,
		Message: "abcdefghij",
	}

	result, err := f.Format(entry)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := strings.TrimSpace(string(result))
	if output != "INFO abcde" {
		t.Errorf("Expected 'INFO abcde', got: %s", output)
	}
}

func TestPatternFormatter_FormatTo(t *testing.T) {
	f, err := NewPatternFormatter(SimplePattern)
	if err != nil {
		t.Fatalf("NewPatternFormatter() error = %v", err)
	}

	entry := &core.Entry{
		Time:    time.Now(),
		Level:   core.InfoLevel,
		Message: "direct write",
	}

	var sb strings.Builder
	if err := f.FormatTo(entry, &sb); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}
	if !strings.Contains(sb.String(), "direct write") {
		t.Errorf("Expected message in output, got: %s", sb.String())
	}
}

func BenchmarkPatternFormatter(b *testing.B) {
	f, err := NewPatternFormatter(QualifiedPattern)
	if err != nil {
		b.Fatal(err)
	}
	entry := &core.Entry{
		Time:    time.Now(),
		Level:   core.WarnLevel,
		Message: "test message",
		Caller:  core.CallerInfo{File: "f.go", ShortFile: "f.go", Line: 1, Function: "fn", Defined: true},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = f.Format(entry)
	}
}
