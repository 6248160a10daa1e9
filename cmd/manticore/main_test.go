package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/manticore-lang/manticore"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunInline(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "none.yml")
	code, out, errOut := runCLI(t, "-config", cfg, "-e", `println(1 + 2 * 4 + 7)`)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if out != "16\n" {
		t.Fatalf("stdout = %q", out)
	}
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	prog := filepath.Join(dir, "hello.mt")
	src := "greet = { who ~ println(\"hello \" + who) };\ngreet(\"world\")\n"
	if err := os.WriteFile(prog, []byte(src), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	code, out, errOut := runCLI(t, "-config", filepath.Join(dir, "none.yml"), prog)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if out != "hello world\n" {
		t.Fatalf("stdout = %q", out)
	}
}

func TestRunReportsDiagnosticsWithoutFailing(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "none.yml")
	code, out, errOut := runCLI(t, "-config", cfg, "-e", "1 +;\nprintln(\"after\")")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	if out != "after\n" {
		t.Fatalf("stdout = %q", out)
	}
	if !strings.Contains(errOut, "ERROR: on line 1") {
		t.Fatalf("stderr = %q", errOut)
	}
}

func TestRunMissingFile(t *testing.T) {
	dir := t.TempDir()
	code, _, errOut := runCLI(t, "-config", filepath.Join(dir, "none.yml"), filepath.Join(dir, "missing.mt"))
	if code != 1 {
		t.Fatalf("exit %d, want 1", code)
	}
	if !strings.Contains(errOut, "missing.mt") {
		t.Fatalf("stderr = %q", errOut)
	}
}

func TestRunBadConfig(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "bad.yml")
	if err := os.WriteFile(cfg, []byte("max_depth: -1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if code, _, _ := runCLI(t, "-config", cfg, "-e", "1"); code != 2 {
		t.Fatalf("exit %d, want 2", code)
	}
}

func TestIncomplete(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{`x = 1`, false},
		{`f = {`, true},
		{`xs = [1, 2`, true},
		{`s = "open`, true},
		{`f = { 1 }`, false},
		{`}`, false},
	}
	for _, tt := range tests {
		if got := incomplete(tt.src); got != tt.want {
			t.Fatalf("incomplete(%q) = %v, want %v", tt.src, got, tt.want)
		}
	}
}

func TestFormatStack(t *testing.T) {
	items := []manticore.Token{
		manticore.Lit(manticore.Integer, "1"),
		manticore.Lit(manticore.String, "two"),
	}
	if got := formatStack(items); got != `[1 "two"]` {
		t.Fatalf("formatStack = %s", got)
	}
}
