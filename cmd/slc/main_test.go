package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTranspileToCBackendSucceeds(t *testing.T) {
	out := filepath.Join(t.TempDir(), "fib.c")
	status := Handler([]string{"testdata/fib.sb", out}, map[string]string{"emit": "c"})
	if status != 0 {
		t.Fatalf("expected exit status 0, got %d", status)
	}
	text, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("expected an output file to be written: %s", err)
	}
	if !strings.Contains(string(text), "long fib(long n)") {
		t.Fatalf("expected a transpiled fib function, got:\n%s", text)
	}
}

func TestMissingInputFileFails(t *testing.T) {
	status := Handler([]string{"testdata/does_not_exist.sb"}, map[string]string{"emit": "c"})
	if status == 0 {
		t.Fatal("expected a non-zero exit status for a missing input file")
	}
}

func TestUnknownEmitTargetFails(t *testing.T) {
	status := Handler([]string{"testdata/fib.sb"}, map[string]string{"emit": "cobol"})
	if status == 0 {
		t.Fatal("expected a non-zero exit status for an unregistered --emit target")
	}
}

func TestUnsupportedArchIsRejected(t *testing.T) {
	status := Handler([]string{"testdata/fib.sb"}, map[string]string{"arch": "riscv"})
	if status == 0 {
		t.Fatal("expected a non-zero exit status for an unsupported --arch value")
	}
}

func TestTypeErrorSourceFailsBeforeEmit(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.sb")
	if err := os.WriteFile(bad, []byte("var x = y"), 0o644); err != nil {
		t.Fatal(err)
	}
	status := Handler([]string{bad}, map[string]string{"emit": "c"})
	if status == 0 {
		t.Fatal("expected a non-zero exit status for an undefined identifier")
	}
}
