package main

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

// testEnv returns an environment writing to in-memory buffers.
func testEnv() *Environment {
	return &Environment{
		Now:    func() time.Time { return time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC) },
		Stdout: &bytes.Buffer{},
		Stderr: &bytes.Buffer{},
	}
}

func TestRun_Version(t *testing.T) {
	t.Parallel()

	env := testEnv()
	if code := run([]string{"version"}, env); code != ExitSuccess {
		t.Errorf("run(version) = %d, want %d", code, ExitSuccess)
	}
	out := env.Stdout.(*bytes.Buffer).String()
	if !strings.Contains(out, "nb2gradescope") || !strings.Contains(out, Version) {
		t.Errorf("version output = %q", out)
	}
}

func TestRun_Help(t *testing.T) {
	t.Parallel()

	for _, args := range [][]string{{"help"}, {"-h"}, {"--help"}} {
		env := testEnv()
		if code := run(args, env); code != ExitSuccess {
			t.Errorf("run(%v) = %d, want %d", args, code, ExitSuccess)
		}
		out := env.Stdout.(*bytes.Buffer).String()
		if !strings.Contains(out, "Usage:") {
			t.Errorf("run(%v) output missing usage text", args)
		}
	}
}

func TestRun_ConvertWithoutInput(t *testing.T) {
	t.Parallel()

	env := testEnv()
	if code := run(nil, env); code != ExitIO {
		t.Errorf("run() without input = %d, want %d", code, ExitIO)
	}
	if errOut := env.Stderr.(*bytes.Buffer).String(); !strings.Contains(errOut, "no notebook") {
		t.Errorf("stderr = %q, want the missing input error", errOut)
	}
}

func TestRun_ConvertBadFlag(t *testing.T) {
	t.Parallel()

	env := testEnv()
	if code := run([]string{"convert", "--bogus"}, env); code != ExitUsage {
		t.Errorf("run(convert --bogus) = %d, want %d", code, ExitUsage)
	}
}

func TestRun_Doctor(t *testing.T) {
	t.Parallel()

	env := testEnv()
	code := run([]string{"doctor"}, env)
	out := env.Stdout.(*bytes.Buffer).String()
	if !strings.Contains(out, "wkhtmltopdf") || !strings.Contains(out, "Status:") {
		t.Errorf("doctor output = %q, want diagnostics", out)
	}
	if code != ExitSuccess && code != ExitGeneral {
		t.Errorf("run(doctor) = %d, want 0 or 1", code)
	}
}

func TestRun_DoctorJSON(t *testing.T) {
	t.Parallel()

	env := testEnv()
	run([]string{"doctor", "--json"}, env)
	out := env.Stdout.(*bytes.Buffer).String()
	if !strings.Contains(out, `"status"`) {
		t.Errorf("doctor --json output = %q, want JSON", out)
	}
}
