package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/brep"
)

const boxDoc = `
kind: extrusion
instance: "#1"
depth: 2
direction: [0, 0, 1]
basis:
  kind: face
  loops:
    - external: true
      edges:
        - {start: [0, 0, 0], end: [1, 0, 0]}
        - {start: [1, 0, 0], end: [1, 1, 0]}
        - {start: [1, 1, 0], end: [0, 1, 0]}
        - {start: [0, 1, 0], end: [0, 0, 0]}
---
kind: face
instance: "#2"
`

// run executes the command line with boxDoc on stdin.
func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Cleanup(func() { brep.SetLogger(nil) })

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(boxDoc))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if want := "ifcbrep version " + brep.Version + "\n"; out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestConvert_OBJ(t *testing.T) {
	out, stderr, err := run(t, "convert")
	if err != nil {
		t.Fatalf("convert: %v\n%s", err, stderr)
	}
	if !strings.Contains(out, "o #1\n") {
		t.Errorf("missing object:\n%s", out)
	}
	if n := strings.Count(out, "\nf "); n != 12 {
		t.Errorf("triangles = %d, want 12", n)
	}
	// The empty face fails and is reported.
	if !strings.Contains(stderr, "face #2") {
		t.Errorf("failure not reported:\n%s", stderr)
	}
}

func TestConvert_STLFileAndMetrics(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "box.stl")
	metrics := filepath.Join(dir, "brep.prom")

	if _, stderr, err := run(t, "convert", "-o", output, "--metrics-file", metrics); err != nil {
		t.Fatalf("convert: %v\n%s", err, stderr)
	}

	stl, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(stl), "solid box\n") {
		t.Errorf("unexpected STL header: %.40q", stl)
	}

	prom, err := os.ReadFile(metrics)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`brep_conversions_total{kind="extrusion",status="ok"} 1`,
		`brep_conversions_total{kind="face",status="error"} 1`,
	} {
		if !strings.Contains(string(prom), want) {
			t.Errorf("metrics missing %s:\n%s", want, prom)
		}
	}
}

func TestConvert_BadFormat(t *testing.T) {
	if _, _, err := run(t, "convert", "-f", "dxf"); err == nil {
		t.Error("unknown format accepted")
	}
}

func TestInspect(t *testing.T) {
	out, _, err := run(t, "inspect")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), out)
	}
	fields := strings.Fields(lines[1])
	want := []string{"extrusion", "#1", "solid", "1", "6", "12", "8", "2"}
	if strings.Join(fields, " ") != strings.Join(want, " ") {
		t.Errorf("row = %q, want %q", fields, want)
	}
	if !strings.Contains(lines[2], "error") {
		t.Errorf("failed item not listed: %q", lines[2])
	}
}

func TestPreview(t *testing.T) {
	output := filepath.Join(t.TempDir(), "plan.png")
	if _, stderr, err := run(t, "preview", "-o", output, "--width", "64", "--height", "64"); err != nil {
		t.Fatalf("preview: %v\n%s", err, stderr)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}
}

func TestRoot_InvalidLogLevel(t *testing.T) {
	if _, _, err := run(t, "--log-level", "loud", "version"); err == nil {
		t.Error("invalid log level accepted")
	}
}
