package app

import (
	"bytes"
	"context"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/roman-kulish/cmap-chooser/internal/norm"
	"github.com/roman-kulish/cmap-chooser/internal/selection"
)

// execute runs the command line with a config file that keeps the test away
// from the home directory, and returns stdout and stderr separately.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	config := writeFile(t, "config.yaml", "engine:\n  bins: 1000\nrender:\n  width: 64\n")

	var stdout, stderr bytes.Buffer
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cmd := NewRootCommand(logger, new(slog.LevelVar))
	cmd.SetArgs(append([]string{"--config", config}, args...))
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// run is execute with both streams combined.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	stdout, stderr, err := execute(t, stdin, args...)
	return stdout + stderr, err
}

func TestColormapsCommand(t *testing.T) {
	out, err := run(t, "", "colormaps", "MAG")
	if err != nil {
		t.Fatalf("colormaps failed: %v", err)
	}
	if !strings.Contains(out, "Perceptually Uniform Sequential:") || !strings.Contains(out, "magma, magma_r") {
		t.Errorf("Unexpected output:\n%s", out)
	}
	if strings.Contains(out, "viridis") {
		t.Errorf("Query did not filter the list:\n%s", out)
	}

	out, err = run(t, "", "colormaps", "virdis")
	if err != nil {
		t.Fatalf("colormaps failed: %v", err)
	}
	if !strings.Contains(out, "no colormap matches") || !strings.Contains(out, "did you mean viridis") {
		t.Errorf("Expected a suggestion, got:\n%s", out)
	}
}

func TestColormapsCommand_Swatch(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "swatches")

	if _, err := run(t, "", "colormaps", "coolwarm", "--swatch", dir); err != nil {
		t.Fatalf("colormaps failed: %v", err)
	}

	for _, name := range []string{"coolwarm.png", "coolwarm_r.png"} {
		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("Missing swatch %s: %v", name, err)
		}
		img, err := png.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("Failed to decode %s: %v", name, err)
		}
		if b := img.Bounds(); b.Dx() != swatchWidth || b.Dy() != swatchHeight {
			t.Errorf("%s: expected %dx%d, got %dx%d", name, swatchWidth, swatchHeight, b.Dx(), b.Dy())
		}
	}
}

func TestChooseAndRender(t *testing.T) {
	dir := t.TempDir()
	data := writeFile(t, "data.txt", "0 5\n10 2\n")
	selPath := filepath.Join(dir, "selection.yaml")
	preview := filepath.Join(dir, "preview.png")
	db := filepath.Join(dir, "maps.db")

	script := strings.Join([]string{
		"kind symlog",
		"vmin abc",
		"linthresh 0.5",
		"cmap magma",
		"hist on",
		"done",
	}, "\n")

	out, err := run(t, script,
		"--db", db,
		"choose", "--data", data, "--out", selPath, "--preview", preview)
	if err != nil {
		t.Fatalf("choose failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "error:") {
		t.Errorf("Expected the bad number to be reported:\n%s", out)
	}
	if _, err = os.Stat(preview); err != nil {
		t.Errorf("Preview not rendered: %v", err)
	}

	doc, err := selection.LoadFile(selPath)
	if err != nil {
		t.Fatalf("Failed to load selection: %v", err)
	}
	if doc.Colormap.Name != "magma" || doc.Norm.Kind != norm.SymLog || !doc.Norm.Equalize {
		t.Errorf("Unexpected selection %+v", doc)
	}
	if doc.Norm.LinThresh != 0.5 || doc.Norm.Bins != 1000 {
		t.Errorf("Unexpected parameters %+v", doc.Norm)
	}

	// the data and the selection were stored
	out, err = run(t, "", "--db", db, "datasets")
	if err != nil {
		t.Fatalf("datasets failed: %v", err)
	}
	if !strings.Contains(out, "data") || !strings.Contains(out, "2x2") {
		t.Errorf("Unexpected datasets output:\n%s", out)
	}

	out, err = run(t, "", "--db", db, "datasets", "1")
	if err != nil {
		t.Fatalf("datasets 1 failed: %v", err)
	}
	if !strings.Contains(out, "magma") || !strings.Contains(out, "symlog") {
		t.Errorf("Unexpected selections output:\n%s", out)
	}

	// render the stored dataset with the saved selection
	img := filepath.Join(dir, "plot")
	if _, err = run(t, "", "--db", db, "render", "--dataset", "1", "--selection", selPath, "--out", img); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	f, err := os.Open(img + ".png")
	if err != nil {
		t.Fatalf("Rendered image missing: %v", err)
	}
	defer f.Close()
	if _, err = png.Decode(f); err != nil {
		t.Errorf("Failed to decode the rendered image: %v", err)
	}
}

func TestChooseCommand_Quit(t *testing.T) {
	data := writeFile(t, "data.txt", "1 2 3\n4 5 6\n")
	selPath := filepath.Join(t.TempDir(), "selection.yaml")

	if _, err := run(t, "cmap plasma\nquit\n", "choose", "--data", data, "--out", selPath); err != nil {
		t.Fatalf("choose failed: %v", err)
	}
	if _, err := os.Stat(selPath); !os.IsNotExist(err) {
		t.Errorf("Expected no selection file after quit, got %v", err)
	}
}

func TestChooseCommand_PrintsSelection(t *testing.T) {
	data := writeFile(t, "data.txt", "1 2 3\n4 5 6\n")

	stdout, stderr, err := execute(t, "kind log\ndone\n", "choose", "--data", data, "--colormap", "gray")
	if err != nil {
		t.Fatalf("choose failed: %v", err)
	}
	for _, want := range []string{"name: gray", "kind: logarithmic", "vmin: 1"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("Output does not contain %q:\n%s", want, stdout)
		}
	}

	// stdout carries nothing but the document, so it can be piped
	doc, err := selection.Parse([]byte(stdout))
	if err != nil {
		t.Fatalf("stdout is not a selection document: %v\n%s", err, stdout)
	}
	if doc.Colormap.Name != "gray" || doc.Norm.Kind != norm.Logarithmic {
		t.Errorf("Unexpected selection: %s %s", doc.Colormap.Name, doc.Norm.Kind)
	}
	if strings.Contains(stdout, "> ") || strings.Contains(stdout, "type help") {
		t.Errorf("Shell output leaked to stdout:\n%s", stdout)
	}
	if !strings.Contains(stderr, "type help for commands") {
		t.Errorf("Expected the shell on stderr, got:\n%s", stderr)
	}
}

func TestImportCommand(t *testing.T) {
	db := filepath.Join(t.TempDir(), "maps.db")
	data := writeFile(t, "ramp.csv", "1,2\n3,4\n5,6\n")

	out, err := run(t, "", "--db", db, "import", "--data", data)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if strings.TrimSpace(out) != "1" {
		t.Errorf("Expected dataset id 1, got %q", out)
	}

	out, err = run(t, "", "--db", db, "datasets")
	if err != nil {
		t.Fatalf("datasets failed: %v", err)
	}
	if !strings.Contains(out, "ramp") || !strings.Contains(out, "3x2") {
		t.Errorf("Unexpected datasets output:\n%s", out)
	}
}

func TestCommandErrors(t *testing.T) {
	data := writeFile(t, "data.txt", "1 2\n3 4\n")

	testCases := []struct {
		name string
		args []string
	}{
		{"choose without data", []string{"choose"}},
		{"choose with both inputs", []string{"--db", "x.db", "choose", "--data", data, "--dataset", "1"}},
		{"choose unknown colormap", []string{"choose", "--data", data, "--colormap", "nope"}},
		{"choose unknown kind", []string{"choose", "--data", data, "--kind", "power"}},
		{"render without selection", []string{"render", "--data", data, "--out", "x.png"}},
		{"import without db", []string{"import", "--data", data}},
		{"datasets bad id", []string{"--db", filepath.Join(t.TempDir(), "x.db"), "datasets", "abc"}},
		{"missing config", []string{"--config", filepath.Join(t.TempDir(), "none.yaml"), "colormaps"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := run(t, "", tc.args...); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}
