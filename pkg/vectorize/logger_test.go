package vectorize_test

import (
	"bytes"
	"context"
	"image"
	imgcolor "image/color"
	"log/slog"
	"strings"
	"testing"

	"vectorlayers/pkg/cfg"
	"vectorlayers/pkg/vectorize"
)

func TestPassCapWarning(t *testing.T) {
	var buf bytes.Buffer
	vectorize.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer vectorize.SetLogger(nil)

	img := image.NewNRGBA(image.Rect(0, 0, 6, 1))
	for x, c := range []imgcolor.NRGBA{
		{R: 255, A: 255}, {R: 255, A: 255}, {R: 255, A: 255},
		{R: 252, A: 255}, {R: 252, A: 255},
		{B: 255, A: 255},
	} {
		img.SetNRGBA(x, 0, c)
	}
	c := cfg.Default()
	c.MaxMergePasses = 1
	r, err := vectorize.Vectorize(context.Background(), img, c)
	if err != nil {
		t.Fatal(err)
	}
	if r.Report.Converged {
		t.Errorf("expected the merge to stop at the pass cap")
	}
	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "pass cap") {
		t.Errorf("missing warning in log:\n%s", out)
	}
	if !strings.Contains(out, "stage=quantize") {
		t.Errorf("missing stage timing in log:\n%s", out)
	}
}

func TestDefaultLoggerIsSilent(t *testing.T) {
	if vectorize.Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("default logger should discard everything")
	}
}
