package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"log/slog"
	"os"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"vectorlayers/pkg/cfg"
	"vectorlayers/pkg/simplify"
	"vectorlayers/pkg/vectorize"
)

func main() {
	c := cfg.Default()
	var (
		input      = flag.String("i", "", "input image (png, jpeg, gif, bmp, tiff, webp)")
		output     = flag.String("o", "", "output SVG file, stdout when empty")
		timeout    = flag.Duration("timeout", 0, "abort after this long, 0 for no limit")
		verbose    = flag.Bool("v", false, "log stage timings")
		report     = flag.Bool("report", false, "print a summary to stderr")
		palette    = flag.String("palette", c.Palette.String(), "palette method: merge, kmeans or dominant")
		colors     = flag.String("colors", "", "comma separated layer colors, bypasses the palette")
		difference = flag.String("difference", c.ColorDifference.String(), "color difference: ciede or hybrid")
		background = flag.String("bg", "", "background color, detected from the border when empty")
		mode       = flag.String("mode", c.Mode.String(), "path mode: pixel, polygon, spline or potrace")
	)
	flag.IntVar(&c.ColorPrecision, "precision", c.ColorPrecision, "significant bits per color channel (1-8)")
	flag.IntVar(&c.NumLayers, "layers", c.NumLayers, "number of layers, 0 to select by coverage")
	flag.Float64Var(&c.Coverage, "coverage", c.Coverage, "fraction of pixels the layers must cover, 0 for the default")
	flag.Float64Var(&c.Similarity, "similarity", c.Similarity, "merge and match threshold, 0 for the metric default")
	flag.BoolVar(&c.Strict, "strict", c.Strict, "leave pixels unassigned when no layer is similar enough")
	flag.BoolVar(&c.OnlyChroma, "chroma", c.OnlyChroma, "compare hue and chroma only")
	flag.IntVar(&c.FilterSpeckle, "speckle", c.FilterSpeckle, "merge clusters smaller than this squared")
	flag.BoolVar(&c.RetainSpeckleDetail, "retain-speckle", c.RetainSpeckleDetail, "keep small clusters")
	flag.IntVar(&c.Grow, "grow", c.Grow, "grow clusters by this many pixels")
	flag.IntVar(&c.MinGrowSpeckle, "min-grow", c.MinGrowSpeckle, "only grow clusters at least this size squared")
	flag.BoolVar(&c.RemoveBackground, "remove-bg", c.RemoveBackground, "drop background pixels")
	flag.Float64Var(&c.BackgroundSimilarity, "bg-similarity", c.BackgroundSimilarity, "background distance threshold")
	flag.Float64Var(&c.CornerThreshold, "corner", c.CornerThreshold, "spline corner angle in degrees")
	flag.Float64Var(&c.SegmentLength, "segment", c.SegmentLength, "path simplification length")
	flag.IntVar(&c.Workers, "workers", c.Workers, "parallel workers, 0 for GOMAXPROCS")
	flag.IntVar(&c.MaxMergePasses, "max-passes", c.MaxMergePasses, "color merge pass cap, 0 for the default")
	flag.Parse()

	if *input == "" {
		fmt.Fprintf(os.Stderr, "usage: %s -i image [-o out.svg] [options]\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	vectorize.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	var err error
	if c.Palette, err = cfg.ParsePaletteMethod(*palette); err != nil {
		log.Fatalf("flag error: %s", err)
	}
	if c.ColorDifference, err = cfg.ParseColorDifference(*difference); err != nil {
		log.Fatalf("flag error: %s", err)
	}
	if c.Mode, err = cfg.ParseMode(*mode); err != nil {
		log.Fatalf("flag error: %s", err)
	}
	if *colors != "" {
		if c.CustomColors, err = cfg.ParseColors(*colors); err != nil {
			log.Fatalf("flag error: %s", err)
		}
	}
	if *background != "" {
		bg, err := cfg.ParseColor(*background)
		if err != nil {
			log.Fatalf("flag error: %s", err)
		}
		c.BackgroundColor = &bg
		c.RemoveBackground = true
	}

	f, err := os.Open(*input)
	if err != nil {
		log.Fatalf("file read error: %s", err)
	}
	img, format, err := image.Decode(f)
	f.Close()
	if err != nil {
		log.Fatalf("decode error: %s", err)
	}
	vectorize.Logger().Debug("decoded", "format", format, "size", img.Bounds().Size())

	if err := convert(img, c, *output, *report, *timeout); err != nil {
		log.Fatal(err)
	}
}

// convert vectorizes img and writes the SVG to output, or to stdout when
// output is empty.
func convert(img image.Image, c cfg.Config, output string, report bool, timeout time.Duration) error {
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := vectorize.Vectorize(ctx, img, c)
	if err != nil {
		return fmt.Errorf("vectorize error: %w", err)
	}

	doc, err := render(res, simplify.New(c))
	if err != nil {
		return fmt.Errorf("simplify error: %w", err)
	}
	outXML, err := doc.Marshal()
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	if output == "" {
		_, err = os.Stdout.Write(outXML)
	} else {
		err = os.WriteFile(output, outXML, 0o644)
	}
	if err != nil {
		return fmt.Errorf("write error: %w", err)
	}

	if report {
		fmt.Fprintln(os.Stderr, res.Report.String())
		fmt.Fprintf(os.Stderr, "wall time: %v\n", time.Since(start))
	}
	return nil
}
