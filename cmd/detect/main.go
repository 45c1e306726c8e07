package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"beach-vision/config"
	app "beach-vision/internal/application"
	"beach-vision/internal/domain/entity"
	"beach-vision/internal/domain/perception"
	"beach-vision/internal/infrastructure/stream"
	"beach-vision/internal/infrastructure/vision"
)

func main() {
	configPath := flag.String("config", "", "Path to perception YAML (defaults when empty)")
	backend := flag.String("backend", vision.BackendNative, "Imaging backend: native or gocv")
	format := flag.String("format", "json", "Report format: json, cbor or text")
	overlayDir := flag.String("overlay", "", "Directory for annotated JPEG overlays")
	maxSide := flag.Int("max-side", 1280, "Downscale frames so the longer side fits")
	flag.Parse()

	if flag.NArg() == 0 {
		log.Fatal("usage: detect [flags] image...")
	}

	cfg, err := config.LoadPerception(*configPath)
	if err != nil {
		log.Fatalf("perception config: %v", err)
	}
	imaging, err := vision.NewImaging(*backend)
	if err != nil {
		log.Fatalf("imaging backend: %v", err)
	}
	pipeline, err := perception.NewPipeline(imaging, cfg)
	if err != nil {
		log.Fatalf("pipeline: %v", err)
	}
	codec, err := stream.NewCodec()
	if err != nil {
		log.Fatalf("codec: %v", err)
	}

	decoder := vision.NewDecoder(*maxSide, cfg.Preprocess.MedianRadius)
	renderer := vision.NewRenderer()
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	failed := 0
	for _, path := range flag.Args() {
		img, err := decoder.Open(path)
		if err != nil {
			log.Printf("open %s: %v", path, err)
			failed++
			continue
		}

		report, err := pipeline.Run(context.Background(), entity.Capture{Image: img, Timestamp: time.Now()})
		if err != nil {
			log.Printf("detect %s: %v", path, err)
			failed++
			continue
		}

		if err := write(out, codec, *format, path, report); err != nil {
			log.Fatalf("write report: %v", err)
		}

		if *overlayDir != "" {
			jpeg, err := renderer.Render(img, report)
			if err != nil {
				log.Printf("overlay %s: %v", path, err)
				continue
			}
			name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + "_overlay.jpg"
			if err := os.WriteFile(filepath.Join(*overlayDir, name), jpeg, 0o644); err != nil {
				log.Printf("save overlay %s: %v", name, err)
			}
		}
	}

	if failed > 0 {
		out.Flush()
		os.Exit(1)
	}
}

func write(out *bufio.Writer, codec *stream.Codec, format, path string, report *entity.DetectionReport) error {
	if format == "text" {
		_, err := fmt.Fprintf(out, "== %s\n%s\n", path, app.Summarize(report))
		return err
	}

	f, err := stream.ParseFormat(format)
	if err != nil {
		return err
	}
	data, err := codec.Encode(f, report)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		return err
	}
	// JSON построчно, CBOR идёт потоком без разделителей
	if f == stream.FormatJSON {
		return out.WriteByte('\n')
	}
	return nil
}
