// Command labelctl renders a saved label design file (YAML or JSON) to a
// print page or an SVG preview without running the service.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ticketing-console/labeldesigner/internal/layout"
	"github.com/ticketing-console/labeldesigner/internal/models"
)

func main() {
	logger, _ := zap.NewDevelopment()
	defer func() { _ = logger.Sync() }()

	if err := run(os.Args[1:], os.Stdout, logger); err != nil {
		logger.Error("labelctl failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer, logger *zap.Logger) error {
	flags := pflag.NewFlagSet("labelctl", pflag.ContinueOnError)
	in := flags.StringP("in", "i", "", "Design file to render (YAML or JSON)")
	out := flags.StringP("out", "o", "", "Output file (default stdout)")
	format := flags.StringP("format", "f", "html", "Output format: html, svg or json")
	preview := flags.Bool("preview", false, "Substitute sample values for placement labels")
	designScale := flags.Float64("design-scale", layout.DefaultDesignScale, "Canvas enlargement factor")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return fmt.Errorf("--in is required")
	}

	data, err := os.ReadFile(*in)
	if err != nil {
		return fmt.Errorf("failed to read design: %w", err)
	}
	design, err := decodeDesign(data)
	if err != nil {
		return err
	}

	conv := layout.DefaultConverter()
	conv.DesignScale = *designScale
	doc, err := layout.RestoreDocument(design.Name, design.Size, design.CustomSize, design.Placements, conv)
	if err != nil {
		return fmt.Errorf("invalid design %q: %w", design.Name, err)
	}
	doc.SetPreview(*preview)

	l := layout.Project(doc, layout.DefaultSamples())

	var body []byte
	switch *format {
	case "html":
		page, err := layout.RenderHTML(l)
		if err != nil {
			return err
		}
		body = []byte(page)
	case "svg":
		body = layout.RenderSVG(l)
	case "json":
		if body, err = json.MarshalIndent(l, "", "  "); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q", *format)
	}

	if *out == "" {
		_, err = stdout.Write(body)
		return err
	}
	if err := os.WriteFile(*out, body, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	logger.Info("Rendered design",
		zap.String("name", design.Name),
		zap.Int("placements", len(doc.Placements)),
		zap.String("format", *format),
		zap.String("out", *out),
	)
	return nil
}

// decodeDesign reads a design document. JSON is accepted as a subset of
// YAML; field names follow the API's JSON names.
func decodeDesign(data []byte) (*models.Design, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse design: %w", err)
	}
	normalized, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse design: %w", err)
	}

	var design models.Design
	if err := json.Unmarshal(normalized, &design); err != nil {
		return nil, fmt.Errorf("failed to parse design: %w", err)
	}
	return &design, nil
}
