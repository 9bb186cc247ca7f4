package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"stataid/app"
	"stataid/internal/report"
)

// render writes v as JSON or YAML, or the analysis as a Markdown or HTML report
func render(w io.Writer, format, fallback string, analysis *app.Analysis, v any) error {
	if format == "" {
		format = fallback
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		return writeYAML(w, v)
	case "markdown", "md":
		_, err := io.WriteString(w, report.Markdown(analysis, ""))
		return err
	case "html":
		_, err := w.Write(report.HTML(analysis, ""))
		return err
	default:
		return fmt.Errorf("unknown format %q (want json, yaml, markdown or html)", format)
	}
}

// writeYAML goes through JSON so field names match the JSON output
func writeYAML(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}
