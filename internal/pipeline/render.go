package pipeline

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/quangtn/vietcal/internal/model"
	"gopkg.in/yaml.v3"
)

// Renderer writes extraction results in the configured output format
type Renderer struct{}

func NewRenderer() *Renderer { return &Renderer{} }

// Render dispatches on format: "json", "yaml" or "summary"
func (r *Renderer) Render(res *model.Result, format string, w io.Writer) error {
	switch format {
	case "yaml":
		return r.RenderYAML(res, w)
	case "summary":
		return r.RenderSummary(res, w)
	default:
		return r.RenderJSON(res, w)
	}
}

// RenderJSON writes the result as indented JSON
func (r *Renderer) RenderJSON(res *model.Result, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

// RenderYAML writes the result as YAML
func (r *Renderer) RenderYAML(res *model.Result, w io.Writer) error {
	data, err := yaml.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// RenderSummary writes a short human-readable view
func (r *Renderer) RenderSummary(res *model.Result, w io.Writer) error {
	line := func(label, value string) {
		if value != "" {
			fmt.Fprintf(w, "%-10s %s\n", label+":", value)
		}
	}

	line("Event", res.EventName)
	if res.StartTime != nil {
		line("Start", res.StartTime.Format("Mon 2006-01-02 15:04"))
	}
	if res.EndTime != nil {
		line("End", res.EndTime.Format("Mon 2006-01-02 15:04"))
	}
	line("Location", res.Location)
	if res.ReminderMinutes > 0 {
		line("Reminder", fmt.Sprintf("%d minutes before", res.ReminderMinutes))
	}
	line("Time text", res.TimePhrase)
	if res.Agreement != nil {
		line("Agreement", fmt.Sprintf("event %.1f, time %.1f, location %.1f, reminder %.1f",
			res.Agreement.Event, res.Agreement.Time, res.Agreement.Location, res.Agreement.Reminder))
	}
	return nil
}
