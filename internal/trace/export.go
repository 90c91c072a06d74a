package trace

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/guptarohit/asciigraph"
)

// ExportData is the JSON export envelope.
type ExportData struct {
	Frequency float64  `json:"frequency"`
	Damping   float64  `json:"damping"`
	Dt        float64  `json:"dt"`
	Steps     int      `json:"steps"`
	Samples   []Sample `json:"samples"`
}

// ExportJSON writes the recording as indented JSON.
func (r *Recorder) ExportJSON(w io.Writer, frequency, damping float64) error {
	data := ExportData{
		Frequency: frequency,
		Damping:   damping,
		Dt:        r.dt,
		Steps:     len(r.samples),
		Samples:   r.samples,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportJSONFile writes the recording as JSON to path.
func (r *Recorder) ExportJSONFile(path string, frequency, damping float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return r.ExportJSON(f, frequency, damping)
}

// ExportCSV writes one row per tick: t, value components, speed.
func (r *Recorder) ExportCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	dim := 0
	if len(r.samples) > 0 {
		dim = len(r.samples[0].Value)
	}
	header := []string{"t"}
	for i := 0; i < dim; i++ {
		header = append(header, fmt.Sprintf("v%d", i))
	}
	header = append(header, "speed")
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, s := range r.samples {
		row := []string{strconv.FormatFloat(s.T, 'f', 6, 64)}
		for _, v := range s.Value {
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
		}
		row = append(row, strconv.FormatFloat(s.Speed, 'f', 6, 64))
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportCSVFile writes the recording as CSV to path.
func (r *Recorder) ExportCSVFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return r.ExportCSV(f)
}

// Plot renders one component's trajectory as an ASCII graph.
func (r *Recorder) Plot(component, height, width int) string {
	series := r.Series(component)
	if len(series) == 0 {
		return "(no samples)"
	}
	if len(series) > width {
		series = downsample(series, width)
	}
	return asciigraph.Plot(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(fmt.Sprintf("component %d over %.2fs", component, r.t)),
	)
}

func downsample(series []float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = series[i*len(series)/n]
	}
	return out
}
