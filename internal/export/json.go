package export

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/san-kum/popsim/internal/experiment"
	"github.com/san-kum/popsim/internal/sim"
)

type ExportData struct {
	Name    string             `json:"name"`
	Seed    uint64             `json:"seed"`
	Config  *sim.Config        `json:"config"`
	Steps   int                `json:"steps"`
	Days    []int              `json:"days"`
	Amounts [][]float64        `json:"amounts"`
	Totals  []float64          `json:"totals"`
	Metrics map[string]float64 `json:"metrics"`
}

// jsonFloat encodes NaN and infinities as the strings "NaN", "+Inf" and
// "-Inf" so diverging runs can still be exported.
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return []byte(`"NaN"`), nil
	case math.IsInf(v, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Inf"`), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

func (f *jsonFloat) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %s: %w", b, err)
	}
	*f = jsonFloat(v)
	return nil
}

// exportWire mirrors ExportData with every run value as a jsonFloat.
type exportWire struct {
	Name    string               `json:"name"`
	Seed    uint64               `json:"seed"`
	Config  *sim.Config          `json:"config"`
	Steps   int                  `json:"steps"`
	Days    []int                `json:"days"`
	Amounts [][]jsonFloat        `json:"amounts"`
	Totals  []jsonFloat          `json:"totals"`
	Metrics map[string]jsonFloat `json:"metrics"`
}

func toWire(values []float64) []jsonFloat {
	if values == nil {
		return nil
	}
	out := make([]jsonFloat, len(values))
	for i, v := range values {
		out[i] = jsonFloat(v)
	}
	return out
}

func fromWire(values []jsonFloat) []float64 {
	if values == nil {
		return nil
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}

func (d ExportData) MarshalJSON() ([]byte, error) {
	w := exportWire{
		Name:   d.Name,
		Seed:   d.Seed,
		Config: d.Config,
		Steps:  d.Steps,
		Days:   d.Days,
		Totals: toWire(d.Totals),
	}
	if d.Amounts != nil {
		w.Amounts = make([][]jsonFloat, len(d.Amounts))
		for i, row := range d.Amounts {
			w.Amounts[i] = toWire(row)
		}
	}
	if d.Metrics != nil {
		w.Metrics = make(map[string]jsonFloat, len(d.Metrics))
		for k, v := range d.Metrics {
			w.Metrics[k] = jsonFloat(v)
		}
	}
	return json.Marshal(w)
}

func (d *ExportData) UnmarshalJSON(b []byte) error {
	var w exportWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*d = ExportData{
		Name:   w.Name,
		Seed:   w.Seed,
		Config: w.Config,
		Steps:  w.Steps,
		Days:   w.Days,
		Totals: fromWire(w.Totals),
	}
	if w.Amounts != nil {
		d.Amounts = make([][]float64, len(w.Amounts))
		for i, row := range w.Amounts {
			d.Amounts[i] = fromWire(row)
		}
	}
	if w.Metrics != nil {
		d.Metrics = make(map[string]float64, len(w.Metrics))
		for k, v := range w.Metrics {
			d.Metrics[k] = float64(v)
		}
	}
	return nil
}

func newExportData(result *experiment.Result) ExportData {
	data := ExportData{
		Name:    result.Name,
		Seed:    result.Seed,
		Config:  result.Config,
		Steps:   len(result.Snapshots),
		Days:    result.Days(),
		Amounts: make([][]float64, len(result.Snapshots)),
		Totals:  result.Totals(),
		Metrics: result.Metrics,
	}
	for i, s := range result.Snapshots {
		data.Amounts[i] = s.Amounts
	}
	return data
}

// Snapshots rebuilds the run history from the exported days and amounts.
func (d *ExportData) Snapshots() []sim.Snapshot {
	n := min(len(d.Days), len(d.Amounts))
	out := make([]sim.Snapshot, n)
	for i := 0; i < n; i++ {
		out[i] = sim.Snapshot{Day: d.Days[i], Amounts: sim.State(append([]float64(nil), d.Amounts[i]...))}
	}
	return out
}

// ReadJSON decodes a document written by WriteJSON.
func ReadJSON(r io.Reader) (*ExportData, error) {
	var data ExportData
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}
	return &data, nil
}

func WriteJSON(w io.Writer, result *experiment.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(result))
}

// JSONFile writes the result to path, creating or truncating it.
func JSONFile(path string, result *experiment.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteJSON(file, result); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// CSVFile writes the snapshots to path, creating or truncating it.
func CSVFile(path string, snapshots []sim.Snapshot) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(file, snapshots); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
