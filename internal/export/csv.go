package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/popsim/internal/sim"
)

// WriteCSV writes one row per snapshot: day, each population amount, and
// the total.
func WriteCSV(w io.Writer, snapshots []sim.Snapshot) error {
	cw := csv.NewWriter(w)

	if len(snapshots) == 0 {
		cw.Flush()
		return cw.Error()
	}

	n := len(snapshots[0].Amounts)
	header := make([]string, 0, n+2)
	header = append(header, "day")
	for i := 0; i < n; i++ {
		header = append(header, fmt.Sprintf("p%d", i))
	}
	header = append(header, "total")
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, s := range snapshots {
		row := make([]string, 0, n+2)
		row = append(row, strconv.Itoa(s.Day))
		for _, v := range s.Amounts {
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
		}
		row = append(row, strconv.FormatFloat(s.Total(), 'f', 6, 64))
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses the output of WriteCSV back into snapshots.
func ReadCSV(r io.Reader) ([]sim.Snapshot, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Snapshot{}, nil
	}

	snapshots := make([]sim.Snapshot, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) < 2 {
			continue
		}
		day, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: day: %w", i+1, err)
		}
		// last column is the derived total
		amounts := make(sim.State, 0, len(record)-2)
		for _, field := range record[1 : len(record)-1] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i+1, err)
			}
			amounts = append(amounts, v)
		}
		snapshots = append(snapshots, sim.Snapshot{Day: day, Amounts: amounts})
	}
	return snapshots, nil
}
