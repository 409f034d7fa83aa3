package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/reactorsim/internal/reactor"
)

type ExportData struct {
	Run  *RunMetadata `json:"run,omitempty"`
	Time []float64    `json:"time"`
	C1   []float64    `json:"c1"`
	C2   []float64    `json:"c2"`
	C3   []float64    `json:"c3"`
}

// WriteCSV writes ts as time,c1,c2,c3 rows with six decimals.
func WriteCSV(w io.Writer, ts *reactor.TimeSeries) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"time", "c1", "c2", "c3"}); err != nil {
		return err
	}
	for i := 0; i < ts.Len(); i++ {
		row := []string{
			strconv.FormatFloat(ts.Time[i], 'f', 6, 64),
			strconv.FormatFloat(ts.C1[i], 'f', 6, 64),
			strconv.FormatFloat(ts.C2[i], 'f', 6, 64),
			strconv.FormatFloat(ts.C3[i], 'f', 6, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func ExportJSON(w io.Writer, meta *RunMetadata, ts *reactor.TimeSeries) error {
	data := ExportData{Run: meta}
	if ts != nil {
		data.Time, data.C1, data.C2, data.C3 = ts.Time, ts.C1, ts.C2, ts.C3
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
