package workload

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/inference-sim/cpusim/sim"
)

// csvColumns is the expected column order of a process CSV file.
var csvColumns = []string{"pid", "priority", "arrival", "cpu_burst", "io_burst", "io_request"}

// LoadCSV parses a process list with columns pid,priority,arrival,cpu_burst,io_burst,io_request.
// A first row matching the column names is treated as a header.
func LoadCSV(r io.Reader) ([]sim.ProcessSpec, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(csvColumns)
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading process CSV: %w", err)
	}
	if len(rows) > 0 && strings.EqualFold(strings.TrimSpace(rows[0][0]), csvColumns[0]) {
		rows = rows[1:]
	}

	specs := make([]sim.ProcessSpec, 0, len(rows))
	for i, row := range rows {
		var vals [6]int64
		for j, field := range row {
			v, err := strconv.ParseInt(strings.TrimSpace(field), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("process CSV row %d column %s: %w", i+1, csvColumns[j], err)
			}
			vals[j] = v
		}
		specs = append(specs, sim.ProcessSpec{
			PID:           int(vals[0]),
			Priority:      int(vals[1]),
			ArrivalTime:   vals[2],
			CPUBurst:      vals[3],
			IOBurst:       vals[4],
			IORequestTime: vals[5],
		})
	}
	if err := sim.ValidateWorkload(specs); err != nil {
		return nil, err
	}
	return specs, nil
}
