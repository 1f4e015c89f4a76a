package dataset

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/Bhavana1025/ml-Project/pkg/errors"
)

// ParseTimeSeries reads an AFNI .1D ROI time-series file: one row per
// timepoint, one whitespace-separated column per region. Lines starting with
// '#' are headers and skipped.
func ParseTimeSeries(r io.Reader) (*mat.Dense, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var rows [][]float64
	nCols := -1

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if nCols == -1 {
			nCols = len(fields)
		} else if len(fields) != nCols {
			return nil, errors.NewDimensionError("ParseTimeSeries", nCols, len(fields), 1)
		}

		row := make([]float64, len(fields))
		for j, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "ParseTimeSeries: row %d column %d", len(rows), j)
			}
			row[j] = v
		}
		rows = append(rows, row)
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "ParseTimeSeries: read")
	}

	if len(rows) == 0 {
		return nil, errors.NewModelError("ParseTimeSeries", "empty time series", errors.ErrEmptyData)
	}

	data := make([]float64, 0, len(rows)*nCols)
	for _, row := range rows {
		data = append(data, row...)
	}

	return mat.NewDense(len(rows), nCols, data), nil
}
