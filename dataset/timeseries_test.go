package dataset

import (
	"strings"
	"testing"
)

func TestParseTimeSeries(t *testing.T) {
	input := `# CC200 ROI means
# Mean_1 Mean_2 Mean_3
0.5 -1.25 3.0
1.5 0.0 -2.5
`
	ts, err := ParseTimeSeries(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseTimeSeries failed: %v", err)
	}

	r, c := ts.Dims()
	if r != 2 || c != 3 {
		t.Fatalf("shape = (%d, %d), want (2, 3)", r, c)
	}
	if got := ts.At(0, 1); got != -1.25 {
		t.Errorf("At(0,1) = %v, want -1.25", got)
	}
	if got := ts.At(1, 2); got != -2.5 {
		t.Errorf("At(1,2) = %v, want -2.5", got)
	}
}

func TestParseTimeSeriesRaggedRows(t *testing.T) {
	input := "1 2 3\n1 2\n"
	if _, err := ParseTimeSeries(strings.NewReader(input)); err == nil {
		t.Fatal("expected error for ragged rows")
	}
}

func TestParseTimeSeriesNonNumeric(t *testing.T) {
	input := "1 2 banana\n"
	if _, err := ParseTimeSeries(strings.NewReader(input)); err == nil {
		t.Fatal("expected error for non-numeric value")
	}
}

func TestParseTimeSeriesEmpty(t *testing.T) {
	input := "# only a header\n"
	if _, err := ParseTimeSeries(strings.NewReader(input)); err == nil {
		t.Fatal("expected error for empty time series")
	}
}
