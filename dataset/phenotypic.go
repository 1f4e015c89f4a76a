package dataset

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/Bhavana1025/ml-Project/pkg/errors"
)

// Diagnostic group codes used by the ABIDE phenotypic file.
const (
	DxAutism  = 1
	DxControl = 2
)

// Phenotype holds the phenotypic record for one subject.
type Phenotype struct {
	FileID  string
	Site    string
	DxGroup int
	Age     float64
	Sex     int
}

// Label returns the classification target for the record: +1 for the autism
// group, -1 for controls. The {1,2} → {+1,-1} remap preserves group counts.
func (p Phenotype) Label() float64 {
	if p.DxGroup == DxAutism {
		return 1
	}
	return -1
}

// ParsePhenotypic reads the ABIDE preprocessed phenotypic CSV and returns the
// records with a usable FILE_ID. Column order is resolved from the header.
func ParsePhenotypic(r io.Reader) ([]Phenotype, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "ParsePhenotypic: header")
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"FILE_ID", "SITE_ID", "DX_GROUP"} {
		if _, ok := col[required]; !ok {
			return nil, errors.NewValueError("ParsePhenotypic", "missing column "+required)
		}
	}

	var phenotypes []Phenotype
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "ParsePhenotypic: record")
		}

		if col["FILE_ID"] >= len(record) || col["SITE_ID"] >= len(record) || col["DX_GROUP"] >= len(record) {
			continue
		}

		fileID := strings.TrimSpace(record[col["FILE_ID"]])
		if fileID == "" || fileID == "no_filename" {
			continue
		}

		dx, err := strconv.Atoi(strings.TrimSpace(record[col["DX_GROUP"]]))
		if err != nil || (dx != DxAutism && dx != DxControl) {
			continue
		}

		p := Phenotype{
			FileID:  fileID,
			Site:    strings.TrimSpace(record[col["SITE_ID"]]),
			DxGroup: dx,
		}

		if idx, ok := col["AGE_AT_SCAN"]; ok && idx < len(record) {
			if age, err := strconv.ParseFloat(strings.TrimSpace(record[idx]), 64); err == nil {
				p.Age = age
			}
		}
		if idx, ok := col["SEX"]; ok && idx < len(record) {
			if sex, err := strconv.Atoi(strings.TrimSpace(record[idx])); err == nil {
				p.Sex = sex
			}
		}

		phenotypes = append(phenotypes, p)
	}

	return phenotypes, nil
}

// FilterSite keeps only records from the given imaging site.
func FilterSite(phenotypes []Phenotype, site string) []Phenotype {
	if site == "" {
		return phenotypes
	}
	var filtered []Phenotype
	for _, p := range phenotypes {
		if p.Site == site {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// Summary describes the phenotypic composition of a subject set.
type Summary struct {
	NSubjects int
	NAutism   int
	NControl  int
	AgeMean   float64
	AgeStd    float64
}

// Summarize computes group counts and age statistics for a set of records.
func Summarize(phenotypes []Phenotype) (Summary, error) {
	s := Summary{NSubjects: len(phenotypes)}
	if len(phenotypes) == 0 {
		return s, errors.NewModelError("Summarize", "no phenotypic records", errors.ErrEmptyData)
	}

	ages := make([]float64, 0, len(phenotypes))
	for _, p := range phenotypes {
		if p.DxGroup == DxAutism {
			s.NAutism++
		} else {
			s.NControl++
		}
		if p.Age > 0 {
			ages = append(ages, p.Age)
		}
	}

	if len(ages) > 0 {
		mean, err := stats.Mean(ages)
		if err != nil {
			return s, errors.Wrap(err, "Summarize: age mean")
		}
		std, err := stats.StandardDeviation(ages)
		if err != nil {
			return s, errors.Wrap(err, "Summarize: age std")
		}
		s.AgeMean = mean
		s.AgeStd = std
	}

	return s, nil
}
