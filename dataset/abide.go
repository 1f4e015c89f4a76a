// Package dataset fetches and parses the ABIDE preprocessed resting-state
// dataset: per-subject ROI time series plus the phenotypic table, served from
// the FCP-INDI public S3 bucket. Downloads are cached on disk so repeated
// runs are offline.
package dataset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/Bhavana1025/ml-Project/pkg/errors"
	mllog "github.com/Bhavana1025/ml-Project/pkg/log"
)

const (
	// DefaultBaseURL is the FCP-INDI bucket root for ABIDE derivatives.
	DefaultBaseURL = "https://s3.amazonaws.com/fcp-indi/data/Projects/ABIDE_Initiative"

	phenotypicName = "Phenotypic_V1_0b_preprocessed1.csv"
)

// Options selects the dataset slice to fetch.
type Options struct {
	// DataDir is the local cache directory.
	DataDir string

	// Site filters subjects by imaging site, e.g. "NYU". Empty keeps all.
	Site string

	// Pipeline is the preprocessing pipeline, e.g. "cpac".
	Pipeline string

	// Strategy is the noise-removal strategy, e.g. "filt_noglobal".
	Strategy string

	// Derivative is the ROI atlas derivative, e.g. "rois_cc200".
	Derivative string

	// BaseURL overrides the bucket root, used by tests.
	BaseURL string

	// Client overrides the HTTP client.
	Client *http.Client
}

// DefaultOptions returns the configuration matching the original analysis:
// NYU site, CPAC pipeline, band-pass filtered without global signal
// regression, CC200 parcellation.
func DefaultOptions(dataDir string) Options {
	return Options{
		DataDir:    dataDir,
		Site:       "NYU",
		Pipeline:   "cpac",
		Strategy:   "filt_noglobal",
		Derivative: "rois_cc200",
	}
}

// Subject pairs a phenotypic record with its ROI time-series matrix
// (timepoints × regions).
type Subject struct {
	Phenotype
	TimeSeries *mat.Dense
}

// Dataset is the fetched subject collection.
type Dataset struct {
	Subjects []Subject
}

// Labels returns the ±1 target vector, ordered as Subjects.
func (d *Dataset) Labels() *mat.VecDense {
	labels := make([]float64, len(d.Subjects))
	for i, s := range d.Subjects {
		labels[i] = s.Label()
	}
	return mat.NewVecDense(len(labels), labels)
}

// Summary returns the phenotypic composition of the fetched subjects.
func (d *Dataset) Summary() (Summary, error) {
	phenotypes := make([]Phenotype, len(d.Subjects))
	for i, s := range d.Subjects {
		phenotypes[i] = s.Phenotype
	}
	return Summarize(phenotypes)
}

// Fetch downloads (or reads from cache) the phenotypic table and the ROI time
// series for every matching subject.
func Fetch(ctx context.Context, opts Options) (*Dataset, error) {
	if opts.DataDir == "" {
		return nil, errors.NewValidationError("DataDir", "must not be empty", opts.DataDir)
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 5 * time.Minute}
	}

	if err := os.MkdirAll(opts.DataDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "Fetch: create data dir")
	}

	phenotypes, err := fetchPhenotypic(ctx, opts)
	if err != nil {
		return nil, err
	}
	phenotypes = FilterSite(phenotypes, opts.Site)
	if len(phenotypes) == 0 {
		return nil, errors.NewModelError("Fetch", fmt.Sprintf("no subjects for site %q", opts.Site), errors.ErrEmptyData)
	}

	slog.InfoContext(ctx, "phenotypic table loaded",
		mllog.StageKey, "fetch",
		mllog.SiteKey, opts.Site,
		mllog.SamplesKey, len(phenotypes))

	ds := &Dataset{Subjects: make([]Subject, 0, len(phenotypes))}
	for _, p := range phenotypes {
		ts, err := fetchTimeSeries(ctx, opts, p.FileID)
		if err != nil {
			return nil, errors.Wrapf(err, "Fetch: subject %s", p.FileID)
		}
		ds.Subjects = append(ds.Subjects, Subject{Phenotype: p, TimeSeries: ts})
	}

	return ds, nil
}

func fetchPhenotypic(ctx context.Context, opts Options) ([]Phenotype, error) {
	path := filepath.Join(opts.DataDir, phenotypicName)
	url := opts.BaseURL + "/" + phenotypicName

	if err := download(ctx, opts.Client, url, path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "fetchPhenotypic: open cache")
	}
	defer f.Close()

	return ParsePhenotypic(f)
}

func fetchTimeSeries(ctx context.Context, opts Options, fileID string) (*mat.Dense, error) {
	name := fmt.Sprintf("%s_%s.1D", fileID, opts.Derivative)
	path := filepath.Join(opts.DataDir, name)
	url := fmt.Sprintf("%s/Outputs/%s/%s/%s/%s",
		opts.BaseURL, opts.Pipeline, opts.Strategy, opts.Derivative, name)

	if err := download(ctx, opts.Client, url, path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "fetchTimeSeries: open cache")
	}
	defer f.Close()

	return ParseTimeSeries(f)
}

// download writes url to path unless the file is already cached. The file is
// written via a temp name so a failed download never poisons the cache.
func download(ctx context.Context, client *http.Client, url, path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.NewFetchError(url, path, 0, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return errors.NewFetchError(url, path, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.NewFetchError(url, path, resp.StatusCode, nil)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return errors.NewFetchError(url, path, 0, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return errors.NewFetchError(url, path, 0, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.NewFetchError(url, path, 0, err)
	}

	return os.Rename(tmp.Name(), path)
}
