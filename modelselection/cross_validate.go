package modelselection

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/mat"

	"github.com/Bhavana1025/ml-Project/core/model"
	mlerrors "github.com/Bhavana1025/ml-Project/pkg/errors"
	"github.com/Bhavana1025/ml-Project/pkg/log"
)

// CVResult stores per-fold cross-validation accuracies.
type CVResult struct {
	TrainScores []float64
	TestScores  []float64
}

// MeanScore returns the mean test score.
func (cv *CVResult) MeanScore() float64 {
	if len(cv.TestScores) == 0 {
		return 0.0
	}
	mean, err := stats.Mean(cv.TestScores)
	if err != nil {
		return 0.0
	}
	return mean
}

// StdScore returns the sample standard deviation of the test scores.
func (cv *CVResult) StdScore() float64 {
	if len(cv.TestScores) <= 1 {
		return 0.0
	}
	std, err := stats.StandardDeviationSample(cv.TestScores)
	if err != nil {
		return 0.0
	}
	return std
}

// CrossValidate fits a fresh clone of clf on every fold and scores it on the
// held-out samples. Folds run concurrently; the first fold error is returned.
func CrossValidate(clf model.Classifier, X, y mat.Matrix, splitter Splitter) (*CVResult, error) {
	nSamples, _ := X.Dims()
	if splitter.GetNSplits() > nSamples {
		return nil, mlerrors.NewValidationError("folds", "must not exceed the number of samples", splitter.GetNSplits())
	}

	folds := splitter.Split(X, y)
	nFolds := len(folds)
	for i, fold := range folds {
		if len(fold.TrainIndices) == 0 || len(fold.TestIndices) == 0 {
			return nil, mlerrors.NewValueError("CrossValidate",
				fmt.Sprintf("fold %d has an empty train or test set; reduce folds", i))
		}
	}

	result := &CVResult{
		TrainScores: make([]float64, nFolds),
		TestScores:  make([]float64, nFolds),
	}

	var wg sync.WaitGroup
	foldErrs := make([]error, nFolds)

	for foldIdx := 0; foldIdx < nFolds; foldIdx++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			fold := folds[idx]
			trainX, trainY := ExtractSubset(X, y, fold.TrainIndices)
			testX, testY := ExtractSubset(X, y, fold.TestIndices)

			foldClf := clf.Clone()
			if err := foldClf.Fit(trainX, trainY); err != nil {
				foldErrs[idx] = mlerrors.Wrapf(err, "fold %d training failed", idx)
				return
			}

			trainScore, err := foldClf.Score(trainX, trainY)
			if err != nil {
				foldErrs[idx] = mlerrors.Wrapf(err, "fold %d train scoring failed", idx)
				return
			}
			result.TrainScores[idx] = trainScore

			testScore, err := foldClf.Score(testX, testY)
			if err != nil {
				foldErrs[idx] = mlerrors.Wrapf(err, "fold %d test scoring failed", idx)
				return
			}
			result.TestScores[idx] = testScore
		}(foldIdx)
	}

	wg.Wait()

	for _, err := range foldErrs {
		if err != nil {
			return nil, err
		}
	}

	slog.Debug("cross-validation complete",
		slog.Int(log.FoldsKey, nFolds),
		slog.Float64(log.AccuracyKey, result.MeanScore()),
	)

	return result, nil
}

// GridPoint is the cross-validated score of one hyperparameter combination.
type GridPoint struct {
	Params    map[string]float64
	Scores    []float64
	MeanScore float64
	StdScore  float64
}

// GridSearchResult holds every evaluated grid point and the best one.
type GridSearchResult struct {
	Points []GridPoint
	Best   GridPoint
}

// ParamGrid expands a map of parameter values into the cross product of all
// combinations, in a deterministic order.
func ParamGrid(grid map[string][]float64) []map[string]float64 {
	names := make([]string, 0, len(grid))
	for name := range grid {
		names = append(names, name)
	}
	sort.Strings(names)

	combos := []map[string]float64{{}}
	for _, name := range names {
		expanded := make([]map[string]float64, 0, len(combos)*len(grid[name]))
		for _, combo := range combos {
			for _, value := range grid[name] {
				next := make(map[string]float64, len(combo)+1)
				for k, v := range combo {
					next[k] = v
				}
				next[name] = value
				expanded = append(expanded, next)
			}
		}
		combos = expanded
	}
	return combos
}

// GridSearch cross-validates a classifier built by newClf for every
// parameter combination and returns all points with the best by mean score.
func GridSearch(newClf func(params map[string]float64) model.Classifier,
	paramGrid []map[string]float64, X, y mat.Matrix, splitter Splitter) (*GridSearchResult, error) {

	if len(paramGrid) == 0 {
		return nil, mlerrors.NewValueError("GridSearch", "parameter grid is empty")
	}

	result := &GridSearchResult{
		Points: make([]GridPoint, 0, len(paramGrid)),
	}

	for _, params := range paramGrid {
		cv, err := CrossValidate(newClf(params), X, y, splitter)
		if err != nil {
			return nil, mlerrors.Wrapf(err, "grid point %v failed", params)
		}

		point := GridPoint{
			Params:    params,
			Scores:    cv.TestScores,
			MeanScore: cv.MeanScore(),
			StdScore:  cv.StdScore(),
		}
		result.Points = append(result.Points, point)

		slog.Debug("grid point evaluated",
			slog.Any("params", params),
			slog.Float64(log.AccuracyKey, point.MeanScore),
		)

		if len(result.Points) == 1 || point.MeanScore > result.Best.MeanScore {
			result.Best = point
		}
	}

	return result, nil
}
