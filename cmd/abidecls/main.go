// Command abidecls runs the ABIDE resting-state classification pipeline:
// fetch the preprocessed dataset, derive connectome features, sweep SVM, KNN
// and MLP hyperparameters under cross-validation, evaluate a fixed deep
// network on a held-out split, compare a stacked ensemble against its base
// learners, and write the figures.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/Bhavana1025/ml-Project/connectome"
	"github.com/Bhavana1025/ml-Project/core/model"
	"github.com/Bhavana1025/ml-Project/dataset"
	"github.com/Bhavana1025/ml-Project/ensemble"
	"github.com/Bhavana1025/ml-Project/linear"
	"github.com/Bhavana1025/ml-Project/metrics"
	"github.com/Bhavana1025/ml-Project/modelselection"
	"github.com/Bhavana1025/ml-Project/neighbors"
	"github.com/Bhavana1025/ml-Project/neural"
	"github.com/Bhavana1025/ml-Project/pkg/errors"
	mllog "github.com/Bhavana1025/ml-Project/pkg/log"
	"github.com/Bhavana1025/ml-Project/plotfig"
	"github.com/Bhavana1025/ml-Project/preprocessing"
	"github.com/Bhavana1025/ml-Project/svm"
)

type config struct {
	dataDir    string
	outDir     string
	site       string
	pipeline   string
	strategy   string
	derivative string
	folds      int
	testSize   float64
	seed       int
	logLevel   string
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func parseFlags() config {
	// .env values become defaults; flags still win
	_ = godotenv.Load()

	var cfg config
	flag.StringVar(&cfg.dataDir, "data-dir", envOr("ABIDE_DATA_DIR", "data"), "directory for downloaded dataset files")
	flag.StringVar(&cfg.outDir, "out-dir", envOr("ABIDE_OUT_DIR", "figures"), "directory for output figures")
	flag.StringVar(&cfg.site, "site", envOr("ABIDE_SITE", "NYU"), "imaging site to analyze")
	flag.StringVar(&cfg.pipeline, "pipeline", "cpac", "preprocessing pipeline")
	flag.StringVar(&cfg.strategy, "strategy", "filt_noglobal", "noise-removal strategy")
	flag.StringVar(&cfg.derivative, "derivative", "rois_cc200", "ROI atlas derivative")
	flag.IntVar(&cfg.folds, "folds", envIntOr("ABIDE_FOLDS", 5), "number of cross-validation folds")
	flag.Float64Var(&cfg.testSize, "test-size", 0.3, "held-out fraction for the deep network")
	flag.IntVar(&cfg.seed, "seed", 42, "random seed")
	flag.StringVar(&cfg.logLevel, "log-level", envOr("ABIDE_LOG_LEVEL", "info"), "log level: debug, info, warn, error")
	flag.Parse()
	return cfg
}

func main() {
	cfg := parseFlags()
	mllog.Setup(cfg.logLevel)

	warnLogger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	errors.SetZerologWarnFunc(func(w error) {
		if obj, ok := w.(zerolog.LogObjectMarshaler); ok {
			warnLogger.Warn().Object("warning", obj).Msg("training warning")
		} else {
			warnLogger.Warn().Err(w).Msg("training warning")
		}
	})

	if err := run(context.Background(), cfg); err != nil {
		slog.Error("pipeline failed", mllog.ErrAttr(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config) error {
	start := time.Now()

	if err := os.MkdirAll(cfg.outDir, 0o755); err != nil {
		return errors.Wrapf(err, "creating output directory %s", cfg.outDir)
	}

	X, y, err := loadFeatures(ctx, cfg)
	if err != nil {
		return err
	}

	splitter := modelselection.NewStratifiedKFold(cfg.folds, true, cfg.seed)

	svmResult, err := sweepSVM(cfg, X, y, splitter)
	if err != nil {
		return err
	}
	knnSeries, knnBest, err := sweepKNN(cfg, X, y, splitter)
	if err != nil {
		return err
	}
	mlpResult, err := sweepMLP(cfg, X, y, splitter)
	if err != nil {
		return err
	}

	deepScore, err := evaluateDeep(cfg, X, y)
	if err != nil {
		return err
	}

	comparison, err := compareEnsemble(cfg, X, y, splitter, svmResult.Best, knnBest, mlpResult.Best)
	if err != nil {
		return err
	}

	if err := writeFigures(cfg, svmResult, knnSeries, mlpResult, comparison); err != nil {
		return err
	}

	fmt.Println("Cross-validated accuracy (mean ± std):")
	for _, entry := range comparison {
		fmt.Printf("  %-8s: %.4f ± %.4f\n", entry.Name, entry.Result.MeanScore(), entry.Result.StdScore())
	}
	fmt.Printf("  %-8s: %.4f (held-out split)\n", "deep", deepScore)

	slog.Info("pipeline complete",
		slog.Int64(mllog.DurationMsKey, time.Since(start).Milliseconds()),
	)
	return nil
}

// loadFeatures fetches the dataset and produces the scaled feature matrix
// with ±1 labels.
func loadFeatures(ctx context.Context, cfg config) (mat.Matrix, mat.Matrix, error) {
	opts := dataset.DefaultOptions(cfg.dataDir)
	opts.Site = cfg.site
	opts.Pipeline = cfg.pipeline
	opts.Strategy = cfg.strategy
	opts.Derivative = cfg.derivative

	ds, err := dataset.Fetch(ctx, opts)
	if err != nil {
		return nil, nil, err
	}

	if summary, err := ds.Summary(); err == nil {
		slog.Info("dataset loaded",
			slog.String(mllog.SiteKey, cfg.site),
			slog.Int(mllog.SamplesKey, len(ds.Subjects)),
			slog.Int("autism.count", summary.NAutism),
			slog.Int("control.count", summary.NControl),
			slog.Float64("age.mean", summary.AgeMean),
		)
	}

	features, labels, err := connectome.Transform(ds)
	if err != nil {
		return nil, nil, err
	}

	scaler := preprocessing.NewStandardScalerDefault()
	scaled, err := scaler.FitTransform(features)
	if err != nil {
		return nil, nil, err
	}

	_, nFeatures := scaled.Dims()
	slog.Info("connectome features extracted",
		slog.String(mllog.StageKey, "features"),
		slog.Int(mllog.FeaturesKey, nFeatures),
	)
	return scaled, labels, nil
}

var (
	svmCs     = []float64{0.1, 1, 10, 100}
	svmGammas = []float64{1e-4, 1e-3, 1e-2, 1e-1}
)

func sweepSVM(cfg config, X, y mat.Matrix, splitter modelselection.Splitter) (*modelselection.GridSearchResult, error) {
	grid := modelselection.ParamGrid(map[string][]float64{
		"C":     svmCs,
		"gamma": svmGammas,
	})
	newClf := func(params map[string]float64) model.Classifier {
		return svm.NewSVC(
			svm.WithC(params["C"]),
			svm.WithGamma(params["gamma"]),
			svm.WithRandomState(uint64(cfg.seed)),
		)
	}

	result, err := modelselection.GridSearch(newClf, grid, X, y, splitter)
	if err != nil {
		return nil, errors.Wrap(err, "SVM sweep")
	}
	slog.Info("SVM sweep complete",
		slog.String(mllog.ModelNameKey, "SVC"),
		slog.Any("best.params", result.Best.Params),
		slog.Float64(mllog.AccuracyKey, result.Best.MeanScore),
	)
	return result, nil
}

// sweepKNN cross-validates k for both weighting schemes and returns one line
// series per scheme plus the best configuration.
func sweepKNN(cfg config, X, y mat.Matrix, splitter modelselection.Splitter) ([]plotfig.LineSeries, modelselection.GridPoint, error) {
	ks := []float64{1, 3, 5, 7, 9, 11}
	weightings := []string{neighbors.WeightsUniform, neighbors.WeightsDistance}

	var best modelselection.GridPoint
	series := make([]plotfig.LineSeries, 0, len(weightings))

	for _, weights := range weightings {
		line := plotfig.LineSeries{Name: weights, X: ks}
		for _, k := range ks {
			clf := neighbors.NewKNNClassifier(
				neighbors.WithK(int(k)),
				neighbors.WithWeights(weights),
			)
			cv, err := modelselection.CrossValidate(clf, X, y, splitter)
			if err != nil {
				return nil, best, errors.Wrapf(err, "KNN sweep k=%d weights=%s", int(k), weights)
			}
			line.Y = append(line.Y, cv.MeanScore())

			if best.Params == nil || cv.MeanScore() > best.MeanScore {
				best = modelselection.GridPoint{
					Params:    map[string]float64{"k": k, "distance_weighted": boolToFloat(weights == neighbors.WeightsDistance)},
					Scores:    cv.TestScores,
					MeanScore: cv.MeanScore(),
					StdScore:  cv.StdScore(),
				}
			}
		}
		series = append(series, line)
	}

	slog.Info("KNN sweep complete",
		slog.String(mllog.ModelNameKey, "KNNClassifier"),
		slog.Any("best.params", best.Params),
		slog.Float64(mllog.AccuracyKey, best.MeanScore),
	)
	return series, best, nil
}

func sweepMLP(cfg config, X, y mat.Matrix, splitter modelselection.Splitter) (*modelselection.GridSearchResult, error) {
	grid := modelselection.ParamGrid(map[string][]float64{
		"hidden": {32, 64, 128},
		"lr":     {1e-2, 1e-3},
	})
	newClf := func(params map[string]float64) model.Classifier {
		return neural.NewMLPClassifier(
			neural.WithHiddenLayers(int(params["hidden"])),
			neural.WithLearningRate(params["lr"]),
			neural.WithEpochs(100),
			neural.WithSeed(uint64(cfg.seed)),
		)
	}

	result, err := modelselection.GridSearch(newClf, grid, X, y, splitter)
	if err != nil {
		return nil, errors.Wrap(err, "MLP sweep")
	}
	slog.Info("MLP sweep complete",
		slog.String(mllog.ModelNameKey, "MLPClassifier"),
		slog.Any("best.params", result.Best.Params),
		slog.Float64(mllog.AccuracyKey, result.Best.MeanScore),
	)
	return result, nil
}

// evaluateDeep trains the fixed deep network on a stratified split and
// returns its held-out accuracy.
func evaluateDeep(cfg config, X, y mat.Matrix) (float64, error) {
	trainX, testX, trainY, testY, err := modelselection.TrainTestSplit(X, y, cfg.testSize, true, cfg.seed)
	if err != nil {
		return 0, err
	}

	clf := neural.NewDeepClassifier(uint64(cfg.seed))
	if err := clf.Fit(trainX, trainY); err != nil {
		return 0, errors.Wrap(err, "deep network training")
	}
	preds, err := clf.Predict(testX)
	if err != nil {
		return 0, errors.Wrap(err, "deep network evaluation")
	}

	score, err := metrics.AccuracyMatrix(testY, preds)
	if err != nil {
		return 0, err
	}
	cm, err := metrics.NewConfusionMatrix(colVec(testY), colVec(preds))
	if err != nil {
		return 0, err
	}

	slog.Info("deep network evaluated",
		slog.String(mllog.ModelNameKey, "DeepClassifier"),
		slog.Float64(mllog.AccuracyKey, score),
		slog.Float64("metric.precision", cm.Precision()),
		slog.Float64("metric.recall", cm.Recall()),
		slog.Float64("metric.f1", cm.F1()),
	)
	return score, nil
}

func colVec(m mat.Matrix) *mat.VecDense {
	rows, _ := m.Dims()
	v := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		v.SetVec(i, m.At(i, 0))
	}
	return v
}

type comparisonEntry struct {
	Name   string
	Result *modelselection.CVResult
}

// compareEnsemble cross-validates the stacked ensemble and each tuned base
// learner on the same folds.
func compareEnsemble(cfg config, X, y mat.Matrix, splitter modelselection.Splitter,
	svmBest, knnBest, mlpBest modelselection.GridPoint) ([]comparisonEntry, error) {

	svmClf := svm.NewSVC(
		svm.WithC(svmBest.Params["C"]),
		svm.WithGamma(svmBest.Params["gamma"]),
		svm.WithRandomState(uint64(cfg.seed)),
	)
	knnWeights := neighbors.WeightsUniform
	if knnBest.Params["distance_weighted"] == 1 {
		knnWeights = neighbors.WeightsDistance
	}
	knnClf := neighbors.NewKNNClassifier(
		neighbors.WithK(int(knnBest.Params["k"])),
		neighbors.WithWeights(knnWeights),
	)
	mlpClf := neural.NewMLPClassifier(
		neural.WithHiddenLayers(int(mlpBest.Params["hidden"])),
		neural.WithLearningRate(mlpBest.Params["lr"]),
		neural.WithEpochs(100),
		neural.WithSeed(uint64(cfg.seed)),
	)

	stack := ensemble.NewStackingClassifier(
		[]ensemble.NamedClassifier{
			{Name: "svm", Classifier: svmClf},
			{Name: "knn", Classifier: knnClf},
			{Name: "mlp", Classifier: mlpClf},
		},
		linear.NewLogisticRegression(linear.WithMaxIter(200)),
		ensemble.WithCV(cfg.folds),
		ensemble.WithRandomState(cfg.seed),
	)

	models := []struct {
		name string
		clf  model.Classifier
	}{
		{"svm", svmClf},
		{"knn", knnClf},
		{"mlp", mlpClf},
		{"stacked", stack},
	}

	entries := make([]comparisonEntry, 0, len(models))
	for _, m := range models {
		cv, err := modelselection.CrossValidate(m.clf, X, y, splitter)
		if err != nil {
			return nil, errors.Wrapf(err, "cross-validating %s", m.name)
		}
		entries = append(entries, comparisonEntry{Name: m.name, Result: cv})
	}
	return entries, nil
}

func writeFigures(cfg config, svmResult *modelselection.GridSearchResult,
	knnSeries []plotfig.LineSeries, mlpResult *modelselection.GridSearchResult,
	comparison []comparisonEntry) error {

	z := make([][]float64, len(svmCs))
	for i := range z {
		z[i] = make([]float64, len(svmGammas))
	}
	for _, point := range svmResult.Points {
		ci := indexOf(svmCs, point.Params["C"])
		gi := indexOf(svmGammas, point.Params["gamma"])
		if ci >= 0 && gi >= 0 {
			z[ci][gi] = point.MeanScore
		}
	}
	if err := plotfig.SaveHeatMap("SVM accuracy surface", "gamma", "C",
		svmGammas, svmCs, z, filepath.Join(cfg.outDir, "svm_surface.png")); err != nil {
		return err
	}

	if err := plotfig.SaveLinePlot("KNN accuracy vs k", "k", "accuracy",
		knnSeries, filepath.Join(cfg.outDir, "knn_sweep.png")); err != nil {
		return err
	}

	mlpLines := mlpLineSeries(mlpResult)
	if err := plotfig.SaveLinePlot("MLP accuracy vs hidden width", "hidden units", "accuracy",
		mlpLines, filepath.Join(cfg.outDir, "mlp_sweep.png")); err != nil {
		return err
	}

	groups := make([]plotfig.ScoreGroup, len(comparison))
	for i, entry := range comparison {
		groups[i] = plotfig.ScoreGroup{Name: entry.Name, Scores: entry.Result.TestScores}
	}
	if err := plotfig.SaveBoxPlot("Cross-validated accuracy by model", "accuracy",
		groups, filepath.Join(cfg.outDir, "model_comparison.png")); err != nil {
		return err
	}

	slog.Info("figures written", slog.String("dir", cfg.outDir))
	return nil
}

// mlpLineSeries groups the MLP grid by learning rate, one curve per rate
// with hidden width on the x axis.
func mlpLineSeries(result *modelselection.GridSearchResult) []plotfig.LineSeries {
	byLR := make(map[float64]*plotfig.LineSeries)
	var order []float64
	for _, point := range result.Points {
		lr := point.Params["lr"]
		s, ok := byLR[lr]
		if !ok {
			s = &plotfig.LineSeries{Name: fmt.Sprintf("lr=%g", lr)}
			byLR[lr] = s
			order = append(order, lr)
		}
		s.X = append(s.X, point.Params["hidden"])
		s.Y = append(s.Y, point.MeanScore)
	}

	series := make([]plotfig.LineSeries, 0, len(order))
	for _, lr := range order {
		series = append(series, *byLR[lr])
	}
	return series
}

func indexOf(values []float64, v float64) int {
	for i, val := range values {
		if val == v {
			return i
		}
	}
	return -1
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
