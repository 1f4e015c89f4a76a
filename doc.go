// Package mlproject classifies autism from resting-state fMRI functional
// connectivity, using the publicly available ABIDE preprocessed dataset.
//
// The library covers the full analysis: downloading ROI time series and
// phenotypic records, deriving correlation-based connectome features,
// standardizing them, sweeping SVM, k-nearest-neighbors and MLP
// hyperparameters under stratified cross-validation, evaluating a fixed deep
// feed-forward network on a held-out split, and comparing a stacked ensemble
// against its base learners.
//
// # Quick Start
//
//	ds, err := dataset.Fetch(ctx, dataset.DefaultOptions("data"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	X, y, err := connectome.Transform(ds)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	clf := svm.NewSVC(svm.WithC(10), svm.WithGamma(0.01))
//	cv, err := modelselection.CrossValidate(clf, X, y,
//	    modelselection.NewStratifiedKFold(5, true, 42))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("accuracy: %.4f ± %.4f\n", cv.MeanScore(), cv.StdScore())
//
// # Packages
//
//   - dataset: ABIDE download, caching, .1D and phenotypic parsing
//   - connectome: correlation matrices and upper-triangle vectorization
//   - preprocessing: feature standardization
//   - svm, neighbors, neural, linear: classifiers
//   - ensemble: stacked generalization
//   - modelselection: splitters, cross-validation, grid search
//   - metrics: accuracy, confusion matrix, precision/recall/F1
//   - plotfig: PNG figures for sweeps and model comparison
//
// The pipeline command lives in cmd/abidecls.
package mlproject
