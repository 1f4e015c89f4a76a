package log

// Standard attribute keys for pipeline logging. Using the same keys across
// packages keeps the JSON logs filterable by stage and model.
const (
	// ModelNameKey identifies the classifier type, e.g. "SVC", "KNN", "MLP".
	ModelNameKey = "model.name"

	// OperationKey is the operation being performed: "fit", "predict",
	// "transform", "cross_validate", "grid_search".
	OperationKey = "ml.operation"

	// StageKey is the pipeline stage: "fetch", "features", "scale",
	// "sweep", "deep", "ensemble", "plot".
	StageKey = "pipeline.stage"

	// SamplesKey is the number of subjects/rows being processed.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of feature columns.
	FeaturesKey = "data.features"

	// SiteKey is the imaging site filter, e.g. "NYU".
	SiteKey = "abide.site"

	// AccuracyKey is a cross-validated or held-out accuracy value.
	AccuracyKey = "metric.accuracy"

	// DurationMsKey is elapsed wall time in milliseconds.
	DurationMsKey = "duration_ms"

	// FoldsKey is the number of cross-validation folds.
	FoldsKey = "cv.folds"
)
