// Package evalgo provides a model-evaluation toolkit for Go: pluggable
// cross-validation splitters, scoring functions, parallel fold execution,
// grid search, learning curves, permutation tests, and baseline estimators.
//
// The API follows scikit-learn conventions so that evaluation workflows
// translate directly:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/evalgo/datasets"
//	    "github.com/YuminosukeSato/evalgo/linear_model"
//	    "github.com/YuminosukeSato/evalgo/metrics"
//	    "github.com/YuminosukeSato/evalgo/model_selection"
//	)
//
//	func main() {
//	    X, y, err := datasets.MakeFriedman1(200, 0.5, 42)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    ridge := linear_model.NewRidge(linear_model.WithAlpha(1.0))
//	    kf := model_selection.NewKFold(5, true, 42)
//
//	    result, err := model_selection.CrossValidate(ridge, X, y, kf, metrics.R2Scorer())
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Printf("R²: %.4f (+/- %.4f)\n", result.MeanTestScore(), result.StdTestScore())
//	}
//
// Evaluation primitives live in model_selection; estimators used to exercise
// them live in linear_model, dummy, and neighbors; univariate feature
// selection in feature_selection; plotting helpers in plotting.
package evalgo
