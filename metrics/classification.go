package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/evalgo/pkg/errors"
)

// Accuracy computes the fraction of exactly matching labels.
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("Accuracy", "empty vector")
	}

	if yPred.Len() != n {
		return 0, errors.NewDimensionError("Accuracy", n, yPred.Len(), 0)
	}

	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}

	return float64(correct) / float64(n), nil
}

// Precision computes binary precision with 1 as the positive class.
//
// When no positive predictions exist the metric is ill-defined; an
// UndefinedMetricWarning is emitted and 0 is returned.
func Precision(yTrue, yPred *mat.VecDense) (float64, error) {
	tp, fp, _, err := binaryCounts("Precision", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	if tp+fp == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("precision", "no predicted positives", 0))
		return 0, nil
	}

	return float64(tp) / float64(tp+fp), nil
}

// Recall computes binary recall with 1 as the positive class.
//
// When no true positives exist in yTrue the metric is ill-defined; an
// UndefinedMetricWarning is emitted and 0 is returned.
func Recall(yTrue, yPred *mat.VecDense) (float64, error) {
	tp, _, fn, err := binaryCounts("Recall", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	if tp+fn == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("recall", "no true positives in yTrue", 0))
		return 0, nil
	}

	return float64(tp) / float64(tp+fn), nil
}

// F1Score computes the binary F1 score, the harmonic mean of precision
// and recall.
func F1Score(yTrue, yPred *mat.VecDense) (float64, error) {
	p, err := Precision(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	r, err := Recall(yTrue, yPred)
	if err != nil {
		return 0, err
	}

	if p+r == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("f1", "precision and recall both zero", 0))
		return 0, nil
	}

	return 2 * p * r / (p + r), nil
}

// LogLoss computes binary cross-entropy. yProb holds predicted
// probabilities of the positive class, clipped to [eps, 1-eps].
func LogLoss(yTrue, yProb *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("LogLoss", "empty vector")
	}

	if yProb.Len() != n {
		return 0, errors.NewDimensionError("LogLoss", n, yProb.Len(), 0)
	}

	const eps = 1e-15
	var loss float64
	for i := 0; i < n; i++ {
		p := yProb.AtVec(i)
		if p < eps {
			p = eps
		} else if p > 1-eps {
			p = 1 - eps
		}

		if yTrue.AtVec(i) == 1 {
			loss -= math.Log(p)
		} else {
			loss -= math.Log(1 - p)
		}
	}

	return loss / float64(n), nil
}

// ConfusionMatrix computes the confusion matrix for the given label set.
// Entry (i, j) counts samples with true label labels[i] predicted as
// labels[j].
func ConfusionMatrix(yTrue, yPred *mat.VecDense, labels []float64) (*mat.Dense, error) {
	n := yTrue.Len()
	if n == 0 {
		return nil, errors.NewValueError("ConfusionMatrix", "empty vector")
	}

	if yPred.Len() != n {
		return nil, errors.NewDimensionError("ConfusionMatrix", n, yPred.Len(), 0)
	}

	if len(labels) == 0 {
		return nil, errors.NewValueError("ConfusionMatrix", "empty label set")
	}

	index := make(map[float64]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}

	cm := mat.NewDense(len(labels), len(labels), nil)
	for i := 0; i < n; i++ {
		ti, ok := index[yTrue.AtVec(i)]
		if !ok {
			return nil, errors.NewValueError("ConfusionMatrix", "yTrue contains a label outside the label set")
		}
		pi, ok := index[yPred.AtVec(i)]
		if !ok {
			return nil, errors.NewValueError("ConfusionMatrix", "yPred contains a label outside the label set")
		}
		cm.Set(ti, pi, cm.At(ti, pi)+1)
	}

	return cm, nil
}

func binaryCounts(op string, yTrue, yPred *mat.VecDense) (tp, fp, fn int, err error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, 0, 0, errors.NewValueError(op, "empty vector")
	}

	if yPred.Len() != n {
		return 0, 0, 0, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}

	for i := 0; i < n; i++ {
		t := yTrue.AtVec(i) == 1
		p := yPred.AtVec(i) == 1
		switch {
		case t && p:
			tp++
		case !t && p:
			fp++
		case t && !p:
			fn++
		}
	}

	return tp, fp, fn, nil
}
