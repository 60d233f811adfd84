// Package classifier provides the base fit-probability models consulted by
// the evaluator.
package classifier

import (
	"context"
	"errors"
)

// FeatureNames lists the classifier inputs in encoding order.
var FeatureNames = [4]string{"experience_months", "crm_knowledge", "english", "degree_in_progress"}

// Classifier returns the probability in [0,1] that a candidate is a fit.
type Classifier interface {
	Predict(ctx context.Context, features [4]float64) (float64, error)
	Name() string
}

var ErrInvalidModel = errors.New("invalid classifier model")
