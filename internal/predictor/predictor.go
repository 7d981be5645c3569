package predictor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cozy-creator/cropscan/internal/preprocess"
)

const (
	PredictorMock = "mock"
)

var (
	ErrUnknownPredictor = errors.New("unknown predictor")
)

// DetectionResult is a single detected region with its class label.
type DetectionResult struct {
	XMin  int     `json:"xmin"`
	YMin  int     `json:"ymin"`
	XMax  int     `json:"xmax"`
	YMax  int     `json:"ymax"`
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Predictor runs detection over a preprocessed image.
type Predictor interface {
	Predict(ctx context.Context, tensor *preprocess.Tensor) (*DetectionResult, error)
}

// New returns the predictor registered under name.
func New(name string) (Predictor, error) {
	switch strings.ToLower(name) {
	case PredictorMock, "":
		return NewMock(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownPredictor, name)
	}
}
