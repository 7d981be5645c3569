package predictor

import (
	"context"

	"github.com/cozy-creator/cropscan/internal/preprocess"
)

var mockDetection = DetectionResult{
	XMin:  50,
	YMin:  40,
	XMax:  200,
	YMax:  180,
	Label: "wheat_healthy",
	Score: 0.98,
}

type mockPredictor struct{}

// NewMock returns a predictor that reports the same detection for every
// input. It stands in until a trained model is available.
func NewMock() Predictor {
	return &mockPredictor{}
}

func (p *mockPredictor) Predict(_ context.Context, _ *preprocess.Tensor) (*DetectionResult, error) {
	result := mockDetection
	return &result, nil
}
