// Package providers holds the seams for external services the API would call
// in production: an image disease classifier and a notification dispatcher.
package providers

import "context"

type ImageInput struct {
	URL     string
	Crop    string
	Content []byte
}

type Diagnosis struct {
	DiseaseName    string
	Probability    float64
	Recommendation string
	Pesticide      string
}

type Classifier interface {
	Classify(ctx context.Context, in ImageInput) (Diagnosis, error)
}

// Fixed result returned by StubClassifier.
const (
	StubDisease        = "Leaf Blight"
	StubProbability    = 0.87
	StubRecommendation = "Spray copper-based fungicide; remove infected leaves; ensure proper spacing."
	StubPesticide      = "Copper Oxychloride 50% WP"
)

// StubClassifier returns the same diagnosis for every image.
type StubClassifier struct{}

func NewStubClassifier() Classifier { return StubClassifier{} }

func (StubClassifier) Classify(context.Context, ImageInput) (Diagnosis, error) {
	return Diagnosis{
		DiseaseName:    StubDisease,
		Probability:    StubProbability,
		Recommendation: StubRecommendation,
		Pesticide:      StubPesticide,
	}, nil
}
