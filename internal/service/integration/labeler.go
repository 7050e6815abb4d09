package integration

import (
	"context"

	"github.com/Amish929/Eco-Gamify-Project/internal/models"
)

// Labeler detects labels in an uploaded image. Confidences are in [0,1].
type Labeler interface {
	DetectLabels(ctx context.Context, imageURL string, content []byte) ([]models.DetectedLabel, error)
}

type stubLabeler struct {
	annotations []models.DetectedLabel
}

// NewStubLabeler returns a labeler that answers every image with the same annotations.
func NewStubLabeler() Labeler {
	return &stubLabeler{
		annotations: []models.DetectedLabel{
			{Label: "tree", Confidence: 0.90},
			{Label: "plant", Confidence: 0.82},
			{Label: "environment", Confidence: 0.75},
		},
	}
}

func (l *stubLabeler) DetectLabels(ctx context.Context, imageURL string, content []byte) ([]models.DetectedLabel, error) {
	out := make([]models.DetectedLabel, len(l.annotations))
	copy(out, l.annotations)
	return out, nil
}
