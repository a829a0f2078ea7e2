package client

import (
	"context"

	"github.com/menta2k/token-forge/pkg/types"
)

// FaceClient is the vision backend contract: it sends one image and a prompt
// to a model and returns either free text or a parsed face-geometry reply in
// normalized [0,1] coordinates.
type FaceClient interface {
	SimpleQuery(ctx context.Context, model, prompt, imgB64 string) (string, error)
	DetectFace(ctx context.Context, model, prompt, imgB64 string) (*types.FaceDetection, error)
}
