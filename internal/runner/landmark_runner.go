package runner

import (
	"context"
	"log/slog"

	"github.com/shouni/go-facemesh-kit/pkg/adapters"
	"github.com/shouni/go-facemesh-kit/pkg/domain"
)

// LandmarkRunner は、ランドマーク推論だけを単体実行するためのインターフェース。
type LandmarkRunner interface {
	// Run は画像を推論サービスへ送り、可視化バンドルを返す。
	Run(ctx context.Context, imageData []byte) (*domain.VisualizationBundle, error)
}

// FaceLandmarkRunner は、アダプター経由で推論を呼び出す実体。
type FaceLandmarkRunner struct {
	predictor adapters.PredictionAdapter
	meshCfg   domain.MeshConfig
}

// NewFaceLandmarkRunner は、FaceLandmarkRunnerの新しいインスタンスを生成して返す。
func NewFaceLandmarkRunner(predictor adapters.PredictionAdapter, cfg domain.MeshConfig) *FaceLandmarkRunner {
	return &FaceLandmarkRunner{
		predictor: predictor,
		meshCfg:   cfg,
	}
}

// Run はランドマーク推論を実行し、受信したバンドルの内訳をログに残すのだ。
func (lr *FaceLandmarkRunner) Run(ctx context.Context, imageData []byte) (*domain.VisualizationBundle, error) {
	bundle, err := lr.predictor.Predict(ctx, adapters.PredictionRequest{
		Image:  imageData,
		Config: lr.meshCfg,
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "ランドマーク推論が完了したのだ",
		slog.Int("keypoints", len(bundle.Keypoints)),
		slog.Int("triangles", bundle.TriangleCount()),
		slog.Int("overlays", len(bundle.Overlays)))
	return bundle, nil
}
