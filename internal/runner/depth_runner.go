package runner

import (
	"context"
	"log/slog"

	"github.com/shouni/go-facemesh-kit/pkg/adapters"
	"github.com/shouni/go-facemesh-kit/pkg/domain"
)

// DepthRunner は、深度推定だけを単体実行するためのインターフェース。
type DepthRunner interface {
	// Run は画像を深度推定サービスへ送り、深度ラスタを返す。
	Run(ctx context.Context, imageData []byte) (*domain.DepthResult, error)
}

// FaceDepthRunner は、アダプター経由で深度推定を呼び出す実体。
type FaceDepthRunner struct {
	depther adapters.DepthAdapter
	meshCfg domain.MeshConfig
}

// NewFaceDepthRunner は、FaceDepthRunnerの新しいインスタンスを生成して返す。
func NewFaceDepthRunner(depther adapters.DepthAdapter, cfg domain.MeshConfig) *FaceDepthRunner {
	return &FaceDepthRunner{
		depther: depther,
		meshCfg: cfg,
	}
}

// Run は深度推定を実行し、受信したラスタの寸法をログに残すのだ。
func (dr *FaceDepthRunner) Run(ctx context.Context, imageData []byte) (*domain.DepthResult, error) {
	depth, err := dr.depther.EstimateDepth(ctx, adapters.DepthRequest{
		Image:  imageData,
		Config: dr.meshCfg,
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "深度推定が完了したのだ",
		slog.Int("width", depth.Width),
		slog.Int("height", depth.Height))
	return depth, nil
}
