package runner

import (
	"context"
	"log/slog"

	"github.com/shouni/go-facemesh-kit/pkg/domain"
	facepipe "github.com/shouni/go-facemesh-kit/pkg/pipeline"
)

// MeshRunner は、ポートレート画像から3Dフェイスメッシュ一式を生成するためのインターフェース。
type MeshRunner interface {
	// Run は全ステージを実行し、メッシュ表現と表示用画像を持つ結果を返す。
	Run(ctx context.Context, imageData []byte) (*facepipe.Result, error)
}

// FaceMeshRunner は、進捗をログへ橋渡ししながらパイプラインを実行する実体。
type FaceMeshRunner struct {
	pipeline *facepipe.Pipeline // メッシュ生成の全ステージを束ねる実行エンジン
	meshCfg  domain.MeshConfig  // CLI から渡されたチューニング項目
}

// NewFaceMeshRunner は、FaceMeshRunnerの新しいインスタンスを生成して返す。
func NewFaceMeshRunner(p *facepipe.Pipeline, cfg domain.MeshConfig) *FaceMeshRunner {
	return &FaceMeshRunner{
		pipeline: p,
		meshCfg:  cfg,
	}
}

// Run はパイプラインを1回実行し、ステージ遷移を構造化ログとして流すのだ。
func (mr *FaceMeshRunner) Run(ctx context.Context, imageData []byte) (*facepipe.Result, error) {
	return mr.pipeline.Run(ctx, facepipe.RunInput{
		ImageData:  imageData,
		Config:     mr.meshCfg,
		OnProgress: logProgress(ctx),
	})
}

// logProgress はステージ遷移の通知を slog へ流すコールバックを返すのだ。
func logProgress(ctx context.Context) domain.ProgressFunc {
	return func(p domain.Progress) {
		if !p.Complete {
			return // 開始通知はログには流さないのだ
		}
		slog.InfoContext(ctx, p.Message,
			slog.Int("stage", p.Stage),
			slog.Int("percent", p.Percent),
			slog.Bool("done", p.Done))
	}
}
