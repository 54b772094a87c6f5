package builder

import (
	"fmt"
	"time"

	"github.com/shouni/go-facemesh-kit/internal/config"
	"github.com/shouni/go-facemesh-kit/internal/runner"
	"github.com/shouni/go-facemesh-kit/pkg/adapters"
	facepipe "github.com/shouni/go-facemesh-kit/pkg/pipeline"
	"github.com/shouni/go-facemesh-kit/pkg/publisher"

	"github.com/patrickmn/go-cache"
	"github.com/shouni/go-http-kit/httpkit"
	"golang.org/x/time/rate"
)

// InitializeAdapters は推論サービスへの2つのアダプターを構築します。
// 応答キャッシュとレートリミッターは両者で共有するのだ。
func InitializeAdapters(httpClient httpkit.HTTPClient, cfg *config.Config) (adapters.PredictionAdapter, adapters.DepthAdapter, error) {
	respCache := cache.New(30*time.Minute, 1*time.Hour)
	cacheTTL := 1 * time.Hour
	limiter := rate.NewLimiter(rate.Every(500*time.Millisecond), 2)

	predictor, err := adapters.NewHTTPPredictionAdapter(httpClient, cfg.LandmarkEndpoint, cfg.APIKey, respCache, cacheTTL, limiter)
	if err != nil {
		return nil, nil, fmt.Errorf("ランドマークアダプターの初期化に失敗したのだ: %w", err)
	}

	depther, err := adapters.NewHTTPDepthAdapter(httpClient, cfg.DepthEndpoint, cfg.APIKey, respCache, cacheTTL, limiter)
	if err != nil {
		return nil, nil, fmt.Errorf("深度アダプターの初期化に失敗したのだ: %w", err)
	}

	return predictor, depther, nil
}

// BuildMeshRunner はメッシュ生成の全ステージ実行を担当する Runner を構築します。
func BuildMeshRunner(appCtx *AppContext) (runner.MeshRunner, error) {
	if appCtx.FacePipeline == nil {
		return nil, fmt.Errorf("FacePipelineが初期化されていないのだ")
	}
	return runner.NewFaceMeshRunner(appCtx.FacePipeline, appCtx.Options.MeshConfig()), nil
}

// BuildLandmarkRunner はランドマーク推論の単体実行を担当する Runner を構築します。
func BuildLandmarkRunner(appCtx *AppContext) (runner.LandmarkRunner, error) {
	if appCtx.Predictor == nil {
		return nil, fmt.Errorf("ランドマークアダプターが初期化されていないのだ")
	}
	return runner.NewFaceLandmarkRunner(appCtx.Predictor, appCtx.Options.MeshConfig()), nil
}

// BuildDepthRunner は深度推定の単体実行を担当する Runner を構築します。
func BuildDepthRunner(appCtx *AppContext) (runner.DepthRunner, error) {
	if appCtx.Depther == nil {
		return nil, fmt.Errorf("深度アダプターが初期化されていないのだ")
	}
	return runner.NewFaceDepthRunner(appCtx.Depther, appCtx.Options.MeshConfig()), nil
}

// BuildPublishRunner は成果物の保存を行う Runner を構築します。
func BuildPublishRunner(appCtx *AppContext) (runner.PublisherRunner, error) {
	if appCtx.Writer == nil {
		return nil, fmt.Errorf("OutputWriterが初期化されていないのだ")
	}
	pub := publisher.NewFacePublisher(appCtx.Writer)
	return runner.NewDefaultPublisherRunner(appCtx.Options, pub), nil
}

// InitializeFacePipeline はアダプターからメッシュ生成エンジンを組み立てます。
func InitializeFacePipeline(predictor adapters.PredictionAdapter, depther adapters.DepthAdapter) *facepipe.Pipeline {
	return facepipe.NewPipelineWithAdapters(predictor, depther)
}
