package pipeline

import (
	"fmt"
	"time"

	"github.com/shouni/go-facemesh-kit/pkg/adapters"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// Endpoints は外部推論サービスの接続先をまとめたものです。
type Endpoints struct {
	Landmark string
	Depth    string
	APIKey   string
}

// NewPipeline は HTTP クライアントと接続先から Pipeline を初期化します。
// 応答キャッシュとレートリミッターは2つのアダプターで共有します。
func NewPipeline(httpClient adapters.HTTPDoer, eps Endpoints) (*Pipeline, error) {
	respCache := cache.New(30*time.Minute, 1*time.Hour)
	cacheTTL := 1 * time.Hour
	limiter := rate.NewLimiter(rate.Every(500*time.Millisecond), 2)

	predictor, err := adapters.NewHTTPPredictionAdapter(httpClient, eps.Landmark, eps.APIKey, respCache, cacheTTL, limiter)
	if err != nil {
		return nil, fmt.Errorf("ランドマークアダプターの初期化に失敗したのだ: %w", err)
	}

	depther, err := adapters.NewHTTPDepthAdapter(httpClient, eps.Depth, eps.APIKey, respCache, cacheTTL, limiter)
	if err != nil {
		return nil, fmt.Errorf("深度アダプターの初期化に失敗したのだ: %w", err)
	}

	return NewPipelineWithAdapters(predictor, depther), nil
}

// NewPipelineWithAdapters は構築済みのアダプターから Pipeline を組み立てます。
// テストや組み込み利用から任意の実装を差し込む用です。
func NewPipelineWithAdapters(predictor PredictionAdapter, depther DepthAdapter) *Pipeline {
	return &Pipeline{
		predictor: predictor,
		depther:   depther,
	}
}
