// Package adapters は外部の推論サービス（ランドマーク可視化・深度推定）への
// 境界を提供します。いずれも素通しのアダプターであり、入力の検証もリトライも
// 行わず、外部サービスの失敗はそのまま呼び出し元へ伝播します。
package adapters

import (
	"context"
	"net/http"

	"github.com/shouni/go-facemesh-kit/pkg/domain"
)

// HTTPDoer は外部サービス呼び出しに必要な最小限のHTTPクライアント面です。
// go-http-kit のクライアントはこのインターフェースを満たします。
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// PredictionRequest はランドマーク推論サービスへの1回分の依頼内容です。
type PredictionRequest struct {
	Image    []byte
	MimeType string
	Config   domain.MeshConfig
}

// PredictionAdapter はランドマーク/可視化モデルの呼び出し口です。
type PredictionAdapter interface {
	Predict(ctx context.Context, req PredictionRequest) (*domain.VisualizationBundle, error)
}

// DepthRequest は深度推定サービスへの1回分の依頼内容です。
type DepthRequest struct {
	Image    []byte
	MimeType string
	Config   domain.MeshConfig
}

// DepthAdapter は深度推定モデルの呼び出し口です。
type DepthAdapter interface {
	EstimateDepth(ctx context.Context, req DepthRequest) (*domain.DepthResult, error)
}
