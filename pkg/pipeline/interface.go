package pipeline

import (
	"github.com/shouni/go-facemesh-kit/pkg/adapters"
)

// パイプラインが依存する外部推論の口は adapters パッケージの定義を
// そのまま使います。テストではモック実装を差し込めるのだ。
type (
	PredictionAdapter = adapters.PredictionAdapter
	DepthAdapter      = adapters.DepthAdapter
	PredictionRequest = adapters.PredictionRequest
	DepthRequest      = adapters.DepthRequest
)
