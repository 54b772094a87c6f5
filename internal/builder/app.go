package builder

import (
	"github.com/shouni/go-facemesh-kit/internal/config"
	"github.com/shouni/go-facemesh-kit/pkg/adapters"
	facepipe "github.com/shouni/go-facemesh-kit/pkg/pipeline"

	"github.com/shouni/go-http-kit/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する
// これを各Build関数に渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config       *config.Config             // Configは、環境変数から読み込まれたグローバルな設定です（接続先、APIキーなど）。
	Options      config.GenerateOptions     // Optionsは、コマンドラインから渡された実行時の設定です。
	Reader       remoteio.InputReader       // Readerは、入力ポートレートの読み込みに使用する入力元です。
	Writer       remoteio.OutputWriter      // Writerは、生成された成果物を保存するための出力先です。
	FacePipeline *facepipe.Pipeline         // FacePipelineは、メッシュ生成の全ステージを束ねる実行エンジンです。
	Predictor    adapters.PredictionAdapter // Predictor は、ランドマーク推論だけを単体実行する場合の口です。
	Depther      adapters.DepthAdapter      // Depther は、深度推定だけを単体実行する場合の口です。
	httpClient   httpkit.HTTPClient    // httpClient は外部APIとの通信に使う共通クライアント
}

// NewAppContext は AppContext の新しいインスタンスを生成する
func NewAppContext(
	cfg *config.Config,
	httpClient httpkit.HTTPClient,
	reader remoteio.InputReader,
	writer remoteio.OutputWriter,
	facePipeline *facepipe.Pipeline,
	predictor adapters.PredictionAdapter,
	depther adapters.DepthAdapter,
) AppContext {
	return AppContext{
		Config:       cfg,
		Options:      cfg.Options,
		httpClient:   httpClient,
		Reader:       reader,
		Writer:       writer,
		FacePipeline: facePipeline,
		Predictor:    predictor,
		Depther:      depther,
	}
}
