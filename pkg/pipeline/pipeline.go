// Package pipeline はポートレート画像から3Dフェイスメッシュ一式を組み立てる
// 実行エンジンです。6つの正規ステージを順番に実行し、各ステージの開始と完了を
// 進捗コールバックへ同期的に通知します。途中で失敗したステージのエラーは
// 加工せず、そのまま呼び出し元へ伝播するのだ。
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-facemesh-kit/pkg/domain"
	"github.com/shouni/go-facemesh-kit/pkg/materialize"
	"github.com/shouni/go-facemesh-kit/pkg/mesh"
)

// Pipeline はフェイスメッシュ生成の一連のステージを束ねる実行エンジンです。
// 生成後の状態は持たないため、同じインスタンスを複数の実行で使い回せます。
type Pipeline struct {
	predictor PredictionAdapter
	depther   DepthAdapter
}

// RunInput は1回のパイプライン実行への入力です。
type RunInput struct {
	// ImageData は入力ポートレートの生バイト列です(PNG/JPEG)。
	ImageData []byte
	// MimeType は入力画像のMIMEタイプです。空の場合はデコード結果から推定します。
	MimeType string
	// Config はこの実行に適用するチューニング項目です。
	// ゼロ値のフィールドは既定値で補われます。
	Config domain.MeshConfig
	// OnProgress はステージ遷移ごとに呼ばれるコールバックです。nil 可。
	OnProgress domain.ProgressFunc
}

// Run はセットアップから深度推定までの6ステージを順に実行し、
// 仕上げとしてメッシュ表現と表示用画像を組み立てた Result を返します。
func (p *Pipeline) Run(ctx context.Context, in RunInput) (*Result, error) {
	if p.predictor == nil || p.depther == nil {
		return nil, fmt.Errorf("パイプラインのアダプターが初期化されていません")
	}

	// ステージ0: セットアップ。設定の正規化だけを行います。
	p.notify(in.OnProgress, domain.StageSetup, false, false)
	cfg := normalizeConfig(in.Config)
	p.notify(in.OnProgress, domain.StageSetup, true, false)

	// ステージ1: 画像の読み込みとスケール係数の導出。
	p.notify(in.OnProgress, domain.StageUpload, false, false)
	src, err := domain.LoadSourceImage(in.ImageData)
	if err != nil {
		return nil, err
	}
	mime := in.MimeType
	if mime == "" {
		mime = "image/" + src.Format
	}
	cfg = cfg.WithScaleFromWidth(src.Width)
	slog.InfoContext(ctx, "入力画像を読み込んだのだ",
		slog.Int("width", src.Width), slog.Int("height", src.Height), slog.String("format", src.Format))
	p.notify(in.OnProgress, domain.StageUpload, true, false)

	// ステージ2: プレビューの下準備。ベース画像ノードの寸法を確定します。
	p.notify(in.OnProgress, domain.StagePreview, false, false)
	halfWidth := float64(src.Width) * cfg.ScaleFactor / 2
	halfHeight := float64(src.Height) * cfg.ScaleFactor / 2
	p.notify(in.OnProgress, domain.StagePreview, true, false)

	// ステージ3: ランドマーク推論。外部サービスの失敗はそのまま返します。
	p.notify(in.OnProgress, domain.StagePrediction, false, false)
	bundle, err := p.predictor.Predict(ctx, PredictionRequest{
		Image:    in.ImageData,
		MimeType: mime,
		Config:   cfg,
	})
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "ランドマークを受信したのだ",
		slog.Int("keypoints", len(bundle.Keypoints)), slog.Int("triangles", bundle.TriangleCount()))
	p.notify(in.OnProgress, domain.StagePrediction, true, false)

	// ステージ4: メッシュ表現の構築。
	p.notify(in.OnProgress, domain.StageObjectGeneration, false, false)
	set, err := mesh.BuildMeshSet(bundle, src, cfg)
	if err != nil {
		return nil, err
	}
	p.notify(in.OnProgress, domain.StageObjectGeneration, true, false)

	// ステージ5: 深度推定。
	p.notify(in.OnProgress, domain.StageDepthEstimation, false, false)
	depth, err := p.depther.EstimateDepth(ctx, DepthRequest{
		Image:    in.ImageData,
		MimeType: mime,
		Config:   cfg,
	})
	if err != nil {
		return nil, err
	}
	p.notify(in.OnProgress, domain.StageDepthEstimation, true, false)

	// レビュー: 表示用画像の実体化と結果の組み立て。
	p.notify(in.OnProgress, domain.StageReview, false, false)
	images, err := materialize.Materialize(ctx, src, depth, bundle, cfg)
	if err != nil {
		return nil, err
	}
	result := &Result{
		Source:     src,
		Bundle:     bundle,
		Depth:      depth,
		Meshes:     set,
		Images:     images,
		Config:     cfg,
		halfWidth:  halfWidth,
		halfHeight: halfHeight,
	}
	p.notify(in.OnProgress, domain.StageReview, true, true)

	slog.InfoContext(ctx, "フェイスメッシュの生成が完了したのだ",
		slog.Int("vertices", set.Textured.Buffers.VertexCount()),
		slog.Int("overlays", images.OverlayCount()))
	return result, nil
}

// notify は進捗コールバックへステージ遷移を通知します。
func (p *Pipeline) notify(cb domain.ProgressFunc, stage int, complete, done bool) {
	if cb == nil {
		return
	}
	cb(domain.NewProgress(stage, domain.StageMessage(stage), complete, done))
}

// normalizeConfig はゼロ値のフィールドを既定値で埋めた設定を返します。
// 呼び出し元が明示した値には手を付けません。
func normalizeConfig(cfg domain.MeshConfig) domain.MeshConfig {
	def := domain.DefaultMeshConfig()
	if cfg.PointSize == 0 {
		cfg.PointSize = def.PointSize
	}
	if cfg.PointColor == "" {
		cfg.PointColor = def.PointColor
	}
	if cfg.RingColor == "" {
		cfg.RingColor = def.RingColor
	}
	if cfg.RingWidth == 0 {
		cfg.RingWidth = def.RingWidth
	}
	if cfg.TriangulationColor == "" {
		cfg.TriangulationColor = def.TriangulationColor
	}
	if cfg.TriangulationWidth == 0 {
		cfg.TriangulationWidth = def.TriangulationWidth
	}
	if cfg.BaseScale == 0 {
		cfg.BaseScale = def.BaseScale
	}
	if cfg.DepthFar == 0 && cfg.DepthNear == 0 {
		cfg.DepthNear = def.DepthNear
		cfg.DepthFar = def.DepthFar
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = def.OutputFormat
	}
	if len(cfg.Overlays) == 0 {
		cfg.Overlays = domain.DefaultOverlayNames()
	}
	return cfg
}
