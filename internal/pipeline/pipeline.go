// Package pipeline は CLI コマンドから呼ばれるアプリケーション層の実行フローです。
// 依存の組み立て、入力画像の読み込み、メッシュ生成エンジンの起動、成果物の保存を
// 一続きにつなぐのだ。
package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"io"
	"log/slog"

	"github.com/shouni/go-facemesh-kit/internal/builder"
	"github.com/shouni/go-facemesh-kit/internal/config"
	"github.com/shouni/go-facemesh-kit/pkg/asset"
	"github.com/shouni/go-facemesh-kit/pkg/domain"
	"github.com/shouni/go-facemesh-kit/pkg/materialize"

	"github.com/shouni/go-http-kit/httpkit"
	"github.com/shouni/go-remote-io/pkg/gcsfactory"
)

// Execute は、ポートレート画像から3Dフェイスメッシュ一式を生成し、
// ZIPバンドルとして保存するメインフローなのだ。
func Execute(ctx context.Context, cfg *config.Config) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	imageData, err := readImage(ctx, appCtx)
	if err != nil {
		return err
	}

	meshRunner, err := builder.BuildMeshRunner(appCtx)
	if err != nil {
		return fmt.Errorf("MeshRunnerの構築に失敗したのだ: %w", err)
	}

	result, err := meshRunner.Run(ctx, imageData)
	if err != nil {
		return fmt.Errorf("メッシュ生成に失敗したのだ: %w", err)
	}

	preview, err := result.RenderPreview(
		appCtx.Options.PreviewWidth, appCtx.Options.PreviewHeight, appCtx.Options.PreviewYaw)
	if err != nil {
		return fmt.Errorf("プレビューのレンダリングに失敗したのだ: %w", err)
	}

	publishRunner, err := builder.BuildPublishRunner(appCtx)
	if err != nil {
		return fmt.Errorf("PublishRunnerの構築に失敗したのだ: %w", err)
	}

	published, err := publishRunner.Run(ctx, result, preview)
	if err != nil {
		return fmt.Errorf("成果物の保存に失敗したのだ: %w", err)
	}

	slog.Info("フェイスメッシュバンドルが完成したのだ！",
		"path", published.BundlePath, "entries", len(published.Entries))
	return nil
}

// ExecuteLandmarkOnly は、ランドマーク推論だけを実行して
// 可視化バンドルをJSONとして保存するのだ。
func ExecuteLandmarkOnly(ctx context.Context, cfg *config.Config) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	imageData, err := readImage(ctx, appCtx)
	if err != nil {
		return err
	}

	landmarkRunner, err := builder.BuildLandmarkRunner(appCtx)
	if err != nil {
		return fmt.Errorf("LandmarkRunnerの構築に失敗したのだ: %w", err)
	}

	bundle, err := landmarkRunner.Run(ctx, imageData)
	if err != nil {
		return fmt.Errorf("ランドマーク推論に失敗したのだ: %w", err)
	}

	raw, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return fmt.Errorf("可視化バンドルの直列化に失敗したのだ: %w", err)
	}

	outputPath, err := asset.ResolveOutputPath(appCtx.Options.OutputDir, asset.DefaultLandmarkJsonName)
	if err != nil {
		return fmt.Errorf("出力パスの解決に失敗したのだ: %w", err)
	}
	if err := appCtx.Writer.Write(ctx, outputPath, bytes.NewReader(raw), "application/json"); err != nil {
		return fmt.Errorf("可視化バンドルの保存に失敗したのだ: %w", err)
	}
	slog.Info("可視化バンドルを保存したのだ", "path", outputPath)

	// オーバーレイ画像も個別のPNGとして展開しておくのだ
	return writeOverlays(ctx, appCtx, bundle)
}

// writeOverlays はバンドル内のオーバーレイをPNGファイルとして保存するのだ。
func writeOverlays(ctx context.Context, appCtx *builder.AppContext, bundle *domain.VisualizationBundle) error {
	requested := appCtx.Options.Overlays
	if len(requested) == 0 {
		requested = domain.DefaultOverlayNames()
	}
	for _, name := range bundle.PresentOverlays(requested) {
		embeddable, err := materialize.EncodeOverlay(bundle.Overlays[name])
		if err != nil {
			return fmt.Errorf("オーバーレイ %s の変換に失敗したのだ: %w", name, err)
		}
		mime, data, err := materialize.DecodeDataURL(embeddable)
		if err != nil {
			return fmt.Errorf("オーバーレイ %s の読み出しに失敗したのだ: %w", name, err)
		}

		overlayPath, err := asset.ResolveOutputPath(appCtx.Options.OutputDir, asset.DefaultOverlayDir+"/"+asset.OverlayFileName(name))
		if err != nil {
			return fmt.Errorf("出力パスの解決に失敗したのだ: %w", err)
		}
		if err := appCtx.Writer.Write(ctx, overlayPath, bytes.NewReader(data), mime); err != nil {
			return fmt.Errorf("オーバーレイ %s の保存に失敗したのだ: %w", name, err)
		}
		slog.InfoContext(ctx, "オーバーレイを保存したのだ", "name", name, "path", overlayPath)
	}
	return nil
}

// ExecuteDepthOnly は、深度推定だけを実行して
// ディスプレイスメントマップをPNGとして保存するのだ。
func ExecuteDepthOnly(ctx context.Context, cfg *config.Config) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	imageData, err := readImage(ctx, appCtx)
	if err != nil {
		return err
	}

	depthRunner, err := builder.BuildDepthRunner(appCtx)
	if err != nil {
		return fmt.Errorf("DepthRunnerの構築に失敗したのだ: %w", err)
	}

	depth, err := depthRunner.Run(ctx, imageData)
	if err != nil {
		return fmt.Errorf("深度推定に失敗したのだ: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, depth.Raster); err != nil {
		return fmt.Errorf("深度マップのエンコードに失敗したのだ: %w", err)
	}

	outputPath, err := asset.ResolveOutputPath(appCtx.Options.OutputDir, asset.DefaultDepthName)
	if err != nil {
		return fmt.Errorf("出力パスの解決に失敗したのだ: %w", err)
	}
	if err := appCtx.Writer.Write(ctx, outputPath, &buf, "image/png"); err != nil {
		return fmt.Errorf("深度マップの保存に失敗したのだ: %w", err)
	}

	slog.Info("深度マップを保存したのだ", "path", outputPath)
	return nil
}

// ExecutePreview は、全ステージを実行してシーンのレンダリング結果だけを保存するのだ。
// バンドルは作らないので、仕上がりの角度や色味を素早く確認したいときに便利なのだ。
func ExecutePreview(ctx context.Context, cfg *config.Config) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	imageData, err := readImage(ctx, appCtx)
	if err != nil {
		return err
	}

	meshRunner, err := builder.BuildMeshRunner(appCtx)
	if err != nil {
		return fmt.Errorf("MeshRunnerの構築に失敗したのだ: %w", err)
	}

	result, err := meshRunner.Run(ctx, imageData)
	if err != nil {
		return fmt.Errorf("メッシュ生成に失敗したのだ: %w", err)
	}

	preview, err := result.RenderPreview(
		appCtx.Options.PreviewWidth, appCtx.Options.PreviewHeight, appCtx.Options.PreviewYaw)
	if err != nil {
		return fmt.Errorf("プレビューのレンダリングに失敗したのだ: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, preview); err != nil {
		return fmt.Errorf("プレビューのエンコードに失敗したのだ: %w", err)
	}

	outputPath, err := asset.ResolveOutputPath(appCtx.Options.OutputDir, asset.DefaultPreviewName)
	if err != nil {
		return fmt.Errorf("出力パスの解決に失敗したのだ: %w", err)
	}
	if err := appCtx.Writer.Write(ctx, outputPath, &buf, "image/png"); err != nil {
		return fmt.Errorf("プレビューの保存に失敗したのだ: %w", err)
	}

	slog.Info("プレビューを保存したのだ", "path", outputPath)
	return nil
}

// setupAppContext は、提供された設定と共有コンポーネントを使用して、アプリケーションコンテキストを初期化して返すのだ。
// 初期化中にエラーが発生した場合は、AppContext のポインタとエラーを返すのだ。
func setupAppContext(ctx context.Context, cfg *config.Config) (*builder.AppContext, error) {
	httpClient := httpkit.New(cfg.Options.HTTPTimeout)

	gcsFactory, err := gcsfactory.NewGCSClientFactory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client factory: %w", err)
	}

	reader, err := gcsFactory.NewInputReader()
	if err != nil {
		return nil, err
	}
	writer, err := gcsFactory.NewOutputWriter()
	if err != nil {
		return nil, err
	}

	// アダプターとパイプラインを一度だけ初期化
	predictor, depther, err := builder.InitializeAdapters(httpClient, cfg)
	if err != nil {
		return nil, err
	}
	facePipeline := builder.InitializeFacePipeline(predictor, depther)

	appCtx := builder.NewAppContext(cfg, httpClient, reader, writer, facePipeline, predictor, depther)
	return &appCtx, nil
}

// readImage は入力ポートレートをローカル/GCSから読み込むのだ。
func readImage(ctx context.Context, appCtx *builder.AppContext) ([]byte, error) {
	rc, err := appCtx.Reader.Open(ctx, appCtx.Options.ImageFile)
	if err != nil {
		return nil, fmt.Errorf("入力画像 '%s' の読み込みに失敗したのだ: %w", appCtx.Options.ImageFile, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("入力画像の読み取りに失敗したのだ: %w", err)
	}
	slog.InfoContext(ctx, "入力画像を取得したのだ", "path", appCtx.Options.ImageFile, "bytes", len(data))
	return data, nil
}
