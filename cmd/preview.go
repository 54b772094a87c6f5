package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-facemesh-kit/internal/config"
	"github.com/shouni/go-facemesh-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// previewCmd は、全ステージを実行してレンダリング結果だけを保存するサブコマンドなのだ。
// ZIPバンドルは作らないので、角度や色味の調整を素早く回したいときに使うのだ。
var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "シーンのプレビュー画像だけを生成して保存するのだ。",
	Long: `ランドマーク推論から深度推定までを実行し、テクスチャ付きメッシュを載せた
シーンを指定のヨー角でレンダリングしてPNGとして保存するのだ。`,
	RunE: previewCommand,
}

// previewCommand は、preview サブコマンドの実行ロジック本体なのだ。
func previewCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if opts.ImageFile == "" {
		return fmt.Errorf("入力画像（--image-file）を指定してほしいのだ")
	}

	cfg := config.LoadConfig()
	cfg.Options = opts

	slog.Info("プレビューモードを起動するのだ！",
		"image", opts.ImageFile,
		"yaw", opts.PreviewYaw,
		"size", fmt.Sprintf("%dx%d", opts.PreviewWidth, opts.PreviewHeight))

	return pipeline.ExecutePreview(ctx, cfg)
}
