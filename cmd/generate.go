package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-facemesh-kit/internal/config"
	"github.com/shouni/go-facemesh-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// generateCmd は、ポートレート画像から3Dフェイスメッシュ一式の生成を実行するのだ。
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "ポートレートから3Dフェイスメッシュ一式を生成しますなのだ。",
	Long: `入力のポートレート画像を解析し、ランドマーク推論・メッシュ構築・深度推定を
順番に実行するのだ。出力はメッシュ（glb）、深度マップ、オーバーレイ画像、
プレビューをまとめたZIPバンドルになるのだよ。`,
	RunE: generateCommand,
}

func generateCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// 1. 必須チェック
	if opts.ImageFile == "" {
		return fmt.Errorf("入力画像（--image-file）を指定してほしいのだ")
	}

	// 2. 環境変数等から基本設定をロードするのだ
	cfg := config.LoadConfig()
	cfg.Options = opts

	slog.Info("フェイスメッシュ生成パイプラインを起動するのだ！",
		"image", opts.ImageFile,
		"output", opts.OutputDir,
		"format", opts.OutputFormat)

	// 3. 更新した config を考慮しつつパイプラインを実行するのだ
	err := pipeline.Execute(ctx, cfg)
	if err != nil {
		return fmt.Errorf("パイプライン実行中にエラーが発生したのだ: %w", err)
	}

	slog.Info("すべての生成工程が完了したのだ！")
	return nil
}
