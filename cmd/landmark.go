package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-facemesh-kit/internal/config"
	"github.com/shouni/go-facemesh-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// landmarkCmd は、ランドマーク推論だけを単体で実行するためのサブコマンドなのだ。
// メッシュ構築や深度推定をスキップして、可視化バンドルのJSONだけを保存するのだ。
var landmarkCmd = &cobra.Command{
	Use:   "landmark",
	Short: "ランドマーク推論だけを実行してJSONを保存するのだ。",
	Long: `ポートレート画像を推論サービスへ送り、キーポイント・三角形分割・輪郭リング・
オーバーレイ画像を含む可視化バンドルをJSONとして保存するのだ。
推論結果を確認してからメッシュ生成に進みたい場合に便利なのだ。`,
	RunE: landmarkCommand,
}

// landmarkCommand は、landmark サブコマンドの実行ロジック本体なのだ。
func landmarkCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if opts.ImageFile == "" {
		return fmt.Errorf("入力画像（--image-file）を指定してほしいのだ")
	}

	cfg := config.LoadConfig()
	cfg.Options = opts

	slog.Info("ランドマーク単体モードを起動するのだ！",
		"image", opts.ImageFile,
		"output", opts.OutputDir)

	return pipeline.ExecuteLandmarkOnly(ctx, cfg)
}
