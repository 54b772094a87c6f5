package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-facemesh-kit/internal/config"
	"github.com/shouni/go-facemesh-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// depthCmd は、深度推定だけを単体で実行するためのサブコマンドなのだ。
var depthCmd = &cobra.Command{
	Use:   "depth",
	Short: "深度推定だけを実行してPNGを保存するのだ。",
	Long: `ポートレート画像を深度推定サービスへ送り、受信したグレースケールの
深度マップをPNGとして保存するのだ。ディスプレイスメントの品質を
単体で確認したい場合に便利なのだ。`,
	RunE: depthCommand,
}

// depthCommand は、depth サブコマンドの実行ロジック本体なのだ。
func depthCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if opts.ImageFile == "" {
		return fmt.Errorf("入力画像（--image-file）を指定してほしいのだ")
	}

	cfg := config.LoadConfig()
	cfg.Options = opts

	slog.Info("深度推定単体モードを起動するのだ！",
		"image", opts.ImageFile,
		"output", opts.OutputDir)

	return pipeline.ExecuteDepthOnly(ctx, cfg)
}
