package cmd

import (
	"fmt"
	"os"

	"github.com/shouni/go-facemesh-kit/internal/config"
	"github.com/shouni/go-facemesh-kit/pkg/domain"

	clibase "github.com/shouni/go-cli-base"
	"github.com/spf13/cobra"
)

// opts は addAppFlags で各フラグに紐付けられる実行時パラメータなのだ。
var opts config.GenerateOptions

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	// --- ソース入力関連 ---
	rootCmd.PersistentFlags().StringVarP(&opts.ImageFile, "image-file", "f", "", "入力ポートレートのパス（ローカル or gs://...）なのだ。")

	// --- 生成結果の出力設定 ---
	rootCmd.PersistentFlags().StringVarP(&opts.OutputDir, "output-dir", "o", config.DefaultLocalOutputDir, "成果物の保存先ディレクトリ（ローカル or gs://...）なのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.BundleName, "bundle-name", "", "ZIPバンドルのファイル名なのだ。省略時は既定名を使うのだ。")

	// --- メッシュ生成のチューニング ---
	rootCmd.PersistentFlags().StringSliceVar(&opts.Overlays, "overlays", nil, "取得するオーバーレイ名のリストなのだ。省略時は全種類なのだ。")
	rootCmd.PersistentFlags().BoolVar(&opts.InvertDepth, "invert-depth", false, "深度の白黒を反転するのだ。")
	rootCmd.PersistentFlags().Float64Var(&opts.DepthNear, "depth-near", domain.DefaultDepthNear, "深度の手前側クリップ値なのだ。")
	rootCmd.PersistentFlags().Float64Var(&opts.DepthFar, "depth-far", domain.DefaultDepthFar, "深度の奥側クリップ値なのだ。")
	rootCmd.PersistentFlags().Float64Var(&opts.PointSize, "point-size", domain.DefaultPointSize, "頂点マーカーの大きさなのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.PointColor, "point-color", domain.DefaultPointColor, "頂点マーカーの色（#rrggbb）なのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.RingColor, "ring-color", domain.DefaultRingColor, "輪郭リングの色（#rrggbb）なのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.TriangulationColor, "triangulation-color", domain.DefaultTriangulationColor, "三角形分割の色（#rrggbb）なのだ。")
	rootCmd.PersistentFlags().Float64Var(&opts.BaseScale, "base-scale", domain.DefaultBaseScale, "シーン座標系での画像の基準スケールなのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.OutputFormat, "format", domain.DefaultOutputFormat, "メッシュの出力形式なのだ。")

	// --- プレビュー設定 ---
	rootCmd.PersistentFlags().IntVar(&opts.PreviewWidth, "preview-width", config.DefaultPreviewWidth, "プレビュー画像の幅なのだ。")
	rootCmd.PersistentFlags().IntVar(&opts.PreviewHeight, "preview-height", config.DefaultPreviewHeight, "プレビュー画像の高さなのだ。")
	rootCmd.PersistentFlags().Float64Var(&opts.PreviewYaw, "preview-yaw", config.DefaultPreviewYaw, "プレビューのヨー角（度）なのだ。")

	// --- 実行制御 ---
	rootCmd.PersistentFlags().DurationVar(&opts.HTTPTimeout, "http-timeout", config.DefaultHTTPTimeout, "推論サービスへのリクエストタイムアウトなのだ。")
}

// preRunAppE は、コマンド実行前に環境変数などの必須チェックを行うのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	// 外部の推論サービスを利用するため、接続先のチェックは欠かせないのだ！
	if os.Getenv("FACEMESH_API_ENDPOINT") == "" {
		return fmt.Errorf("エラー: 環境変数 FACEMESH_API_ENDPOINT が設定されていません。ランドマーク推論サービスの利用には必須なのだ")
	}
	if os.Getenv("DEPTH_API_ENDPOINT") == "" {
		return fmt.Errorf("エラー: 環境変数 DEPTH_API_ENDPOINT が設定されていません。深度推定サービスの利用には必須なのだ")
	}

	return nil
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	clibase.Execute(
		"ap-facemesh-go",
		addAppFlags,
		preRunAppE,
		generateCmd,
		landmarkCmd,
		depthCmd,
		previewCmd,
	)
}
