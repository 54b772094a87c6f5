package config

import (
	"time"

	"github.com/shouni/go-facemesh-kit/pkg/domain"

	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultHTTPTimeout    = 30 * time.Second
	DefaultLocalOutputDir = "output" // 成果物バンドルのデフォルト保存先なのだ
	DefaultPreviewWidth   = 960
	DefaultPreviewHeight  = 720
	DefaultPreviewYaw     = 20.0 // プレビューのヨー角（度）
)

// Config はアプリケーション全体の環境設定（推論サービスの接続先やAPIキー）を保持する構造体なのだ。
type Config struct {
	LandmarkEndpoint string
	DepthEndpoint    string
	APIKey           string

	Options GenerateOptions
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	return &Config{
		LandmarkEndpoint: envutil.GetEnv("FACEMESH_API_ENDPOINT", ""),
		DepthEndpoint:    envutil.GetEnv("DEPTH_API_ENDPOINT", ""),
		APIKey:           envutil.GetEnv("FACEMESH_API_KEY", ""),
	}
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	// ソース入力関連
	ImageFile string // --image-file: ローカルパス or gs://...

	// 生成結果の出力設定
	OutputDir  string // --output-dir
	BundleName string // --bundle-name

	// メッシュ生成のチューニング
	Overlays           []string // --overlays
	InvertDepth        bool     // --invert-depth
	DepthNear          float64  // --depth-near
	DepthFar           float64  // --depth-far
	PointSize          float64  // --point-size
	PointColor         string   // --point-color
	RingColor          string   // --ring-color
	TriangulationColor string   // --triangulation-color
	BaseScale          float64  // --base-scale
	OutputFormat       string   // --format

	// プレビュー設定
	PreviewWidth  int     // --preview-width
	PreviewHeight int     // --preview-height
	PreviewYaw    float64 // --preview-yaw

	// 実行制御
	HTTPTimeout time.Duration // --http-timeout
}

// MeshConfig は CLI オプションをパイプライン設定へ写し取ります。
// 未指定（ゼロ値）のフィールドはパイプライン側で既定値に正規化されます。
func (o GenerateOptions) MeshConfig() domain.MeshConfig {
	return domain.MeshConfig{
		PointSize:          o.PointSize,
		PointColor:         o.PointColor,
		RingColor:          o.RingColor,
		TriangulationColor: o.TriangulationColor,
		InvertDepth:        o.InvertDepth,
		BaseScale:          o.BaseScale,
		DepthNear:          o.DepthNear,
		DepthFar:           o.DepthFar,
		OutputFormat:       o.OutputFormat,
		Overlays:           o.Overlays,
	}
}
