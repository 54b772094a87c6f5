package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// デフォルト値の定義なのだ
const (
	DefaultPointSize          = 2.5
	DefaultPointColor         = "#00ff00"
	DefaultRingColor          = "#ff0000"
	DefaultRingWidth          = 2.0
	DefaultTriangulationColor = "#00ffff"
	DefaultTriangulationWidth = 1.0
	DefaultBaseScale          = 2.0
	DefaultDepthNear          = 0.0
	DefaultDepthFar           = 1.0
	DefaultOutputFormat       = "glb"
)

// MeshConfig は1回のパイプライン実行に適用されるチューニング項目を保持する値型です。
// 実行開始時に一度だけ生成され、以降すべてのステージから読み取り専用で参照されます。
type MeshConfig struct {
	PointSize          float64  `json:"point_size"`
	PointColor         string   `json:"point_color"`
	RingColor          string   `json:"ring_color"`
	RingWidth          float64  `json:"ring_width"`
	TriangulationColor string   `json:"triangulation_color"`
	TriangulationWidth float64  `json:"triangulation_width"`
	InvertDepth        bool     `json:"invert_depth"`
	BaseScale          float64  `json:"base_scale"`
	DepthNear          float64  `json:"depth_near"`
	DepthFar           float64  `json:"depth_far"`
	OutputFormat       string   `json:"output_format"`
	Overlays           []string `json:"overlays"`

	// ScaleFactor は画像の幅から一度だけ導出される正規化係数です。
	// WithScaleFromWidth 以外で書き換えてはいけないのだ。
	ScaleFactor float64 `json:"scale_factor"`
}

// DefaultMeshConfig は標準のチューニング値を持つ MeshConfig を返します。
func DefaultMeshConfig() MeshConfig {
	return MeshConfig{
		PointSize:          DefaultPointSize,
		PointColor:         DefaultPointColor,
		RingColor:          DefaultRingColor,
		RingWidth:          DefaultRingWidth,
		TriangulationColor: DefaultTriangulationColor,
		TriangulationWidth: DefaultTriangulationWidth,
		InvertDepth:        false,
		BaseScale:          DefaultBaseScale,
		DepthNear:          DefaultDepthNear,
		DepthFar:           DefaultDepthFar,
		OutputFormat:       DefaultOutputFormat,
		Overlays:           DefaultOverlayNames(),
	}
}

// WithScaleFromWidth は画像幅から ScaleFactor を導出した新しい設定を返します。
// レシーバは値型なので、呼び出し元の設定は変化しません。
func (c MeshConfig) WithScaleFromWidth(width int) MeshConfig {
	if width > 0 {
		c.ScaleFactor = c.BaseScale / float64(width)
	}
	return c
}

// Fingerprint は推論キャッシュのキーとして使える、設定内容のダイジェストを返します。
func (c MeshConfig) Fingerprint() string {
	h := sha256.New()
	fmt.Fprintf(h, "%v|%v|%v|%v|%v|%s", c.InvertDepth, c.DepthNear, c.DepthFar, c.BaseScale, c.ScaleFactor, c.OutputFormat)
	return hex.EncodeToString(h.Sum(nil))[:16]
}
