// Package mesh は可視化バンドルからメッシュ表現を導出するビルダー群です。
// 4種類の表現（頂点のみ・エッジのみ・面のみ・UVテクスチャ付き）は互いに独立で、
// すべて (バンドル, 設定, 元画像) の純関数として決定的に計算されます。
package mesh

import (
	"fmt"

	"github.com/shouni/go-facemesh-kit/pkg/domain"
)

// faceBaseColor はテクスチャを持たない面表現のベースカラーです。
const faceBaseColor = "#d0d0d0"

// position はキーポイントをメッシュ空間の座標へ変換します。
// 原点は画像中心、Yは上向き、Zは設定に応じて手前向きへ反転します。
func position(kp domain.Keypoint, width, height int, cfg domain.MeshConfig) (float32, float32, float32) {
	s := cfg.ScaleFactor
	if s == 0 {
		s = 1
	}
	x := (kp.X - float64(width)/2) * s
	y := -(kp.Y - float64(height)/2) * s
	z := -kp.Z * s
	if cfg.InvertDepth {
		z = -z
	}
	return float32(x), float32(y), float32(z)
}

// positions はバンドル内の全キーポイントをフラットな座標バッファに展開します。
func positions(bundle *domain.VisualizationBundle, width, height int, cfg domain.MeshConfig) []float32 {
	buf := make([]float32, 0, len(bundle.Keypoints)*3)
	for _, kp := range bundle.Keypoints {
		x, y, z := position(kp, width, height, cfg)
		buf = append(buf, x, y, z)
	}
	return buf
}

// uniformColors は全頂点に同一のRGBを割り当てたカラーバッファを返します。
func uniformColors(count int, hexColor string) ([]float32, error) {
	r, g, b, err := parseHexColor(hexColor)
	if err != nil {
		return nil, err
	}
	buf := make([]float32, 0, count*3)
	for i := 0; i < count; i++ {
		buf = append(buf, r, g, b)
	}
	return buf, nil
}

// parseHexColor は "#rrggbb" 形式の色指定を 0.0〜1.0 の RGB に変換します。
func parseHexColor(s string) (float32, float32, float32, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return 0, 0, 0, fmt.Errorf("色指定 %q の解析に失敗しました: %w", s, err)
	}
	return float32(r) / 255, float32(g) / 255, float32(b) / 255, nil
}

// validIndex はインデックスがキーポイント数の範囲内かを返します。
func validIndex(i, count int) bool {
	return i >= 0 && i < count
}
