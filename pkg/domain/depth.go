package domain

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
)

// DepthResult は深度推定モデルが返すピクセル単位の深度ラスタです。
// パイプライン1回の実行につき、ちょうど1つだけ生成されます。
type DepthResult struct {
	Raster image.Image
	Width  int
	Height int
}

// ParseDepthResult はサービス応答の画像バイト列（グレースケールPNGなど）を
// DepthResult に変換します。
func ParseDepthResult(data []byte) (*DepthResult, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("深度マップのデコードに失敗しました: %w", err)
	}
	bounds := img.Bounds()
	return &DepthResult{
		Raster: img,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

// NewFlatDepthResult は全面が同一深度のラスタを生成します。モック応答や
// プレビュー用のプレースホルダーとして使います。
func NewFlatDepthResult(width, height int, level uint8) *DepthResult {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = level
	}
	return &DepthResult{Raster: img, Width: width, Height: height}
}

// At は画像座標 (x, y) の深度を 0.0〜1.0 に正規化して返します。
// 範囲外の座標は最近傍の端にクランプされます。
func (d *DepthResult) At(x, y int) float64 {
	if d == nil || d.Raster == nil {
		return 0
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	if x >= d.Width {
		x = d.Width - 1
	}
	if y >= d.Height {
		y = d.Height - 1
	}
	bounds := d.Raster.Bounds()
	g := color.GrayModel.Convert(d.Raster.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray)
	return float64(g.Y) / 255.0
}
