package domain

import (
	"bytes"
	"fmt"
	"image"

	// デコード対応フォーマットの登録なのだ
	_ "image/jpeg"
	_ "image/png"
)

// SourceImage は処理対象のポートレート画像です。
// 生のバイト列とデコード済みラスタを併せて保持し、読み込み後は不変です。
type SourceImage struct {
	Data   []byte
	Raster image.Image
	Format string
	Width  int
	Height int
}

// LoadSourceImage はバイナリ画像リソースをデコードし、SourceImage を返します。
func LoadSourceImage(data []byte) (*SourceImage, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("画像のデコードに失敗しました: %w", err)
	}
	bounds := img.Bounds()
	return &SourceImage{
		Data:   data,
		Raster: img,
		Format: format,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}
