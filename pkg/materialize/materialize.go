// Package materialize はラスタリソース群をポータブルな埋め込み表現
// （data: URL）へ変換します。変換後の文字列は追加のネットワークアクセス
// なしにそのまま利用できます。
package materialize

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/shouni/go-facemesh-kit/pkg/domain"

	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
)

// Materialize は元画像・深度マップ・要求されたオーバーレイを埋め込み表現へ
// 変換します。オーバーレイは要求リストとバンドルの両方に存在するものだけが
// 変換され、存在しない名前は黙って読み飛ばされます。オーバーレイごとの変換は
// 並行に実行されますが、結果は名前で引くため完了順に意味はありません。
func Materialize(ctx context.Context, src *domain.SourceImage, depth *domain.DepthResult, bundle *domain.VisualizationBundle, cfg domain.MeshConfig) (domain.MaterializedImages, error) {
	result := domain.MaterializedImages{Overlays: map[string]string{}}

	if src != nil {
		base, err := materializeSource(src)
		if err != nil {
			return result, err
		}
		result.BaseImage = base
	}

	if depth != nil {
		displacement, err := materializeDepth(depth, src, cfg)
		if err != nil {
			return result, err
		}
		result.DisplacementMap = displacement
	}

	if bundle == nil {
		return result, nil
	}

	present := bundle.PresentOverlays(cfg.Overlays)
	converted := make([]string, len(present))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, name := range present {
		i, name := i, name
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			embeddable, err := EncodeOverlay(bundle.Overlays[name])
			if err != nil {
				return fmt.Errorf("オーバーレイ %s の変換に失敗しました: %w", name, err)
			}
			converted[i] = embeddable
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return result, err
	}

	for i, name := range present {
		result.Overlays[name] = converted[i]
	}
	return result, nil
}

// materializeSource は元画像をそのままのエンコーディングで埋め込み表現にします。
func materializeSource(src *domain.SourceImage) (string, error) {
	if len(src.Data) > 0 {
		mime := "image/png"
		if src.Format != "" {
			mime = "image/" + src.Format
		}
		return EncodeDataURL(mime, src.Data), nil
	}
	if src.Raster == nil {
		return "", fmt.Errorf("元画像にデータがありません")
	}
	return encodeRaster(src.Raster)
}

// materializeDepth は深度ラスタをディスプレイスメントマップへ変換します。
// 設定に応じて白黒を反転し、寸法が元画像と異なる場合はリサンプリングします。
func materializeDepth(depth *domain.DepthResult, src *domain.SourceImage, cfg domain.MeshConfig) (string, error) {
	if depth.Raster == nil {
		return "", fmt.Errorf("深度ラスタが空です")
	}

	gray := image.NewGray(depth.Raster.Bounds())
	draw.Draw(gray, gray.Bounds(), depth.Raster, depth.Raster.Bounds().Min, draw.Src)
	if cfg.InvertDepth {
		for i, v := range gray.Pix {
			gray.Pix[i] = 255 - v
		}
	}

	out := image.Image(gray)
	if src != nil && (depth.Width != src.Width || depth.Height != src.Height) {
		scaled := image.NewGray(image.Rect(0, 0, src.Width, src.Height))
		draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), gray, gray.Bounds(), draw.Src, nil)
		out = scaled
	}
	return encodeRaster(out)
}

// EncodeOverlay はバンドル内のオーバーレイ値を埋め込み表現に揃えます。
// すでに data: URL のものはそのまま使い、生のbase64はPNGとして包みます。
func EncodeOverlay(value string) (string, error) {
	if value == "" {
		return "", fmt.Errorf("オーバーレイが空です")
	}
	if strings.HasPrefix(value, "data:") {
		return value, nil
	}
	return "data:image/png;base64," + value, nil
}

// encodeRaster はラスタをPNGにエンコードして埋め込み表現を返します。
func encodeRaster(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("PNGエンコードに失敗しました: %w", err)
	}
	return EncodeDataURL("image/png", buf.Bytes()), nil
}
