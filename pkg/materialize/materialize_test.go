package materialize

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/shouni/go-facemesh-kit/pkg/domain"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("テストPNGの生成に失敗したのだ: %v", err)
	}
	return buf.Bytes()
}

func testSource(t *testing.T) *domain.SourceImage {
	t.Helper()
	src, err := domain.LoadSourceImage(testPNG(t, 16, 16))
	if err != nil {
		t.Fatalf("テスト画像の読み込みに失敗したのだ: %v", err)
	}
	return src
}

func TestMaterialize(t *testing.T) {
	ctx := context.Background()
	cfg := domain.DefaultMeshConfig()

	bundle := &domain.VisualizationBundle{
		Overlays: map[string]string{
			domain.OverlayCombined:  "data:image/png;base64,QUFBQQ==",
			domain.OverlayKeypoints: "QkJCQg==", // 生のbase64なのだ
		},
	}

	t.Run("存在するオーバーレイだけが変換されるのだ", func(t *testing.T) {
		images, err := Materialize(ctx, testSource(t), domain.NewFlatDepthResult(16, 16, 128), bundle, cfg)
		if err != nil {
			t.Fatalf("Materialize失敗なのだ: %v", err)
		}

		if images.OverlayCount() != 2 {
			t.Errorf("オーバーレイ数が違うのだ: %d", images.OverlayCount())
		}
		if _, ok := images.Overlays[domain.OverlayTriangulation]; ok {
			t.Error("存在しないオーバーレイを捏造してはいけないのだ")
		}
		if got := images.Overlays[domain.OverlayCombined]; got != bundle.Overlays[domain.OverlayCombined] {
			t.Errorf("data: URL はそのまま使われるべきなのだ: %s", got)
		}
		if got := images.Overlays[domain.OverlayKeypoints]; !strings.HasPrefix(got, "data:image/png;base64,") {
			t.Errorf("生のbase64は包まれるべきなのだ: %s", got)
		}
	})

	t.Run("ベース画像とディスプレイスメントマップが埋め込み形式になるのだ", func(t *testing.T) {
		images, err := Materialize(ctx, testSource(t), domain.NewFlatDepthResult(8, 8, 200), bundle, cfg)
		if err != nil {
			t.Fatalf("Materialize失敗なのだ: %v", err)
		}
		if !strings.HasPrefix(images.BaseImage, "data:image/") {
			t.Errorf("ベース画像が埋め込み形式ではないのだ: %.40s", images.BaseImage)
		}
		if !strings.HasPrefix(images.DisplacementMap, "data:image/png;base64,") {
			t.Errorf("ディスプレイスメントマップが埋め込み形式ではないのだ: %.40s", images.DisplacementMap)
		}
	})

	t.Run("深度反転フラグでマップの輝度が反転するのだ", func(t *testing.T) {
		inverted := cfg
		inverted.InvertDepth = true

		normal, err := Materialize(ctx, nil, domain.NewFlatDepthResult(4, 4, 200), nil, cfg)
		if err != nil {
			t.Fatalf("Materialize失敗なのだ: %v", err)
		}
		flipped, err := Materialize(ctx, nil, domain.NewFlatDepthResult(4, 4, 200), nil, inverted)
		if err != nil {
			t.Fatalf("Materialize失敗なのだ: %v", err)
		}

		_, normalPix, err := DecodeDataURL(normal.DisplacementMap)
		if err != nil {
			t.Fatalf("デコード失敗なのだ: %v", err)
		}
		_, flippedPix, err := DecodeDataURL(flipped.DisplacementMap)
		if err != nil {
			t.Fatalf("デコード失敗なのだ: %v", err)
		}

		normalDepth, err := domain.ParseDepthResult(normalPix)
		if err != nil {
			t.Fatalf("パース失敗なのだ: %v", err)
		}
		flippedDepth, err := domain.ParseDepthResult(flippedPix)
		if err != nil {
			t.Fatalf("パース失敗なのだ: %v", err)
		}

		wantNormal := 200.0 / 255
		wantFlipped := 55.0 / 255
		if got := normalDepth.At(2, 2); got != wantNormal {
			t.Errorf("非反転の深度が期待と違うのだ: %v", got)
		}
		if got := flippedDepth.At(2, 2); got != wantFlipped {
			t.Errorf("反転後の深度が期待と違うのだ: %v", got)
		}
	})
}

func TestDataURL_RoundTrip(t *testing.T) {
	payload := []byte{0x89, 0x50, 0x4e, 0x47}
	url := EncodeDataURL("image/png", payload)

	mime, data, err := DecodeDataURL(url)
	if err != nil {
		t.Fatalf("デコード失敗なのだ: %v", err)
	}
	if mime != "image/png" {
		t.Errorf("MIMEタイプが違うのだ: %s", mime)
	}
	if string(data) != string(payload) {
		t.Errorf("ペイロードが一致しないのだ: %v", data)
	}

	if _, _, err := DecodeDataURL("https://example.com/a.png"); err == nil {
		t.Error("data: URL 以外は弾かれるべきなのだ")
	}
}
