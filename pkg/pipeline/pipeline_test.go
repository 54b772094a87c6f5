package pipeline

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/shouni/go-facemesh-kit/pkg/asset"
	"github.com/shouni/go-facemesh-kit/pkg/domain"
	"github.com/shouni/go-facemesh-kit/pkg/materialize"
)

// mockPredictor は固定のバンドルまたはエラーを返す PredictionAdapter です。
type mockPredictor struct {
	bundle *domain.VisualizationBundle
	err    error
	calls  int
}

func (m *mockPredictor) Predict(ctx context.Context, req PredictionRequest) (*domain.VisualizationBundle, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.bundle, nil
}

// mockDepther は固定の深度結果を返す DepthAdapter です。
type mockDepther struct {
	depth *domain.DepthResult
	err   error
	calls int
}

func (m *mockDepther) EstimateDepth(ctx context.Context, req DepthRequest) (*domain.DepthResult, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.depth, nil
}

func testPortraitPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("テスト画像のエンコードに失敗: %v", err)
	}
	return buf.Bytes()
}

func testVisualizationBundle(t *testing.T) *domain.VisualizationBundle {
	t.Helper()
	overlayPNG := materialize.EncodeDataURL("image/png", testPortraitPNG(t, 4, 4))
	overlays := map[string]string{}
	for _, name := range domain.DefaultOverlayNames() {
		overlays[name] = overlayPNG
	}
	return &domain.VisualizationBundle{
		Keypoints: []domain.Keypoint{
			{X: 0, Y: 0, Z: 0},
			{X: 512, Y: 0, Z: 0.1},
			{X: 512, Y: 512, Z: 0.2},
			{X: 0, Y: 512, Z: 0.1},
		},
		Triangulation: []int{0, 1, 2, 0, 2, 3},
		OuterRing:     []int{0, 1, 2, 3},
		Overlays:      overlays,
	}
}

func newTestPipeline(t *testing.T) (*Pipeline, *mockPredictor, *mockDepther) {
	t.Helper()
	pred := &mockPredictor{bundle: testVisualizationBundle(t)}
	dep := &mockDepther{depth: domain.NewFlatDepthResult(512, 512, 128)}
	return NewPipelineWithAdapters(pred, dep), pred, dep
}

func TestPipeline_ProgressProtocol(t *testing.T) {
	p, _, _ := newTestPipeline(t)

	var reports []domain.Progress
	_, err := p.Run(context.Background(), RunInput{
		ImageData:  testPortraitPNG(t, 512, 512),
		OnProgress: func(pr domain.Progress) { reports = append(reports, pr) },
	})
	if err != nil {
		t.Fatalf("実行に失敗: %v", err)
	}

	t.Run("通知は14回で各ステージの開始と完了が対になること", func(t *testing.T) {
		if len(reports) != 14 {
			t.Fatalf("通知回数 want 14, got %d", len(reports))
		}
		for i := 0; i < 12; i += 2 {
			stage := i / 2
			start, complete := reports[i], reports[i+1]
			if start.Stage != stage || start.Complete {
				t.Errorf("reports[%d]: ステージ%dの開始通知ではない: %+v", i, stage, start)
			}
			if complete.Stage != stage || !complete.Complete {
				t.Errorf("reports[%d]: ステージ%dの完了通知ではない: %+v", i+1, stage, complete)
			}
		}
	})

	t.Run("パーセントは単調非減少で最終通知のみ100になること", func(t *testing.T) {
		prev := -1
		for i, r := range reports {
			if r.Percent < prev {
				t.Errorf("reports[%d]: パーセントが後退した: %d -> %d", i, prev, r.Percent)
			}
			prev = r.Percent
			if i < len(reports)-1 && r.Percent > 99 {
				t.Errorf("reports[%d]: 途中通知が99%%を超えた: %d", i, r.Percent)
			}
		}
		last := reports[len(reports)-1]
		if !last.Done || last.Percent != 100 {
			t.Errorf("最終通知が完了扱いではない: %+v", last)
		}
	})

	t.Run("レビュー通知は正規ステージ数に含まれないこと", func(t *testing.T) {
		review := reports[12]
		if review.Stage != domain.StageReview || review.TotalStages != domain.TotalStages {
			t.Errorf("レビュー通知が想定外: %+v", review)
		}
	})
}

func TestPipeline_FailFast(t *testing.T) {
	sentinel := errors.New("model unavailable")
	pred := &mockPredictor{err: sentinel}
	dep := &mockDepther{depth: domain.NewFlatDepthResult(512, 512, 128)}
	p := NewPipelineWithAdapters(pred, dep)

	var reports []domain.Progress
	_, err := p.Run(context.Background(), RunInput{
		ImageData:  testPortraitPNG(t, 512, 512),
		OnProgress: func(pr domain.Progress) { reports = append(reports, pr) },
	})

	t.Run("外部サービスのエラーは加工されず伝播すること", func(t *testing.T) {
		if !errors.Is(err, sentinel) {
			t.Fatalf("エラーが素通しされていない: %v", err)
		}
	})
	t.Run("失敗後のステージは実行されないこと", func(t *testing.T) {
		if dep.calls != 0 {
			t.Errorf("深度推定が呼ばれてしまった: calls=%d", dep.calls)
		}
		last := reports[len(reports)-1]
		if last.Stage != domain.StagePrediction || last.Complete {
			t.Errorf("最後の通知が推論ステージの開始ではない: %+v", last)
		}
	})
}

func TestPipeline_EndToEnd(t *testing.T) {
	p, pred, dep := newTestPipeline(t)

	result, err := p.Run(context.Background(), RunInput{
		ImageData: testPortraitPNG(t, 512, 512),
	})
	if err != nil {
		t.Fatalf("実行に失敗: %v", err)
	}
	if pred.calls != 1 || dep.calls != 1 {
		t.Fatalf("アダプターの呼び出し回数が想定外: predict=%d depth=%d", pred.calls, dep.calls)
	}

	t.Run("設定が既定値で正規化されスケール係数が導出されること", func(t *testing.T) {
		if result.Config.OutputFormat != domain.DefaultOutputFormat {
			t.Errorf("OutputFormat want %q, got %q", domain.DefaultOutputFormat, result.Config.OutputFormat)
		}
		want := domain.DefaultBaseScale / 512.0
		if result.Config.ScaleFactor != want {
			t.Errorf("ScaleFactor want %v, got %v", want, result.Config.ScaleFactor)
		}
	})

	t.Run("4種類のメッシュ表現が揃うこと", func(t *testing.T) {
		if result.Meshes.Vertices.Buffers.VertexCount() != 4 {
			t.Errorf("頂点数 want 4, got %d", result.Meshes.Vertices.Buffers.VertexCount())
		}
		if result.Meshes.Faces.Buffers.TriangleCount() != 2 {
			t.Errorf("三角形数 want 2, got %d", result.Meshes.Faces.Buffers.TriangleCount())
		}
		if result.Meshes.Textured.Name != domain.MeshTextured {
			t.Errorf("テクスチャ表現名 want %q, got %q", domain.MeshTextured, result.Meshes.Textured.Name)
		}
	})

	t.Run("表示用画像が一式実体化されること", func(t *testing.T) {
		if !strings.HasPrefix(result.Images.BaseImage, "data:image/png;base64,") {
			t.Errorf("ベース画像が埋め込み表現ではない: %.40s", result.Images.BaseImage)
		}
		if !strings.HasPrefix(result.Images.DisplacementMap, "data:image/png;base64,") {
			t.Errorf("ディスプレイスメントマップが埋め込み表現ではない: %.40s", result.Images.DisplacementMap)
		}
		if got := result.Images.OverlayCount(); got != len(domain.DefaultOverlayNames()) {
			t.Errorf("オーバーレイ数 want %d, got %d", len(domain.DefaultOverlayNames()), got)
		}
	})

	t.Run("ダウンロードバンドルにメッシュと深度マップが含まれること", func(t *testing.T) {
		data, names, err := result.Download(nil)
		if err != nil {
			t.Fatalf("バンドルの生成に失敗: %v", err)
		}
		zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			t.Fatalf("ZIPとして読めない: %v", err)
		}
		found := map[string]bool{}
		for _, f := range zr.File {
			found[f.Name] = true
		}
		for _, want := range []string{asset.DefaultMeshName, asset.DefaultDepthName} {
			if !found[want] {
				t.Errorf("バンドルに %s が含まれていない (entries=%v)", want, names)
			}
		}
	})
}
