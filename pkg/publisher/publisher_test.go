package publisher

import (
	"archive/zip"
	"bytes"
	"context"
	"image"
	"io"
	"path"
	"strings"
	"testing"

	"github.com/shouni/go-facemesh-kit/pkg/asset"
	"github.com/shouni/go-facemesh-kit/pkg/domain"
	"github.com/shouni/go-facemesh-kit/pkg/materialize"
)

// memWriter は書き込み内容をメモリに保持するテスト用の OutputWriter です。
type memWriter struct {
	paths    []string
	contents map[string][]byte
	mimes    map[string]string
}

func newMemWriter() *memWriter {
	return &memWriter{contents: map[string][]byte{}, mimes: map[string]string{}}
}

func (w *memWriter) Write(ctx context.Context, path string, data io.Reader, contentType string) error {
	b, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	w.paths = append(w.paths, path)
	w.contents[path] = b
	w.mimes[path] = contentType
	return nil
}

func testMeshSet() *domain.MeshSet {
	buffers := domain.MeshBuffers{
		Positions: []float32{-1, -1, 0, 1, -1, 0, 0, 1, 0},
		UVs:       []float32{0, 1, 1, 1, 0.5, 0},
		Colors:    []float32{1, 0, 0, 0, 1, 0, 0, 0, 1},
		Indices:   []uint32{0, 1, 2},
	}
	return &domain.MeshSet{
		Vertices: domain.MeshRepresentation{Name: domain.MeshVertices, Mode: domain.ModePoints, Buffers: buffers},
		Edges:    domain.MeshRepresentation{Name: domain.MeshEdges, Mode: domain.ModeLines, Buffers: buffers},
		Faces:    domain.MeshRepresentation{Name: domain.MeshFaces, Mode: domain.ModeTriangles, Buffers: buffers},
		Textured: domain.MeshRepresentation{Name: domain.MeshTextured, Mode: domain.ModeTriangles, Buffers: buffers},
	}
}

func testImages() domain.MaterializedImages {
	payload := []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a}
	return domain.MaterializedImages{
		BaseImage:       materialize.EncodeDataURL("image/png", payload),
		DisplacementMap: materialize.EncodeDataURL("image/png", payload),
		Overlays: map[string]string{
			domain.OverlayCombined:  materialize.EncodeDataURL("image/png", payload),
			domain.OverlayKeypoints: materialize.EncodeDataURL("image/png", payload),
		},
	}
}

func TestBuildBundle(t *testing.T) {
	cfg := domain.DefaultMeshConfig()

	data, entries, err := BuildBundle(testMeshSet(), testImages(), image.NewNRGBA(image.Rect(0, 0, 4, 4)), cfg)
	if err != nil {
		t.Fatalf("BuildBundle失敗なのだ: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zipとして読めないのだ: %v", err)
	}

	found := map[string]bool{}
	for _, f := range zr.File {
		found[f.Name] = true
	}

	t.Run("UVメッシュと深度マップは必ず含まれるのだ", func(t *testing.T) {
		for _, want := range []string{asset.DefaultMeshName, asset.DefaultDepthName} {
			if !found[want] {
				t.Errorf("%s が見つからないのだ。実際: %v", want, entries)
			}
		}
	})

	t.Run("オーバーレイとメタデータも揃うのだ", func(t *testing.T) {
		wants := []string{
			asset.DefaultOverlayDir + "/" + asset.OverlayFileName(domain.OverlayCombined),
			asset.DefaultOverlayDir + "/" + asset.OverlayFileName(domain.OverlayKeypoints),
			asset.DefaultPreviewName,
			asset.DefaultMetadataName,
		}
		for _, want := range wants {
			if !found[want] {
				t.Errorf("%s が見つからないのだ", want)
			}
		}
	})

	t.Run("オーバーレイのエントリ名は規約に従うのだ", func(t *testing.T) {
		for _, f := range zr.File {
			if !strings.HasPrefix(f.Name, asset.DefaultOverlayDir+"/") {
				continue
			}
			base := path.Base(f.Name)
			if !asset.OverlayFileRegex.MatchString(base) {
				t.Errorf("オーバーレイ名が規約に合わないのだ: %s", base)
			}
		}
	})

	t.Run("GLBマジックナンバーで始まるのだ", func(t *testing.T) {
		rc, err := zr.Open(asset.DefaultMeshName)
		if err != nil {
			t.Fatalf("メッシュエントリが開けないのだ: %v", err)
		}
		defer rc.Close()
		head := make([]byte, 4)
		if _, err := io.ReadFull(rc, head); err != nil {
			t.Fatalf("読み取り失敗なのだ: %v", err)
		}
		if string(head) != "glTF" {
			t.Errorf("GLBヘッダーではないのだ: %q", head)
		}
	})
}

func TestBuildBundle_GLTFFormat(t *testing.T) {
	cfg := domain.DefaultMeshConfig()
	cfg.OutputFormat = "gltf"

	data, _, err := BuildBundle(testMeshSet(), testImages(), nil, cfg)
	if err != nil {
		t.Fatalf("BuildBundle失敗なのだ: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zipとして読めないのだ: %v", err)
	}

	wantName := asset.WithExtension(asset.DefaultMeshName, "gltf")
	rc, err := zr.Open(wantName)
	if err != nil {
		t.Fatalf("%s が見つからないのだ: %v", wantName, err)
	}
	defer rc.Close()

	head := make([]byte, 4)
	if _, err := io.ReadFull(rc, head); err != nil {
		t.Fatalf("読み取り失敗なのだ: %v", err)
	}
	if string(head) == "glTF" {
		t.Error("gltf指定なのにバイナリ（GLB）で書かれているのだ")
	}
}

func TestFacePublisher_Publish(t *testing.T) {
	ctx := context.Background()
	writer := newMemWriter()
	pub := NewFacePublisher(writer)

	result, err := pub.Publish(ctx, testMeshSet(), testImages(), nil, domain.DefaultMeshConfig(), Options{OutputDir: "output"})
	if err != nil {
		t.Fatalf("Publish失敗なのだ: %v", err)
	}

	if !strings.HasSuffix(result.BundlePath, asset.DefaultBundleName) {
		t.Errorf("バンドルパスが期待と違うのだ: %s", result.BundlePath)
	}
	if writer.mimes[result.BundlePath] != "application/zip" {
		t.Errorf("Content-Typeが違うのだ: %s", writer.mimes[result.BundlePath])
	}
	if len(writer.contents[result.BundlePath]) == 0 {
		t.Error("バンドルの中身が空なのだ")
	}
}

func TestFacePublisher_NoWriter(t *testing.T) {
	pub := NewFacePublisher(nil)
	_, err := pub.Publish(context.Background(), testMeshSet(), testImages(), nil, domain.DefaultMeshConfig(), Options{})
	if err == nil {
		t.Fatal("writerなしでは失敗するべきなのだ")
	}
}
