package publisher

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"sort"
	"time"

	"github.com/shouni/go-facemesh-kit/pkg/asset"
	"github.com/shouni/go-facemesh-kit/pkg/domain"
	"github.com/shouni/go-facemesh-kit/pkg/materialize"
)

// BundleEntry はダウンロードバンドル内の1ファイルです。
type BundleEntry struct {
	Name string
	Data []byte
}

// bundleMetadata は metadata.json として書き出されるバンドルの概要です。
type bundleMetadata struct {
	GeneratedAt   string            `json:"generated_at"`
	Config        domain.MeshConfig `json:"config"`
	VertexCount   int               `json:"vertex_count"`
	TriangleCount int               `json:"triangle_count"`
	Entries       []string          `json:"entries"`
}

// BuildBundle はメッシュ・深度マップ・オーバーレイ・プレビュー・メタデータを
// 選別し、1つのzipアーカイブのバイト列に組み立てます。エントリの選別と順序が
// この関数の責務で、各フォーマットのエンコードは外部ライブラリに委ねます。
func BuildBundle(set *domain.MeshSet, images domain.MaterializedImages, preview image.Image, cfg domain.MeshConfig) ([]byte, []string, error) {
	if set == nil {
		return nil, nil, fmt.Errorf("メッシュ集合が未指定です")
	}

	entries := make([]BundleEntry, 0, 4+len(images.Overlays))

	// 1. テクスチャ付きメッシュ (GLB または glTF)
	var textureData []byte
	textureMime := "image/png"
	if images.BaseImage != "" {
		mime, data, err := materialize.DecodeDataURL(images.BaseImage)
		if err != nil {
			return nil, nil, fmt.Errorf("ベース画像の取り出しに失敗しました: %w", err)
		}
		textureData, textureMime = data, mime
	}
	binary := cfg.OutputFormat != "gltf"
	meshName := asset.DefaultMeshName
	if !binary {
		meshName = asset.WithExtension(asset.DefaultMeshName, cfg.OutputFormat)
	}
	var meshBuf bytes.Buffer
	if err := EncodeMesh(&meshBuf, set, textureData, textureMime, binary); err != nil {
		return nil, nil, err
	}
	entries = append(entries, BundleEntry{Name: meshName, Data: meshBuf.Bytes()})

	// 2. 深度マップ
	if images.DisplacementMap != "" {
		_, data, err := materialize.DecodeDataURL(images.DisplacementMap)
		if err != nil {
			return nil, nil, fmt.Errorf("深度マップの取り出しに失敗しました: %w", err)
		}
		entries = append(entries, BundleEntry{Name: asset.DefaultDepthName, Data: data})
	}

	// 3. オーバーレイ（名前順で決定的に並べるのだ）
	overlayNames := make([]string, 0, len(images.Overlays))
	for name := range images.Overlays {
		overlayNames = append(overlayNames, name)
	}
	sort.Strings(overlayNames)
	for _, name := range overlayNames {
		_, data, err := materialize.DecodeDataURL(images.Overlays[name])
		if err != nil {
			return nil, nil, fmt.Errorf("オーバーレイ %s の取り出しに失敗しました: %w", name, err)
		}
		entries = append(entries, BundleEntry{Name: asset.DefaultOverlayDir + "/" + asset.OverlayFileName(name), Data: data})
	}

	// 4. プレビューレンダリング
	if preview != nil {
		var buf bytes.Buffer
		if err := png.Encode(&buf, preview); err != nil {
			return nil, nil, fmt.Errorf("プレビューのエンコードに失敗しました: %w", err)
		}
		entries = append(entries, BundleEntry{Name: asset.DefaultPreviewName, Data: buf.Bytes()})
	}

	// 5. メタデータ
	names := make([]string, 0, len(entries)+1)
	for _, e := range entries {
		names = append(names, e.Name)
	}
	names = append(names, asset.DefaultMetadataName)
	meta := bundleMetadata{
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
		Config:        cfg,
		VertexCount:   set.Textured.Buffers.VertexCount(),
		TriangleCount: set.Textured.Buffers.TriangleCount(),
		Entries:       names,
	}
	metaJSON, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("メタデータの生成に失敗しました: %w", err)
	}
	entries = append(entries, BundleEntry{Name: asset.DefaultMetadataName, Data: metaJSON})

	data, err := writeZip(entries)
	if err != nil {
		return nil, nil, err
	}
	return data, names, nil
}

// writeZip はエントリ群をzipアーカイブのバイト列へ書き出します。
func writeZip(entries []BundleEntry) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, entry := range entries {
		w, err := zw.Create(entry.Name)
		if err != nil {
			return nil, fmt.Errorf("zipエントリ %s の作成に失敗しました: %w", entry.Name, err)
		}
		if _, err := w.Write(entry.Data); err != nil {
			return nil, fmt.Errorf("zipエントリ %s の書き込みに失敗しました: %w", entry.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zipアーカイブの完了に失敗しました: %w", err)
	}
	return buf.Bytes(), nil
}
