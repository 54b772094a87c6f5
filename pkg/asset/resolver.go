package asset

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/shouni/go-utils/urlpath"
)

const (
	// DefaultOverlayDir は変換済みオーバーレイ画像を格納するデフォルトのディレクトリ名です。
	DefaultOverlayDir = "overlays"
	// DefaultMeshName はエクスポートされるテクスチャ付きメッシュのデフォルトファイル名です。
	DefaultMeshName = "face_mesh.glb"
	// DefaultDepthName はエクスポートされる深度マップのデフォルトファイル名です。
	DefaultDepthName = "depth_map.png"
	// DefaultPreviewName はシーンのプレビューレンダリングのデフォルトファイル名です。
	DefaultPreviewName = "preview.png"
	// DefaultMetadataName はバンドルのメタデータJSONのデフォルトファイル名です。
	DefaultMetadataName = "metadata.json"
	// DefaultBundleName はダウンロードバンドル（zip）のデフォルトファイル名です。
	DefaultBundleName = "face_mesh_bundle.zip"
	// DefaultLandmarkJsonName はランドマーク単体実行時の可視化バンドルJSON名です。
	DefaultLandmarkJsonName = "visualization.json"
)

// OverlayFileRegex はオーバーレイ画像 (overlay_combinedImage.png 等) に一致します
var OverlayFileRegex = regexp.MustCompile(`^overlay_[A-Za-z]+\.png$`)

// ResolveOutputPath は、ベースとなるディレクトリパスとファイル名から、
// GCS/ローカルを考慮した最終的な出力パスを生成します。
func ResolveOutputPath(baseDir, fileName string) (string, error) {
	return urlpath.ResolvePath(baseDir, fileName)
}

// OverlayFileName はオーバーレイ名からバンドル内のファイル名を生成します。
// 例: "combinedImage" -> "overlay_combinedImage.png"
func OverlayFileName(overlayName string) string {
	return fmt.Sprintf("overlay_%s.png", overlayName)
}

// WithExtension はパスの拡張子を指定のものへ置き換えます。
// 例: "output/face.glb", "gltf" -> "output/face.gltf"
func WithExtension(path, ext string) string {
	trimmed := strings.TrimSuffix(path, filepath.Ext(path))
	return trimmed + "." + strings.TrimPrefix(ext, ".")
}
