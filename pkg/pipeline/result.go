package pipeline

import (
	"fmt"
	"image"

	"github.com/shouni/go-facemesh-kit/pkg/domain"
	"github.com/shouni/go-facemesh-kit/pkg/publisher"
	"github.com/shouni/go-facemesh-kit/pkg/scene"
)

// Result は1回のパイプライン実行が生み出した成果の集合です。
// メッシュ表現と表示用画像はすべて構築済みで、以降は読み取り専用です。
type Result struct {
	Source *domain.SourceImage
	Bundle *domain.VisualizationBundle
	Depth  *domain.DepthResult
	Meshes *domain.MeshSet
	Images domain.MaterializedImages
	Config domain.MeshConfig

	halfWidth  float64
	halfHeight float64
}

// NewScene は成果の表示に適した寸法の空シーンを返します。
func (r *Result) NewScene(width, height int) *scene.Scene {
	return scene.New(width, height)
}

// AddVerticesTo は頂点クラウド表現をシーンへ追加します。
// マーカー寸法は設定の点サイズをスケール係数で正規化したものです。
func (r *Result) AddVerticesTo(s *scene.Scene) error {
	return s.AddVertices(r.Meshes.Vertices, r.Config.PointSize*r.Config.ScaleFactor)
}

// AddEdgesTo はエッジ表現をシーンへ追加します。
func (r *Result) AddEdgesTo(s *scene.Scene) error {
	return s.AddEdges(r.Meshes.Edges)
}

// AddFacesTo は面表現をシーンへ追加します。
func (r *Result) AddFacesTo(s *scene.Scene) error {
	return s.AddFaces(r.Meshes.Faces)
}

// AddTexturedMeshTo はUVテクスチャ付き表現をシーンへ追加します。
func (r *Result) AddTexturedMeshTo(s *scene.Scene) error {
	return s.AddTexturedMesh(r.Meshes.Textured, r.Source.Raster)
}

// AddBaseImageTo は入力ポートレートをシーン背面の板として追加します。
func (r *Result) AddBaseImageTo(s *scene.Scene) error {
	return s.AddBaseImage(r.Source.Raster, r.halfWidth, r.halfHeight)
}

// RenderPreview はテクスチャ付きメッシュとベース画像を載せたシーンを
// 指定ヨー角でレンダリングします。
func (r *Result) RenderPreview(width, height int, yawDegrees float64) (image.Image, error) {
	s := scene.New(width, height)
	if err := r.AddBaseImageTo(s); err != nil {
		return nil, err
	}
	if err := r.AddTexturedMeshTo(s); err != nil {
		return nil, fmt.Errorf("プレビューシーンの構築に失敗したのだ: %w", err)
	}
	return s.Render(yawDegrees), nil
}

// Download は成果一式をZIPバンドルとして直列化し、バイト列とエントリ名を返します。
func (r *Result) Download(preview image.Image) ([]byte, []string, error) {
	return publisher.BuildBundle(r.Meshes, r.Images, preview, r.Config)
}
