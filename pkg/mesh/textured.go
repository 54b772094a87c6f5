package mesh

import (
	"fmt"
	"image/color"

	"github.com/shouni/go-facemesh-kit/pkg/domain"
)

// BuildTexturedMesh はUV座標付きのテクスチャメッシュ表現を構築します。
// UVはキーポイントの正規化画像座標、頂点カラーは元画像ラスタの該当ピクセルから
// サンプリングします（テクスチャを使えないビューワ向けのフォールバック）。
func BuildTexturedMesh(bundle *domain.VisualizationBundle, src *domain.SourceImage, cfg domain.MeshConfig) (domain.MeshRepresentation, error) {
	if bundle == nil || len(bundle.Keypoints) == 0 {
		return domain.MeshRepresentation{}, fmt.Errorf("キーポイントが空のためテクスチャメッシュを構築できません")
	}
	if src == nil || src.Raster == nil {
		return domain.MeshRepresentation{}, fmt.Errorf("テクスチャ色のサンプリングには元画像ラスタが必要です")
	}
	count := len(bundle.Keypoints)

	uvs := make([]float32, 0, count*2)
	colors := make([]float32, 0, count*3)
	bounds := src.Raster.Bounds()
	for _, kp := range bundle.Keypoints {
		u := clamp01(kp.X / float64(src.Width))
		v := clamp01(kp.Y / float64(src.Height))
		uvs = append(uvs, float32(u), float32(v))

		px := bounds.Min.X + int(u*float64(src.Width-1))
		py := bounds.Min.Y + int(v*float64(src.Height-1))
		c := color.NRGBAModel.Convert(src.Raster.At(px, py)).(color.NRGBA)
		colors = append(colors, float32(c.R)/255, float32(c.G)/255, float32(c.B)/255)
	}

	indices := make([]uint32, 0, len(bundle.Triangulation))
	tri := bundle.Triangulation
	for i := 0; i+2 < len(tri); i += 3 {
		if !validIndex(tri[i], count) || !validIndex(tri[i+1], count) || !validIndex(tri[i+2], count) {
			continue
		}
		indices = append(indices, uint32(tri[i]), uint32(tri[i+1]), uint32(tri[i+2]))
	}

	return domain.MeshRepresentation{
		Name: domain.MeshTextured,
		Mode: domain.ModeTriangles,
		Buffers: domain.MeshBuffers{
			Positions: positions(bundle, src.Width, src.Height, cfg),
			UVs:       uvs,
			Colors:    colors,
			Indices:   indices,
		},
	}, nil
}

// BuildMeshSet は4種類のメッシュ表現をまとめて構築します。
func BuildMeshSet(bundle *domain.VisualizationBundle, src *domain.SourceImage, cfg domain.MeshConfig) (*domain.MeshSet, error) {
	if src == nil {
		return nil, fmt.Errorf("元画像が未指定です")
	}

	vertices, err := BuildVertexCloud(bundle, src.Width, src.Height, cfg)
	if err != nil {
		return nil, err
	}
	edges, err := BuildEdges(bundle, src.Width, src.Height, cfg)
	if err != nil {
		return nil, err
	}
	faces, err := BuildFaces(bundle, src.Width, src.Height, cfg)
	if err != nil {
		return nil, err
	}
	textured, err := BuildTexturedMesh(bundle, src, cfg)
	if err != nil {
		return nil, err
	}

	return &domain.MeshSet{
		Vertices: vertices,
		Edges:    edges,
		Faces:    faces,
		Textured: textured,
	}, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
