package mesh

import (
	"fmt"

	"github.com/shouni/go-facemesh-kit/pkg/domain"
)

// BuildFaces は三角形分割を単色の面集合として表すメッシュ表現を構築します。
// 範囲外のインデックスを含む三角形は黙って読み飛ばします。
func BuildFaces(bundle *domain.VisualizationBundle, width, height int, cfg domain.MeshConfig) (domain.MeshRepresentation, error) {
	if bundle == nil || len(bundle.Keypoints) == 0 {
		return domain.MeshRepresentation{}, fmt.Errorf("キーポイントが空のため面を構築できません")
	}
	count := len(bundle.Keypoints)

	indices := make([]uint32, 0, len(bundle.Triangulation))
	tri := bundle.Triangulation
	for i := 0; i+2 < len(tri); i += 3 {
		if !validIndex(tri[i], count) || !validIndex(tri[i+1], count) || !validIndex(tri[i+2], count) {
			continue
		}
		indices = append(indices, uint32(tri[i]), uint32(tri[i+1]), uint32(tri[i+2]))
	}

	colors, err := uniformColors(count, faceBaseColor)
	if err != nil {
		return domain.MeshRepresentation{}, err
	}

	return domain.MeshRepresentation{
		Name:  domain.MeshFaces,
		Mode:  domain.ModeTriangles,
		Color: faceBaseColor,
		Buffers: domain.MeshBuffers{
			Positions: positions(bundle, width, height, cfg),
			Colors:    colors,
			Indices:   indices,
		},
	}, nil
}
