package mesh

import (
	"fmt"

	"github.com/shouni/go-facemesh-kit/pkg/domain"
)

// BuildVertexCloud はキーポイントを点群として表すメッシュ表現を構築します。
func BuildVertexCloud(bundle *domain.VisualizationBundle, width, height int, cfg domain.MeshConfig) (domain.MeshRepresentation, error) {
	if bundle == nil || len(bundle.Keypoints) == 0 {
		return domain.MeshRepresentation{}, fmt.Errorf("キーポイントが空のため頂点群を構築できません")
	}

	colors, err := uniformColors(len(bundle.Keypoints), cfg.PointColor)
	if err != nil {
		return domain.MeshRepresentation{}, err
	}

	indices := make([]uint32, len(bundle.Keypoints))
	for i := range indices {
		indices[i] = uint32(i)
	}

	return domain.MeshRepresentation{
		Name:  domain.MeshVertices,
		Mode:  domain.ModePoints,
		Color: cfg.PointColor,
		Buffers: domain.MeshBuffers{
			Positions: positions(bundle, width, height, cfg),
			Colors:    colors,
			Indices:   indices,
		},
	}, nil
}
