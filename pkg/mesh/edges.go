package mesh

import (
	"fmt"

	"github.com/shouni/go-facemesh-kit/pkg/domain"
)

// BuildEdges は三角形分割の辺と外周リングをライン集合として表す
// メッシュ表現を構築します。辺は重複を除去し、最初に現れた順を保ちます。
func BuildEdges(bundle *domain.VisualizationBundle, width, height int, cfg domain.MeshConfig) (domain.MeshRepresentation, error) {
	if bundle == nil || len(bundle.Keypoints) == 0 {
		return domain.MeshRepresentation{}, fmt.Errorf("キーポイントが空のためエッジを構築できません")
	}
	count := len(bundle.Keypoints)

	type edge struct{ a, b uint32 }
	seen := make(map[edge]struct{})
	indices := make([]uint32, 0, len(bundle.Triangulation)*2)

	addEdge := func(i, j int) {
		if !validIndex(i, count) || !validIndex(j, count) {
			return
		}
		a, b := uint32(i), uint32(j)
		if a > b {
			a, b = b, a
		}
		key := edge{a, b}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		indices = append(indices, uint32(i), uint32(j))
	}

	// 三角形分割の3辺を登場順に追加します
	tri := bundle.Triangulation
	for i := 0; i+2 < len(tri); i += 3 {
		addEdge(tri[i], tri[i+1])
		addEdge(tri[i+1], tri[i+2])
		addEdge(tri[i+2], tri[i])
	}

	// 外周リングは隣接点どうしを結び、末尾から先頭へ閉じます
	ring := bundle.OuterRing
	for i := 0; i < len(ring); i++ {
		next := (i + 1) % len(ring)
		addEdge(ring[i], ring[next])
	}

	colors, err := uniformColors(count, cfg.TriangulationColor)
	if err != nil {
		return domain.MeshRepresentation{}, err
	}

	return domain.MeshRepresentation{
		Name:  domain.MeshEdges,
		Mode:  domain.ModeLines,
		Color: cfg.TriangulationColor,
		Buffers: domain.MeshBuffers{
			Positions: positions(bundle, width, height, cfg),
			Colors:    colors,
			Indices:   indices,
		},
	}, nil
}
