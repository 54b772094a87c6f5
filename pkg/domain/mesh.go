package domain

// PrimitiveMode はメッシュ表現のプリミティブ種別です。glTF のモード値と一致します。
type PrimitiveMode int

const (
	ModePoints    PrimitiveMode = 0
	ModeLines     PrimitiveMode = 1
	ModeTriangles PrimitiveMode = 4
)

// 4種類のメッシュ表現の名前です。
const (
	MeshVertices = "vertices"
	MeshEdges    = "edges"
	MeshFaces    = "faces"
	MeshTextured = "uvTexturedFace"
)

// MeshBuffers はレンダリングやエクスポートにそのまま渡せるフラットな頂点バッファ群です。
// Positions は頂点ごとに x,y,z の3要素、UVs は u,v の2要素、Colors は r,g,b の
// 3要素を詰めたものです。Indices はプリミティブ種別に応じた頂点インデックス列です。
type MeshBuffers struct {
	Positions []float32 `json:"positions"`
	UVs       []float32 `json:"uvs,omitempty"`
	Colors    []float32 `json:"colors,omitempty"`
	Indices   []uint32  `json:"indices,omitempty"`
}

// VertexCount は頂点数を返します。
func (m MeshBuffers) VertexCount() int {
	return len(m.Positions) / 3
}

// TriangleCount は三角形プリミティブとして解釈した場合の三角形数を返します。
func (m MeshBuffers) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty はジオメトリを一切持たない場合に true を返します。
func (m MeshBuffers) IsEmpty() bool {
	return len(m.Positions) == 0
}

// MeshRepresentation は可視化バンドルから導出される1つのメッシュ表現です。
type MeshRepresentation struct {
	Name    string        `json:"name"`
	Mode    PrimitiveMode `json:"mode"`
	Color   string        `json:"color,omitempty"`
	Buffers MeshBuffers   `json:"buffers"`
}

// MeshSet は4種類のメッシュ表現の集合です。各表現は互いに独立で、
// 共有する可変状態を持ちません。
type MeshSet struct {
	Vertices MeshRepresentation `json:"vertices"`
	Edges    MeshRepresentation `json:"edges"`
	Faces    MeshRepresentation `json:"faces"`
	Textured MeshRepresentation `json:"textured"`
}
