// Package scene は aeno エンジン上の軽量なシーングラフを提供します。
// ジオメトリの追加は常に append-only で、既存のノードを置き換えたり
// 削除したりする操作は存在しません。
package scene

import (
	"fmt"
	"image"

	"github.com/shouni/go-facemesh-kit/pkg/domain"

	"github.com/netisu/aeno"
)

const (
	defaultFOV  = 40.0
	defaultNear = 0.1
	defaultFar  = 10.0
)

// Phong シェーダーの照明パラメータです。
var (
	ambientColor = aeno.HexColor("#555555")
	diffuseColor = aeno.HexColor("#cccccc")
)

// node はシーンに追加された1つのジオメトリです。
type node struct {
	name    string
	mesh    *aeno.Mesh
	texture image.Image
}

// Scene はメッシュ表現を集約し、aeno でプレビューをレンダリングします。
type Scene struct {
	width      int
	height     int
	background aeno.Color
	nodes      []node
}

// New は指定サイズのレンダリング対象を持つ空のシーンを返します。
func New(width, height int) *Scene {
	return &Scene{
		width:      width,
		height:     height,
		background: aeno.HexColor("#1a1a2e"),
	}
}

// NodeCount はシーンに追加済みのノード数を返します。
func (s *Scene) NodeCount() int {
	return len(s.nodes)
}

// Names は追加順のノード名一覧を返します。
func (s *Scene) Names() []string {
	names := make([]string, 0, len(s.nodes))
	for _, n := range s.nodes {
		names = append(names, n.name)
	}
	return names
}

// AddVertices は点群表現を小さな十字マーカーの集合としてシーンへ追加します。
func (s *Scene) AddVertices(rep domain.MeshRepresentation, markerSize float64) error {
	if rep.Buffers.IsEmpty() {
		return fmt.Errorf("頂点バッファが空です")
	}
	r := markerSize / 2
	lines := make([]*aeno.Line, 0, rep.Buffers.VertexCount()*3)
	for i := 0; i < rep.Buffers.VertexCount(); i++ {
		p := bufferVector(rep.Buffers.Positions, i)
		lines = append(lines,
			aeno.NewLineForPoints(aeno.V(p.X-r, p.Y, p.Z), aeno.V(p.X+r, p.Y, p.Z)),
			aeno.NewLineForPoints(aeno.V(p.X, p.Y-r, p.Z), aeno.V(p.X, p.Y+r, p.Z)),
			aeno.NewLineForPoints(aeno.V(p.X, p.Y, p.Z-r), aeno.V(p.X, p.Y, p.Z+r)),
		)
	}
	s.nodes = append(s.nodes, node{name: rep.Name, mesh: aeno.NewLineMesh(lines)})
	return nil
}

// AddEdges はエッジ表現をラインメッシュとしてシーンへ追加します。
func (s *Scene) AddEdges(rep domain.MeshRepresentation) error {
	if rep.Buffers.IsEmpty() || len(rep.Buffers.Indices)%2 != 0 {
		return fmt.Errorf("エッジバッファが不正です")
	}
	lines := make([]*aeno.Line, 0, len(rep.Buffers.Indices)/2)
	for i := 0; i+1 < len(rep.Buffers.Indices); i += 2 {
		a := bufferVector(rep.Buffers.Positions, int(rep.Buffers.Indices[i]))
		b := bufferVector(rep.Buffers.Positions, int(rep.Buffers.Indices[i+1]))
		lines = append(lines, aeno.NewLineForPoints(a, b))
	}
	s.nodes = append(s.nodes, node{name: rep.Name, mesh: aeno.NewLineMesh(lines)})
	return nil
}

// AddFaces は面表現を三角形メッシュとしてシーンへ追加します。
func (s *Scene) AddFaces(rep domain.MeshRepresentation) error {
	mesh, err := triangleMesh(rep)
	if err != nil {
		return err
	}
	s.nodes = append(s.nodes, node{name: rep.Name, mesh: mesh})
	return nil
}

// AddTexturedMesh はUVテクスチャ付き表現をシーンへ追加します。
// texture はレンダリング時にサンプリングされる元画像ラスタです。
func (s *Scene) AddTexturedMesh(rep domain.MeshRepresentation, texture image.Image) error {
	mesh, err := triangleMesh(rep)
	if err != nil {
		return err
	}
	s.nodes = append(s.nodes, node{name: rep.Name, mesh: mesh, texture: texture})
	return nil
}

// AddBaseImage は元画像をメッシュ背後の平面としてシーンへ追加します。
// halfWidth / halfHeight はメッシュ空間での平面の半径です。
func (s *Scene) AddBaseImage(img image.Image, halfWidth, halfHeight float64) error {
	if img == nil {
		return fmt.Errorf("背景画像が未指定です")
	}
	const planeZ = -0.05
	corners := [4]aeno.Vector{
		aeno.V(-halfWidth, halfHeight, planeZ),  // 左上
		aeno.V(halfWidth, halfHeight, planeZ),   // 右上
		aeno.V(halfWidth, -halfHeight, planeZ),  // 右下
		aeno.V(-halfWidth, -halfHeight, planeZ), // 左下
	}
	uvs := [4]aeno.Vector{
		aeno.V(0, 1, 0),
		aeno.V(1, 1, 0),
		aeno.V(1, 0, 0),
		aeno.V(0, 0, 0),
	}

	quad := func(a, b, c int) *aeno.Triangle {
		t := aeno.NewTriangleForPoints(corners[a], corners[b], corners[c])
		t.V1.Texture = uvs[a]
		t.V2.Texture = uvs[b]
		t.V3.Texture = uvs[c]
		return t
	}

	mesh := aeno.NewTriangleMesh([]*aeno.Triangle{quad(0, 2, 1), quad(0, 3, 2)})
	s.nodes = append(s.nodes, node{name: "baseImage", mesh: mesh, texture: img})
	return nil
}

// Render はシーン全体を指定ヨー角（度）から1枚のラスタに描画します。
func (s *Scene) Render(yawDegrees float64) image.Image {
	eye := aeno.V(0, 0, 2.2)
	center := aeno.V(0, 0, 0)
	up := aeno.V(0, 1, 0)
	light := aeno.V(0.5, 0.5, 1).Normalize()

	aspect := float64(s.width) / float64(s.height)
	view := aeno.LookAt(eye, center, up).Perspective(defaultFOV, aspect, defaultNear, defaultFar)
	model := aeno.Rotate(up, aeno.Radians(yawDegrees))
	matrix := view.Mul(model)

	shader := aeno.NewPhongShader(matrix, light, eye, ambientColor, diffuseColor)
	ctx := aeno.NewContext(s.width, s.height, shader)
	ctx.ClearColorBufferWith(s.background)

	for _, n := range s.nodes {
		obj := aeno.NewObject(n.mesh)
		if n.texture != nil {
			obj.Texture = aeno.NewImageTexture(n.texture)
		}
		ctx.DrawMesh(n.mesh, obj)
	}
	return ctx.Image()
}

// triangleMesh は三角形インデックスを持つ表現を aeno メッシュへ変換します。
func triangleMesh(rep domain.MeshRepresentation) (*aeno.Mesh, error) {
	if rep.Buffers.IsEmpty() || len(rep.Buffers.Indices)%3 != 0 {
		return nil, fmt.Errorf("三角形バッファが不正です")
	}

	vertex := func(idx uint32) aeno.Vertex {
		i := int(idx)
		v := aeno.Vertex{Position: bufferVector(rep.Buffers.Positions, i)}
		if len(rep.Buffers.UVs) >= (i+1)*2 {
			v.Texture = aeno.V(float64(rep.Buffers.UVs[i*2]), float64(rep.Buffers.UVs[i*2+1]), 0)
		}
		if len(rep.Buffers.Colors) >= (i+1)*3 {
			v.Color = aeno.Color{
				R: float64(rep.Buffers.Colors[i*3]),
				G: float64(rep.Buffers.Colors[i*3+1]),
				B: float64(rep.Buffers.Colors[i*3+2]),
				A: 1,
			}
		}
		return v
	}

	triangles := make([]*aeno.Triangle, 0, len(rep.Buffers.Indices)/3)
	for i := 0; i+2 < len(rep.Buffers.Indices); i += 3 {
		t := aeno.NewTriangle(
			vertex(rep.Buffers.Indices[i]),
			vertex(rep.Buffers.Indices[i+1]),
			vertex(rep.Buffers.Indices[i+2]),
		)
		triangles = append(triangles, t)
	}

	mesh := aeno.NewTriangleMesh(triangles)
	mesh.SmoothNormals()
	return mesh, nil
}

// bufferVector はフラットな座標バッファから i 番目の頂点座標を取り出します。
func bufferVector(positions []float32, i int) aeno.Vector {
	return aeno.V(float64(positions[i*3]), float64(positions[i*3+1]), float64(positions[i*3+2]))
}
