package publisher

import (
	"bytes"
	"fmt"
	"io"

	"github.com/shouni/go-facemesh-kit/pkg/domain"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// EncodeMesh は4種類のメッシュ表現を1つのglTFドキュメントへエンコードします。
// binary が真なら GLB（バイナリ）、偽なら glTF（JSON）として書き出します。
// texture にはUVメッシュへ貼るベース画像のバイト列を渡します（省略可）。
func EncodeMesh(w io.Writer, set *domain.MeshSet, texture []byte, textureMime string, binary bool) error {
	doc, err := buildDocument(set, texture, textureMime)
	if err != nil {
		return err
	}

	enc := gltf.NewEncoder(w)
	enc.AsBinary = binary
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("メッシュのエンコードに失敗しました: %w", err)
	}
	return nil
}

// buildDocument は各表現を個別のメッシュ/ノードとして持つglTFドキュメントを構築します。
func buildDocument(set *domain.MeshSet, texture []byte, textureMime string) (*gltf.Document, error) {
	if set == nil {
		return nil, fmt.Errorf("メッシュ集合が未指定です")
	}

	doc := gltf.NewDocument()

	materialIndex := -1
	if len(texture) > 0 {
		imgIdx, err := modeler.WriteImage(doc, "base_image", textureMime, bytes.NewReader(texture))
		if err != nil {
			return nil, fmt.Errorf("テクスチャ画像の書き込みに失敗しました: %w", err)
		}
		doc.Textures = append(doc.Textures, &gltf.Texture{Source: gltf.Index(imgIdx)})
		doc.Materials = append(doc.Materials, &gltf.Material{
			Name: "face_texture",
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorTexture: &gltf.TextureInfo{Index: 0},
				MetallicFactor:   gltf.Float(0),
			},
		})
		materialIndex = 0
	}

	reps := []domain.MeshRepresentation{set.Vertices, set.Edges, set.Faces, set.Textured}
	for _, rep := range reps {
		if rep.Buffers.IsEmpty() {
			continue
		}
		if err := appendPrimitive(doc, rep, materialIndex); err != nil {
			return nil, fmt.Errorf("表現 %s の書き込みに失敗しました: %w", rep.Name, err)
		}
	}
	return doc, nil
}

// appendPrimitive は1つのメッシュ表現をドキュメントへ追加します。
func appendPrimitive(doc *gltf.Document, rep domain.MeshRepresentation, materialIndex int) error {
	positions := make([][3]float32, rep.Buffers.VertexCount())
	for i := range positions {
		positions[i] = [3]float32{
			rep.Buffers.Positions[i*3],
			rep.Buffers.Positions[i*3+1],
			rep.Buffers.Positions[i*3+2],
		}
	}

	attributes := gltf.PrimitiveAttributes{
		gltf.POSITION: modeler.WritePosition(doc, positions),
	}

	if len(rep.Buffers.UVs) == len(positions)*2 {
		uvs := make([][2]float32, len(positions))
		for i := range uvs {
			uvs[i] = [2]float32{rep.Buffers.UVs[i*2], rep.Buffers.UVs[i*2+1]}
		}
		attributes[gltf.TEXCOORD_0] = modeler.WriteTextureCoord(doc, uvs)
	}

	if len(rep.Buffers.Colors) == len(positions)*3 {
		colors := make([][3]uint8, len(positions))
		for i := range colors {
			colors[i] = [3]uint8{
				uint8(rep.Buffers.Colors[i*3] * 255),
				uint8(rep.Buffers.Colors[i*3+1] * 255),
				uint8(rep.Buffers.Colors[i*3+2] * 255),
			}
		}
		attributes[gltf.COLOR_0] = modeler.WriteColor(doc, colors)
	}

	primitive := &gltf.Primitive{
		Attributes: attributes,
		Mode:       primitiveMode(rep.Mode),
	}
	if len(rep.Buffers.Indices) > 0 {
		primitive.Indices = gltf.Index(modeler.WriteIndices(doc, rep.Buffers.Indices))
	}
	if materialIndex >= 0 && rep.Name == domain.MeshTextured {
		primitive.Material = gltf.Index(materialIndex)
	}

	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name:       rep.Name,
		Primitives: []*gltf.Primitive{primitive},
	})
	meshIndex := len(doc.Meshes) - 1
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: rep.Name, Mesh: gltf.Index(meshIndex)})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
	return nil
}

// primitiveMode はドメインのプリミティブ種別をglTFのモードへ対応付けます。
func primitiveMode(mode domain.PrimitiveMode) gltf.PrimitiveMode {
	switch mode {
	case domain.ModePoints:
		return gltf.PrimitivePoints
	case domain.ModeLines:
		return gltf.PrimitiveLines
	default:
		return gltf.PrimitiveTriangles
	}
}
