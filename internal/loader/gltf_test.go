package loader

import (
	"HDRView/internal/renderer"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangleDocument() *gltf.Document {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2})

	metallic := 0.25
	doc.Materials = []*gltf.Material{{
		Name: "red",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{1, 0, 0, 1},
			MetallicFactor:  &metallic,
		},
	}}
	doc.Meshes = []*gltf.Mesh{{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Attributes: map[string]int{gltf.POSITION: pos},
			Indices:    gltf.Index(idx),
			Material:   gltf.Index(0),
		}},
	}}
	doc.Nodes = []*gltf.Node{
		{Name: "root", Children: []int{1}},
		{Name: "child", Mesh: gltf.Index(0), Translation: [3]float64{0, 2, 0}},
	}
	doc.Scenes[0].Nodes = []int{0}
	return doc
}

func TestBuildGLTFScene(t *testing.T) {
	root, err := BuildGLTFScene(triangleDocument(), "model")
	require.NoError(t, err)

	assert.Equal(t, "model", root.Name)
	require.Len(t, root.Children, 1)
	require.Len(t, root.Children[0].Children, 1)
	child := root.Children[0].Children[0]
	assert.Equal(t, "child", child.Name)

	model, ok := child.Renderable.(*renderer.Model)
	require.True(t, ok)
	assert.Equal(t, []int32{0, 1, 2}, model.Faces)
	assert.Len(t, model.InterleavedData, 3*8)
	assert.Equal(t, float32(2), model.Position.Y())
	assert.Equal(t, "red", model.Material.Name)
	assert.Equal(t, [3]float32{1, 0, 0}, model.Material.DiffuseColor)
	assert.Equal(t, float32(0.25), model.Material.Metallic)
	assert.Equal(t, float32(1), model.Material.Roughness)
}

func TestBuildGLTFSceneRejectsCycles(t *testing.T) {
	doc := triangleDocument()
	doc.Nodes[1].Children = []int{0}

	_, err := BuildGLTFScene(doc, "model")
	assert.Error(t, err)
}

func TestBuildGLTFSceneEmpty(t *testing.T) {
	doc := &gltf.Document{}

	root, err := BuildGLTFScene(doc, "empty")
	require.NoError(t, err)
	assert.Empty(t, root.Children)
}

func TestBuildGLTFSceneRejectsMissingMesh(t *testing.T) {
	doc := triangleDocument()
	doc.Nodes[1].Mesh = gltf.Index(5)

	_, err := BuildGLTFScene(doc, "model")
	assert.ErrorContains(t, err, "mesh 5 out of range")
}

func TestBuildGLTFSceneRejectsMissingAccessors(t *testing.T) {
	doc := triangleDocument()
	doc.Meshes[0].Primitives[0].Attributes[gltf.NORMAL] = 42
	_, err := BuildGLTFScene(doc, "model")
	assert.ErrorContains(t, err, "accessor 42 out of range")

	doc = triangleDocument()
	doc.Meshes[0].Primitives[0].Indices = gltf.Index(-1)
	_, err = BuildGLTFScene(doc, "model")
	assert.ErrorContains(t, err, "accessor -1 out of range")
}

func TestBuildGLTFSceneRejectsMissingNodes(t *testing.T) {
	doc := triangleDocument()
	doc.Scenes[0].Nodes = []int{7}
	_, err := BuildGLTFScene(doc, "model")
	assert.Error(t, err)

	doc = triangleDocument()
	doc.Scene = gltf.Index(3)
	_, err = BuildGLTFScene(doc, "model")
	assert.Error(t, err)
}

func TestBuildGLTFSceneRejectsIndicesPastVertices(t *testing.T) {
	doc := triangleDocument()
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 9})
	doc.Meshes[0].Primitives[0].Indices = gltf.Index(idx)

	_, err := BuildGLTFScene(doc, "model")
	assert.ErrorContains(t, err, "references vertex 9")
}

func TestBuildGLTFSceneIgnoresMissingMaterial(t *testing.T) {
	doc := triangleDocument()
	doc.Meshes[0].Primitives[0].Material = gltf.Index(3)

	root, err := BuildGLTFScene(doc, "model")
	require.NoError(t, err)
	model := root.Children[0].Children[0].Renderable.(*renderer.Model)
	assert.Equal(t, "default", model.Material.Name)
}

func TestBuildGLTFSceneAppliesNodeScale(t *testing.T) {
	doc := triangleDocument()
	doc.Nodes[1].Scale = [3]float64{2, 2, 2}

	root, err := BuildGLTFScene(doc, "model")
	require.NoError(t, err)
	model := root.Children[0].Children[0].Renderable.(*renderer.Model)
	assert.Equal(t, float32(2), model.ModelMatrix.At(0, 0))
	assert.Equal(t, float32(2), model.ModelMatrix.At(1, 3))
}
