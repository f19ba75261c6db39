package loader

import (
	"HDRView/internal/blob"
	"HDRView/internal/logger"
	"HDRView/internal/renderer"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"
)

// GLTF returns a DecodeFunc for glTF 2.0 models (.gltf or binary .glb). The
// decoded asset is a *renderer.Node whose subtree mirrors the default scene,
// with one *renderer.Model per mesh primitive.
func GLTF(blobs *blob.Store) DecodeFunc {
	return func(path string) (interface{}, error) {
		defer blobs.Revoke(path)

		file, err := blobs.Resolve(path)
		if err != nil {
			return nil, err
		}
		doc, err := gltf.Open(file)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		return BuildGLTFScene(doc, textureName(path))
	}
}

// BuildGLTFScene converts the document's default scene into a scene graph.
func BuildGLTFScene(doc *gltf.Document, name string) (*renderer.Node, error) {
	root := renderer.NewNode(name, nil)
	if len(doc.Scenes) == 0 {
		return root, nil
	}

	sceneIdx := 0
	if doc.Scene != nil {
		sceneIdx = *doc.Scene
	}
	if sceneIdx < 0 || sceneIdx >= len(doc.Scenes) || doc.Scenes[sceneIdx] == nil {
		return nil, fmt.Errorf("default scene %d out of range", sceneIdx)
	}

	materials := make([]*renderer.Material, len(doc.Materials))
	for i, m := range doc.Materials {
		if m == nil {
			materials[i] = renderer.NewMaterial("default")
			continue
		}
		materials[i] = convertMaterial(m)
	}

	b := &gltfBuilder{doc: doc, materials: materials, visited: make(map[int]bool)}
	for _, n := range doc.Scenes[sceneIdx].Nodes {
		child, err := b.node(n)
		if err != nil {
			return nil, err
		}
		root.Add(child)
	}

	logger.Log.Info("glTF scene built",
		zap.String("name", name),
		zap.Int("nodes", len(doc.Nodes)),
		zap.Int("meshes", len(doc.Meshes)),
		zap.Int("materials", len(doc.Materials)))
	return root, nil
}

type gltfBuilder struct {
	doc       *gltf.Document
	materials []*renderer.Material
	visited   map[int]bool
}

func (b *gltfBuilder) node(idx int) (*renderer.Node, error) {
	if idx < 0 || idx >= len(b.doc.Nodes) {
		return nil, fmt.Errorf("node %d out of range", idx)
	}
	if b.visited[idx] {
		return nil, fmt.Errorf("node %d appears twice in the hierarchy", idx)
	}
	b.visited[idx] = true

	src := b.doc.Nodes[idx]
	if src == nil {
		return nil, fmt.Errorf("node %d is empty", idx)
	}
	node := renderer.NewNode(src.Name, nil)
	position, rotation, scale := nodeTransform(src)

	if src.Mesh != nil {
		if *src.Mesh < 0 || *src.Mesh >= len(b.doc.Meshes) {
			return nil, fmt.Errorf("node %d: mesh %d out of range", idx, *src.Mesh)
		}
		mesh := b.doc.Meshes[*src.Mesh]
		for i, p := range mesh.Primitives {
			if p == nil {
				return nil, fmt.Errorf("mesh %q primitive %d is empty", mesh.Name, i)
			}
			model, err := b.primitive(p)
			if err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d: %w", mesh.Name, i, err)
			}
			model.Name = mesh.Name
			model.Rotation = rotation
			model.SetScale(scale[0], scale[1], scale[2])
			model.SetPosition(position[0], position[1], position[2])
			if len(mesh.Primitives) == 1 {
				node.Renderable = model
				continue
			}
			node.Add(renderer.NewNode(fmt.Sprintf("%s.%d", mesh.Name, i), model))
		}
	}

	for _, c := range src.Children {
		child, err := b.node(c)
		if err != nil {
			return nil, err
		}
		node.Add(child)
	}
	return node, nil
}

func (b *gltfBuilder) primitive(p *gltf.Primitive) (*renderer.Model, error) {
	posIdx, ok := p.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("primitive has no POSITION attribute")
	}
	posAccessor, err := b.accessor(posIdx)
	if err != nil {
		return nil, err
	}
	positions, err := modeler.ReadPosition(b.doc, posAccessor, nil)
	if err != nil {
		return nil, err
	}

	var normals [][3]float32
	if idx, ok := p.Attributes[gltf.NORMAL]; ok {
		acc, err := b.accessor(idx)
		if err != nil {
			return nil, err
		}
		if normals, err = modeler.ReadNormal(b.doc, acc, nil); err != nil {
			return nil, err
		}
	}
	var uvs [][2]float32
	if idx, ok := p.Attributes[gltf.TEXCOORD_0]; ok {
		acc, err := b.accessor(idx)
		if err != nil {
			return nil, err
		}
		if uvs, err = modeler.ReadTextureCoord(b.doc, acc, nil); err != nil {
			return nil, err
		}
	}

	var faces []int32
	if p.Indices != nil {
		acc, err := b.accessor(*p.Indices)
		if err != nil {
			return nil, err
		}
		indices, err := modeler.ReadIndices(b.doc, acc, nil)
		if err != nil {
			return nil, err
		}
		faces = make([]int32, len(indices))
		for i, v := range indices {
			if int(v) >= len(positions) {
				return nil, fmt.Errorf("index %d references vertex %d of %d", i, v, len(positions))
			}
			faces[i] = int32(v)
		}
	} else {
		faces = make([]int32, len(positions))
		for i := range faces {
			faces[i] = int32(i)
		}
	}

	model := &renderer.Model{
		Faces:           faces,
		Vertices:        make([]float32, 0, len(positions)*3),
		InterleavedData: make([]float32, 0, len(positions)*8),
	}
	for i, pos := range positions {
		uv := [2]float32{0, 0}
		if i < len(uvs) {
			uv = uvs[i]
		}
		n := [3]float32{0, 1, 0}
		if i < len(normals) {
			n = normals[i]
		}
		model.Vertices = append(model.Vertices, pos[0], pos[1], pos[2])
		model.InterleavedData = append(model.InterleavedData, pos[0], pos[1], pos[2], uv[0], uv[1], n[0], n[1], n[2])
	}

	if p.Material != nil && *p.Material >= 0 && *p.Material < len(b.materials) {
		model.Material = b.materials[*p.Material]
	} else {
		model.Material = renderer.NewMaterial("default")
	}
	return model, nil
}

func (b *gltfBuilder) accessor(idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(b.doc.Accessors) || b.doc.Accessors[idx] == nil {
		return nil, fmt.Errorf("accessor %d out of range", idx)
	}
	return b.doc.Accessors[idx], nil
}

func convertMaterial(m *gltf.Material) *renderer.Material {
	mat := renderer.NewMaterial(m.Name)
	mat.Metallic = 1.0
	mat.Roughness = 1.0
	if pbr := m.PBRMetallicRoughness; pbr != nil {
		if c := pbr.BaseColorFactor; c != nil {
			mat.DiffuseColor = [3]float32{float32(c[0]), float32(c[1]), float32(c[2])}
			mat.Alpha = float32(c[3])
		}
		if pbr.MetallicFactor != nil {
			mat.Metallic = float32(*pbr.MetallicFactor)
		}
		if pbr.RoughnessFactor != nil {
			mat.Roughness = float32(*pbr.RoughnessFactor)
		}
	}
	mat.NeedsUpdate = true
	return mat
}

func nodeTransform(n *gltf.Node) (mgl32.Vec3, mgl32.Quat, mgl32.Vec3) {
	position := mgl32.Vec3{float32(n.Translation[0]), float32(n.Translation[1]), float32(n.Translation[2])}

	rotation := mgl32.QuatIdent()
	if r := n.Rotation; r != [4]float64{} {
		// glTF stores quaternions as x, y, z, w
		rotation = mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}
	}

	scale := mgl32.Vec3{1, 1, 1}
	if s := n.Scale; s != [3]float64{} {
		scale = mgl32.Vec3{float32(s[0]), float32(s[1]), float32(s[2])}
	}
	return position, rotation, scale
}
