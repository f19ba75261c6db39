package renderer

import (
	"HDRView/internal/logger"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// DefaultMaterial provides a basic material to fall back on
var DefaultMaterial = &Material{
	Name:            "default",
	DiffuseColor:    [3]float32{1.0, 1.0, 1.0}, // White color
	SpecularColor:   [3]float32{1.0, 1.0, 1.0},
	Shininess:       32.0,
	Metallic:        0.0, // Non-metallic by default
	Roughness:       0.5, // Medium roughness
	Exposure:        1.0, // Standard exposure
	Alpha:           1.0, // Fully opaque by default
	EnvMapIntensity: 1.0,
}

// MaterialGroup represents a submesh with a single material
type MaterialGroup struct {
	Material   *Material // Material for this group
	IndexStart int32     // Starting index in the index buffer
	IndexCount int32     // Number of indices for this group
}

// Model is a mesh shaded with a physically based material. It reacts to the
// scene environment map.
type Model struct {
	ModelMatrix mgl32.Mat4 // Transformation matrix
	Position    mgl32.Vec3 // Position in world space
	Scale       mgl32.Vec3 // Scale factors
	Rotation    mgl32.Quat // Rotation quaternion
	Material    *Material  // Material properties pointer
	IsDirty     bool       // Needs recalculation flag

	Name            string
	SourcePath      string    // Original file or reference the mesh was decoded from
	Vertices        []float32 // Vertex position data
	Normals         []float32
	TextureCoords   []float32
	Faces           []int32
	InterleavedData []float32 // [x,y,z,u,v,nx,ny,nz] per vertex
	MaterialGroups  []MaterialGroup
}

type Material struct {
	DiffuseColor  [3]float32 // Base color for lighting
	SpecularColor [3]float32 // Specular highlight color
	Shininess     float32    // Specular exponent
	Metallic      float32    // 0.0 = dielectric, 1.0 = metallic
	Roughness     float32    // 0.0 = mirror, 1.0 = completely rough
	Exposure      float32    // HDR exposure control
	Alpha         float32    // Transparency (0.0 = transparent, 1.0 = opaque)

	EnvMap          *Texture // Environment used for reflections and image based lighting
	EnvMapIntensity float32
	NeedsUpdate     bool // Material must be re-uploaded before the next draw

	Name        string
	TexturePath string
}

// SetEnvMap implements EnvMapped.
func (m *Model) SetEnvMap(tex *Texture, intensity float32) {
	m.ensureMaterial()
	m.Material.EnvMap = tex
	m.Material.EnvMapIntensity = intensity
	m.Material.NeedsUpdate = true
	for i := range m.MaterialGroups {
		g := m.MaterialGroups[i].Material
		if g == nil || g == m.Material {
			continue
		}
		g.EnvMap = tex
		g.EnvMapIntensity = intensity
		g.NeedsUpdate = true
	}
}

// SetPosition sets the position of the model
func (m *Model) SetPosition(x, y, z float32) {
	m.Position = mgl32.Vec3{x, y, z}
	m.updateModelMatrix()
	m.IsDirty = true
}

func (m *Model) SetScale(x, y, z float32) {
	m.Scale = mgl32.Vec3{x, y, z}
	m.updateModelMatrix()
	m.IsDirty = true
}

func (m *Model) updateModelMatrix() {
	// T * R * S: scale first, then rotate, then translate
	rotation := m.Rotation
	if rotation == (mgl32.Quat{}) {
		rotation = mgl32.QuatIdent()
	}
	scaleMatrix := mgl32.Scale3D(m.Scale[0], m.Scale[1], m.Scale[2])
	translationMatrix := mgl32.Translate3D(m.Position[0], m.Position[1], m.Position[2])
	m.ModelMatrix = translationMatrix.Mul4(rotation.Mat4()).Mul4(scaleMatrix)
}

// ensureMaterial gives the model its own material instance
func (m *Model) ensureMaterial() {
	if m.Material == nil {
		logger.Log.Debug("Creating new default material", zap.String("model", m.Name))
		m.Material = NewMaterial("default")
	} else if m.Material == DefaultMaterial {
		// Never mutate the shared default
		copied := *DefaultMaterial
		m.Material = &copied
	}
}

// NewMaterial returns a material initialised with DefaultMaterial's values.
func NewMaterial(name string) *Material {
	mat := *DefaultMaterial
	mat.Name = name
	return &mat
}

func (m *Model) SetDiffuseColor(r, g, b float32) {
	m.ensureMaterial()
	m.Material.DiffuseColor = [3]float32{r, g, b}
	m.Material.NeedsUpdate = true
}

func (m *Model) SetMaterialPBR(metallic, roughness float32) {
	m.ensureMaterial()
	m.Material.Metallic = metallic
	m.Material.Roughness = roughness
	m.Material.NeedsUpdate = true
}

func (m *Model) SetPlasticMaterial(r, g, b, roughness float32) {
	m.SetDiffuseColor(r, g, b)
	m.SetMaterialPBR(0.0, roughness)
}

func (m *Model) SetMatte(r, g, b float32) {
	m.SetPlasticMaterial(r, g, b, 0.9)
}

func CreateModel(vertices []mgl32.Vec3, indices []int32) *Model {
	interleavedData := make([]float32, 0, len(vertices)*8)

	for _, v := range vertices {
		interleavedData = append(interleavedData, v.X(), v.Y(), v.Z())
		// placeholder UV and up-facing normal
		interleavedData = append(interleavedData, 0.0, 0.0)
		interleavedData = append(interleavedData, 0.0, 1.0, 0.0)
	}

	m := &Model{
		Position:        mgl32.Vec3{0, 0, 0},
		Rotation:        mgl32.QuatIdent(),
		Scale:           mgl32.Vec3{1.0, 1.0, 1.0},
		Vertices:        flattenVertices(vertices),
		Faces:           indices,
		InterleavedData: interleavedData,
	}
	m.updateModelMatrix()
	return m
}

func flattenVertices(vertices []mgl32.Vec3) []float32 {
	flat := make([]float32, 0, len(vertices)*3)
	for _, v := range vertices {
		flat = append(flat, v.X(), v.Y(), v.Z())
	}
	return flat
}
