package scene

import "github.com/go-gl/mathgl/mgl64"

// Model marks an entity as drawable. The renderer resolves Mesh by name.
type Model struct {
	Mesh    string
	Visible bool
	Tint    mgl64.Vec4

	matrix mgl64.Mat4
}

// NewModel returns a visible, untinted model of mesh.
func NewModel(mesh string) Model {
	return Model{
		Mesh:    mesh,
		Visible: true,
		Tint:    mgl64.Vec4{1, 1, 1, 1},
		matrix:  mgl64.Ident4(),
	}
}

// Matrix returns the world matrix captured by the last RenderQueueSystem update.
func (m *Model) Matrix() mgl64.Mat4 { return m.matrix }
