package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
)

// EnvMapped is implemented by renderables whose shading reacts to an
// environment map.
type EnvMapped interface {
	SetEnvMap(tex *Texture, intensity float32)
}

// Helper is an unlit debug renderable (grid, axes). It ignores the environment.
type Helper struct {
	Name  string
	Color mgl32.Vec3
	Lines []mgl32.Vec3 // segment endpoints, pairwise
}

// Node is one element of the scene graph. Renderable is nil for pure groups.
type Node struct {
	Name       string
	Renderable interface{}
	Parent     *Node
	Children   []*Node
}

func NewNode(name string, renderable interface{}) *Node {
	return &Node{Name: name, Renderable: renderable}
}

// Add attaches child to n, detaching it from any previous parent.
func (n *Node) Add(child *Node) {
	if child.Parent != nil {
		child.Parent.Remove(child)
	}
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Remove detaches child from n. It reports whether child was found.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			return true
		}
	}
	return false
}

// Traverse visits n and every descendant exactly once, parents before children.
func (n *Node) Traverse(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Traverse(fn)
	}
}

// Background is either a SolidBackground or a TextureBackground.
type Background interface {
	isBackground()
}

type SolidBackground struct {
	Color mgl32.Vec3
}

type TextureBackground struct {
	Texture *Texture
}

func (SolidBackground) isBackground()   {}
func (TextureBackground) isBackground() {}

// Scene is the root of a scene graph plus the scene-wide background and
// environment fields.
type Scene struct {
	Root        *Node
	Background  Background
	Environment *Texture
}

func NewScene() *Scene {
	return &Scene{
		Root:       NewNode("scene", nil),
		Background: SolidBackground{},
	}
}

// Add attaches node to the scene root.
func (s *Scene) Add(node *Node) {
	s.Root.Add(node)
}

// Traverse visits every node in the scene exactly once.
func (s *Scene) Traverse(fn func(*Node)) {
	s.Root.Traverse(fn)
}

// ClearColor returns the colour a renderer should clear to for the current
// background. Texture backgrounds use the texture's average colour.
func (s *Scene) ClearColor() mgl32.Vec3 {
	switch bg := s.Background.(type) {
	case SolidBackground:
		return bg.Color
	case TextureBackground:
		if bg.Texture != nil {
			return bg.Texture.AverageColor()
		}
	}
	return mgl32.Vec3{}
}
