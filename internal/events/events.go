// Package events provides the closed set of notifications exchanged between the
// asset loader and its consumers, and a small observer registry to deliver them.
package events

// Kind identifies one variant of Event.
type Kind int

const (
	KindReady Kind = iota
	KindUpdateHdr
	KindUpdateGlb
)

func (k Kind) String() string {
	switch k {
	case KindReady:
		return "ready"
	case KindUpdateHdr:
		return "updateHdr"
	case KindUpdateGlb:
		return "updateGlb"
	}
	return "unknown"
}

// Event is implemented only by the variants declared in this package.
type Event interface {
	Kind() Kind
	sealed()
}

// Ready is emitted once every manifest source has finished loading.
type Ready struct{}

// UpdateHdr requests an environment map hot-swap from URL.
type UpdateHdr struct {
	URL string
}

// UpdateGlb requests a model hot-swap from URL.
type UpdateGlb struct {
	URL string
}

func (Ready) Kind() Kind     { return KindReady }
func (UpdateHdr) Kind() Kind { return KindUpdateHdr }
func (UpdateGlb) Kind() Kind { return KindUpdateGlb }

func (Ready) sealed()     {}
func (UpdateHdr) sealed() {}
func (UpdateGlb) sealed() {}
