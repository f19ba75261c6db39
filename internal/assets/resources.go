// Package assets loads the startup manifest and turns file drops into typed
// hot-swap requests.
package assets

import (
	"HDRView/internal/blob"
	"HDRView/internal/dispatch"
	"HDRView/internal/events"
	"HDRView/internal/loader"
	"HDRView/internal/logger"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

type SourceType string

const (
	GLTFModel   SourceType = "gltfModel"
	HDRTexture  SourceType = "hdrTexture"
	Texture     SourceType = "texture"
	CubeTexture SourceType = "cubeTexture"
)

// Known reports whether t has a decoder in the default registry.
func (t SourceType) Known() bool {
	switch t {
	case GLTFModel, HDRTexture, Texture, CubeTexture:
		return true
	}
	return false
}

// Source is one manifest entry.
type Source struct {
	Name string     `json:"name" toml:"name" yaml:"name"`
	Type SourceType `json:"type" toml:"type" yaml:"type"`
	Path string     `json:"path" toml:"path" yaml:"path"`
}

// Decoders maps each source type to the decoder that loads it.
type Decoders map[SourceType]loader.Decoder

// DefaultDecoders wires the concrete decoders to q. Dropped files are read
// through blobs.
func DefaultDecoders(q *dispatch.Queue, blobs *blob.Store) Decoders {
	return Decoders{
		GLTFModel:   loader.NewAsync("gltf", q, loader.GLTF(blobs)),
		HDRTexture:  loader.NewAsync("hdr", q, loader.HDR(blobs)),
		Texture:     loader.NewAsync("texture", q, loader.Texture(blobs)),
		CubeTexture: loader.NewAsync("cube", q, loader.Cube(blobs)),
	}
}

type Progress struct {
	ToLoad int
	Loaded int
}

// Done reports whether every source has completed.
func (p Progress) Done() bool {
	return p.ToLoad > 0 && p.Loaded == p.ToLoad
}

// Resources owns the decoded asset table. All methods must run on the
// execution context that drains the decoders' dispatch queue.
type Resources struct {
	sources  []Source
	decoders Decoders
	bus      *events.Bus
	blobs    *blob.Store

	items    map[string]interface{}
	progress Progress
	ready    bool
}

// New starts one load per source and returns immediately. Events.Ready is
// emitted once every source has been loaded. Sources with an unknown type are
// skipped, so a manifest containing one never becomes ready.
func New(sources []Source, decoders Decoders, bus *events.Bus, blobs *blob.Store) *Resources {
	r := &Resources{
		sources:  append([]Source(nil), sources...),
		decoders: decoders,
		bus:      bus,
		blobs:    blobs,
		items:    make(map[string]interface{}),
		progress: Progress{ToLoad: len(sources)},
	}

	for _, s := range r.sources {
		dec, ok := decoders[s.Type]
		if !ok {
			logger.Log.Debug("Skipping source with unknown type",
				zap.String("name", s.Name),
				zap.String("type", string(s.Type)))
			continue
		}
		source := s
		dec.Load(source.Path, func(asset interface{}) {
			r.sourceLoaded(source, asset)
		})
	}
	return r
}

func (r *Resources) sourceLoaded(s Source, asset interface{}) {
	r.items[s.Name] = asset
	r.progress.Loaded++

	logger.Log.Debug("Source loaded",
		zap.String("name", s.Name),
		zap.Int("loaded", r.progress.Loaded),
		zap.Int("toLoad", r.progress.ToLoad))

	if !r.ready && r.progress.Loaded == r.progress.ToLoad {
		r.ready = true
		logger.Log.Info("All sources loaded", zap.Int("count", r.progress.ToLoad))
		r.bus.Emit(events.Ready{})
	}
}

func (r *Resources) Progress() Progress {
	return r.progress
}

// Item returns the asset decoded for the source called name.
func (r *Resources) Item(name string) (interface{}, bool) {
	asset, ok := r.items[name]
	return asset, ok
}

// Items returns a copy of the asset table.
func (r *Resources) Items() map[string]interface{} {
	out := make(map[string]interface{}, len(r.items))
	for k, v := range r.items {
		out[k] = v
	}
	return out
}

// DroppedFile is one file of a drop. Path is the file's location on disk;
// when empty, Name is used.
type DroppedFile struct {
	Name string
	Path string
}

type DropPayload struct {
	Files []DroppedFile
}

// DropPayloadFromPaths builds a payload from absolute file paths, as delivered
// by window drop callbacks and file dialogs.
func DropPayloadFromPaths(paths ...string) DropPayload {
	p := DropPayload{Files: make([]DroppedFile, 0, len(paths))}
	for _, path := range paths {
		p.Files = append(p.Files, DroppedFile{Name: filepath.Base(path), Path: path})
	}
	return p
}

// AcceptDroppedFile classifies the first dropped file by extension and emits
// UpdateHdr for .hdr and UpdateGlb for .glb, carrying a fresh blob reference.
// Other files are ignored.
func (r *Resources) AcceptDroppedFile(p DropPayload) {
	if len(p.Files) == 0 {
		logger.Log.Debug("Drop without files")
		return
	}
	file := p.Files[0]
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(file.Name), "."))

	var emit func(url string) events.Event
	switch ext {
	case "hdr":
		emit = func(url string) events.Event { return events.UpdateHdr{URL: url} }
	case "glb":
		emit = func(url string) events.Event { return events.UpdateGlb{URL: url} }
	default:
		logger.Log.Debug("Ignoring dropped file", zap.String("name", file.Name))
		return
	}

	path := file.Path
	if path == "" {
		path = file.Name
	}
	url := r.blobs.CreateObjectURL(path)
	logger.Log.Info("File dropped",
		zap.String("name", file.Name),
		zap.String("type", ext),
		zap.String("url", url))
	r.bus.Emit(emit(url))
}
