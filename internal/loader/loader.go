package loader

import (
	"HDRView/internal/dispatch"
	"HDRView/internal/logger"
	"fmt"

	"go.uber.org/zap"
)

// Decoder loads one asset type. onDone runs on the owning execution context
// once the asset is decoded. There is no failure callback: a load that fails
// is logged and onDone is never called.
type Decoder interface {
	Load(path string, onDone func(asset interface{}))
}

// DecodeFunc synchronously decodes the asset at path. Decoders release blob
// references they were given once decoding finishes.
type DecodeFunc func(path string) (interface{}, error)

// Async runs a DecodeFunc on its own goroutine and posts the completion to a
// dispatch queue.
type Async struct {
	name   string
	queue  *dispatch.Queue
	decode DecodeFunc
}

func NewAsync(name string, queue *dispatch.Queue, decode DecodeFunc) *Async {
	return &Async{name: name, queue: queue, decode: decode}
}

func (a *Async) Load(path string, onDone func(asset interface{})) {
	go func() {
		asset, err := a.safeDecode(path)
		if err != nil {
			logger.Log.Error("Asset decode failed",
				zap.String("decoder", a.name),
				zap.String("path", path),
				zap.Error(err))
			return
		}
		logger.Log.Debug("Asset decoded", zap.String("decoder", a.name), zap.String("path", path))
		a.queue.Post(func() { onDone(asset) })
	}()
}

// safeDecode turns a decoder panic on malformed input into an error.
func (a *Async) safeDecode(path string) (asset interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("decoder panic: %v", r)
		}
	}()
	return a.decode(path)
}
