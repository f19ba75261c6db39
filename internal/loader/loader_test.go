package loader

import (
	"HDRView/internal/dispatch"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForPost(t *testing.T, q *dispatch.Queue) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for q.Len() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("decoder never posted a completion")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestAsyncPostsCompletionToQueue(t *testing.T) {
	q := dispatch.NewQueue()
	dec := NewAsync("echo", q, func(path string) (interface{}, error) {
		return "decoded:" + path, nil
	})

	var got interface{}
	dec.Load("a.bin", func(asset interface{}) { got = asset })

	waitForPost(t, q)
	assert.Nil(t, got, "callback must not run before the queue is drained")
	require.Equal(t, 1, q.Drain())
	assert.Equal(t, "decoded:a.bin", got)
}

func TestAsyncFailureNeverCallsBack(t *testing.T) {
	q := dispatch.NewQueue()
	done := make(chan struct{})
	dec := NewAsync("broken", q, func(string) (interface{}, error) {
		defer close(done)
		return nil, errors.New("corrupt")
	})

	called := false
	dec.Load("a.bin", func(interface{}) { called = true })

	<-done
	time.Sleep(10 * time.Millisecond)
	q.Drain()
	assert.False(t, called)
}

func TestAsyncDecoderPanicIsLoggedNotFatal(t *testing.T) {
	q := dispatch.NewQueue()
	done := make(chan struct{})
	dec := NewAsync("fragile", q, func(string) (interface{}, error) {
		defer close(done)
		var pix []float32
		return pix[3], nil
	})

	called := false
	dec.Load("huge.hdr", func(interface{}) { called = true })

	<-done
	time.Sleep(10 * time.Millisecond)
	q.Drain()
	assert.False(t, called)
}

func TestSafeDecodeReportsPanic(t *testing.T) {
	dec := NewAsync("fragile", dispatch.NewQueue(), func(string) (interface{}, error) {
		panic("makeslice: len out of range")
	})

	asset, err := dec.safeDecode("x")
	assert.Nil(t, asset)
	assert.ErrorContains(t, err, "makeslice")
}
