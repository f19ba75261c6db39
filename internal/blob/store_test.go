package blob

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateObjectURLIsUnique(t *testing.T) {
	s := NewStore()
	a := s.CreateObjectURL("/tmp/a.hdr")
	b := s.CreateObjectURL("/tmp/a.hdr")

	assert.True(t, strings.HasPrefix(a, Scheme))
	assert.NotEqual(t, a, b)
}

func TestResolve(t *testing.T) {
	s := NewStore()
	ref := s.CreateObjectURL("/data/env.hdr")

	path, err := s.Resolve(ref)
	require.NoError(t, err)
	assert.Equal(t, "/data/env.hdr", path)

	plain, err := s.Resolve("textures/a.png")
	require.NoError(t, err)
	assert.Equal(t, "textures/a.png", plain)
}

func TestRevoke(t *testing.T) {
	s := NewStore()
	ref := s.CreateObjectURL("/data/env.hdr")
	s.Revoke(ref)

	_, err := s.Resolve(ref)
	assert.ErrorIs(t, err, ErrRevoked)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("payload"), 0o644))

	s := NewStore()
	rc, err := s.Open(s.CreateObjectURL(path))
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}
