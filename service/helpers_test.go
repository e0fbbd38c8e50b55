package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// memImageStore is an in-memory ImageStoreInterface
type memImageStore struct {
	mu      sync.Mutex
	files   map[string][]byte
	next    int
	removed []string
}

func newMemImageStore() *memImageStore {
	return &memImageStore{files: map[string][]byte{}}
}

func (m *memImageStore) Store(ctx context.Context, data []byte, suggestedName string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	ref := fmt.Sprintf("%d_%s", m.next, suggestedName)
	m.files[ref] = data
	return ref, nil
}

func (m *memImageStore) Resolve(ctx context.Context, ref string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[ref]
	if !ok {
		return nil, fmt.Errorf("%s: %w", ref, ErrImageNotFound)
	}
	return data, nil
}

func (m *memImageStore) Remove(ctx context.Context, ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, ref)
	m.removed = append(m.removed, ref)
	return nil
}
