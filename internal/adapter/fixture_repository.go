package adapter

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	m "gooze.dev/pkg/classmut/internal/model"
)

// FixtureKey identifies one compiled sample.
type FixtureKey struct {
	Producer m.Producer
	Class    string
}

// FixtureRepository maps (producer, class) to compiled class bytes. A
// missing sample is reported with ErrClassNotFound.
type FixtureRepository interface {
	Load(ctx context.Context, producer m.Producer, className string) ([]byte, error)
}

// MemoryFixtures is an in-memory FixtureRepository.
type MemoryFixtures struct {
	mu      sync.RWMutex
	samples map[FixtureKey][]byte
}

// NewMemoryFixtures creates an empty repository.
func NewMemoryFixtures() *MemoryFixtures {
	return &MemoryFixtures{samples: make(map[FixtureKey][]byte)}
}

// Put stores a sample.
func (f *MemoryFixtures) Put(producer m.Producer, className string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.samples[FixtureKey{Producer: producer, Class: m.SimpleName(className)}] = data
}

func (f *MemoryFixtures) Load(ctx context.Context, producer m.Producer, className string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	data, ok := f.samples[FixtureKey{Producer: producer, Class: m.SimpleName(className)}]
	if !ok {
		return nil, notFound(fmt.Sprintf("%s/%s", producer, className))
	}

	return data, nil
}

// DirFixtures reads samples laid out as <root>/loops/<producer>/<Class>.class.
type DirFixtures struct {
	root string
}

// NewDirFixtures creates a repository rooted at root.
func NewDirFixtures(root string) *DirFixtures {
	return &DirFixtures{root: root}
}

func (f *DirFixtures) Load(ctx context.Context, producer m.Producer, className string) ([]byte, error) {
	dir := NewDirByteSource(filepath.Join(f.root, "loops", producer.String()))
	return dir.Bytes(ctx, m.SimpleName(className))
}

// SourceFor adapts one producer's samples to a ByteSource.
func SourceFor(repo FixtureRepository, producer m.Producer) ByteSource {
	return fixtureSource{repo: repo, producer: producer}
}

type fixtureSource struct {
	repo     FixtureRepository
	producer m.Producer
}

func (s fixtureSource) Bytes(ctx context.Context, className string) ([]byte, error) {
	return s.repo.Load(ctx, s.producer, className)
}
