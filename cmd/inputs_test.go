package cmd

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gooze.dev/pkg/classmut/internal/adapter"
	"gooze.dev/pkg/classmut/internal/fixture"
	m "gooze.dev/pkg/classmut/internal/model"
)

func sampleBytes(t *testing.T, class string) []byte {
	t.Helper()

	sample, ok := fixture.Lookup(class)
	require.True(t, ok)

	data, err := sample.Bytes(m.Eclipse)
	require.NoError(t, err)

	return data
}

func writeJar(t *testing.T, path string, entries map[string][]byte) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)

	zw := zip.NewWriter(f)
	for name, data := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}

	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func TestResolveInputs(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	classDir := filepath.Join(root, "classes", "com", "example")
	require.NoError(t, os.MkdirAll(classDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(classDir, "ArrayLoop.class"), sampleBytes(t, "ArrayLoop"), 0o644))

	jarPath := filepath.Join(root, "app.jar")
	writeJar(t, jarPath, map[string][]byte{"lib/FlagLoop.class": sampleBytes(t, "FlagLoop")})

	loose := filepath.Join(root, "Count.Loop.class")
	require.NoError(t, os.WriteFile(loose, sampleBytes(t, "CountedLoop"), 0o644))

	cpDir := filepath.Join(root, "cp")
	require.NoError(t, os.MkdirAll(filepath.Join(cpDir, "x"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cpDir, "x", "IteratorLoop.class"), sampleBytes(t, "IteratorLoop"), 0o644))

	in, err := resolveInputs(ctx, []string{filepath.Join(root, "classes"), jarPath, loose, "x.IteratorLoop"}, []string{cpDir})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, in.Close()) })

	assert.Equal(t, []string{"com/example/ArrayLoop", "lib/FlagLoop", "file2/Count_Loop", "x.IteratorLoop"}, in.classes)

	for _, class := range in.classes {
		data, err := in.source.Bytes(ctx, class)
		require.NoError(t, err, class)
		assert.NotEmpty(t, data)
	}

	_, err = in.source.Bytes(ctx, "missing.Class")
	assert.ErrorIs(t, err, adapter.ErrClassNotFound)
}

func TestResolveInputs_BadJar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.jar")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))

	_, err := resolveInputs(context.Background(), []string{path}, nil)
	require.Error(t, err)
}

func TestFileKey(t *testing.T) {
	assert.Equal(t, "file0/Foo", fileKey("build/Foo.class", 0))
	assert.Equal(t, "file3/Foo_Bar", fileKey("./Foo.Bar.class", 3))
}
