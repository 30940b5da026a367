package adapter

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	m "gooze.dev/pkg/classmut/internal/model"
)

// JarByteSource reads classes from a jar archive.
type JarByteSource struct {
	path    string
	reader  *zip.ReadCloser
	entries map[string]*zip.File
}

// OpenJar opens the archive at path. Close releases it.
func OpenJar(path string) (*JarByteSource, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open jar %s: %w", path, err)
	}

	entries := make(map[string]*zip.File)

	for _, f := range reader.File {
		if strings.HasSuffix(f.Name, classSuffix) && !f.FileInfo().IsDir() {
			entries[strings.TrimSuffix(f.Name, classSuffix)] = f
		}
	}

	return &JarByteSource{path: path, reader: reader, entries: entries}, nil
}

func (j *JarByteSource) Bytes(ctx context.Context, className string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, ok := j.entries[m.InternalName(className)]
	if !ok {
		return nil, notFound(className)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s in %s: %w", f.Name, j.path, err)
	}

	defer func() {
		_ = rc.Close()
	}()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s in %s: %w", f.Name, j.path, err)
	}

	return data, nil
}

// Classes lists the internal names of every class in the archive, sorted.
func (j *JarByteSource) Classes() []string {
	classes := make([]string, 0, len(j.entries))
	for name := range j.entries {
		classes = append(classes, name)
	}

	slices.Sort(classes)

	return classes
}

// Close releases the archive.
func (j *JarByteSource) Close() error {
	return j.reader.Close()
}
