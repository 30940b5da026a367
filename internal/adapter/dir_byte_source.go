package adapter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	m "gooze.dev/pkg/classmut/internal/model"
)

const classSuffix = ".class"

// DirByteSource reads classes from a classpath directory laid out by
// package, e.g. <root>/com/example/Foo.class.
type DirByteSource struct {
	root string
}

// NewDirByteSource creates a source rooted at root.
func NewDirByteSource(root string) *DirByteSource {
	return &DirByteSource{root: root}
}

func (d *DirByteSource) Bytes(ctx context.Context, className string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(d.root, filepath.FromSlash(m.InternalName(className))+classSuffix)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFound(className)
		}

		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return data, nil
}

// Classes lists the internal names of every class under the root, sorted.
func (d *DirByteSource) Classes(ctx context.Context) ([]string, error) {
	var classes []string

	err := filepath.WalkDir(d.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		if entry.IsDir() || !strings.HasSuffix(path, classSuffix) {
			return nil
		}

		rel, err := filepath.Rel(d.root, path)
		if err != nil {
			return err
		}

		classes = append(classes, strings.TrimSuffix(filepath.ToSlash(rel), classSuffix))

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", d.root, err)
	}

	slices.Sort(classes)

	return classes, nil
}
