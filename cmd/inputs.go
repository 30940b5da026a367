package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gooze.dev/pkg/classmut/internal/adapter"
)

const (
	classFileSuffix = ".class"
	jarSuffix       = ".jar"
)

// inputs is the set of classes named on the command line and the source
// they are read from.
type inputs struct {
	source  adapter.ByteSource
	classes []string
	closers []func() error
}

func (in *inputs) Close() error {
	var errs []error
	for _, c := range in.closers {
		errs = append(errs, c())
	}

	return errors.Join(errs...)
}

// resolveInputs expands class files, directories and jars into class names.
// Any other argument is taken as a class name looked up on the classpath.
// Explicit inputs are searched before the classpath.
func resolveInputs(ctx context.Context, args, classpath []string) (*inputs, error) {
	in := &inputs{}
	files := adapter.NewMapByteSource()
	chain := adapter.ChainByteSource{files}

	for _, arg := range args {
		info, err := os.Stat(arg)

		switch {
		case err == nil && info.IsDir():
			dir := adapter.NewDirByteSource(arg)

			classes, err := dir.Classes(ctx)
			if err != nil {
				_ = in.Close()
				return nil, err
			}

			chain = append(chain, dir)
			in.classes = append(in.classes, classes...)
		case err == nil && strings.HasSuffix(arg, jarSuffix):
			jar, err := adapter.OpenJar(arg)
			if err != nil {
				_ = in.Close()
				return nil, err
			}

			in.closers = append(in.closers, jar.Close)
			chain = append(chain, jar)
			in.classes = append(in.classes, jar.Classes()...)
		case err == nil && strings.HasSuffix(arg, classFileSuffix):
			data, err := os.ReadFile(arg)
			if err != nil {
				_ = in.Close()
				return nil, fmt.Errorf("read %s: %w", arg, err)
			}

			name := fileKey(arg, len(in.classes))
			files.Put(name, data)
			in.classes = append(in.classes, name)
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			_ = in.Close()
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		default:
			in.classes = append(in.classes, arg)
		}
	}

	for _, entry := range classpath {
		if strings.HasSuffix(entry, jarSuffix) {
			jar, err := adapter.OpenJar(entry)
			if err != nil {
				_ = in.Close()
				return nil, err
			}

			in.closers = append(in.closers, jar.Close)
			chain = append(chain, jar)

			continue
		}

		chain = append(chain, adapter.NewDirByteSource(entry))
	}

	cached, err := adapter.NewCachedByteSource(chain, viper.GetInt(cacheSizeConfigKey))
	if err != nil {
		_ = in.Close()
		return nil, err
	}

	in.source = cached

	return in, nil
}

// fileKey names a loose class file. The key never contains dots, so it
// survives the dotted-to-internal name conversion of the byte sources.
func fileKey(path string, n int) string {
	base := strings.TrimSuffix(filepath.Base(path), classFileSuffix)
	return fmt.Sprintf("file%d/%s", n, strings.ReplaceAll(base, ".", "_"))
}
