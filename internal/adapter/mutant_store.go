package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	m "gooze.dev/pkg/classmut/internal/model"
)

// MutantStore hands encoded mutant classes to whatever runs them.
type MutantStore interface {
	// SaveMutant writes data for mutant under root and returns the path written.
	SaveMutant(root string, mutant *m.Mutant, data []byte) (string, error)
}

type dirMutantStore struct{}

// NewDirMutantStore lays mutants out as
// <root>/<class>/<method><descriptor>/<site>-<OPERATOR>/<class>.class, where
// <class> is the internal name, so each mutant directory can be put in front
// of the original classpath.
func NewDirMutantStore() MutantStore {
	return dirMutantStore{}
}

var descriptorReplacer = strings.NewReplacer("/", "_", ";", "_", "[", "_", "(", "_", ")", "_", "<", "_", ">", "_")

func (dirMutantStore) SaveMutant(root string, mutant *m.Mutant, data []byte) (string, error) {
	method := mutant.Method
	dir := filepath.Join(root,
		filepath.FromSlash(method.Owner),
		descriptorReplacer.Replace(method.Name+method.Descriptor),
		strconv.Itoa(mutant.Index)+"-"+string(mutant.Operator),
	)
	path := filepath.Join(dir, filepath.FromSlash(method.Owner)+classSuffix)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create mutant dir %s: %w", dir, err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write mutant %s: %w", path, err)
	}

	return path, nil
}
