package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestMain(t *testing.M) {
	dir, err := os.MkdirTemp("", "classmut-cmd")
	if err != nil {
		panic(err)
	}

	viper.Set(logFilenameKey, filepath.Join(dir, "test.log"))

	code := t.Run()

	_ = os.RemoveAll(dir)

	os.Exit(code)
}
