package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"gooze.dev/pkg/classmut/internal/adapter"
	"gooze.dev/pkg/classmut/internal/domain"
	"gooze.dev/pkg/classmut/internal/telemetry"
)

// useWorkflow makes commands built during the test use wf.
func useWorkflow(t *testing.T, wf domain.Workflow) {
	t.Helper()

	original := newWorkflow
	newWorkflow = func(adapter.ByteSource, telemetry.Recorder) (domain.Workflow, error) {
		return wf, nil
	}

	t.Cleanup(func() { newWorkflow = original })
}

// newTestRoot returns a root command with sub attached and its output captured.
func newTestRoot(sub *cobra.Command) (*cobra.Command, *bytes.Buffer) {
	cmd := newRootCmd()
	cmd.AddCommand(sub)

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})

	return cmd, out
}
