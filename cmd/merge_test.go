package cmd

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gooze.dev/pkg/classmut/internal/domain"
	domainmocks "gooze.dev/pkg/classmut/internal/domain/mocks"
	m "gooze.dev/pkg/classmut/internal/model"
)

func TestMergeCmd_UsesRootOutputFlagByDefault(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	useWorkflow(t, mockWorkflow)

	cmd, _ := newTestRoot(newMergeCmd())

	mockWorkflow.EXPECT().Merge(mock.Anything, mock.MatchedBy(func(args domain.MergeArgs) bool {
		return args.Reports == defaultReportPath && len(args.Inputs) == 2
	})).Return(m.Report{}, nil)

	cmd.SetArgs([]string{"merge", "a.yaml", "b.yaml"})
	err := cmd.Execute()
	require.NoError(t, err)
}

func TestMergeCmd_RootOutputFlagIsPassedThrough(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	useWorkflow(t, mockWorkflow)

	cmd, _ := newTestRoot(newMergeCmd())

	mockWorkflow.EXPECT().Merge(mock.Anything, mock.MatchedBy(func(args domain.MergeArgs) bool {
		return args.Reports == "./merged.yaml"
	})).Return(m.Report{}, nil)

	cmd.SetArgs([]string{"--output", "./merged.yaml", "merge", "a.yaml"})
	err := cmd.Execute()
	require.NoError(t, err)
}

func TestMergeCmd_RequiresInputs(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	useWorkflow(t, mockWorkflow)

	cmd, _ := newTestRoot(newMergeCmd())

	cmd.SetArgs([]string{"merge"})
	err := cmd.Execute()
	require.Error(t, err)
}
