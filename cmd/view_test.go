package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	domainmocks "gooze.dev/pkg/classmut/internal/domain/mocks"
	m "gooze.dev/pkg/classmut/internal/model"
)

func TestViewCmd_UsesRootOutputFlagByDefault(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	useWorkflow(t, mockWorkflow)

	cmd, _ := newTestRoot(newViewCmd())

	mockWorkflow.EXPECT().View(mock.Anything, defaultReportPath).Return(m.Report{}, nil)

	cmd.SetArgs([]string{"view"})
	err := cmd.Execute()
	require.NoError(t, err)
}

func TestViewCmd_RootOutputFlagIsPassedThrough(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	useWorkflow(t, mockWorkflow)

	cmd, out := newTestRoot(newViewCmd())

	report := m.Report{
		Classes: []m.ClassReport{{
			Class: "a/Loops",
			Methods: []m.MethodReport{{
				Name:       "count",
				Descriptor: "()V",
				Mutants: []m.MutantReport{
					{ID: "a/Loops.count()V#REMOVE_INCREMENTS@5", Description: "REMOVE_INCREMENTS: removed increment", Verdict: "REJECT", Pattern: "counter-increment"},
				},
			}},
		}},
		Rejected: 1,
	}
	mockWorkflow.EXPECT().View(mock.Anything, "./reports/run.yaml").Return(report, nil)

	cmd.SetArgs([]string{"view", "--output", "./reports/run.yaml"})
	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, out.String(), "counter-increment")
	assert.Contains(t, out.String(), "rejected 1")
}

func TestViewCmd_PositionalArgsAreRejected(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	useWorkflow(t, mockWorkflow)

	cmd, _ := newTestRoot(newViewCmd())

	cmd.SetArgs([]string{"view", "./custom-report.yaml"})
	err := cmd.Execute()
	require.Error(t, err)
}

func TestViewCmd_LoadErrorIsReturned(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	useWorkflow(t, mockWorkflow)

	cmd, _ := newTestRoot(newViewCmd())

	mockWorkflow.EXPECT().View(mock.Anything, mock.Anything).Return(m.Report{}, errors.New("no such file"))

	cmd.SetArgs([]string{"view"})
	err := cmd.Execute()
	require.Error(t, err)
}
