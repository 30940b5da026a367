package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd_Output(t *testing.T) {
	cmd := newVersionCmd()

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "classmut version")
	assert.Contains(t, output, "go version")
	assert.Contains(t, output, "operators\t REMOVE_INCREMENTS, NEGATE_CONDITIONALS")
	assert.Contains(t, output, "VOID_METHOD_CALLS")
	assert.Contains(t, output, "loop patterns\t array-length-bound, counter-increment, observable-condition")
}
