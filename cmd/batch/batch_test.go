package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchCommand_Metadata(t *testing.T) {
	assert.Equal(t, "batch", Cmd.Use)
	assert.NotNil(t, Cmd.RunE)

	flag := Cmd.Flags().Lookup("input-dir")
	require.NotNil(t, flag)
	assert.Equal(t, "i", flag.Shorthand)
	assert.Equal(t, []string{"true"}, flag.Annotations["cobra_annotation_bash_completion_one_required_flag"])
}
