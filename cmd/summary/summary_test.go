package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryCommand_Metadata(t *testing.T) {
	assert.Equal(t, "summary", Cmd.Use)
	assert.NotNil(t, Cmd.RunE)

	formatFlag := Cmd.Flags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
	assert.Equal(t, "f", formatFlag.Shorthand)

	assert.NotNil(t, Cmd.Flags().Lookup("collection"))
	assert.NotNil(t, Cmd.Flags().Lookup("output"))
}
