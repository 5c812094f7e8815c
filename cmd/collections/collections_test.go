package collections

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectionsCommand_Metadata(t *testing.T) {
	assert.Equal(t, "collections", Cmd.Use)
	assert.NotNil(t, Cmd.RunE)
}
