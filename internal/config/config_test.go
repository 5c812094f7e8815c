package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_TableFor(t *testing.T) {
	c := &Config{Collections: DefaultCollections()}

	table, ok := c.TableFor("september")
	assert.True(t, ok)
	assert.Equal(t, "bank_statement_sep", table)

	table, ok = c.TableFor("uploaded_file")
	assert.True(t, ok)
	assert.Equal(t, "new_file", table)

	_, ok = c.TableFor("december")
	assert.False(t, ok)
}
