package primset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersion(t *testing.T) {
	assert.Equal(t, 1, BinaryVersion)
	assert.NotEmpty(t, BinaryGitHash)
}
