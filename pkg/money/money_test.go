package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound(t *testing.T) {
	assert.Equal(t, 76.51, Round(76.51072))
	assert.Equal(t, 0.1, Round(0.10499))
	assert.Equal(t, 3.46, Round(3.456))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 24.0, Clamp(10, 24, 100))
	assert.Equal(t, 100.0, Clamp(150, 24, 100))
	assert.Equal(t, 50.0, Clamp(50, 24, 100))
}
