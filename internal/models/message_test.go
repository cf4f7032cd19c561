package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChatIDIsOrderIndependent(t *testing.T) {
	assert.Equal(t, "2:9", ChatID(2, 9))
	assert.Equal(t, "2:9", ChatID(9, 2))
	assert.Equal(t, "1:1", ChatID(1, 1))
	assert.NotEqual(t, ChatID(1, 2), ChatID(1, 3))
}
