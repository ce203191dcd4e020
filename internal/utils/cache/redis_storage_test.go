package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRedisStorageDisabled(t *testing.T) {
	s, err := NewRedisStorage(context.Background(), "", "")
	assert.NoError(t, err)
	assert.Nil(t, s)
}

func TestNewRedisStorageUnreachable(t *testing.T) {
	s, err := NewRedisStorage(context.Background(), "127.0.0.1:1", "")
	assert.Error(t, err)
	assert.Nil(t, s)
}
