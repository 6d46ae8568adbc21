package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := NewClient(context.Background(), "http://not-redis")
	assert.ErrorContains(t, err, "parse redis url")
}
