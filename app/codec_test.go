package app

import (
	"testing"

	"github.com/iov-one/lockbox/lockboxtest/assert"
)

func TestCodecSchema(t *testing.T) {
	assert.Schema(t, "codec.proto", &ResultSet{})
}
