package lockboxtest

import (
	"testing"

	"github.com/iov-one/lockbox"
	"github.com/iov-one/lockbox/lockboxtest/assert"
)

func TestMsgEncoding(t *testing.T) {
	msg := &Msg{RoutePath: "escrow/deposit", Serialized: []byte{0x01, 0x02}}
	raw, err := lockbox.Marshal(msg)
	assert.Nil(t, err)

	var loaded Msg
	assert.Nil(t, lockbox.Unmarshal(raw, &loaded))
	assert.Equal(t, "escrow/deposit", loaded.Path())
	assert.Equal(t, []byte{0x01, 0x02}, loaded.Serialized)
	assert.Nil(t, loaded.Validate())
}
