package object_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kbolino/mingit/object"
)

func TestBlobToObject(t *testing.T) {
	t.Parallel()

	b := object.NewBlob([]byte("hello\n"))
	o := b.ToObject()
	assert.Equal(t, object.KindBlob, o.Kind())
	assert.Equal(t, []byte("hello\n"), o.Bytes())
}
