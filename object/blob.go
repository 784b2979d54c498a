package object

// Blob is an uninterpreted byte sequence, per §3.
type Blob struct {
	content []byte
}

// NewBlob wraps raw file content as a Blob.
func NewBlob(content []byte) *Blob {
	return &Blob{content: content}
}

// Bytes returns the blob's content.
func (b *Blob) Bytes() []byte { return b.content }

// ToObject serializes the blob into a storable Object.
func (b *Blob) ToObject() *Object {
	return New(KindBlob, b.content)
}
