// Package blob implements Git blob objects, which represent file content in the Git object database.
// Blobs are the fundamental storage unit for file data in Git's content-addressable storage.
package blob

import (
	"fmt"
	"io"

	"github.com/utkarsh5026/SourceControl/pkg/objects"
)

// Blob stores the exact byte payload of a file — §4.3 defines its content as
// opaque bytes with no interpretation. Immutable once created; the hash is
// computed lazily and cached.
type Blob struct {
	content objects.ObjectContent
	hash    *objects.ObjectHash
}

// NewBlob wraps raw file content. Hash computation is deferred to first access.
func NewBlob(data []byte) *Blob {
	return &Blob{content: objects.ObjectContent(data)}
}

// ParseBlob reconstructs a Blob from its serialized form ("blob <size>\0<content>").
// ParseSerializedObject already validates the header (CodeCorrupt / CodeLengthMismatch,
// §4.2) before handing back content, so this function only needs to check the type tag.
func ParseBlob(data []byte) (*Blob, error) {
	content, err := objects.ParseSerializedObject(data, objects.BlobType)
	if err != nil {
		return nil, err
	}

	hash := objects.NewObjectHash(objects.SerializedObject(data))
	return &Blob{content: content, hash: &hash}, nil
}

func (b *Blob) Type() objects.ObjectType {
	return objects.BlobType
}

func (b *Blob) Content() (objects.ObjectContent, error) {
	return b.content, nil
}

// Hash returns the object's id, computed over "blob <size>\0<content>" and cached
// after the first call.
func (b *Blob) Hash() (objects.ObjectHash, error) {
	if b.hash != nil {
		return *b.hash, nil
	}

	hash := objects.ComputeObjectHash(objects.BlobType, b.content)
	b.hash = &hash
	return hash, nil
}

func (b *Blob) RawHash() (objects.RawHash, error) {
	hash, err := b.Hash()
	if err != nil {
		return objects.RawHash{}, err
	}
	return hash.Raw()
}

// Size is the payload length, not counting the "blob <size>\0" header.
func (b *Blob) Size() (objects.ObjectSize, error) {
	return b.content.Size(), nil
}

// Serialize writes "blob <size>\0<content>" — the exact bytes the object store hashes and compresses.
func (b *Blob) Serialize(w io.Writer) error {
	serialized := objects.NewSerializedObject(objects.BlobType, b.content)

	if _, err := w.Write(serialized.Bytes()); err != nil {
		return fmt.Errorf("failed to write blob: %w", err)
	}

	return nil
}

func (b *Blob) String() string {
	hash, err := b.Hash()
	if err != nil {
		return fmt.Sprintf("Blob{size: %s, error: %v}", b.content.Size(), err)
	}
	return fmt.Sprintf("Blob{size: %s, hash: %s}", b.content.Size(), hash.Short())
}
