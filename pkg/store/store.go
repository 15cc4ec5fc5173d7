package store

import (
	"github.com/utkarsh5026/SourceControl/pkg/objects"
	"github.com/utkarsh5026/SourceControl/pkg/repository/scpath"
)

// ObjectStore is the content-addressed object database contract (§4.2):
// write/read_typed/exists over an id-keyed, content-addressed layout. Every
// object kind (blob, tree, commit, tag) goes through the same three
// operations; type dispatch happens on read, inside ReadObject.
type ObjectStore interface {
	// Initialize sets up the object store with the given repository path
	// Creates necessary directory structures if they don't exist
	Initialize(repoPath scpath.RepositoryPath) error

	// WriteObject is §4.2's write(object): serialize, hash, compress, and write
	// atomically. If the target already exists, succeeds without rewriting —
	// content-addressed idempotence, not an error.
	WriteObject(obj objects.BaseObject) (objects.ObjectHash, error)

	// ReadObject is §4.2's read_typed(id): decompress, parse the header, and
	// dispatch to the matching typed object's parser. Returns (nil, nil) if no
	// object exists at that id; a *err.Error coded Corrupt/LengthMismatch if
	// the stored bytes are malformed.
	ReadObject(hash objects.ObjectHash) (objects.BaseObject, error)

	// HasObject is §4.2's exists(id): path existence only, no decompression.
	HasObject(hash objects.ObjectHash) (bool, error)
}
