package store

import "github.com/utkarsh5026/SourceControl/pkg/common/err"

const pkgName = "store"

// Error codes for object store failures. CodeCorrupt/CodeLengthMismatch are
// surfaced by pkg/objects' header parsing and simply pass through; CodeIoError
// is this package's own, for filesystem failures that have nothing to do with
// the object format itself.
const (
	CodeIoError = "STORE_IO_ERROR"
)

func ioError(op string, cause error) error {
	return err.New(pkgName, CodeIoError, op, cause.Error(), cause)
}
