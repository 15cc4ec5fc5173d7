package objects

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"
)

// ObjectHash is the hex-encoded digest identifying a stored object
// (40 characters for the mandatory sha1 algorithm).
// Example: "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391"
type ObjectHash string

// ShortHash is an abbreviated, possibly-ambiguous prefix of an ObjectHash.
// Example: "e69de29"
type ShortHash string

// RawHash is a digest in its fixed-width binary form.
type RawHash [20]byte

const (
	// HashLength is the length of a full hex-encoded digest (40 characters).
	HashLength = 40
	// ShortHashLength is the default length for abbreviated hashes (7 characters).
	ShortHashLength = 7
	// RawHashLength is the length of a digest in bytes (20 bytes).
	RawHashLength = 20
)

// HashAlgorithm names a digest algorithm usable for object ids. It is the
// value carried in repository configuration under extensions.objectformat.
type HashAlgorithm string

// AlgorithmSHA1 is the only hash algorithm this module actually implements.
// Any other configured value is rejected at repository-open time rather
// than silently accepted.
const AlgorithmSHA1 HashAlgorithm = "sha1"

// IsSupported reports whether algo can be used to build a Hasher.
func (algo HashAlgorithm) IsSupported() bool {
	return algo == AlgorithmSHA1
}

// ValidateHashAlgorithm checks a configured extensions.objectformat value,
// returning ErrUnsupportedHash (wrapped with the offending value) for
// anything other than the one algorithm this module supports. An empty
// string is treated as "unset" and defaults to sha1.
func ValidateHashAlgorithm(name string) error {
	if name == "" {
		return nil
	}
	if !HashAlgorithm(name).IsSupported() {
		return fmt.Errorf("%w: %q", ErrUnsupportedHash, name)
	}
	return nil
}

// Hasher is an incremental absorb/finalize digest builder: bytes are fed in
// via Write across any number of calls, and Sum finalizes the accumulated
// state into a 20-byte digest without mutating it (so Sum may be called
// more than once, mirroring hash.Hash's append-to-slice contract).
type Hasher interface {
	Write(p []byte) (int, error)
	Sum() RawHash
	Reset()
}

// sha1Hasher adapts the standard library's streaming sha1.Hash to the
// Hasher interface.
type sha1Hasher struct {
	h hash.Hash
}

// NewHasher builds a Hasher for algo, failing with ErrUnsupportedHash for
// any algorithm besides AlgorithmSHA1.
func NewHasher(algo HashAlgorithm) (Hasher, error) {
	if !algo.IsSupported() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedHash, algo)
	}
	return &sha1Hasher{h: sha1.New()}, nil
}

func (s *sha1Hasher) Write(p []byte) (int, error) {
	return s.h.Write(p)
}

func (s *sha1Hasher) Sum() RawHash {
	var raw RawHash
	s.h.Sum(raw[:0])
	return raw
}

func (s *sha1Hasher) Reset() {
	s.h.Reset()
}

// ZeroHash returns an all-zero hash (used for uninitialized or null references).
func ZeroHash() ObjectHash {
	return ObjectHash(strings.Repeat("0", HashLength))
}

// NewObjectHash absorbs data through a fresh Hasher and returns the
// finalized digest. Always uses AlgorithmSHA1 — the only algorithm this
// module's Hasher implementations support.
func NewObjectHash(data []byte) ObjectHash {
	hasher, err := NewHasher(AlgorithmSHA1)
	if err != nil {
		// Unreachable: AlgorithmSHA1 is always supported.
		panic(err)
	}
	hasher.Write(data)
	return hasher.Sum().Hash()
}

// NewObjectHashFromRaw creates an ObjectHash from a 20-byte digest.
func NewObjectHashFromRaw(raw RawHash) ObjectHash {
	return ObjectHash(hex.EncodeToString(raw[:]))
}

// NewObjectHashFromString parses a hex string into an ObjectHash, failing
// if it is not a well-formed 40-character hex digest.
func NewObjectHashFromString(s string) (ObjectHash, error) {
	hash := ObjectHash(strings.ToLower(s))
	if err := hash.Validate(); err != nil {
		return "", err
	}
	return hash, nil
}

// ParseObjectHash is an alias for NewObjectHashFromString.
func ParseObjectHash(s string) (ObjectHash, error) {
	return NewObjectHashFromString(s)
}

// String returns the hash as a string.
func (h ObjectHash) String() string {
	return string(h)
}

// IsValid returns true if this is a well-formed digest.
func (h ObjectHash) IsValid() bool {
	return h.Validate() == nil
}

// Validate checks that the hash has the expected length and is hex-encoded.
func (h ObjectHash) Validate() error {
	if len(h) != HashLength {
		return fmt.Errorf("hash must be %d characters long, got %d", HashLength, len(h))
	}

	for _, c := range h {
		if !isHexChar(c) {
			return fmt.Errorf("hash must contain only hex characters, found '%c'", c)
		}
	}

	return nil
}

// IsZero returns true if this is the zero hash.
func (h ObjectHash) IsZero() bool {
	return h == ZeroHash()
}

// Short returns the default-length abbreviated form of the hash.
func (h ObjectHash) Short() ShortHash {
	return h.ShortN(ShortHashLength)
}

// ShortN returns the first n characters of the hash, clamped to [0, len(h)].
func (h ObjectHash) ShortN(n int) ShortHash {
	if n <= 0 {
		n = ShortHashLength
	}
	if n > len(h) {
		n = len(h)
	}
	return ShortHash(h[:n])
}

// Bytes decodes the hex digest into its raw byte form.
func (h ObjectHash) Bytes() ([]byte, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	return hex.DecodeString(string(h))
}

// Raw decodes the hash into its fixed-width 20-byte form.
func (h ObjectHash) Raw() (RawHash, error) {
	decoded, err := h.Bytes()
	if err != nil {
		return RawHash{}, err
	}

	var raw RawHash
	copy(raw[:], decoded)
	return raw, nil
}

// Equal compares two hashes case-insensitively.
func (h ObjectHash) Equal(other ObjectHash) bool {
	return strings.EqualFold(string(h), string(other))
}

// HasPrefix returns true if the hash starts with prefix (case-insensitive).
func (h ObjectHash) HasPrefix(prefix string) bool {
	return strings.HasPrefix(string(h), strings.ToLower(prefix))
}

// MarshalText implements encoding.TextMarshaler.
func (h ObjectHash) MarshalText() ([]byte, error) {
	return []byte(h), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *ObjectHash) UnmarshalText(text []byte) error {
	hash, err := NewObjectHashFromString(string(text))
	if err != nil {
		return err
	}
	*h = hash
	return nil
}

// String returns the short hash as a string.
func (sh ShortHash) String() string {
	return string(sh)
}

// IsValid returns true if sh is a plausible hash prefix: non-empty, no
// longer than a full hash, and entirely hex digits.
func (sh ShortHash) IsValid() bool {
	if len(sh) == 0 || len(sh) > HashLength {
		return false
	}
	for _, c := range sh {
		if !isHexChar(c) {
			return false
		}
	}
	return true
}

// Matches returns true if hash begins with this short hash.
func (sh ShortHash) Matches(hash ObjectHash) bool {
	return hash.HasPrefix(string(sh))
}

// Length returns the number of characters in the short hash.
func (sh ShortHash) Length() int {
	return len(sh)
}

// Hash converts a raw digest to its hex-encoded ObjectHash form.
func (rh RawHash) Hash() ObjectHash {
	return NewObjectHashFromRaw(rh)
}

// String returns the digest as a hex string.
func (rh RawHash) String() string {
	return hex.EncodeToString(rh[:])
}

// Short returns the abbreviated hex form of the digest.
func (rh RawHash) Short() ShortHash {
	return rh.Hash().Short()
}

// IsZero returns true if every byte of the digest is zero.
func (rh RawHash) IsZero() bool {
	for _, b := range rh {
		if b != 0 {
			return false
		}
	}
	return true
}

// Equal compares two raw digests byte-for-byte.
func (rh RawHash) Equal(other RawHash) bool {
	return rh == other
}

// isHexChar returns true if the character is a valid hex digit.
func isHexChar(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// ComputeHash runs data through a fresh AlgorithmSHA1 Hasher in one shot.
func ComputeHash(data []byte) RawHash {
	hasher, err := NewHasher(AlgorithmSHA1)
	if err != nil {
		panic(err)
	}
	hasher.Write(data)
	return hasher.Sum()
}

// ComputeObjectHash computes the object id for objType/content by absorbing
// the canonical "<type> <size>\0<content>" framing through a Hasher.
func ComputeObjectHash(objType ObjectType, content ObjectContent) ObjectHash {
	serialized := NewSerializedObject(objType, content)
	return NewObjectHash(serialized.Bytes())
}
