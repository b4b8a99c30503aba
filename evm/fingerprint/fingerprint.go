// Package fingerprint recognises a deployed or creation-code blob against
// a table of known contracts (C7), using a metadata-suffix fast path and
// a segmented BLAKE2b-256 fallback that tolerates linked-library address
// holes.
package fingerprint

import (
	"bytes"
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// metadataSuffixLen is the fixed tail length scanned for a recognised
// solc CBOR metadata blob (spec.md §4.7: "last 53 bytes").
const metadataSuffixLen = 53

// libraryPlaceholderLen is the number of opaque bytes a linked library
// address occupies between two fingerprint segments.
const libraryPlaceholderLen = 20

// ErrBytecodeMismatch is returned when a creation-code blob matches no
// known fingerprint by either the metadata or segmented path.
var ErrBytecodeMismatch = errors.New("fingerprint: creation code does not match any known contract")

// BytecodeMismatchError names the creation-code length that failed to
// match, for error context (CU hash / file path is added by the caller).
type BytecodeMismatchError struct {
	Length int
}

func (e *BytecodeMismatchError) Error() string {
	return fmt.Sprintf("fingerprint: no match for %d-byte creation code", e.Length)
}

func (e *BytecodeMismatchError) Unwrap() error { return ErrBytecodeMismatch }

// Segment is one ordered chunk of a contract's creation code fingerprint.
type Segment struct {
	Length int
	Digest [32]byte
}

// Fingerprint is one contract's ordered segment sequence. Between
// consecutive segments the matcher skips exactly libraryPlaceholderLen
// opaque bytes (a linked library's runtime address); after the last
// segment, any trailing bytes are constructor arguments.
type Fingerprint struct {
	FQN      string
	Segments []Segment
}

// Digest computes the BLAKE2b-256 digest of a segment's bytes.
func Digest(b []byte) [32]byte {
	return blake2b.Sum256(b)
}

// NewSegment builds a Segment from its raw bytes.
func NewSegment(b []byte) Segment {
	return Segment{Length: len(b), Digest: Digest(b)}
}

// Index is the global, once-built table of known contracts: a metadata
// suffix → FQN fast-path map plus the segmented fingerprint list used
// when the fast path misses.
type Index struct {
	metadata     map[string]string // raw 53-byte metadata blob -> FQN
	fingerprints []Fingerprint
}

// NewIndex returns an empty, mutable Index builder.
func NewIndex() *Index {
	return &Index{metadata: make(map[string]string)}
}

// AddMetadata registers a known CBOR metadata suffix for fqn. suffix must
// be exactly metadataSuffixLen bytes; shorter/longer values are ignored
// (defensive against a misconfigured build artifact, never fatal here).
func (idx *Index) AddMetadata(suffix []byte, fqn string) {
	if len(suffix) != metadataSuffixLen {
		return
	}
	idx.metadata[string(suffix)] = fqn
}

// AddFingerprint registers fp for segmented matching.
func (idx *Index) AddFingerprint(fp Fingerprint) {
	idx.fingerprints = append(idx.fingerprints, fp)
}

// Match resolves creation (a deployed or creation-code byte blob) to the
// FQN that produced it, returning the byte offset where constructor
// arguments begin. The metadata suffix is tried first; on a miss, every
// registered Fingerprint is tried in segmented-match order. The first
// full match wins — ties are impossible, since creation codes agreeing
// on every segment necessarily share an FQN.
func (idx *Index) Match(creation []byte) (fqn string, ctorArgOffset int, err error) {
	if fqn, offset, ok := idx.matchMetadata(creation); ok {
		return fqn, offset, nil
	}
	for _, fp := range idx.fingerprints {
		if offset, ok := matchSegments(fp, creation); ok {
			return fp.FQN, offset, nil
		}
	}
	return "", 0, &BytecodeMismatchError{Length: len(creation)}
}

// matchMetadata looks for a known metadata blob, tail first (the common
// case: no trailing constructor arguments after the tail), falling back
// to a substring scan for when constructor arguments follow the
// metadata.
func (idx *Index) matchMetadata(creation []byte) (string, int, bool) {
	if len(idx.metadata) == 0 || len(creation) < metadataSuffixLen {
		return "", 0, false
	}
	tail := creation[len(creation)-metadataSuffixLen:]
	if fqn, ok := idx.metadata[string(tail)]; ok {
		return fqn, len(creation), true
	}
	for blob, fqn := range idx.metadata {
		if idx2 := bytes.Index(creation, []byte(blob)); idx2 >= 0 {
			return fqn, idx2 + metadataSuffixLen, true
		}
	}
	return "", 0, false
}

// matchSegments walks fp's segments against creation in order, skipping
// libraryPlaceholderLen opaque bytes between segments. Returns the offset
// just past the last segment (where constructor arguments begin) on a
// full match.
func matchSegments(fp Fingerprint, creation []byte) (int, bool) {
	pos := 0
	for i, seg := range fp.Segments {
		if pos+seg.Length > len(creation) {
			return 0, false
		}
		chunk := creation[pos : pos+seg.Length]
		if Digest(chunk) != seg.Digest {
			return 0, false
		}
		pos += seg.Length
		if i != len(fp.Segments)-1 {
			pos += libraryPlaceholderLen
		}
	}
	return pos, true
}
