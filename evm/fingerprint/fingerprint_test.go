package fingerprint_test

import (
	"bytes"
	"testing"

	"solidity-ir/evm/fingerprint"
)

func TestMatch_MetadataFastPath(t *testing.T) {
	idx := fingerprint.NewIndex()
	suffix := bytes.Repeat([]byte{0xaa}, 53)
	idx.AddMetadata(suffix, "T.sol:Token")

	creation := append([]byte{0x60, 0x80, 0x60, 0x40}, suffix...)
	fqn, offset, err := idx.Match(creation)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if fqn != "T.sol:Token" {
		t.Fatalf("expected T.sol:Token, got %q", fqn)
	}
	if offset != len(creation) {
		t.Fatalf("expected ctorArgOffset at end of creation code, got %d", offset)
	}
}

func TestMatch_SegmentedWithLibraryHole(t *testing.T) {
	seg0 := []byte{0x60, 0x80, 0x60, 0x40, 0x52}
	seg1 := []byte{0x34, 0x80, 0x15, 0x60, 0x0f}
	libraryAddr := bytes.Repeat([]byte{0xcc}, 20)
	ctorArgs := []byte{0x00, 0x00, 0x00, 0x2a}

	creation := append([]byte{}, seg0...)
	creation = append(creation, libraryAddr...)
	creation = append(creation, seg1...)
	creation = append(creation, ctorArgs...)

	fp := fingerprint.Fingerprint{
		FQN: "T.sol:Linked",
		Segments: []fingerprint.Segment{
			fingerprint.NewSegment(seg0),
			fingerprint.NewSegment(seg1),
		},
	}
	idx := fingerprint.NewIndex()
	idx.AddFingerprint(fp)

	fqn, offset, err := idx.Match(creation)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if fqn != "T.sol:Linked" {
		t.Fatalf("expected T.sol:Linked, got %q", fqn)
	}
	wantOffset := len(seg0) + len(libraryAddr) + len(seg1)
	if offset != wantOffset {
		t.Fatalf("expected ctorArgOffset %d, got %d", wantOffset, offset)
	}
	if !bytes.Equal(creation[offset:], ctorArgs) {
		t.Fatalf("ctorArgOffset did not land on constructor args")
	}
}

func TestMatch_NoMatch(t *testing.T) {
	idx := fingerprint.NewIndex()
	idx.AddFingerprint(fingerprint.Fingerprint{
		FQN:      "T.sol:Other",
		Segments: []fingerprint.Segment{fingerprint.NewSegment([]byte{0x01, 0x02, 0x03})},
	})
	_, _, err := idx.Match([]byte{0x09, 0x08, 0x07})
	if err == nil {
		t.Fatal("expected ErrBytecodeMismatch")
	}
	var bmErr *fingerprint.BytecodeMismatchError
	if !asBytecodeMismatch(err, &bmErr) {
		t.Fatalf("expected *BytecodeMismatchError, got %T: %v", err, err)
	}
}

func TestMatch_TruncatedSegment(t *testing.T) {
	idx := fingerprint.NewIndex()
	idx.AddFingerprint(fingerprint.Fingerprint{
		FQN:      "T.sol:Big",
		Segments: []fingerprint.Segment{fingerprint.NewSegment(bytes.Repeat([]byte{0x01}, 100))},
	})
	_, _, err := idx.Match([]byte{0x01, 0x01})
	if err == nil {
		t.Fatal("expected mismatch on creation code shorter than its first segment")
	}
}

func asBytecodeMismatch(err error, target **fingerprint.BytecodeMismatchError) bool {
	e, ok := err.(*fingerprint.BytecodeMismatchError)
	if !ok {
		return false
	}
	*target = e
	return true
}
