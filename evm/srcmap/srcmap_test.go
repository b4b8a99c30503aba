package srcmap_test

import (
	"testing"

	"solidity-ir/evm/srcmap"
)

func TestParse_FieldsCarryForward(t *testing.T) {
	// "0:10:0:-:0;20:5::i;:::o" — entry 1 omits file_id/modifier_depth
	// (repeats) and sets jump "i", entry 2 omits offset/length/file_id
	// (repeats) and sets a new jump.
	entries, err := srcmap.Parse("0:10:0:-:0;20:5::i;:::o", nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[1].Offset != 20 || entries[1].Length != 5 || entries[1].FileID != 0 || entries[1].Jump != srcmap.JumpIn {
		t.Fatalf("entry 1 mismatch: %+v", entries[1])
	}
	if entries[2].Offset != 20 || entries[2].Length != 5 || entries[2].FileID != 0 || entries[2].Jump != srcmap.JumpOut {
		t.Fatalf("entry 2 should repeat offset/length/file_id: %+v", entries[2])
	}
}

func TestParse_Empty(t *testing.T) {
	entries, err := srcmap.Parse("", nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if entries != nil {
		t.Fatalf("expected nil entries for empty input, got %v", entries)
	}
}

func TestParse_MalformedOffset(t *testing.T) {
	_, err := srcmap.Parse("x:1:0:-:0", nil)
	if err == nil {
		t.Fatal("expected error for non-numeric offset")
	}
	var smErr *srcmap.SourceMapError
	if !asSourceMapError(err, &smErr) {
		t.Fatalf("expected *SourceMapError, got %T: %v", err, err)
	}
}

func TestParse_UnknownJumpField(t *testing.T) {
	_, err := srcmap.Parse("0:1:0:z:0", nil)
	if err == nil {
		t.Fatal("expected error for unknown jump field")
	}
}

func TestParse_FileIDOutOfRange(t *testing.T) {
	_, err := srcmap.Parse("0:1:5:-:0", []string{"A.sol"})
	if err == nil {
		t.Fatal("expected error for out-of-range file_id")
	}
}

func asSourceMapError(err error, target **srcmap.SourceMapError) bool {
	e, ok := err.(*srcmap.SourceMapError)
	if !ok {
		return false
	}
	*target = e
	return true
}
