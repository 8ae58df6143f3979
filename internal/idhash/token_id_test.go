package idhash

import (
	"testing"

	"github.com/mr-tron/base58"
)

func TestComputeTokenID_Deterministic(t *testing.T) {
	id1 := ComputeTokenID(7, "Tabc", 1704067200000)
	id2 := ComputeTokenID(7, "Tabc", 1704067200000)

	if id1 != id2 {
		t.Errorf("IDs should be identical: %s != %s", id1, id2)
	}
}

func TestComputeTokenID_DecodesToFixedLength(t *testing.T) {
	id := ComputeTokenID(1, "T0123456789abcdef0123456789abcdef0", 1000)

	raw, err := base58.Decode(id)
	if err != nil {
		t.Fatalf("ID is not valid base58: %v", err)
	}
	if len(raw) != tokenIDBytes {
		t.Errorf("decoded length = %d, want %d", len(raw), tokenIDBytes)
	}
}

func TestComputeTokenID_SequenceDistinguishes(t *testing.T) {
	seen := make(map[string]bool)
	for seq := uint64(0); seq < 1000; seq++ {
		id := ComputeTokenID(seq, "Tsame", 1000)
		if seen[id] {
			t.Fatalf("duplicate ID %s at seq %d", id, seq)
		}
		seen[id] = true
	}
}

func TestComputeTokenID_FieldsChangeID(t *testing.T) {
	base := ComputeTokenID(1, "Taaa", 1000)

	if ComputeTokenID(1, "Tbbb", 1000) == base {
		t.Error("different address should give different ID")
	}
	if ComputeTokenID(1, "Taaa", 1001) == base {
		t.Error("different created_at should give different ID")
	}
}
