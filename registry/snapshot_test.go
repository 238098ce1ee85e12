package registry

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wippyai/scale-codec/errors"
)

func TestSnapshotRoundTrip(t *testing.T) {
	b := NewBuilder()
	if _, err := Load(b, []byte(chainDoc), WithCompact("Value")); err != nil {
		t.Fatal(err)
	}
	register(t, b, "Pair", Tuple("u8", "Option<H256>"))
	orig := mustFinalize(t, b)

	data, err := orig.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	again, err := orig.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, again) {
		t.Error("snapshot output is not deterministic")
	}

	restored, err := FromSnapshot(data)
	if err != nil {
		t.Fatalf("FromSnapshot: %v", err)
	}
	if diff := cmp.Diff(orig.Names(), restored.Names()); diff != "" {
		t.Errorf("names differ (-orig +restored):\n%s", diff)
	}
	if restored.Version() != orig.Version() {
		t.Errorf("version = %q, want %q", restored.Version(), orig.Version())
	}
	for _, name := range orig.Names() {
		want, _ := orig.Resolve(name)
		got, err := restored.Resolve(name)
		if err != nil {
			t.Fatalf("Resolve(%s): %v", name, err)
		}
		if !got.Equal(want) {
			t.Errorf("%s: got %+v, want %+v", name, got, want)
		}
	}
	if restored.Len() != orig.Len() {
		t.Errorf("arena size %d, want %d", restored.Len(), orig.Len())
	}
}

func TestFromSnapshotRejectsGarbage(t *testing.T) {
	_, err := FromSnapshot([]byte{0xff, 0xff, 0xff})
	if !errors.IsKind(err, errors.KindInvalidData) {
		t.Errorf("FromSnapshot(garbage) = %v, want invalid_data", err)
	}
}
