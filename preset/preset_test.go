package preset

import (
	"testing"

	"github.com/wippyai/scale-codec/errors"
	"github.com/wippyai/scale-codec/registry"
)

func TestChainRegistry(t *testing.T) {
	r, err := Chain()
	if err != nil {
		t.Fatalf("Chain: %v", err)
	}

	for _, name := range []string{
		"Value", "Destination", "DestinationCreatePP", "DestinationCallPP",
		"TransactionInput", "TransactionOutput", "TransactionOutputFor",
		"Transaction", "TransactionFor", "Address", "LookupSource",
		"TXOutputHeader", "Difficulty", "DifficultyAndTimestamp", "Public",
		"String", "TokenID", "TokenInstance", "TokenListData",
		"AccountId", "Hash", "H256", "Moment", "MultiAddress",
	} {
		if !r.Has(name) {
			t.Errorf("missing %s", name)
		}
	}

	tests := []struct {
		name string
		kind registry.Kind
	}{
		{"Value", registry.KindCompact},
		{"Public", registry.KindFixedBytes},
		{"Hash", registry.KindFixedBytes},
		{"TXOutputHeader", registry.KindU16},
		{"Difficulty", registry.KindU256},
		{"Destination", registry.KindEnum},
		{"TransactionFor", registry.KindStruct},
		{"TokenListData", registry.KindVector},
		{"Address", registry.KindEnum},
	}
	for _, tc := range tests {
		id, err := r.Lookup(tc.name)
		if err != nil {
			t.Fatal(err)
		}
		if got := r.Base(id).Kind; got != tc.kind {
			t.Errorf("%s base kind = %s, want %s", tc.name, got, tc.kind)
		}
	}

	id, _ := r.Lookup("Destination")
	dest := r.Type(id)
	for i, want := range []string{"Pubkey", "CreatePP", "CallPP"} {
		if dest.Variants[i].Name != want {
			t.Errorf("variant %d = %s, want %s", i, dest.Variants[i].Name, want)
		}
	}

	if r.Version() != "1.0.0" {
		t.Errorf("Version() = %q", r.Version())
	}

	again := MustChain()
	if again != r {
		t.Error("Chain should return a shared registry")
	}
}

func TestLoadSubset(t *testing.T) {
	b := registry.NewBuilder()
	if err := Load(b, []string{UTXO}); err != nil {
		t.Fatal(err)
	}
	// Chain types reference base types that were not loaded.
	if _, err := b.Finalize(); !errors.IsKind(err, errors.KindUnresolvedReference) {
		t.Errorf("Finalize without base types = %v, want unresolved_reference", err)
	}

	b = registry.NewBuilder()
	if err := Load(b, []string{Substrate}); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Finalize(); err != nil {
		t.Errorf("base types alone should finalize: %v", err)
	}

	if err := Load(registry.NewBuilder(), []string{"kusama"}); !errors.IsKind(err, errors.KindInvalidInput) {
		t.Errorf("unknown preset = %v", err)
	}
}

func TestValueWithoutCompact(t *testing.T) {
	b := registry.NewBuilder()
	if err := Load(b, nil); err != nil {
		t.Fatal(err)
	}
	r, err := b.Finalize()
	if err != nil {
		t.Fatal(err)
	}
	id, _ := r.Lookup("Value")
	if got := r.Base(id).Kind; got != registry.KindU128 {
		t.Errorf("Value base = %s, want u128", got)
	}
}

func TestDocuments(t *testing.T) {
	names := Names()
	if len(names) != 2 || names[0] != Substrate || names[1] != UTXO {
		t.Errorf("Names() = %v", names)
	}
	if doc, ok := Document(UTXO); !ok || len(doc) == 0 {
		t.Error("utxo document missing")
	}
	if _, ok := Document("nope"); ok {
		t.Error("unexpected document")
	}
}
