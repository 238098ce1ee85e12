package witbridge

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/scale-codec/errors"
	"github.com/wippyai/scale-codec/preset"
	"github.com/wippyai/scale-codec/registry"
)

func chain(t *testing.T) *registry.Registry {
	t.Helper()
	r, err := preset.Chain()
	if err != nil {
		t.Fatalf("preset.Chain: %v", err)
	}
	return r
}

func build(t *testing.T, defs map[string]registry.Descriptor, order ...string) *registry.Registry {
	t.Helper()
	b := registry.NewBuilder()
	for _, name := range order {
		if err := b.Register(name, defs[name]); err != nil {
			t.Fatalf("Register(%s): %v", name, err)
		}
	}
	r, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return r
}

func TestName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"TransactionOutput", "transaction-output"},
		{"dest_account", "dest-account"},
		{"CreatePP", "create-pp"},
		{"TXOutputHeader", "tx-output-header"},
		{"H256", "h256"},
		{"Address32", "address32"},
		{"AccountId", "account-id"},
		{"value", "value"},
		{"_trailing_", "trailing"},
	}
	for _, tt := range tests {
		if got := Name(tt.in); got != tt.want {
			t.Errorf("Name(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTransactionOutput(t *testing.T) {
	b := New(chain(t))
	if _, err := b.Type("TransactionOutput"); err != nil {
		t.Fatal(err)
	}

	want := `type value = tuple<u64, u64>;

type tx-output-header = u16;

type h256 = list<u8>;

type public = h256;

record destination-create-pp {
    code: list<u8>,
    data: list<u8>,
}

type account-id = list<u8>;

record destination-call-pp {
    dest-account: account-id,
    input-data: list<u8>,
}

variant destination {
    pubkey(public),
    create-pp(destination-create-pp),
    call-pp(destination-call-pp),
}

record transaction-output {
    value: value,
    header: tx-output-header,
    destination: destination,
}
`
	if diff := cmp.Diff(want, Render(b.Defs())); diff != "" {
		t.Errorf("Render mismatch (-want +got):\n%s", diff)
	}
}

func TestSharedDefinitions(t *testing.T) {
	b := New(chain(t))
	first, err := b.Type("Hash")
	if err != nil {
		t.Fatal(err)
	}
	second, err := b.Type("Hash")
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("named type converted twice")
	}
	if _, ok := first.(*wit.TypeDef); !ok {
		t.Errorf("Hash = %T, want *wit.TypeDef", first)
	}
}

func TestAll(t *testing.T) {
	reg := chain(t)
	defs, err := New(reg).All()
	if err != nil {
		t.Fatal(err)
	}
	if len(defs) != len(reg.Names()) {
		t.Errorf("len(defs) = %d, want %d", len(defs), len(reg.Names()))
	}
	seen := make(map[string]bool, len(defs))
	for _, td := range defs {
		if td.Name == nil {
			t.Fatal("anonymous definition in Defs")
		}
		if seen[*td.Name] {
			t.Errorf("duplicate definition %s", *td.Name)
		}
		seen[*td.Name] = true
	}
	// String collides with the WIT keyword and must be escaped.
	if got := Render(defs); !strings.Contains(got, "type %string = list<u8>;") {
		t.Errorf("String not escaped:\n%s", got)
	}
}

func TestKinds(t *testing.T) {
	reg := build(t, map[string]registry.Descriptor{
		"Color":  registry.Enum(registry.Variant{Name: "Red"}, registry.Variant{Name: "Green"}),
		"Maybe":  registry.Option("u32"),
		"Pair":   registry.Tuple("i8", "bool"),
		"Signed": registry.Alias("i128"),
		"Wide":   registry.Alias("u256"),
		"Mixed":  registry.Enum(registry.Variant{Name: "Empty"}, registry.Variant{Name: "Full", Type: "Compact<u64>"}),
	}, "Color", "Maybe", "Pair", "Signed", "Wide", "Mixed")

	b := New(reg)
	if _, err := b.All(); err != nil {
		t.Fatal(err)
	}
	want := `enum color {
    red,
    green,
}

type maybe = option<u32>;

type pair = tuple<s8, bool>;

type signed = tuple<u64, s64>;

type wide = tuple<u64, u64, u64, u64>;

variant mixed {
    empty,
    full(u64),
}
`
	if diff := cmp.Diff(want, Render(b.Defs())); diff != "" {
		t.Errorf("Render mismatch (-want +got):\n%s", diff)
	}
}

func TestRecursive(t *testing.T) {
	reg := build(t, map[string]registry.Descriptor{
		"Tree": registry.Struct(registry.Field{Name: "children", Type: "Vec<Tree>"}),
	}, "Tree")

	_, err := New(reg).Type("Tree")
	if !errors.IsKind(err, errors.KindInvalidDefinition) {
		t.Fatalf("got %v, want invalid definition", err)
	}
}

func TestUnknown(t *testing.T) {
	_, err := New(chain(t)).Type("Missing")
	if !errors.IsKind(err, errors.KindUnknownType) {
		t.Fatalf("got %v, want unknown type", err)
	}
}
