package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/wippyai/scale-codec/errors"
)

const chainDoc = `{
  "_version": "1.2.0",
  "H256": "[u8; 32]",
  "Public": "H256",
  "Value": "u128",
  "Destination": {
    "_enum": {
      "Pubkey": "Public",
      "CreatePP": "DestinationCreatePP",
      "Burn": null,
      "Empty": "Null"
    }
  },
  "DestinationCreatePP": {
    "code": "Vec<u8>",
    "data": "Vec<u8>"
  },
  "TransactionOutput": {
    "value": "Value",
    "header": "u16",
    "destination": "Destination"
  },
  "Mode": {"_enum": ["Fast", "Slow"]}
}`

func TestLoadDocument(t *testing.T) {
	b := NewBuilder()
	doc, err := Load(b, []byte(chainDoc), WithCompact("Value"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Version == nil || doc.Version.String() != "1.2.0" {
		t.Errorf("Version = %v, want 1.2.0", doc.Version)
	}
	want := []string{"H256", "Public", "Value", "Destination", "DestinationCreatePP", "TransactionOutput", "Mode"}
	if len(doc.Names) != len(want) {
		t.Fatalf("Names = %v, want %v", doc.Names, want)
	}
	for i := range want {
		if doc.Names[i] != want[i] {
			t.Errorf("Names[%d] = %s, want %s", i, doc.Names[i], want[i])
		}
	}

	r := mustFinalize(t, b)
	if r.Version() != "1.2.0" {
		t.Errorf("registry version = %q", r.Version())
	}

	d, _ := r.Resolve("Value")
	if !d.Equal(Compact("u128")) {
		t.Errorf("Value = %+v, want compact u128", d)
	}

	d, _ = r.Resolve("Destination")
	wantEnum := Enum(
		Variant{Name: "Pubkey", Type: "Public"},
		Variant{Name: "CreatePP", Type: "DestinationCreatePP"},
		Variant{Name: "Burn"},
		Variant{Name: "Empty"},
	)
	if !d.Equal(wantEnum) {
		t.Errorf("Destination = %+v", d)
	}

	// Field order follows the document, not key sorting.
	d, _ = r.Resolve("TransactionOutput")
	if d.Fields[0].Name != "value" || d.Fields[1].Name != "header" || d.Fields[2].Name != "destination" {
		t.Errorf("field order = %+v", d.Fields)
	}

	d, _ = r.Resolve("Mode")
	if len(d.Variants) != 2 || !d.Variants[0].IsUnit() || d.Variants[1].Name != "Slow" {
		t.Errorf("Mode = %+v", d)
	}
}

func TestLoadYAML(t *testing.T) {
	src := `
Moment: u64
Stamp:
  moment: Moment
  tag: "[u8; 4]"
`
	b := NewBuilder()
	if _, err := Load(b, []byte(src)); err != nil {
		t.Fatal(err)
	}
	r := mustFinalize(t, b)
	id, err := r.Lookup("Stamp")
	if err != nil {
		t.Fatal(err)
	}
	if n := len(r.Type(id).Fields); n != 2 {
		t.Errorf("Stamp has %d fields", n)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind errors.Kind
	}{
		{"not an object", `["a"]`, errors.KindInvalidDefinition},
		{"bad syntax", `{"a": `, errors.KindInvalidDefinition},
		{"bad version", `{"_version": "one"}`, errors.KindInvalidDefinition},
		{"nested struct", `{"S": {"x": {"y": "u8"}}}`, errors.KindInvalidDefinition},
		{"set directive", `{"S": {"_set": {"A": 1}}}`, errors.KindInvalidDefinition},
		{"enum scalar", `{"E": {"_enum": "A"}}`, errors.KindInvalidDefinition},
		{"bad expression", `{"A": "Vec<"}`, errors.KindInvalidDefinition},
		{"distinct names", `{"A": "u8", "B": "u16"}`, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(NewBuilder(), []byte(tc.src))
			if tc.kind == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.IsKind(err, tc.kind) {
				t.Errorf("Load() = %v, want %s", err, tc.kind)
			}
		})
	}
}

func TestLoadDuplicateAcrossDocuments(t *testing.T) {
	b := NewBuilder()
	if _, err := Load(b, []byte(`{"Hash": "[u8; 32]"}`)); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(b, []byte(`{"Hash": "[u8;32]"}`)); err != nil {
		t.Errorf("identical redefinition: %v", err)
	}
	_, err := Load(b, []byte(`{"Hash": "[u8; 20]"}`))
	if !errors.IsKind(err, errors.KindDuplicateDefinition) {
		t.Errorf("conflicting redefinition: %v", err)
	}
}

func TestLoadFailureLeavesBuilderUnchanged(t *testing.T) {
	b := NewBuilder()
	if _, err := Load(b, []byte(`{"_version": "1.0.0", "Hash": "[u8; 32]"}`)); err != nil {
		t.Fatal(err)
	}

	bad := `{"_version": "2.0.0", "Amount": "u128", "Pair": "(u8, u16)", "Hash": "[u8; 20]"}`
	if _, err := Load(b, []byte(bad)); !errors.IsKind(err, errors.KindDuplicateDefinition) {
		t.Fatalf("Load = %v, want duplicate_definition", err)
	}
	for _, name := range []string{"Amount", "Pair"} {
		if b.Has(name) {
			t.Errorf("%s registered by a failed load", name)
		}
	}
	if b.Len() != 1 {
		t.Errorf("Len = %d, want 1", b.Len())
	}

	r, err := b.Finalize()
	if err != nil {
		t.Fatal(err)
	}
	if r.Version() != "1.0.0" {
		t.Errorf("Version = %q, want 1.0.0", r.Version())
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "types.json")
	if err := os.WriteFile(path, []byte(`{"Id": "u64"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	b := NewBuilder()
	if _, err := LoadFile(b, path); err != nil {
		t.Fatal(err)
	}
	if !b.Has("Id") {
		t.Error("Id not registered")
	}

	_, err := LoadFile(NewBuilder(), filepath.Join(t.TempDir(), "missing.json"))
	if !errors.IsKind(err, errors.KindInvalidInput) {
		t.Errorf("missing file: %v", err)
	}
}

func TestLoadEmpty(t *testing.T) {
	doc, err := Load(NewBuilder(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Names) != 0 {
		t.Errorf("Names = %v", doc.Names)
	}
}
