package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wippyai/scale-codec/codec"
	"github.com/wippyai/scale-codec/errors"
	"github.com/wippyai/scale-codec/value"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	reg, err := cfg.Registry()
	if err != nil {
		t.Fatalf("Registry: %v", err)
	}
	got, err := codec.Encode(reg, "TokenListData", []any{})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]byte{0x00}, got); diff != "" {
		t.Errorf("Encode mismatch (-want +got):\n%s", diff)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse(`
presets    = ["substrate", " utxo "]
compact    = []
version    = "^1.0"
max_depth  = 64
log_level  = "debug"
log_format = "json"
`)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"substrate", "utxo"}, cfg.Presets); diff != "" {
		t.Errorf("Presets mismatch (-want +got):\n%s", diff)
	}
	if len(cfg.Compact) != 0 {
		t.Errorf("Compact = %v, want empty", cfg.Compact)
	}
	if cfg.MaxDepth != 64 || cfg.LogLevel != "debug" || cfg.LogFormat != FormatJSON {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Version == nil {
		t.Fatal("Version constraint not parsed")
	}

	// without the compact designation Value is a fixed 16-byte u128
	reg, err := cfg.Registry()
	if err != nil {
		t.Fatal(err)
	}
	got, err := codec.Encode(reg, "Value", value.U128(5))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 16 {
		t.Errorf("len = %d, want 16", len(got))
	}

	if _, err := cfg.Logger(); err != nil {
		t.Errorf("Logger: %v", err)
	}
	if opts := cfg.CodecOptions(); len(opts) != 1 {
		t.Errorf("CodecOptions = %d options, want 1", len(opts))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"syntax", `presets = [`},
		{"unknown key", `colour = "red"`},
		{"unknown preset", `presets = ["polkadot"]`},
		{"nothing to load", `presets = []`},
		{"depth", `max_depth = 0`},
		{"level", `log_level = "loud"`},
		{"format", `log_format = "xml"`},
		{"constraint", `version = "not a range"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.doc)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.IsKind(err, errors.KindInvalidInput) {
				t.Errorf("kind = %s, want invalid_input", errors.KindOf(err))
			}
		})
	}
}

func TestVersionConstraint(t *testing.T) {
	cfg, err := Parse(`version = ">= 2.0.0"`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := cfg.Registry(); !errors.IsKind(err, errors.KindInvalidInput) {
		t.Errorf("got %v, want invalid input", err)
	}
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	extra := filepath.Join(dir, "extra.yaml")
	if err := os.WriteFile(extra, []byte("_version: 1.2.0\nPair: (u8, Value)\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	conf := filepath.Join(dir, "scale.toml")
	if err := os.WriteFile(conf, []byte(`files = ["`+filepath.ToSlash(extra)+`"]`+"\nversion = \"~1\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(conf)
	if err != nil {
		t.Fatal(err)
	}
	reg, err := cfg.Registry()
	if err != nil {
		t.Fatal(err)
	}
	got, err := codec.Encode(reg, "Pair", []any{uint8(7), value.U128(1)})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]byte{0x07, 0x04}, got); diff != "" {
		t.Errorf("Encode mismatch (-want +got):\n%s", diff)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.toml")); !errors.IsKind(err, errors.KindInvalidInput) {
		t.Errorf("missing file: got %v", err)
	}
}

func TestSnapshot(t *testing.T) {
	cfg := Default()
	if err := cfg.WriteSnapshot(); err == nil {
		t.Error("WriteSnapshot without a path succeeded")
	}

	cfg.Snapshot = filepath.Join(t.TempDir(), "registry.snap")
	fromDocs, err := cfg.Registry()
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.WriteSnapshot(); err != nil {
		t.Fatal(err)
	}
	fromSnap, err := cfg.Registry()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(fromDocs.Names(), fromSnap.Names()); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}

	if err := os.WriteFile(cfg.Snapshot, []byte{0xff, 0x00}, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := cfg.Registry(); err == nil {
		t.Error("corrupt snapshot accepted")
	}
}
