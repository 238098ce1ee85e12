package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/wippyai/scale-codec/chain"
	"github.com/wippyai/scale-codec/codec"
	"github.com/wippyai/scale-codec/config"
	"github.com/wippyai/scale-codec/guest"
	"github.com/wippyai/scale-codec/registry"
	"github.com/wippyai/scale-codec/ss58"
	"github.com/wippyai/scale-codec/value"
	"github.com/wippyai/scale-codec/witbridge"
)

const usageText = `Usage: scale [flags] <command> [args]

Commands:
  types                     List registered types
  describe <type>           Show a type's definition and WIT form
  encode <type> <json>      Encode a JSON value, print hex
  decode <type> <hex>       Decode hex, print JSON
  hash <type> <json>        Print the blake2b-256 digest of an encoding
  outpoint <tx-hex> <index> Print the outpoint of a transaction output
  header <u16>              Explain a TXOutputHeader value
  ss58 <0xkey|address>      Convert between public keys and addresses
  wit [type...]             Print WIT definitions (all types by default)
  inspect <file.wasm>       Check programmable pool contract code
  snapshot [path]           Write a registry snapshot

Arguments accept "-" for stdin and "@file" for file contents.

Flags:
`

type app struct {
	stdin  io.Reader
	out    io.Writer
	reg    *registry.Registry
	cfg    config.Config
	pretty bool
	prefix uint16
}

func main() {
	var (
		configFile  = flag.String("config", "", "Path to TOML config (default: both presets)")
		typeFiles   = flag.String("types", "", "Extra registry documents (comma-separated)")
		prefix      = flag.Uint("prefix", uint(ss58.DefaultPrefix), "SS58 address prefix")
		pretty      = flag.Bool("pretty", false, "Indent JSON output")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usageText)
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := start(*configFile, *typeFiles, *prefix, *pretty, *interactive, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func start(configFile, typeFiles string, prefix uint, pretty, interactive bool, args []string) error {
	cfg, err := loadConfig(configFile, typeFiles)
	if err != nil {
		return err
	}

	logger, err := cfg.Logger()
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync()
	registry.SetLogger(logger)
	codec.SetLogger(logger)
	guest.SetLogger(logger)

	if prefix > 16383 {
		return fmt.Errorf("prefix %d out of range", prefix)
	}

	reg, err := cfg.Registry()
	if err != nil {
		return fmt.Errorf("load types: %w", err)
	}

	if interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return fmt.Errorf("interactive mode needs a terminal")
		}
		return runInteractive(reg, cfg)
	}
	if len(args) == 0 {
		flag.Usage()
		return fmt.Errorf("no command")
	}

	a := &app{
		stdin:  os.Stdin,
		out:    os.Stdout,
		reg:    reg,
		cfg:    cfg,
		pretty: pretty,
		prefix: uint16(prefix),
	}
	return a.run(context.Background(), args)
}

func loadConfig(path, typeFiles string) (config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.LoadFile(path); err != nil {
			return config.Config{}, fmt.Errorf("config: %w", err)
		}
	}
	for _, f := range strings.Split(typeFiles, ",") {
		if f = strings.TrimSpace(f); f != "" {
			cfg.Files = append(cfg.Files, f)
		}
	}
	return cfg, nil
}

func (a *app) run(ctx context.Context, args []string) error {
	cmd, args := args[0], args[1:]
	need := func(n int) error {
		if len(args) < n {
			return fmt.Errorf("%s: expected %d argument(s), got %d", cmd, n, len(args))
		}
		return nil
	}

	switch cmd {
	case "types":
		return a.types()
	case "describe":
		if err := need(1); err != nil {
			return err
		}
		return a.describe(args[0])
	case "encode":
		if err := need(2); err != nil {
			return err
		}
		return a.encode(args[0], args[1])
	case "decode":
		if err := need(2); err != nil {
			return err
		}
		return a.decode(args[0], args[1])
	case "hash":
		if err := need(2); err != nil {
			return err
		}
		return a.hash(args[0], args[1])
	case "outpoint":
		if err := need(2); err != nil {
			return err
		}
		return a.outpoint(args[0], args[1])
	case "header":
		if err := need(1); err != nil {
			return err
		}
		return a.header(args[0])
	case "ss58":
		if err := need(1); err != nil {
			return err
		}
		return a.address(args[0])
	case "wit":
		return a.wit(args)
	case "inspect":
		if err := need(1); err != nil {
			return err
		}
		return a.inspect(ctx, args[0])
	case "snapshot":
		cfg := a.cfg
		if len(args) > 0 {
			cfg.Snapshot = args[0]
		}
		if err := cfg.WriteSnapshot(); err != nil {
			return fmt.Errorf("snapshot: %w", err)
		}
		fmt.Fprintf(a.out, "wrote %s\n", cfg.Snapshot)
		return nil
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func (a *app) types() error {
	for _, name := range a.reg.Names() {
		d, err := a.reg.Resolve(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%-24s %s\n", name, d)
	}
	return nil
}

func (a *app) describe(name string) error {
	d, err := a.reg.Resolve(name)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s = %s\n", name, d)

	b := witbridge.New(a.reg)
	if _, err := b.Type(name); err != nil {
		fmt.Fprintf(a.out, "\nno WIT form: %v\n", err)
		return nil
	}
	fmt.Fprintf(a.out, "\n%s", witbridge.Render(b.Defs()))
	return nil
}

func (a *app) encodeJSON(typeName, arg string) ([]byte, error) {
	raw, err := a.input(arg)
	if err != nil {
		return nil, err
	}
	v, err := value.FromJSON(a.reg, typeName, raw)
	if err != nil {
		return nil, err
	}
	return codec.NewEncoder(a.reg, a.cfg.CodecOptions()...).Encode(typeName, v)
}

func (a *app) encode(typeName, arg string) error {
	enc, err := a.encodeJSON(typeName, arg)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	fmt.Fprintf(a.out, "0x%x\n", enc)
	return nil
}

func (a *app) decode(typeName, arg string) error {
	data, err := a.hexInput(arg)
	if err != nil {
		return err
	}
	v, err := codec.NewDecoder(a.reg, a.cfg.CodecOptions()...).DecodeAll(typeName, data)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	var out []byte
	if a.pretty {
		out, err = value.ToJSONIndent(v, "  ")
	} else {
		out, err = value.ToJSON(v)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s\n", out)
	return nil
}

func (a *app) hash(typeName, arg string) error {
	raw, err := a.input(arg)
	if err != nil {
		return err
	}
	v, err := value.FromJSON(a.reg, typeName, raw)
	if err != nil {
		return fmt.Errorf("hash: %w", err)
	}
	h, err := chain.HashOf(a.reg, typeName, v)
	if err != nil {
		return fmt.Errorf("hash: %w", err)
	}
	fmt.Fprintln(a.out, h)
	return nil
}

func (a *app) outpoint(txArg, indexArg string) error {
	data, err := a.hexInput(txArg)
	if err != nil {
		return err
	}
	index, err := strconv.ParseUint(indexArg, 10, 64)
	if err != nil {
		return fmt.Errorf("outpoint: index: %w", err)
	}
	c := chain.NewCodec(a.reg, a.cfg.CodecOptions()...)
	tx, err := c.DecodeTransaction(data)
	if err != nil {
		return fmt.Errorf("outpoint: %w", err)
	}
	if index >= uint64(len(tx.Outputs)) {
		return fmt.Errorf("outpoint: transaction has %d outputs", len(tx.Outputs))
	}
	h, err := c.Outpoint(tx, index)
	if err != nil {
		return fmt.Errorf("outpoint: %w", err)
	}
	fmt.Fprintln(a.out, h)
	return nil
}

func (a *app) header(arg string) error {
	n, err := strconv.ParseUint(arg, 0, 16)
	if err != nil {
		return fmt.Errorf("header: %w", err)
	}
	h := chain.Header(n)
	sig, sigErr := h.SignatureMethod()
	tok, tokErr := h.TokenType()
	if sigErr != nil {
		fmt.Fprintf(a.out, "signature: %v\n", sigErr)
	} else {
		fmt.Fprintf(a.out, "signature: %s\n", sig)
	}
	if tokErr != nil {
		fmt.Fprintf(a.out, "token:     %v\n", tokErr)
	} else {
		fmt.Fprintf(a.out, "token:     %s\n", tok)
	}
	return h.Validate()
}

func (a *app) address(arg string) error {
	if strings.HasPrefix(arg, "0x") {
		key, err := hex.DecodeString(arg[2:])
		if err != nil {
			return fmt.Errorf("ss58: %w", err)
		}
		addr, err := ss58.Encode(key, a.prefix)
		if err != nil {
			return fmt.Errorf("ss58: %w", err)
		}
		fmt.Fprintln(a.out, addr)
		return nil
	}
	key, prefix, err := ss58.Decode(arg)
	if err != nil {
		return fmt.Errorf("ss58: %w", err)
	}
	fmt.Fprintf(a.out, "0x%x (prefix %d)\n", key, prefix)
	return nil
}

func (a *app) wit(names []string) error {
	b := witbridge.New(a.reg)
	if len(names) == 0 {
		if _, err := b.All(); err != nil {
			return fmt.Errorf("wit: %w", err)
		}
	}
	for _, name := range names {
		if _, err := b.Type(name); err != nil {
			return fmt.Errorf("wit: %w", err)
		}
	}
	fmt.Fprint(a.out, witbridge.Render(b.Defs()))
	return nil
}

func (a *app) inspect(ctx context.Context, path string) error {
	code, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	c, err := guest.Validate(ctx, code)
	if c != nil {
		fmt.Fprintf(a.out, "Exports: %s\n", strings.Join(c.Exports, ", "))
		fmt.Fprintf(a.out, "Imports: %s\n", strings.Join(c.Imports, ", "))
		fmt.Fprintf(a.out, "Memory:  %t (imported: %t)\n", c.Memory, c.ImportsMemory)
	}
	if err != nil {
		return fmt.Errorf("inspect: %w", err)
	}
	fmt.Fprintln(a.out, "valid contract")
	return nil
}

// input resolves "-" to stdin and "@path" to the file's contents.
func (a *app) input(arg string) ([]byte, error) {
	switch {
	case arg == "-":
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	case strings.HasPrefix(arg, "@"):
		data, err := os.ReadFile(arg[1:])
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}
		return data, nil
	}
	return []byte(arg), nil
}

func (a *app) hexInput(arg string) ([]byte, error) {
	raw, err := a.input(arg)
	if err != nil {
		return nil, err
	}
	s := strings.TrimPrefix(strings.TrimSpace(string(raw)), "0x")
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("hex input: %w", err)
	}
	return data, nil
}
