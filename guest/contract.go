package guest

import (
	"context"
	"slices"

	"github.com/tetratelabs/wazero"

	"github.com/wippyai/scale-codec/errors"
)

// Entry points a programmable pool contract must export.
const (
	ExportDeploy = "deploy"
	ExportCall   = "call"
)

// Contract summarizes the interface of programmable pool code.
type Contract struct {
	Exports       []string
	Imports       []string
	Memory        bool // exported or imported linear memory
	ImportsMemory bool
}

// Has reports whether the named function is exported.
func (c *Contract) Has(name string) bool {
	_, found := slices.BinarySearch(c.Exports, name)
	return found
}

// Inspect compiles contract code without instantiating it and reports its
// function exports and imports. Imports are listed as module.name.
func Inspect(ctx context.Context, code []byte) (*Contract, error) {
	rt := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig())
	defer rt.Close(ctx)

	compiled, err := rt.CompileModule(ctx, code)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseGuest, errors.KindInvalidInput, err, "compile contract")
	}
	defer compiled.Close(ctx)

	c := &Contract{}
	for name := range compiled.ExportedFunctions() {
		c.Exports = append(c.Exports, name)
	}
	for _, fn := range compiled.ImportedFunctions() {
		module, name, _ := fn.Import()
		c.Imports = append(c.Imports, module+"."+name)
	}
	slices.Sort(c.Exports)
	slices.Sort(c.Imports)

	c.ImportsMemory = len(compiled.ImportedMemories()) > 0
	c.Memory = c.ImportsMemory || len(compiled.ExportedMemories()) > 0
	return c, nil
}

// Validate checks that code is a well-formed contract: it must compile,
// have a linear memory and export both entry points.
func Validate(ctx context.Context, code []byte) (*Contract, error) {
	c, err := Inspect(ctx, code)
	if err != nil {
		return nil, err
	}
	if !c.Memory {
		return c, errors.InvalidData(errors.PhaseGuest, nil, "contract has no linear memory")
	}
	for _, name := range []string{ExportDeploy, ExportCall} {
		if !c.Has(name) {
			return c, errors.InvalidData(errors.PhaseGuest, nil, "contract does not export "+name)
		}
	}
	Logger().Debug("contract validated")
	return c, nil
}
