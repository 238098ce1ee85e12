package guest

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/scale-codec/codec"
	"github.com/wippyai/scale-codec/errors"
	"github.com/wippyai/scale-codec/registry"
)

// Allocator export names, tried in order.
const (
	CabiRealloc = "cabi_realloc"

	simpleAlloc = "alloc"
)

// Config holds host options.
type Config struct {
	// MemoryLimitPages caps each instance's memory in 64KiB pages.
	// 0 keeps the wazero default.
	MemoryLimitPages uint32
}

// Host owns a wazero runtime and instantiates guest modules that exchange
// SCALE-encoded values through linear memory.
type Host struct {
	runtime wazero.Runtime
	reg     *registry.Registry
	opts    []codec.Option
}

// NewHost creates a host whose guests use reg for value exchange.
func NewHost(ctx context.Context, reg *registry.Registry, cfg *Config, opts ...codec.Option) *Host {
	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg != nil && cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}
	return &Host{
		runtime: wazero.NewRuntimeWithConfig(ctx, runtimeCfg),
		reg:     reg,
		opts:    opts,
	}
}

// Close releases the runtime and every instance created by it.
func (h *Host) Close(ctx context.Context) error {
	return h.runtime.Close(ctx)
}

// Instantiate compiles and starts a guest module. The module must export
// a memory; an allocator export is optional and required only by Put.
func (h *Host) Instantiate(ctx context.Context, wasm []byte) (*Instance, error) {
	compiled, err := h.runtime.CompileModule(ctx, wasm)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseGuest, errors.KindInvalidInput, err, "compile module")
	}
	if len(compiled.ExportedMemories()) == 0 {
		compiled.Close(ctx)
		return nil, errors.InvalidInput(errors.PhaseGuest, "module exports no memory")
	}

	// anonymous so the same code can be instantiated more than once
	mod, err := h.runtime.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName(""))
	if err != nil {
		compiled.Close(ctx)
		return nil, errors.Wrap(errors.PhaseGuest, errors.KindInvalidInput, err, "instantiate module")
	}
	mem := mod.Memory()

	inst := &Instance{
		module: mod,
		memory: NewMemory(mem, h.reg, h.opts...),
	}
	if fn := mod.ExportedFunction(CabiRealloc); fn != nil {
		inst.alloc = fn
	} else if fn := mod.ExportedFunction(simpleAlloc); fn != nil {
		inst.alloc = fn
		inst.simpleAlloc = true
	}

	Logger().Debug("guest instantiated",
		zap.Uint32("memory", mem.Size()),
		zap.Bool("allocator", inst.alloc != nil))
	return inst, nil
}

// Instance is a running guest module. It is not safe for concurrent use.
type Instance struct {
	module      api.Module
	memory      *Memory
	alloc       api.Function
	simpleAlloc bool
	stack       [4]uint64
}

// Memory returns the guest memory bound to the host's registry.
func (i *Instance) Memory() *Memory {
	return i.memory
}

// Put encodes v as typeName into memory obtained from the guest allocator
// and returns its address and length.
func (i *Instance) Put(ctx context.Context, typeName string, v any) (ptr, length uint32, err error) {
	data, err := i.memory.enc.Encode(typeName, v)
	if err != nil {
		return 0, 0, err
	}
	ptr, err = i.Alloc(ctx, uint32(len(data)))
	if err != nil {
		return 0, 0, err
	}
	if err := i.memory.WriteBytes(ptr, data); err != nil {
		return 0, 0, err
	}
	return ptr, uint32(len(data)), nil
}

// Get decodes typeName from the length bytes at ptr.
func (i *Instance) Get(ptr, length uint32, typeName string) (any, error) {
	return i.memory.Read(ptr, length, typeName)
}

// Alloc reserves size bytes through the guest's allocator export.
func (i *Instance) Alloc(ctx context.Context, size uint32) (uint32, error) {
	if i.alloc == nil {
		return 0, errors.InvalidInput(errors.PhaseGuest, "module exports no allocator")
	}
	stack := i.stack[:]
	if i.simpleAlloc {
		stack[0] = uint64(size)
	} else {
		stack[0], stack[1], stack[2], stack[3] = 0, 0, 1, uint64(size)
	}
	if err := i.alloc.CallWithStack(ctx, stack); err != nil {
		return 0, errors.Wrap(errors.PhaseGuest, errors.KindInvalidData, err, "allocate")
	}
	ptr := api.DecodeU32(stack[0])
	if ptr == 0 && size > 0 {
		return 0, errors.InvalidData(errors.PhaseGuest, nil, "allocator returned null")
	}
	return ptr, nil
}

// Call invokes an exported function with raw parameters.
func (i *Instance) Call(ctx context.Context, name string, params ...uint64) ([]uint64, error) {
	fn := i.module.ExportedFunction(name)
	if fn == nil {
		return nil, errors.InvalidInput(errors.PhaseGuest, "function "+name+" is not exported")
	}
	results, err := fn.Call(ctx, params...)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseGuest, errors.KindInvalidData, err, "call "+name)
	}
	return results, nil
}

// Close releases the instance.
func (i *Instance) Close(ctx context.Context) error {
	return i.module.Close(ctx)
}
