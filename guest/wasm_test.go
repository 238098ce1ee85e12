package guest

// Hand-assembled modules for tests.

func section(id byte, payload ...byte) []byte {
	return append([]byte{id, byte(len(payload))}, payload...)
}

func module(sections ...[]byte) []byte {
	out := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	for _, s := range sections {
		out = append(out, s...)
	}
	return out
}

func export(name string, kind, index byte) []byte {
	return append(append([]byte{byte(len(name))}, name...), kind, index)
}

func exports(entries ...[]byte) []byte {
	payload := []byte{byte(len(entries))}
	for _, e := range entries {
		payload = append(payload, e...)
	}
	return section(0x07, payload...)
}

const (
	exportFunc   = 0x00
	exportMemory = 0x02
)

// one page of memory
var memorySection = section(0x05, 0x01, 0x00, 0x01)

// memoryModule only exports its memory.
func memoryModule() []byte {
	return module(memorySection, exports(export("memory", exportMemory, 0)))
}

// allocModule exports memory and a bump cabi_realloc starting at 1024.
func allocModule() []byte {
	return module(
		section(0x01, 0x01, 0x60, 0x04, 0x7f, 0x7f, 0x7f, 0x7f, 0x01, 0x7f),
		section(0x03, 0x01, 0x00),
		memorySection,
		section(0x06, 0x01, 0x7f, 0x01, 0x41, 0x80, 0x08, 0x0b),
		exports(
			export("memory", exportMemory, 0),
			export("cabi_realloc", exportFunc, 0),
		),
		section(0x0a, 0x01, 0x0b,
			0x00,       // no locals
			0x23, 0x00, // global.get 0
			0x23, 0x00, // global.get 0
			0x20, 0x03, // local.get 3
			0x6a,       // i32.add
			0x24, 0x00, // global.set 0
			0x0b),
	)
}

// contractModule exports the named no-op functions and, if withMemory,
// a memory.
func contractModule(withMemory bool, names ...string) []byte {
	funcs := []byte{byte(len(names))}
	bodies := []byte{byte(len(names))}
	var entries [][]byte
	for i, name := range names {
		funcs = append(funcs, 0x00)
		bodies = append(bodies, 0x02, 0x00, 0x0b)
		entries = append(entries, export(name, exportFunc, byte(i)))
	}
	sections := [][]byte{
		section(0x01, 0x01, 0x60, 0x00, 0x00),
		section(0x03, funcs...),
	}
	if withMemory {
		sections = append(sections, memorySection)
		entries = append(entries, export("memory", exportMemory, 0))
	}
	sections = append(sections, exports(entries...), section(0x0a, bodies...))
	return module(sections...)
}

// importingContract imports its memory and a host function from env.
func importingContract() []byte {
	imports := []byte{0x02}
	imports = append(imports, 0x03, 'e', 'n', 'v', 0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00, 0x01)
	imports = append(imports, 0x03, 'e', 'n', 'v', 0x05, 's', 't', 'o', 'r', 'e', 0x00, 0x00)
	return module(
		section(0x01, 0x01, 0x60, 0x00, 0x00),
		section(0x02, imports...),
		section(0x03, 0x02, 0x00, 0x00),
		exports(export("deploy", exportFunc, 1), export("call", exportFunc, 2)),
		section(0x0a, 0x02, 0x02, 0x00, 0x0b, 0x02, 0x00, 0x0b),
	)
}
