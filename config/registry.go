package config

import (
	"os"

	"github.com/Masterminds/semver/v3"

	"github.com/wippyai/scale-codec/errors"
	"github.com/wippyai/scale-codec/preset"
	"github.com/wippyai/scale-codec/registry"
)

// Registry builds the configured registry. A readable snapshot takes
// precedence over the documents; a missing one is ignored.
func (c Config) Registry() (*registry.Registry, error) {
	if c.Snapshot != "" {
		data, err := os.ReadFile(c.Snapshot)
		switch {
		case err == nil:
			reg, err := registry.FromSnapshot(data)
			if err != nil {
				return nil, err
			}
			if err := c.checkVersion(c.Snapshot, reg.Version()); err != nil {
				return nil, err
			}
			return reg, nil
		case !os.IsNotExist(err):
			return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "read snapshot")
		}
	}

	b := registry.NewBuilder()
	opt := registry.WithCompact(c.Compact...)
	for _, name := range c.Presets {
		data, ok := preset.Document(name)
		if !ok {
			return nil, errors.InvalidInput(errors.PhaseConfig, "unknown preset "+name)
		}
		doc, err := registry.Load(b, data, opt)
		if err != nil {
			return nil, err
		}
		if err := c.checkDocument(name, doc); err != nil {
			return nil, err
		}
	}
	for _, path := range c.Files {
		doc, err := registry.LoadFile(b, path, opt)
		if err != nil {
			return nil, err
		}
		if err := c.checkDocument(path, doc); err != nil {
			return nil, err
		}
	}
	return b.Finalize()
}

// WriteSnapshot builds the registry from the documents and stores its
// snapshot at the configured path.
func (c Config) WriteSnapshot() error {
	if c.Snapshot == "" {
		return errors.InvalidInput(errors.PhaseConfig, "no snapshot path")
	}
	fromDocs := c
	fromDocs.Snapshot = ""
	reg, err := fromDocs.Registry()
	if err != nil {
		return err
	}
	data, err := reg.Snapshot()
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.Snapshot, data, 0o644); err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "write snapshot")
	}
	return nil
}

func (c Config) checkDocument(source string, doc *registry.Document) error {
	if c.Version == nil {
		return nil
	}
	if doc.Version == nil {
		return errors.InvalidInput(errors.PhaseConfig, source+" declares no version")
	}
	if !c.Version.Check(doc.Version) {
		return errors.InvalidInput(errors.PhaseConfig, source+" version "+doc.Version.String()+" does not satisfy "+c.Version.String())
	}
	return nil
}

func (c Config) checkVersion(source, version string) error {
	if c.Version == nil {
		return nil
	}
	if version == "" {
		return c.checkDocument(source, &registry.Document{})
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, source+" version")
	}
	return c.checkDocument(source, &registry.Document{Version: v})
}
