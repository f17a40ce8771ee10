package modules

import (
	"fmt"
	"plugin"

	"github.com/gabriel-vasile/mimetype"

	"compute-worker-launcher/types/interfaces"
)

type pluginBinaryHandle struct {
	plugin *plugin.Plugin
}

func (h *pluginBinaryHandle) Lookup(symbolName string) (interface{}, error) {
	return h.plugin.Lookup(symbolName)
}

// PluginBinaryLoader is the production BinaryLoader, backed by the Go
// plugin runtime.
type PluginBinaryLoader struct{}

func NewPluginBinaryLoader() *PluginBinaryLoader {
	return &PluginBinaryLoader{}
}

func (l *PluginBinaryLoader) Open(path string) (interfaces.BinaryHandle, error) {
	// plugin.Open reports architecture mismatches and similar problems
	// with fairly opaque messages; checking the file type first gives
	// the user something actionable.
	mime, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, err
	}
	if !mime.Is("application/x-sharedlib") && !mime.Is("application/x-elf") {
		return nil, fmt.Errorf("\"%s\" is not a shared object (detected %s)", path, mime.String())
	}

	p, err := plugin.Open(path)
	if err != nil {
		return nil, err
	}
	return &pluginBinaryHandle{plugin: p}, nil
}

// Close releases the handle. The Go runtime keeps plugin code mapped
// for the process lifetime, so this drops the reference without an
// OS-level unload.
func (l *PluginBinaryLoader) Close(handle interfaces.BinaryHandle) error {
	h, ok := handle.(*pluginBinaryHandle)
	if !ok {
		return fmt.Errorf("unexpected binary handle type %T", handle)
	}
	h.plugin = nil
	return nil
}
