package modules

import (
	"errors"
	"fmt"
	"sync"

	"compute-worker-launcher/types/interfaces"
)

const (
	SymbolGetDescription = "GetDescription"
	SymbolCreateInstance = "CreateInstance"
)

type GetDescriptionFunc func() string

type CreateInstanceFunc func(services interfaces.ModuleServices) (interfaces.Module, error)

var (
	ErrModuleClosed    = errors.New("module handle is closed")
	ErrAlreadyUnloaded = errors.New("module is already unloaded")
)

type ModuleLoadError struct {
	Path string
	Err  error
}

func (e *ModuleLoadError) Error() string {
	return fmt.Sprintf("error while loading module \"%s\": %v", e.Path, e.Err)
}

func (e *ModuleLoadError) Unwrap() error {
	return e.Err
}

type SymbolResolutionError struct {
	Path   string
	Symbol string
	Err    error
}

func (e *SymbolResolutionError) Error() string {
	return fmt.Sprintf("could not resolve symbol \"%s\" in \"%s\": %v", e.Symbol, e.Path, e.Err)
}

func (e *SymbolResolutionError) Unwrap() error {
	return e.Err
}

// Loader opens dynamic modules and resolves their two required entry
// points. A module either comes back fully resolved or its binary
// handle is released before the error is returned - no partially valid
// handle ever escapes.
type Loader struct {
	binaryLoader  interfaces.BinaryLoader
	classRegistry interfaces.ClassRegistry
}

func NewLoader(
	binaryLoader interfaces.BinaryLoader,
	classRegistry interfaces.ClassRegistry,
) *Loader {
	return &Loader{
		binaryLoader:  binaryLoader,
		classRegistry: classRegistry,
	}
}

func (l *Loader) Load(path string) (*ModuleHandle, error) {
	binary, err := l.binaryLoader.Open(path)
	if err != nil {
		return nil, &ModuleLoadError{Path: path, Err: err}
	}

	// The assertions target unnamed func types: the dynamic type of a
	// looked-up symbol is the plain func type, never a named alias.
	getDescription, err := resolveSymbol[func() string](binary, SymbolGetDescription)
	if err != nil {
		l.binaryLoader.Close(binary)
		return nil, &SymbolResolutionError{Path: path, Symbol: SymbolGetDescription, Err: err}
	}

	createInstance, err := resolveSymbol[func(interfaces.ModuleServices) (interfaces.Module, error)](binary, SymbolCreateInstance)
	if err != nil {
		l.binaryLoader.Close(binary)
		return nil, &SymbolResolutionError{Path: path, Symbol: SymbolCreateInstance, Err: err}
	}

	// Types registered by the module's init code must become
	// constructible by name before any instance is created.
	l.classRegistry.Refresh()

	return &ModuleHandle{
		path:           path,
		binary:         binary,
		binaryLoader:   l.binaryLoader,
		getDescription: getDescription,
		createInstance: createInstance,
	}, nil
}

func resolveSymbol[T any](binary interfaces.BinaryHandle, name string) (T, error) {
	var zero T

	symbol, err := binary.Lookup(name)
	if err != nil {
		return zero, err
	}

	typed, ok := symbol.(T)
	if !ok {
		return zero, fmt.Errorf("symbol has unexpected type %T", symbol)
	}
	return typed, nil
}

// ModuleHandle wraps one opened dynamic module. It owns the underlying
// binary handle exclusively and releases it exactly once.
type ModuleHandle struct {
	sync.Mutex

	path           string
	binary         interfaces.BinaryHandle
	binaryLoader   interfaces.BinaryLoader
	getDescription GetDescriptionFunc
	createInstance CreateInstanceFunc
	closed         bool
}

func (h *ModuleHandle) GetPath() string {
	return h.path
}

func (h *ModuleHandle) Describe() (string, error) {
	h.Lock()
	defer h.Unlock()

	if h.closed {
		return "", fmt.Errorf("cannot describe \"%s\": %w", h.path, ErrModuleClosed)
	}
	return h.getDescription(), nil
}

func (h *ModuleHandle) Create(services interfaces.ModuleServices) (interfaces.Module, error) {
	h.Lock()
	defer h.Unlock()

	if h.closed {
		return nil, fmt.Errorf("cannot instantiate \"%s\": %w", h.path, ErrModuleClosed)
	}
	return h.createInstance(services)
}

func (h *ModuleHandle) Unload() error {
	h.Lock()
	defer h.Unlock()

	if h.closed {
		return fmt.Errorf("cannot unload \"%s\": %w", h.path, ErrAlreadyUnloaded)
	}
	h.closed = true

	return h.binaryLoader.Close(h.binary)
}
