// Package registry holds the embedding models available to requests. A
// Registry is built once at startup and never changes afterwards.
package registry

import (
	"errors"
	"fmt"
	"sort"

	"github.com/0x5457/textsim/internal/device"
	"github.com/0x5457/textsim/internal/embeddings"
)

var ErrModelNotFound = errors.New("model not found")

type Registry struct {
	models map[string]embeddings.Embedder
	names  []string
	device device.Device
}

// New copies models into a read-only registry running on dev.
func New(dev device.Device, models map[string]embeddings.Embedder) (*Registry, error) {
	if len(models) == 0 {
		return nil, fmt.Errorf("registry needs at least one model")
	}
	r := &Registry{
		models: make(map[string]embeddings.Embedder, len(models)),
		device: dev,
	}
	for name, e := range models {
		if e == nil {
			return nil, fmt.Errorf("model %q has no embedder", name)
		}
		r.models[name] = e
		r.names = append(r.names, name)
	}
	sort.Strings(r.names)
	return r, nil
}

func (r *Registry) Get(name string) (embeddings.Embedder, error) {
	e, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrModelNotFound, name)
	}
	return e, nil
}

// Names lists the registry keys in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

func (r *Registry) Device() device.Device { return r.device }
