// Copyright 2025 Radu Berinde.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package labelobject

import (
	"errors"
	"fmt"
	"sync"
)

// Attributes is implemented by the per-label data (statistics, shape
// descriptors, etc.) that can be attached to a label object.
type Attributes interface {
	// CopyAttributesFrom copies the attribute values from src. Implementations
	// ignore sources of a different kind.
	CopyAttributesFrom(src Attributes)
}

// Attribute identifies a named attribute of a label object.
type Attribute uint32

// AttributeLabel is the label itself.
const AttributeLabel Attribute = 0

// ErrUnknownAttribute is returned when looking up an attribute that was never
// registered.
var ErrUnknownAttribute = errors.New("unknown attribute")

var attributeRegistry = struct {
	sync.RWMutex
	names map[Attribute]string
	ids   map[string]Attribute
}{
	names: map[Attribute]string{AttributeLabel: "Label"},
	ids:   map[string]Attribute{"Label": AttributeLabel},
}

// RegisterAttribute makes an attribute known to AttributeFromName and
// Attribute.String. It is meant to be called from init functions of packages
// that implement Attributes. Panics if the id or the name is already in use.
func RegisterAttribute(a Attribute, name string) {
	r := &attributeRegistry
	r.Lock()
	defer r.Unlock()
	if n, ok := r.names[a]; ok {
		panic(fmt.Sprintf("attribute %d already registered as %q", a, n))
	}
	if _, ok := r.ids[name]; ok {
		panic(fmt.Sprintf("attribute name %q already registered", name))
	}
	r.names[a] = name
	r.ids[name] = a
}

// AttributeFromName returns the attribute with the given name.
func AttributeFromName(name string) (Attribute, error) {
	r := &attributeRegistry
	r.RLock()
	defer r.RUnlock()
	a, ok := r.ids[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownAttribute, name)
	}
	return a, nil
}

// Name returns the name of the attribute.
func (a Attribute) Name() (string, error) {
	r := &attributeRegistry
	r.RLock()
	defer r.RUnlock()
	n, ok := r.names[a]
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnknownAttribute, uint32(a))
	}
	return n, nil
}

func (a Attribute) String() string {
	if n, err := a.Name(); err == nil {
		return n
	}
	return fmt.Sprintf("Attribute(%d)", uint32(a))
}
