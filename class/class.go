/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package class

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"sync"
)

var (
	// ErrInitializing is returned when Ready is called on a class whose
	// initialization is already in progress, e.g. from its own hook.
	ErrInitializing = errors.New("ready(class): initialization already in progress")
	// ErrAlreadyReady is returned when a ready class is reconfigured.
	ErrAlreadyReady = errors.New("ready(class): class is already ready")
	// ErrUnknownField is returned when a key is absent from a ready class.
	ErrUnknownField = errors.New("ready(class): unknown field")
	// ErrFieldType is returned when a typed accessor finds a value of another type.
	ErrFieldType = errors.New("ready(class): field type mismatch")
	// ErrNameCollision is returned in strict mode when a schema key equals
	// the public name of an accessor that stores under a different key.
	ErrNameCollision = errors.New("ready(class): schema key collides with accessor name")
)

// Base marks the root of a class hierarchy. Embed it in a struct to make
// that struct a participating type; embed a participating type to extend it.
//
//	type Groups struct{ ready.Base }
//	type GroupA struct{ Groups }
type Base struct{}

// Hook runs once per class, before its schema is assigned. It receives the
// class being initialized, which may be a descendant of the type that
// declared the hook.
type Hook func(c *Class) error

// Option configures a Class.
type Option func(*Class)

// WithSchema sets the class's own schema factory.
// Without one the class inherits its ancestor's factory.
func WithSchema(fn SchemaFunc) Option { return func(c *Class) { c.schema = fn } }

// WithHook sets the class's own pre-ready hook.
// Without one the class inherits its ancestor's hook.
func WithHook(fn Hook) Option { return func(c *Class) { c.hook = fn } }

// WithAccessors declares the accessors used with the class, for the strict
// naming collision check. Descendants inherit them.
func WithAccessors(a ...Accessor) Option {
	return func(c *Class) { c.accessors = append(c.accessors, a...) }
}

// WithStrict enables the naming collision check during Ready.
func WithStrict(strict bool) Option { return func(c *Class) { c.strict = strict } }

// WithLogger sets the logger. A nil logger keeps the current one.
func WithLogger(l *slog.Logger) Option {
	return func(c *Class) {
		if l != nil {
			c.logger = l
		}
	}
}

// Class is the per-type record of a participating type.
// It is safe for concurrent reads once ready.
type Class struct {
	// t is the participating type.
	t reflect.Type
	// name is the human-readable class name.
	name string
	// parent is the ancestor's record, nil at a root.
	parent *Class
	// logger receives readiness events.
	logger *slog.Logger

	// mu guards everything below.
	mu sync.Mutex
	// schema is the own schema factory, nil to inherit.
	schema SchemaFunc
	// hook is the own pre-ready hook, nil to inherit.
	hook Hook
	// accessors are the own declared accessors.
	accessors []Accessor
	// strict enables the collision check.
	strict bool
	// ready is set once the own table is materialized.
	ready bool
	// initializing is set while the hook and factory run.
	initializing bool
	// props is the own property table.
	props map[string]any
}

// New creates a NOT_READY class record for t. parent is nil at a root.
// Registries call New; most code reaches classes through a registry.
func New(t reflect.Type, name string, parent *Class, opts ...Option) *Class {
	c := &Class{
		t:      t,
		name:   name,
		parent: parent,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configure applies opts to a class that is not ready yet.
func (c *Class) Configure(opts ...Option) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ready || c.initializing {
		return fmt.Errorf("%w: %s", ErrAlreadyReady, c.name)
	}
	for _, opt := range opts {
		opt(c)
	}
	return nil
}

// Type returns the participating type.
func (c *Class) Type() reflect.Type { return c.t }

// Name returns the class name.
func (c *Class) Name() string { return c.name }

// String implements fmt.Stringer.
func (c *Class) String() string { return c.name }

// Parent returns the ancestor's record, or nil at a root.
func (c *Class) Parent() *Class { return c.parent }

// Ancestors returns the ancestor chain, nearest first.
func (c *Class) Ancestors() []*Class {
	var out []*Class
	for p := c.parent; p != nil; p = p.parent {
		out = append(out, p)
	}
	return out
}

// IsReady reports whether this exact class has materialized its own table.
func (c *Class) IsReady() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

// Ready initializes the class if it is not ready yet and returns it.
//
// On the first successful call it runs the pre-ready hook, builds the
// template from the schema factory, copies every template field into the
// class's own table and marks the class ready. Later calls do nothing.
// If the hook or the factory fails, the class stays not ready and the error
// is returned; the next call starts over.
func (c *Class) Ready() (*Class, error) {
	c.mu.Lock()
	switch {
	case c.ready:
		c.mu.Unlock()
		return c, nil
	case c.initializing:
		c.mu.Unlock()
		return c, fmt.Errorf("%w: %s", ErrInitializing, c.name)
	}
	c.initializing = true
	c.mu.Unlock()

	// Clears initializing if prepare fails or panics.
	defer c.abort()

	props, err := c.prepare()
	if err != nil {
		c.logger.Warn("class initialization failed", "class", c.name, "error", err)
		return c, err
	}
	c.commit(props)
	c.logger.Debug("class ready", "class", c.name, "fields", len(props))
	return c, nil
}

// prepare runs the hook and the factory and returns the table to install.
func (c *Class) prepare() (map[string]any, error) {
	if hook := c.effectiveHook(); hook != nil {
		if err := hook(c); err != nil {
			return nil, fmt.Errorf("ready(class): %s pre-ready hook: %w", c.name, err)
		}
	}

	tpl, err := c.Schema()
	if err != nil {
		return nil, err
	}
	if c.isStrict() {
		if err := c.checkCollisions(tpl); err != nil {
			return nil, err
		}
	}

	props := make(map[string]any, len(tpl))
	for k, v := range tpl {
		props[k] = v
	}
	return props, nil
}

func (c *Class) commit(props map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.props = props
	c.ready = true
	c.initializing = false
}

func (c *Class) abort() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.initializing = false
}

// Schema invokes the class's effective schema factory (its own, or the
// nearest ancestor's) and returns a fresh template. It does not touch
// readiness.
func (c *Class) Schema() (Template, error) {
	return invoke(c)
}

// invoke runs the factory effective for c, binding super to the ancestor of
// the class that declared it.
func invoke(c *Class) (Template, error) {
	d := c
	for d != nil && d.ownSchema() == nil {
		d = d.parent
	}
	if d == nil {
		return DefaultTemplate(), nil
	}

	super := func() (Template, error) { return invoke(d.parent) }
	tpl, err := d.ownSchema()(super)
	if err != nil {
		return nil, fmt.Errorf("ready(class): %s schema: %w", d.name, err)
	}
	return tpl, nil
}

func (c *Class) ownSchema() SchemaFunc {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.schema
}

func (c *Class) effectiveHook() Hook {
	for k := c; k != nil; k = k.parent {
		k.mu.Lock()
		h := k.hook
		k.mu.Unlock()
		if h != nil {
			return h
		}
	}
	return nil
}

func (c *Class) isStrict() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.strict
}

// checkCollisions rejects templates that store under the public name of an
// accessor declared on c or an ancestor.
func (c *Class) checkCollisions(tpl Template) error {
	for k := c; k != nil; k = k.parent {
		k.mu.Lock()
		acc := slices.Clone(k.accessors)
		k.mu.Unlock()
		for _, a := range acc {
			if a.Name() == a.Key() {
				continue
			}
			if _, ok := tpl[a.Name()]; ok {
				return fmt.Errorf("%w: %s: key %q (accessor stores under %q)", ErrNameCollision, c.name, a.Name(), a.Key())
			}
		}
	}
	return nil
}

// Get makes the class ready and returns its own value for key.
func (c *Class) Get(key string) (any, error) {
	if _, err := c.Ready(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.props[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownField, c.name, key)
	}
	return v, nil
}

// Set makes the class ready and stores v under key in its own table.
// Ancestors and descendants are unaffected.
func (c *Class) Set(key string, v any) error {
	if _, err := c.Ready(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.props[key] = v
	return nil
}

// update makes the class ready and replaces the value under key with the
// result of fn, holding the lock. fn must not call back into c.
func (c *Class) update(key string, fn func(old any, ok bool) (any, error)) error {
	if _, err := c.Ready(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	old, ok := c.props[key]
	v, err := fn(old, ok)
	if err != nil {
		return err
	}
	c.props[key] = v
	return nil
}

// Peek reads key without initializing anything. It returns the class's own
// value if the class is ready and holds key, otherwise the value of the
// nearest ready ancestor that does. An untouched class therefore sees its
// ancestor's current value, not its own default; the first Ready switches
// it to its own copy.
func (c *Class) Peek(key string) (any, bool) {
	for k := c; k != nil; k = k.parent {
		k.mu.Lock()
		v, ok := k.props[key]
		k.mu.Unlock()
		if ok {
			return v, true
		}
	}
	return nil, false
}

// Props returns a shallow copy of the own table, or nil if not ready.
func (c *Class) Props() Template {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ready {
		return nil
	}
	return Template(c.props).Clone()
}

// Keys returns the own keys in sorted order, or nil if not ready.
func (c *Class) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ready {
		return nil
	}
	keys := make([]string, 0, len(c.props))
	for k := range c.props {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
