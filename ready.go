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

package ready

import (
	"errors"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"

	"dirpx.dev/ready/apis"
	"dirpx.dev/ready/builder"
	"dirpx.dev/ready/class"
	"dirpx.dev/ready/config"
)

// init initializes the global state.
func init() {
	// Initialize state with default cfg, logger and reg.
	s := &state{cfg: config.DefaultConfig(), logger: slog.Default()}
	b := builder.New()
	s.reg = b.BuildRegistry(s.cfg, nil, s.logger)
	s.bld = b
	// Store the initial state atomically.
	st.Store(s)
}

var (
	// ErrNilRegistry is returned when a builder returns a nil registry.
	ErrNilRegistry = errors.New("ready: builder returned nil registry")
	// ErrNilValue is returned when a nil value is given where an instance
	// of a participating type is expected.
	ErrNilValue = errors.New("ready: nil value provided")
)

// Aliases for the class package, so most code imports only ready.
type (
	// Base marks the root of a class hierarchy; embed it.
	Base = class.Base
	// Class is the per-type record of a participating type.
	Class = class.Class
	// Template is a disposable set of default property values.
	Template = class.Template
	// Factory returns a fresh template.
	Factory = class.Factory
	// SchemaFunc is a schema factory.
	SchemaFunc = class.SchemaFunc
	// Hook runs once per class before its schema is assigned.
	Hook = class.Hook
	// Option configures a Class at declaration.
	Option = class.Option
)

// WithSchema sets the declared type's own schema factory.
func WithSchema(fn SchemaFunc) Option { return class.WithSchema(fn) }

// WithHook sets the declared type's own pre-ready hook.
func WithHook(fn Hook) Option { return class.WithHook(fn) }

// WithAccessors declares accessors for the strict naming collision check.
func WithAccessors(a ...class.Accessor) Option { return class.WithAccessors(a...) }

// NewField returns a typed accessor whose public name is its storage key.
func NewField[V any](key string) class.Field[V] { return class.NewField[V](key) }

// NewAccessor returns a typed accessor exposing the value stored under key as name.
func NewAccessor[V any](name, key string) class.Field[V] { return class.NewAccessor[V](name, key) }

// Declare registers T as a participating type with the given options in the
// global registry. Declare ancestors before their descendants are first
// used, typically from init or a package-level var:
//
//	var _ = ready.MustDeclare[Groups](ready.WithSchema(groupsSchema))
func Declare[T any](opts ...Option) (*Class, error) {
	return st.Load().reg.Declare(typeOf[T](), opts...)
}

// MustDeclare is Declare that panics on error.
func MustDeclare[T any](opts ...Option) *Class {
	c, err := Declare[T](opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Of returns the class record of T without initializing it.
func Of[T any]() (*Class, error) {
	return st.Load().reg.Resolve(typeOf[T]())
}

// Ready returns the class record of T, initialized.
func Ready[T any]() (*Class, error) {
	c, err := Of[T]()
	if err != nil {
		return nil, err
	}
	return c.Ready()
}

// ClassOf returns the class record of v's dynamic type without initializing
// it. This is the late-bound self: code written against an ancestor that
// receives a *GroupA as v gets GroupA's record, not the ancestor's.
func ClassOf(v any) (*Class, error) {
	if v == nil {
		return nil, ErrNilValue
	}
	return st.Load().reg.Resolve(reflect.TypeOf(v))
}

// Init initializes the class of v's dynamic type and returns it. Call it
// from constructors so creating an instance readies its own class:
//
//	func NewGroupA(name string) (*GroupA, error) {
//		g := &GroupA{Groups{Name: name}}
//		c, err := ready.Init(g)
//		...
//	}
func Init(v any) (*Class, error) {
	c, err := ClassOf(v)
	if err != nil {
		return nil, err
	}
	return c.Ready()
}

// SetAll replaces config, logger, registry and builder in one shot.
//
// Nil arguments leave the corresponding component unchanged, except that a
// nil reg builds a brand-new, empty registry (nothing migrated) and unpins.
// This is the hard reset used by tests.
func SetAll(cfg *apis.Config, logger *slog.Logger, reg apis.Registry, bld apis.Builder) {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	ncfg := old.cfg
	if cfg != nil {
		ncfg = *cfg
	}
	nlog := old.logger
	if logger != nil {
		nlog = logger
	}
	nbld := old.bld
	if bld != nil {
		nbld = bld
	}

	nreg := reg
	npreg := reg != nil
	if nreg == nil {
		nreg = nbld.BuildRegistry(ncfg, nil, nlog)
	}
	if nreg == nil {
		panic(ErrNilRegistry)
	}

	st.Store(&state{cfg: ncfg, logger: nlog, reg: nreg, bld: nbld, preg: npreg})
}

// Config returns the global configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig sets the global configuration to cfg and, unless the registry
// is pinned, rebuilds the registry so classes created from now on follow
// cfg. Existing records are migrated as they are.
func SetConfig(cfg apis.Config) {
	rebuild(func(s *state) { s.cfg = cfg })
}

// Logger returns the global logger.
func Logger() *slog.Logger {
	return st.Load().logger
}

// SetLogger sets the logger handed to classes created from now on.
// A nil logger is ignored.
func SetLogger(l *slog.Logger) {
	if l == nil {
		return
	}
	rebuild(func(s *state) { s.logger = l })
}

// Builder returns the global builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder sets the global builder to b and rebuilds the registry unless
// it is pinned. A nil builder is ignored.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}
	rebuild(func(s *state) { s.bld = b })
}

// Registry returns the global registry.
func Registry() apis.Registry {
	return st.Load().reg
}

// SetRegistry sets and pins the global registry. A pinned registry is kept
// as is by SetConfig, SetLogger and SetBuilder. A nil registry is ignored.
func SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}
	update(func(s *state) { s.reg, s.preg = reg, true })
}

// IsRegistryPinned returns whether the global registry is pinned.
func IsRegistryPinned() bool {
	return st.Load().preg
}

// PinRegistry stops automatic rebuilds of the global registry.
func PinRegistry() {
	update(func(s *state) { s.preg = true })
}

// UnpinRegistry allows automatic rebuilds of the global registry again.
func UnpinRegistry() {
	update(func(s *state) { s.preg = false })
}

// rebuild derives a new state with mut applied, rebuilding the registry
// unless it is pinned, and publishes it.
func rebuild(mut func(*state)) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	next := *old
	mut(&next)

	if !next.preg {
		next.reg = next.bld.BuildRegistry(next.cfg, old.reg, next.logger)
	}
	if next.reg == nil {
		panic(ErrNilRegistry)
	}
	st.Store(&next)
}

// update derives a new state with mut applied and publishes it as is.
func update(mut func(*state)) {
	buildMu.Lock()
	defer buildMu.Unlock()

	next := *st.Load()
	mut(&next)
	st.Store(&next)
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// buildMu serializes writers (reconfigurations/swaps) so we never publish
// partially-built snapshots.
var buildMu sync.Mutex

// st is the global state.
var st atomic.Pointer[state]

// state is the global state snapshot.
// Immutable snapshot published atomically via st.Store; never mutate fields
// of a published state. Writers create a new state and swap it atomically.
type state struct {
	// cfg is the global configuration.
	cfg apis.Config
	// logger is handed to new classes.
	logger *slog.Logger
	// reg is the global registry.
	reg apis.Registry
	// bld is the global builder.
	bld apis.Builder
	// preg indicates whether reg is pinned.
	preg bool
}
