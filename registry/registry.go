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

package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"sync"

	"dirpx.dev/ready/apis"
	"dirpx.dev/ready/class"
	"dirpx.dev/ready/config"
	uref "dirpx.dev/ready/utils/reflect"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("ready(registry): nil reflect.Type provided")
	// ErrNilClass is returned when an entry without a class is adopted.
	ErrNilClass = errors.New("ready(registry): nil class provided")
	// ErrNotParticipating is returned when a type neither embeds class.Base
	// nor embeds a participating type, and was never declared.
	ErrNotParticipating = errors.New("ready(registry): type does not participate")
	// ErrConflictingDeclaration indicates an attempt to declare a type twice,
	// or to adopt a second record for a known type.
	ErrConflictingDeclaration = errors.New("ready(registry): conflicting type declaration")
)

// baseType is the root marker; it is a capability, not a class.
var baseType = reflect.TypeOf(class.Base{})

// New constructs a Registry that normalizes types according to cfg and hands
// cfg.Strict and logger to every class it creates. A nil logger means
// slog.Default().
func New(cfg apis.Config, logger *slog.Logger) apis.Registry {
	if cfg.MaxUnwrap <= 0 {
		cfg.MaxUnwrap = config.DefaultMaxUnwrap
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &registry{cfg: cfg, logger: logger, declared: make(map[reflect.Type]bool)}
}

// registry is a Registry implementation backed by sync.Map.
type registry struct {
	// cfg is the configuration used for normalization and new classes.
	cfg apis.Config
	// logger is handed to new classes.
	logger *slog.Logger
	// mu guards writes, declared and count.
	mu sync.Mutex
	// m maps normalized reflect.Type to its class record.
	m sync.Map // map[reflect.Type]*class.Class
	// declared marks records created or configured by Declare.
	declared map[reflect.Type]bool
	// count tracks the number of records.
	count int
}

// Declare creates the class record for t with opts. The parent is the first
// participating type embedded in t; without one, t becomes a root.
//
// A record created implicitly (by resolving a descendant) and not ready yet
// is configured in place, so descendants already linked to it see the
// options. Declaring a type twice fails with ErrConflictingDeclaration.
func (r *registry) Declare(t reflect.Type, opts ...class.Option) (*class.Class, error) {
	nt, err := r.normalize(t)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.declared[nt] {
		return nil, fmt.Errorf("%w: %s", ErrConflictingDeclaration, nt)
	}

	if v, ok := r.m.Load(nt); ok {
		c := v.(*class.Class)
		if err := c.Configure(opts...); err != nil {
			return nil, err
		}
		r.declared[nt] = true
		r.logger.Debug("class declared", "class", c.Name(), "implicit", true)
		return c, nil
	}

	parent, _, err := r.parentLocked(nt)
	if err != nil {
		return nil, err
	}
	c := r.storeLocked(nt, parent, opts...)
	r.declared[nt] = true
	r.logger.Debug("class declared", "class", c.Name(), "parent", parentName(parent))
	return c, nil
}

// Resolve returns the record for t, creating records for t and its
// ancestors when t participates through embedding.
func (r *registry) Resolve(t reflect.Type) (*class.Class, error) {
	nt, err := r.normalize(t)
	if err != nil {
		return nil, err
	}

	// Fast read path.
	if v, ok := r.m.Load(nt); ok {
		return v.(*class.Class), nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolveLocked(nt)
}

// resolveLocked resolves the normalized type t. r.mu must be held.
func (r *registry) resolveLocked(t reflect.Type) (*class.Class, error) {
	// Re-check under lock in case another goroutine stored meanwhile.
	if v, ok := r.m.Load(t); ok {
		return v.(*class.Class), nil
	}
	if t == baseType {
		return nil, fmt.Errorf("%w: %s", ErrNotParticipating, t)
	}

	parent, participating, err := r.parentLocked(t)
	if err != nil {
		return nil, err
	}
	if !participating {
		return nil, fmt.Errorf("%w: %s", ErrNotParticipating, t)
	}
	return r.storeLocked(t, parent), nil
}

// parentLocked finds the ancestor of t: the first embedded field that is
// class.Base (root, nil parent) or a participating type. participating is
// false when no embedded field qualifies. r.mu must be held.
func (r *registry) parentLocked(t reflect.Type) (parent *class.Class, participating bool, err error) {
	for _, et := range uref.Embedded(t) {
		if et == baseType {
			return nil, true, nil
		}
		if et.Name() == "" {
			continue
		}
		p, err := r.resolveLocked(et)
		if errors.Is(err, ErrNotParticipating) {
			continue
		}
		if err != nil {
			return nil, false, err
		}
		return p, true, nil
	}
	return nil, false, nil
}

// storeLocked creates and stores a record. r.mu must be held.
func (r *registry) storeLocked(t reflect.Type, parent *class.Class, opts ...class.Option) *class.Class {
	base := []class.Option{class.WithStrict(r.cfg.Strict), class.WithLogger(r.logger)}
	c := class.New(t, uref.Name(t), parent, append(base, opts...)...)
	r.m.Store(t, c)
	r.count++
	return c
}

// Lookup returns the record for t if present. It never creates one.
func (r *registry) Lookup(t reflect.Type) (*class.Class, bool) {
	nt, err := r.normalize(t)
	if err != nil {
		return nil, false
	}
	if v, ok := r.m.Load(nt); ok {
		return v.(*class.Class), true
	}
	return nil, false
}

// Adopt inserts an existing record under e.Type. Adopting the same record
// again is a no-op.
func (r *registry) Adopt(e apis.Entry) error {
	if e.Class == nil {
		return ErrNilClass
	}
	nt, err := r.normalize(e.Type)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.m.Load(nt); ok {
		if v.(*class.Class) == e.Class {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrConflictingDeclaration, nt)
	}
	r.m.Store(nt, e.Class)
	r.count++
	if e.Declared {
		r.declared[nt] = true
	}
	return nil
}

// Entries returns a snapshot ordered by class name.
func (r *registry) Entries() []apis.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := make([]apis.Entry, 0, r.count)
	r.m.Range(func(key, value any) bool {
		t := key.(reflect.Type)
		entries = append(entries, apis.Entry{
			Type:     t,
			Class:    value.(*class.Class),
			Declared: r.declared[t],
		})
		return true
	})
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Class.Name() < entries[j].Class.Name()
	})
	return entries
}

// Count returns the number of records.
func (r *registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Reset drops all records. Existing *class.Class values stay usable but are
// no longer reachable through the registry.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m.Clear()
	r.declared = make(map[reflect.Type]bool)
	r.count = 0
}

func (r *registry) normalize(t reflect.Type) (reflect.Type, error) {
	if t == nil {
		return nil, ErrNilType
	}
	return uref.Normalize(t, r.cfg)
}

func parentName(p *class.Class) string {
	if p == nil {
		return ""
	}
	return p.Name()
}
