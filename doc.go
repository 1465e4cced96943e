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

// Package ready gives every type in an embedding hierarchy its own private
// copy of a set of class-level properties, initialized lazily on first use,
// with no per-subtype boilerplate.
//
// Go has no static members. State kept in a package variable and reached
// through an embedded type is shared by every type that embeds it: appending
// to it from GroupA appends for GroupB too. ready replaces that shared state
// with a class record per concrete type. The first time a type's properties
// are touched, its record runs the pre-ready hook, asks the schema factory
// for a fresh template of defaults, and copies the template into its own
// table. Every later access reads that table directly.
//
// # Declaring a hierarchy
//
// A struct participates when it embeds ready.Base, or embeds a participating
// struct, or is declared explicitly. The embedded participating type is its
// ancestor:
//
//	type Groups struct {
//		ready.Base
//		Name string
//	}
//	type GroupA struct{ Groups }
//	type GroupB struct{ Groups }
//
//	var members = ready.NewField[[]any]("members")
//
//	var _ = ready.MustDeclare[Groups](ready.WithSchema(
//		func(ready.Factory) (ready.Template, error) {
//			return ready.Template{"members": []any{}}, nil
//		},
//	))
//
// GroupA and GroupB need no declaration: their records are created on first
// use and inherit the Groups factory. Each calls it for itself, so each gets
// its own fresh "members" slice.
//
// # Composing schemas
//
// A derived factory receives super, the factory of the declaring type's
// ancestor, and extends what it returns:
//
//	ready.MustDeclare[SaberToothed](ready.WithSchema(
//		func(super ready.Factory) (ready.Template, error) {
//			t, err := super()
//			if err != nil {
//				return nil, err
//			}
//			return t.Extend(ready.Template{"_extinct": true}), nil
//		},
//	))
//
// super always builds a fresh template; it never returns the ancestor's
// (possibly mutated) table.
//
// # Access
//
// Typed accessors (NewField, NewAccessor) and Class.Get/Set always make the
// class ready first. Class.Peek is the raw path that does not: on an
// untouched class it falls through to the nearest ready ancestor's value.
//
// # Global API
//
// Like a process-wide registry, ready keeps an atomically published snapshot
// of config, logger, registry and builder. Reads (Declare, Of, Ready, Init,
// ClassOf, Registry) load it without locks; writers (SetConfig, SetLogger,
// SetBuilder, SetRegistry, SetAll) take a short build mutex, derive a new
// snapshot and swap it in. Rebuilding the registry migrates existing class
// records unchanged.
//
// # Concurrency
//
// Class records guard their tables with a mutex, so ready classes are safe
// for concurrent use. Initialization itself is meant to happen from one
// goroutine: a Ready call that finds the class mid-initialization, whether
// from another goroutine or re-entrantly from its own hook, fails with
// class.ErrInitializing.
package ready
