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

// Package class implements per-type class state that every participating
// type owns privately and initializes lazily on first use.
//
// In Go there are no static members, and state hung off a shared package
// variable is shared by every type that reaches it. A Class is the record a
// participating type owns instead: its own property table, its own
// readiness flag, and a link to the record of its ancestor (the type it
// embeds). The first Ready call on a class runs the pre-ready hook, builds a
// template from the schema factory and copies the template's fields into
// the class's own table. Ancestors are never touched, so siblings and
// parents keep independent copies even when their factories compose.
//
// # Lifecycle
//
// A class is NOT_READY when created and becomes READY exactly once. Failure
// in the hook or the factory leaves it NOT_READY with an untouched table;
// the next access retries from scratch. There is no path back.
//
// # Access paths
//
// Get, Set and the typed Field accessors always call Ready first. Peek is
// the raw path: it never initializes and falls through to the nearest ready
// ancestor holding the key, so an untouched class can observe its parent's
// (possibly mutated) value. Use Peek only when that is what you want.
//
// # Copy semantics
//
// Copying is shallow. Isolation of nested containers holds only when the
// factory builds them fresh on every call; a factory returning a shared
// slice or map hands the same backing store to every class it serves.
package class
