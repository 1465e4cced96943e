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

package main

import (
	"errors"

	"dirpx.dev/ready"
)

// Groups keep a registry of their members per concrete group type.
type Groups struct {
	ready.Base
	Name string
}

// GroupA and GroupB get their own members without declaring anything.
type (
	GroupA struct{ Groups }
	GroupB struct{ Groups }
)

// Cat carries booleans behind accessors; SaberToothed overrides one.
type (
	Cat          struct{ ready.Base }
	SaberToothed struct{ Cat }
)

// Parent has no accessors, so Child can read Parent's value before it is ready.
type (
	Parent struct{ ready.Base }
	Child  struct{ Parent }
)

var (
	members = ready.NewField[[]any]("members")

	extinct = ready.NewAccessor[bool]("extinct", "_extinct")
	purrs   = ready.NewAccessor[bool]("purrs", "_purrs")

	arr = ready.NewField[[]int]("arr")
)

// declareExamples declares the roots (and SaberToothed's override) in the
// current global registry.
func declareExamples() error {
	_, err1 := ready.Declare[Groups](ready.WithSchema(func(ready.Factory) (ready.Template, error) {
		return ready.Template{"members": []any{}}, nil
	}))
	_, err2 := ready.Declare[Cat](
		ready.WithAccessors(extinct, purrs),
		ready.WithSchema(func(ready.Factory) (ready.Template, error) {
			return ready.Template{"_extinct": false, "_purrs": true}, nil
		}),
	)
	_, err3 := ready.Declare[SaberToothed](ready.WithSchema(func(super ready.Factory) (ready.Template, error) {
		t, err := super()
		if err != nil {
			return nil, err
		}
		return t.Extend(ready.Template{"_extinct": true}), nil
	}))
	_, err4 := ready.Declare[Parent](ready.WithSchema(func(ready.Factory) (ready.Template, error) {
		return ready.Template{"arr": []int{}}, nil
	}))
	return errors.Join(err1, err2, err3, err4)
}

// newMember builds a group of type G named name and records it in G's own
// members.
func newMember[G any](name string, build func(Groups) *G) (*G, error) {
	g := build(Groups{Name: name})
	c, err := ready.Init(g)
	if err != nil {
		return nil, err
	}
	if err := members.Update(c, func(v []any) []any { return append(v, g) }); err != nil {
		return nil, err
	}
	return g, nil
}

// memberNames lists the names in the members of class T.
func memberNames[T any]() ([]string, error) {
	c, err := ready.Of[T]()
	if err != nil {
		return nil, err
	}
	list, err := members.Get(c)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(list))
	for _, m := range list {
		switch g := m.(type) {
		case *GroupA:
			out = append(out, g.Name)
		case *GroupB:
			out = append(out, g.Name)
		}
	}
	return out, nil
}
