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

package class_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/ready/class"
)

// newClass builds a record without a registry; the type is irrelevant here.
func newClass(name string, parent *class.Class, opts ...class.Option) *class.Class {
	return class.New(nil, name, parent, opts...)
}

// counting returns a schema factory that counts its invocations.
func counting(n *int, tpl func() class.Template) class.SchemaFunc {
	return func(class.Factory) (class.Template, error) {
		*n++
		return tpl(), nil
	}
}

func TestReady_DefaultSchema(t *testing.T) {
	c := newClass("root", nil)
	require.False(t, c.IsReady())
	assert.Nil(t, c.Props())
	assert.Nil(t, c.Keys())

	got, err := c.Ready()
	require.NoError(t, err)
	assert.Same(t, c, got, "Ready returns the invoking class")
	assert.True(t, c.IsReady())
	assert.Equal(t, []string{class.DefaultKey}, c.Keys())

	objs, err := class.Objects.Get(c)
	require.NoError(t, err)
	assert.Empty(t, objs)
	assert.NotNil(t, objs)
}

func TestReady_Idempotent(t *testing.T) {
	calls := 0
	c := newClass("root", nil, class.WithSchema(counting(&calls, func() class.Template {
		return class.Template{"n": 1}
	})))

	_, err := c.Ready()
	require.NoError(t, err)
	require.NoError(t, c.Set("n", 2))

	_, err = c.Ready()
	require.NoError(t, err)

	assert.Equal(t, 1, calls, "factory fires exactly once per class")
	v, err := c.Get("n")
	require.NoError(t, err)
	assert.Equal(t, 2, v, "second Ready must not reassign the schema")
}

func TestReady_FactoryPerClass(t *testing.T) {
	calls := 0
	parent := newClass("parent", nil, class.WithSchema(counting(&calls, func() class.Template {
		return class.Template{"arr": []int{}}
	})))
	child := newClass("child", parent)
	other := newClass("other", parent)

	for _, c := range []*class.Class{parent, child, other, child, parent} {
		_, err := c.Ready()
		require.NoError(t, err)
	}
	assert.Equal(t, 3, calls)
}

func TestIsolation_ParentAndChild(t *testing.T) {
	parent := newClass("parent", nil, class.WithSchema(func(class.Factory) (class.Template, error) {
		return class.Template{"arr": []int{}, "n": 0}, nil
	}))
	child := newClass("child", parent)

	arr := class.NewField[[]int]("arr")
	n := class.NewField[int]("n")

	require.NoError(t, arr.Update(parent, func(v []int) []int { return append(v, 1) }))
	require.NoError(t, n.Set(child, 7))
	require.NoError(t, arr.Update(child, func(v []int) []int { return append(v, 2, 3) }))

	assert.Equal(t, []int{1}, arr.MustGet(parent))
	assert.Equal(t, []int{2, 3}, arr.MustGet(child))
	assert.Equal(t, 0, n.MustGet(parent))
	assert.Equal(t, 7, n.MustGet(child))
}

func TestAccessor_ForcesInitialization(t *testing.T) {
	parent := newClass("parent", nil, class.WithSchema(func(class.Factory) (class.Template, error) {
		return class.Template{"arr": []int{}}, nil
	}))
	child := newClass("child", parent)
	arr := class.NewField[[]int]("arr")

	require.NoError(t, arr.Set(parent, []int{9}))
	require.False(t, child.IsReady())

	got, err := arr.Get(child)
	require.NoError(t, err)
	assert.Empty(t, got, "accessor reads the child's own default, never the parent's value")
	assert.True(t, child.IsReady())
}

func TestPeek_FallsBackToAncestor(t *testing.T) {
	parent := newClass("parent", nil, class.WithSchema(func(class.Factory) (class.Template, error) {
		return class.Template{"arr": []int{}}, nil
	}))
	child := newClass("child", parent)

	_, ok := child.Peek("arr")
	assert.False(t, ok, "nothing is ready yet")

	_, err := parent.Ready()
	require.NoError(t, err)
	require.NoError(t, parent.Set("arr", []int{2}))

	v, ok := child.Peek("arr")
	require.True(t, ok)
	assert.Equal(t, []int{2}, v, "untouched child sees the parent's value")
	assert.False(t, child.IsReady(), "Peek never initializes")

	_, err = child.Ready()
	require.NoError(t, err)

	v, ok = child.Peek("arr")
	require.True(t, ok)
	assert.Equal(t, []int{}, v, "ready child switches to its own copy")
	pv, _ := parent.Peek("arr")
	assert.Equal(t, []int{2}, pv)
}

func TestPeek_ReadyClassWithoutKeyFallsThrough(t *testing.T) {
	parent := newClass("parent", nil, class.WithSchema(func(class.Factory) (class.Template, error) {
		return class.Template{"a": 1}, nil
	}))
	child := newClass("child", parent, class.WithSchema(func(class.Factory) (class.Template, error) {
		return class.Template{"b": 2}, nil
	}))
	_, err := parent.Ready()
	require.NoError(t, err)
	_, err = child.Ready()
	require.NoError(t, err)

	v, ok := child.Peek("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, err = child.Get("a")
	assert.ErrorIs(t, err, class.ErrUnknownField, "Get reads the own table only")
}

func TestSchema_ComposesWithSuper(t *testing.T) {
	cat := newClass("cat", nil, class.WithSchema(func(class.Factory) (class.Template, error) {
		return class.Template{"extinct": false, "purrs": true, "toys": []string{}}, nil
	}))
	saber := newClass("saber", cat, class.WithSchema(func(super class.Factory) (class.Template, error) {
		tpl, err := super()
		if err != nil {
			return nil, err
		}
		return tpl.Extend(class.Template{"extinct": true, "fangs": 2}), nil
	}))

	_, err := cat.Ready()
	require.NoError(t, err)
	require.NoError(t, cat.Set("toys", []string{"ball"}))
	_, err = saber.Ready()
	require.NoError(t, err)

	assert.Equal(t, []string{"extinct", "fangs", "purrs", "toys"}, saber.Keys())
	assert.Equal(t, true, saber.Props()["extinct"])
	assert.Equal(t, true, saber.Props()["purrs"])
	assert.Equal(t, []string{}, saber.Props()["toys"], "super yields a fresh template, not the parent's table")
	assert.Equal(t, false, cat.Props()["extinct"])
}

func TestSchema_SuperIsBoundToDeclaringClass(t *testing.T) {
	root := newClass("root", nil)
	mid := newClass("mid", root, class.WithSchema(func(super class.Factory) (class.Template, error) {
		tpl, err := super()
		if err != nil {
			return nil, err
		}
		return tpl.Extend(class.Template{"mid": true}), nil
	}))
	// leaf inherits mid's factory; super must still resolve to root.
	leaf := newClass("leaf", mid)

	tpl, err := leaf.Schema()
	require.NoError(t, err)
	assert.Equal(t, class.Template{class.DefaultKey: []any{}, "mid": true}, tpl)
	assert.False(t, leaf.IsReady(), "Schema does not touch readiness")
}

func TestSchema_NilTemplateIsEmpty(t *testing.T) {
	c := newClass("c", nil, class.WithSchema(func(class.Factory) (class.Template, error) {
		return nil, nil
	}))
	_, err := c.Ready()
	require.NoError(t, err)
	assert.Empty(t, c.Keys())
	assert.True(t, c.IsReady())
}

func TestReady_FactoryFailureIsRetryable(t *testing.T) {
	boom := errors.New("boom")
	fail := true
	c := newClass("c", nil, class.WithSchema(func(class.Factory) (class.Template, error) {
		if fail {
			return nil, boom
		}
		return class.Template{"x": 1}, nil
	}))

	_, err := c.Ready()
	require.ErrorIs(t, err, boom)
	assert.False(t, c.IsReady())
	assert.Nil(t, c.Props())

	_, err = c.Get("x")
	require.ErrorIs(t, err, boom, "accessors surface the failure too")

	fail = false
	v, err := c.Get("x")
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestReady_AncestorFactoryFailurePropagates(t *testing.T) {
	boom := errors.New("parent boom")
	parent := newClass("parent", nil, class.WithSchema(func(class.Factory) (class.Template, error) {
		return nil, boom
	}))
	child := newClass("child", parent, class.WithSchema(func(super class.Factory) (class.Template, error) {
		tpl, err := super()
		if err != nil {
			return nil, err
		}
		return tpl.Extend(class.Template{"y": 1}), nil
	}))

	_, err := child.Ready()
	require.ErrorIs(t, err, boom)
	assert.False(t, child.IsReady())
	assert.False(t, parent.IsReady(), "a child never initializes its parent")
}

func TestReady_PanicLeavesClassRetryable(t *testing.T) {
	panics := true
	c := newClass("c", nil, class.WithSchema(func(class.Factory) (class.Template, error) {
		if panics {
			panic("factory panic")
		}
		return class.Template{"ok": true}, nil
	}))

	require.Panics(t, func() { _, _ = c.Ready() })
	assert.False(t, c.IsReady())

	panics = false
	_, err := c.Ready()
	require.NoError(t, err)
	assert.True(t, c.IsReady())
}

func TestHook_RunsOnceBeforeSchema(t *testing.T) {
	var order []string
	c := newClass("c", nil,
		class.WithHook(func(*class.Class) error {
			order = append(order, "hook")
			return nil
		}),
		class.WithSchema(func(class.Factory) (class.Template, error) {
			order = append(order, "schema")
			return class.Template{}, nil
		}),
	)

	for i := 0; i < 3; i++ {
		_, err := c.Ready()
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"hook", "schema"}, order)
}

func TestHook_InheritedAndCalledWithSelf(t *testing.T) {
	var seen []string
	parent := newClass("parent", nil, class.WithHook(func(c *class.Class) error {
		seen = append(seen, c.Name())
		return nil
	}))
	child := newClass("child", parent)
	own := newClass("own", parent, class.WithHook(func(c *class.Class) error {
		seen = append(seen, "own:"+c.Name())
		return nil
	}))

	for _, c := range []*class.Class{child, parent, own} {
		_, err := c.Ready()
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"child", "parent", "own:own"}, seen)
}

func TestHook_FailureSkipsSchema(t *testing.T) {
	boom := errors.New("hook boom")
	calls := 0
	c := newClass("c", nil,
		class.WithHook(func(*class.Class) error { return boom }),
		class.WithSchema(counting(&calls, func() class.Template { return class.Template{} })),
	)

	_, err := c.Ready()
	require.ErrorIs(t, err, boom)
	assert.Zero(t, calls)
	assert.False(t, c.IsReady())
}

func TestReady_ReentrantCallFails(t *testing.T) {
	var inner error
	c := newClass("c", nil, class.WithHook(func(self *class.Class) error {
		_, inner = self.Ready()
		return nil
	}))

	_, err := c.Ready()
	require.NoError(t, err)
	assert.ErrorIs(t, inner, class.ErrInitializing)
	assert.True(t, c.IsReady())
}

func TestHook_MayReadyOtherClasses(t *testing.T) {
	registry := newClass("registry", nil)
	c := newClass("c", nil, class.WithHook(func(self *class.Class) error {
		return class.Objects.Update(registry, func(v []any) []any { return append(v, self.Name()) })
	}))

	_, err := c.Ready()
	require.NoError(t, err)
	assert.Equal(t, []any{"c"}, class.Objects.MustGet(registry))
}

func TestStrict_NameCollision(t *testing.T) {
	extinct := class.NewAccessor[bool]("extinct", "_extinct")
	schema := class.WithSchema(func(class.Factory) (class.Template, error) {
		return class.Template{"extinct": false}, nil
	})

	loose := newClass("loose", nil, schema, class.WithAccessors(extinct))
	_, err := loose.Ready()
	require.NoError(t, err, "the check is off by default")

	parent := newClass("parent", nil, class.WithAccessors(extinct))
	strict := newClass("strict", parent, schema, class.WithStrict(true))
	_, err = strict.Ready()
	require.ErrorIs(t, err, class.ErrNameCollision, "inherited accessors are checked")
	assert.False(t, strict.IsReady())

	same := newClass("same", nil, class.WithStrict(true), class.WithAccessors(class.NewField[bool]("extinct")), schema)
	_, err = same.Ready()
	require.NoError(t, err, "an accessor storing under its own name cannot collide")
}

func TestConfigure(t *testing.T) {
	c := newClass("c", nil)
	require.NoError(t, c.Configure(class.WithSchema(func(class.Factory) (class.Template, error) {
		return class.Template{"late": 1}, nil
	})))

	v, err := c.Get("late")
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	err = c.Configure(class.WithStrict(true))
	assert.ErrorIs(t, err, class.ErrAlreadyReady)
}

func TestIdentity(t *testing.T) {
	root := newClass("root", nil)
	mid := newClass("mid", root)
	leaf := newClass("leaf", mid)

	assert.Equal(t, "leaf", leaf.Name())
	assert.Equal(t, "leaf", leaf.String())
	assert.Same(t, mid, leaf.Parent())
	assert.Nil(t, root.Parent())
	assert.Equal(t, []*class.Class{mid, root}, leaf.Ancestors())
	assert.Empty(t, root.Ancestors())
}

func TestProps_IsSnapshot(t *testing.T) {
	c := newClass("c", nil, class.WithSchema(func(class.Factory) (class.Template, error) {
		return class.Template{"a": 1}, nil
	}))
	_, err := c.Ready()
	require.NoError(t, err)

	p := c.Props()
	p["a"] = 2
	p["b"] = 3

	v, err := c.Get("a")
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.Equal(t, []string{"a"}, c.Keys())
}
