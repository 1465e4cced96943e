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
	"fmt"

	"github.com/spf13/cobra"

	"dirpx.dev/ready"
)

func newGroupsCmd() *cobra.Command {
	var a, b []string

	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Sibling types collect their own members",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, n := range a {
				if _, err := newMember(n, func(g Groups) *GroupA { return &GroupA{g} }); err != nil {
					return err
				}
			}
			for _, n := range b {
				if _, err := newMember(n, func(g Groups) *GroupB { return &GroupB{g} }); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			for _, row := range []struct {
				label string
				names func() ([]string, error)
			}{
				{"GroupA", memberNames[GroupA]},
				{"GroupB", memberNames[GroupB]},
				{"Groups", memberNames[Groups]},
			} {
				names, err := row.names()
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s.members: %v\n", row.label, names)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&a, "a", []string{"Alp", "Astro"}, "names of GroupA members")
	cmd.Flags().StringSliceVar(&b, "b", []string{"Bitter"}, "names of GroupB members")
	return cmd
}

func newCatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cats",
		Short: "A subtype extends its ancestor's schema, read through accessors",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, row := range []struct {
				label string
				of    func() (*ready.Class, error)
			}{
				{"Cat", ready.Of[Cat]},
				{"SaberToothed", ready.Of[SaberToothed]},
			} {
				c, err := row.of()
				if err != nil {
					return err
				}
				e, err := extinct.Get(c)
				if err != nil {
					return err
				}
				p, err := purrs.Get(c)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s: extinct=%t purrs=%t\n", row.label, e, p)
			}
			return nil
		},
	}
}

func newFallbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fallback",
		Short: "Raw reads on an unready subtype see the ancestor's value",
		RunE: func(cmd *cobra.Command, args []string) error {
			parent, err := ready.Ready[Parent]()
			if err != nil {
				return err
			}
			if err := arr.Update(parent, func(v []int) []int { return append(v, 2) }); err != nil {
				return err
			}
			child, err := ready.Of[Child]()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			show := func() {
				p, _ := parent.Peek("arr")
				c, _ := child.Peek("arr")
				fmt.Fprintf(out, "P %v\nC %v\n", p, c)
			}

			show()
			if _, err := child.Ready(); err != nil {
				return err
			}
			show()
			return nil
		},
	}
}
