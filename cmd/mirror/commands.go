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
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"dirpx.dev/mirror"
)

var (
	heading = color.New(color.FgCyan, color.Bold)
	faint   = color.New(color.Faint)
	miss    = color.New(color.FgRed)
)

func (a *app) assembliesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assemblies",
		Short: "List the modules linked into this binary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for i, asm := range mirror.GetAssemblies() {
				name := asm.String()
				if i == 0 {
					name = heading.Sprint(name)
				}
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}
}

func (a *app) refsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refs [assembly]",
		Short: "List the assemblies an assembly references (main module by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asm, err := assemblyArg(args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			heading.Fprintln(out, asm.String())
			for _, ref := range asm.GetReferencedAssemblies() {
				fmt.Fprintln(out, "  "+ref.FullName())
			}
			return nil
		},
	}
}

// assemblyArg loads the assembly named by args[0], or the main module.
func assemblyArg(args []string) (*mirror.Assembly, error) {
	if len(args) == 0 {
		asms := mirror.GetAssemblies()
		if len(asms) == 0 {
			return nil, errors.New("mirror: no assemblies")
		}
		return asms[0], nil
	}
	name, err := mirror.ParseAssemblyName(args[0])
	if err != nil {
		return nil, err
	}
	return mirror.LoadAssembly(name)
}

func (a *app) typeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "type <name>",
		Short: "Describe a type and its members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, err := mirror.GetType(args[0], nil, nil, a.v.GetBool(keyIgnoreCase))
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			describe(cmd.OutOrStdout(), typ)
			return nil
		},
	}
	cmd.Flags().Bool("ignore-case", false, "match type names case-insensitively")
	_ = a.v.BindPFlag(keyIgnoreCase, cmd.Flags().Lookup("ignore-case"))
	return cmd
}

// describe prints typ followed by its members grouped by kind.
func describe(w io.Writer, typ *mirror.Type) {
	heading.Fprintln(w, typ.FullName())
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "  kind\t%s\n", typ.Kind())
	if asm, err := typ.Assembly(); err == nil {
		fmt.Fprintf(tw, "  assembly\t%s\n", asm)
	}
	if base, err := typ.BaseType(); err == nil {
		fmt.Fprintf(tw, "  base\t%s\n", base)
	}
	if elem, err := typ.ElementType(); err == nil {
		fmt.Fprintf(tw, "  element\t%s\n", elem)
	}
	if ifaces := typ.GetInterfaces(); len(ifaces) > 0 {
		fmt.Fprintf(tw, "  implements\t%s\n", join(ifaces))
	}
	_ = tw.Flush()

	section(w, "Fields", len(typ.GetFields()), func(tw io.Writer) {
		for _, f := range typ.GetFields() {
			ft, _ := f.FieldType()
			fmt.Fprintf(tw, "  %s\t%s\n", f.Name(), ft)
		}
	})
	section(w, "Properties", len(typ.GetProperties()), func(tw io.Writer) {
		for _, p := range typ.GetProperties() {
			pt, _ := p.PropertyType()
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", p.Name(), pt, access(p))
		}
	})
	section(w, "Events", len(typ.GetEvents()), func(tw io.Writer) {
		for _, e := range typ.GetEvents() {
			ht, _ := e.HandlerType()
			fmt.Fprintf(tw, "  %s\t%s\n", e.Name(), ht)
		}
	})
	section(w, "Methods", len(typ.GetMethods()), func(tw io.Writer) {
		for _, m := range typ.GetMethods() {
			fmt.Fprintf(tw, "  %s(%s)\t%s\n", m.Name(), join(m.ParameterTypes()), m.ReturnType())
		}
	})
	section(w, "Constructors", len(typ.GetConstructors()), func(tw io.Writer) {
		for _, c := range typ.GetConstructors() {
			fmt.Fprintf(tw, "  %s(%s)\n", c.Name(), join(c.ParameterTypes()))
		}
	})
}

// section prints a heading and a tab-aligned body, or nothing when n is zero.
func section(w io.Writer, title string, n int, body func(io.Writer)) {
	if n == 0 {
		return
	}
	heading.Fprintln(w, title)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	body(tw)
	_ = tw.Flush()
}

func access(p *mirror.Property) string {
	switch {
	case p.CanRead() && p.CanWrite():
		return faint.Sprint("get set")
	case p.CanWrite():
		return faint.Sprint("set")
	default:
		return faint.Sprint("get")
	}
}

func join(types []*mirror.Type) string {
	s := make([]string, len(types))
	for i, t := range types {
		s[i] = t.String()
	}
	return strings.Join(s, ", ")
}

func (a *app) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the size of every identity table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, s := range mirror.Stats() {
				n := fmt.Sprint(s.Len)
				if s.Len == 0 {
					n = miss.Sprint(n)
				}
				fmt.Fprintf(tw, "%s\t%s\n", s.Kind, n)
			}
			return tw.Flush()
		},
	}
}
