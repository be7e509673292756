package main

import (
	"fmt"
	"io"

	"github.com/kr/pretty"
	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/minilang"
)

// formatter writes trees and programs in some format.
type formatter interface {
	node(w io.Writer, n minilang.Node) error
	program(w io.Writer, defs []minilang.Definition) error
}

func formatterNamed(name string) (formatter, error) {
	switch name {
	case "text", "":
		return textFormat{}, nil
	case "yaml":
		return yamlFormat{}, nil
	case "go":
		return goFormat{}, nil
	}
	return nil, fmt.Errorf("unknown format %q (want text, yaml, or go)", name)
}

// textFormat writes source text.
type textFormat struct{}

func (textFormat) node(w io.Writer, n minilang.Node) error {
	_, err := fmt.Fprintln(w, n)
	return err
}

func (textFormat) program(w io.Writer, defs []minilang.Definition) error {
	for _, d := range defs {
		if _, err := fmt.Fprintln(w, d); err != nil {
			return err
		}
	}
	return nil
}

// goFormat writes Go syntax.
type goFormat struct{}

func (goFormat) node(w io.Writer, n minilang.Node) error {
	_, err := pretty.Fprintf(w, "%# v\n", n)
	return err
}

func (goFormat) program(w io.Writer, defs []minilang.Definition) error {
	_, err := pretty.Fprintf(w, "%# v\n", defs)
	return err
}

// yamlFormat writes YAML documents.
type yamlFormat struct{}

// yamlNode is the YAML shape of a tree. Exactly one of Num, Var, Call, or Op
// is set.
type yamlNode struct {
	Num  *float64    `yaml:"num,omitempty"`
	Var  string      `yaml:"var,omitempty"`
	Call string      `yaml:"call,omitempty"`
	Args []*yamlNode `yaml:"args,omitempty"`
	Op   string      `yaml:"op,omitempty"`
	LHS  *yamlNode   `yaml:"lhs,omitempty"`
	RHS  *yamlNode   `yaml:"rhs,omitempty"`
}

// yamlDef is the YAML shape of a definition. Exactly one of Var or Def is set.
type yamlDef struct {
	Var    string    `yaml:"var,omitempty"`
	Def    string    `yaml:"def,omitempty"`
	Params []string  `yaml:"params,omitempty"`
	Body   *yamlNode `yaml:"body"`
}

func toYAML(n minilang.Node) *yamlNode {
	switch n := n.(type) {
	case *minilang.Num:
		v := n.Value
		return &yamlNode{Num: &v}
	case *minilang.Var:
		return &yamlNode{Var: n.Name}
	case *minilang.Call:
		r := &yamlNode{Call: n.Name}
		for _, arg := range n.Args {
			r.Args = append(r.Args, toYAML(arg))
		}
		return r
	case *minilang.BinOp:
		return &yamlNode{Op: n.Op.String(), LHS: toYAML(n.LHS), RHS: toYAML(n.RHS)}
	default:
		panic(fmt.Errorf("unknown node type %T", n))
	}
}

func defsToYAML(defs []minilang.Definition) []yamlDef {
	r := make([]yamlDef, 0, len(defs))
	for _, d := range defs {
		switch d := d.(type) {
		case *minilang.VarDef:
			r = append(r, yamlDef{Var: d.Name, Body: toYAML(d.Body)})
		case *minilang.FuncDef:
			r = append(r, yamlDef{Def: d.Name, Params: d.Params, Body: toYAML(d.Body)})
		}
	}
	return r
}

func (yamlFormat) node(w io.Writer, n minilang.Node) error {
	return encodeYAML(w, toYAML(n))
}

func (yamlFormat) program(w io.Writer, defs []minilang.Definition) error {
	return encodeYAML(w, defsToYAML(defs))
}

// encodeYAML writes v as a YAML document with an explicit start marker, so
// that the output of several inputs is a valid stream.
func encodeYAML(w io.Writer, v any) error {
	if _, err := io.WriteString(w, "---\n"); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
