package iface

import (
	"encoding/base64"
	"fmt"

	"github.com/rickb777/date/v2"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// The YAML shape form of an interface declaration:
//
//	name: Utils
//	operations:
//	  - name: add
//	    args:
//	      - {name: operator_a, type: int}
//	      - {name: operator_b, type: int, default: 7}
//
// Operations and arguments are lists so that declaration order survives the
// round trip.

type shapeDoc struct {
	Name       string    `yaml:"name"`
	Operations []shapeOp `yaml:"operations"`
}

type shapeOp struct {
	Name string     `yaml:"name"`
	Args []shapeArg `yaml:"args,omitempty"`
}

type shapeArg struct {
	Name    string     `yaml:"name"`
	Type    string     `yaml:"type"`
	Default yaml.Node `yaml:"default,omitempty"`
}

var tagsByName = map[string]TypeTag{
	"string": String,
	"int":    Int,
	"float":  Float,
	"bool":   Bool,
	"bytes":  Bytes,
	"date":   Date,
}

var namesByTag = map[TypeTag]string{
	String: "string",
	Int:    "int",
	Float:  "float",
	Bool:   "bool",
	Bytes:  "bytes",
	Date:   "date",
}

// ParseShape builds an Interface from its YAML shape form. Unknown type
// names and undecodable defaults are declaration errors, aggregated together
// with the errors New itself reports.
func ParseShape(data []byte) (*Interface, error) {
	var doc shapeDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing interface shape: %w", err)
	}
	var errs error
	ops := make([]Operation, 0, len(doc.Operations))
	for _, op := range doc.Operations {
		args := make([]Argument, 0, len(op.Args))
		for _, a := range op.Args {
			arg, err := a.toArgument(op.Name)
			if err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			args = append(args, arg)
		}
		ops = append(ops, Op(op.Name, args...))
	}
	ifc, err := New(doc.Name, ops...)
	if err != nil {
		errs = multierr.Append(errs, err)
	}
	if errs != nil {
		return nil, errs
	}
	return ifc, nil
}

func (a shapeArg) toArgument(op string) (Argument, error) {
	tag, ok := tagsByName[a.Type]
	if !ok {
		return Argument{}, fmt.Errorf(
			"%w: argument %q of operation %q has unknown type %q",
			ErrMalformedArgument, a.Name, op, a.Type)
	}
	if a.Default.IsZero() {
		return Arg(a.Name, tag), nil
	}
	def, err := decodeDefault(tag, &a.Default)
	if err != nil {
		return Argument{}, fmt.Errorf(
			"%w: default of argument %q (operation %q): %v",
			ErrMalformedArgument, a.Name, op, err)
	}
	return ArgDefault(a.Name, tag, def), nil
}

func decodeDefault(tag TypeTag, node *yaml.Node) (any, error) {
	switch tag {
	case String:
		var v string
		return v, node.Decode(&v)
	case Int:
		var v int
		return v, node.Decode(&v)
	case Float:
		var v float64
		return v, node.Decode(&v)
	case Bool:
		var v bool
		return v, node.Decode(&v)
	case Bytes:
		// yaml.v3 cannot decode !!binary into []byte directly; decoding into
		// a string yields the base64-decoded payload.
		var s string
		if err := node.Decode(&s); err != nil {
			return nil, err
		}
		return []byte(s), nil
	case Date:
		var s string
		if err := node.Decode(&s); err != nil {
			return nil, err
		}
		return date.ParseISO(s)
	default:
		return nil, fmt.Errorf("type %s has no shape form", tag)
	}
}

// Shape serializes the interface back to its YAML shape form. Only the
// predeclared type tags have a shape name; interfaces declared with Of over
// other Go types cannot be serialized.
func (i *Interface) Shape() ([]byte, error) {
	doc := shapeDoc{Name: i.name}
	for _, op := range i.Operations() {
		sop := shapeOp{Name: op.Name()}
		for _, arg := range op.Arguments() {
			name, ok := namesByTag[arg.Type()]
			if !ok {
				return nil, fmt.Errorf(
					"argument %q of operation %q: type %s has no shape form",
					arg.Name(), op.Name(), arg.Type())
			}
			sarg := shapeArg{Name: arg.Name(), Type: name}
			if def, has := arg.Default(); has {
				node := &yaml.Node{}
				if d, isDate := def.(date.Date); isDate {
					def = d.String()
				}
				if b, isBytes := def.([]byte); isBytes {
					// yaml.v3 encodes []byte as a sequence of integers; emit
					// the !!binary base64 convention instead.
					node.Kind = yaml.ScalarNode
					node.Tag = "!!binary"
					node.Value = base64.StdEncoding.EncodeToString(b)
				} else if err := node.Encode(def); err != nil {
					return nil, fmt.Errorf(
						"argument %q of operation %q: %w", arg.Name(), op.Name(), err)
				}
				sarg.Default = *node
			}
			sop.Args = append(sop.Args, sarg)
		}
		doc.Operations = append(doc.Operations, sop)
	}
	return yaml.Marshal(doc)
}
