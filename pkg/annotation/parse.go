package annotation

import (
	stderrors "errors"
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/axonresolve/internal/errors"
	"github.com/toyz/axonresolve/pkg/resolve"
)

// DeclarationError reports an invalid declaration and where it went wrong
type DeclarationError struct {
	*errors.BaseError
	Source string
	Line   int
	Column int
}

func newDeclarationError(src string, pos lexer.Position, format string, args ...interface{}) *DeclarationError {
	msg := fmt.Sprintf(format, args...)
	base := errors.Newf(errors.DeclarationErrorCode, "%d:%d: %s", pos.Line, pos.Column, msg)
	base.WithContext("source", src)
	return &DeclarationError{BaseError: base, Source: src, Line: pos.Line, Column: pos.Column}
}

func wrapSyntaxError(src string, err error) error {
	var perr participle.Error
	if stderrors.As(err, &perr) {
		declErr := newDeclarationError(src, perr.Position(), "%s", perr.Message())
		declErr.WithCause(err)
		return declErr
	}
	declErr := newDeclarationError(src, lexer.Position{Line: 1, Column: 1}, "%v", err)
	declErr.WithCause(err)
	return declErr
}

// Parameter is a parsed declaration
type Parameter struct {
	Name       string
	Nullable   bool
	HasDefault bool
	Default    interface{}
	Markers    []resolve.Marker
}

// Argument converts the declaration into a resolve.Argument of typeName
func (p *Parameter) Argument(typeName string) *resolve.Argument {
	return &resolve.Argument{
		Name:       p.Name,
		Type:       typeName,
		HasDefault: p.HasDefault,
		Default:    p.Default,
		Nullable:   p.Nullable,
		Markers:    p.Markers,
	}
}

// ParseParameter parses "name[?] [= literal] @Marker(...)..."
func (r *Registry) ParseParameter(src string) (*Parameter, error) {
	decl, err := declarationParser.ParseString("", src)
	if err != nil {
		return nil, wrapSyntaxError(src, err)
	}

	markers, err := r.build(src, decl.Markers)
	if err != nil {
		return nil, err
	}

	return &Parameter{
		Name:       decl.Name,
		Nullable:   decl.Nullable,
		HasDefault: decl.Default != nil,
		Default:    decl.Default.value(),
		Markers:    markers,
	}, nil
}

// ParseMarkers parses a list of markers such as `@FromBody(format=yaml) @FromQuery`
func (r *Registry) ParseMarkers(src string) ([]resolve.Marker, error) {
	list, err := markerListParser.ParseString("", src)
	if err != nil {
		return nil, wrapSyntaxError(src, err)
	}
	return r.build(src, list.Markers)
}

// build instantiates every marker, collecting all failures
func (r *Registry) build(src string, nodes []*markerNode) ([]resolve.Marker, error) {
	markers := make([]resolve.Marker, 0, len(nodes))
	collected := errors.NewMultipleErrors()

	for _, node := range nodes {
		factory, exists := r.factory(node.Name)
		if !exists {
			declErr := newDeclarationError(src, node.Pos, "unknown marker '@%s'", node.Name)
			declErr.WithSuggestion(fmt.Sprintf("known markers: %v", r.Names()))
			collected.Add(declErr)
			continue
		}

		args := make(Args, len(node.Args))
		duplicate := false
		for _, arg := range node.Args {
			if _, seen := args[arg.Key]; seen {
				collected.Add(newDeclarationError(src, arg.Pos, "@%s: duplicate argument '%s'", node.Name, arg.Key))
				duplicate = true
				continue
			}
			args[arg.Key] = arg.Value.value()
		}
		if duplicate {
			continue
		}

		marker, err := factory(args)
		if err != nil {
			collected.Add(newDeclarationError(src, node.Pos, "@%s: %v", node.Name, err))
			continue
		}
		markers = append(markers, marker)
	}

	switch collected.Count() {
	case 0:
		return markers, nil
	case 1:
		return nil, collected.Errors[0]
	default:
		return nil, collected
	}
}

// ParseParameter parses src with the Default registry
func ParseParameter(src string) (*Parameter, error) {
	return Default.ParseParameter(src)
}

// ParseMarkers parses src with the Default registry
func ParseMarkers(src string) ([]resolve.Marker, error) {
	return Default.ParseMarkers(src)
}
