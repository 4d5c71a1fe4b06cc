package axon

import (
	"strings"
)

// AxonPathPartType represents the type of path part
type AxonPathPartType int

const (
	StaticPart AxonPathPartType = iota
	ParameterPart
	WildcardPart
)

// AxonPathPart represents a single part of an Axon path
type AxonPathPart struct {
	Type  AxonPathPartType
	Value string // literal text for static parts, the name for parameters
}

// AxonPath is a route path where "{name}" marks a parameter and "{*}" a
// trailing wildcard: "/users/{id}/files/{*}"
type AxonPath string

// NewAxonPath creates a new AxonPath from a string
func NewAxonPath(path string) AxonPath {
	return AxonPath(path)
}

// Raw returns the path as written
func (p AxonPath) Raw() string {
	return string(p)
}

// Parts splits the path into static, parameter and wildcard parts. An
// unclosed brace is kept as static text.
func (p AxonPath) Parts() []AxonPathPart {
	rest := string(p)
	var parts []AxonPathPart

	for rest != "" {
		open := strings.IndexByte(rest, '{')
		if open == -1 {
			parts = append(parts, AxonPathPart{Type: StaticPart, Value: rest})
			break
		}
		if open > 0 {
			parts = append(parts, AxonPathPart{Type: StaticPart, Value: rest[:open]})
		}

		end := strings.IndexByte(rest[open:], '}')
		if end == -1 {
			parts = append(parts, AxonPathPart{Type: StaticPart, Value: rest[open:]})
			break
		}

		name := rest[open+1 : open+end]
		if name == "*" {
			parts = append(parts, AxonPathPart{Type: WildcardPart, Value: "*"})
		} else {
			// "{id:int}" style type hints are accepted and ignored
			if colon := strings.IndexByte(name, ':'); colon != -1 {
				name = name[:colon]
			}
			parts = append(parts, AxonPathPart{Type: ParameterPart, Value: name})
		}
		rest = rest[open+end+1:]
	}

	return parts
}

// Convert renders the path in a router's syntax. param formats a parameter
// name; wildcard is appended for "{*}".
func (p AxonPath) Convert(param func(name string) string, wildcard string) string {
	var b strings.Builder
	for _, part := range p.Parts() {
		switch part.Type {
		case StaticPart:
			b.WriteString(part.Value)
		case ParameterPart:
			b.WriteString(param(part.Value))
		case WildcardPart:
			b.WriteString(wildcard)
		}
	}
	return b.String()
}
