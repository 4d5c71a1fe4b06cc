package axon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAxonPath_Parts(t *testing.T) {
	tests := []struct {
		path string
		want []AxonPathPart
	}{
		{"/users", []AxonPathPart{{StaticPart, "/users"}}},
		{"/users/{id}", []AxonPathPart{{StaticPart, "/users/"}, {ParameterPart, "id"}}},
		{"/users/{id:int}/posts", []AxonPathPart{{StaticPart, "/users/"}, {ParameterPart, "id"}, {StaticPart, "/posts"}}},
		{"/files/{*}", []AxonPathPart{{StaticPart, "/files/"}, {WildcardPart, "*"}}},
		{"/broken/{id", []AxonPathPart{{StaticPart, "/broken/"}, {StaticPart, "{id"}}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, AxonPath(tt.path).Parts())
		})
	}
}

func TestAxonPath_Convert(t *testing.T) {
	colon := func(name string) string { return ":" + name }
	braces := func(name string) string { return "{" + name + "}" }

	assert.Equal(t, "/users/:id/posts", AxonPath("/users/{id:int}/posts").Convert(colon, "*path"))
	assert.Equal(t, "/files/*path", AxonPath("/files/{*}").Convert(colon, "*path"))
	assert.Equal(t, "/users/{id}", AxonPath("/users/{id}").Convert(braces, "*"))
}
