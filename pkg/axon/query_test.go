package axon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryMap_Keys(t *testing.T) {
	q, err := ParseQueryMap("page=2&bad=x&tag=a&tag=b")
	require.NoError(t, err)
	assert.Equal(t, []string{"bad", "page", "tag"}, q.Keys())
}

func TestQueryMap_Tree(t *testing.T) {
	tests := []struct {
		raw  string
		want map[string]interface{}
	}{
		{"", map[string]interface{}{}},
		{"a=1", map[string]interface{}{"a": "1"}},
		{"a=1&a=2", map[string]interface{}{"a": "2"}},
		{"a[]=1&a[]=2", map[string]interface{}{"a": []interface{}{"1", "2"}}},
		{"f[name]=x&f[limit]=3", map[string]interface{}{"f": map[string]interface{}{"name": "x", "limit": "3"}}},
		{"f[tags][]=a&f[tags][]=b", map[string]interface{}{"f": map[string]interface{}{"tags": []interface{}{"a", "b"}}}},
		{"a[b=1", map[string]interface{}{"a[b": "1"}},
		{"[x]=1", map[string]interface{}{"[x]": "1"}},
		{"flag=", map[string]interface{}{"flag": ""}},
		{"a[]=1&a[k]=2", map[string]interface{}{"a": map[string]interface{}{"0": "1", "k": "2"}}},
		{"a[]=1&a[]=3&a[k]=2", map[string]interface{}{"a": map[string]interface{}{"0": "1", "1": "3", "k": "2"}}},
		{"a[0]=x&a[]=y", map[string]interface{}{"a": map[string]interface{}{"0": "x", "1": "y"}}},
		{"f[k]=1&f[tags][]=a", map[string]interface{}{"f": map[string]interface{}{"k": "1", "tags": []interface{}{"a"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			q, err := ParseQueryMap(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, q.Tree())
		})
	}
}
