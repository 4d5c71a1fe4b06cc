package axon

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// QueryMap wraps URL query parameters
type QueryMap struct {
	values url.Values
}

// NewQueryMap creates a QueryMap from a request context
func NewQueryMap(c RequestContext) QueryMap {
	return QueryMap{
		values: url.Values(c.QueryParams()),
	}
}

// ParseQueryMap parses a raw query string such as "a=1&b[]=2"
func ParseQueryMap(raw string) (QueryMap, error) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return QueryMap{}, err
	}
	return QueryMap{values: values}, nil
}

// Keys returns all query parameter keys in sorted order
func (q QueryMap) Keys() []string {
	keys := make([]string, 0, len(q.values))
	for key := range q.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Tree returns the query parameters as a nested mapping.
//
// Bracketed keys nest: "filter[name]=x" becomes {"filter": {"name": "x"}} and
// "tag[]=a&tag[]=b" becomes {"tag": ["a", "b"]}. A plain key given more than
// once keeps its last value. Leaves are strings.
//
// When list and named segments meet under one parent the parent becomes a
// map and list entries take the keys "0", "1", ...: "a[]=1&a[k]=2" becomes
// {"a": {"0": "1", "k": "2"}}.
func (q QueryMap) Tree() map[string]interface{} {
	tree := make(map[string]interface{}, len(q.values))
	for _, key := range q.Keys() {
		path := splitQueryKey(key)
		for _, value := range q.values[key] {
			tree[path[0]] = insertQueryPath(tree[path[0]], path[1:], value)
		}
	}
	return tree
}

// splitQueryKey splits "a[b][]" into ["a", "b", ""]. Malformed keys are
// returned whole.
func splitQueryKey(key string) []string {
	open := strings.IndexByte(key, '[')
	if open <= 0 {
		return []string{key}
	}

	path := []string{key[:open]}
	rest := key[open:]
	for rest != "" {
		if rest[0] != '[' {
			return []string{key}
		}
		end := strings.IndexByte(rest, ']')
		if end == -1 {
			return []string{key}
		}
		path = append(path, rest[1:end])
		rest = rest[end+1:]
	}
	return path
}

func insertQueryPath(node interface{}, path []string, value string) interface{} {
	if len(path) == 0 {
		return value
	}

	segment, rest := path[0], path[1:]
	if segment == "" {
		if m, ok := node.(map[string]interface{}); ok {
			m[strconv.Itoa(nextIndex(m))] = insertQueryPath(nil, rest, value)
			return m
		}
		list, _ := node.([]interface{})
		return append(list, insertQueryPath(nil, rest, value))
	}

	var m map[string]interface{}
	switch n := node.(type) {
	case map[string]interface{}:
		m = n
	case []interface{}:
		m = make(map[string]interface{}, len(n)+1)
		for i, item := range n {
			m[strconv.Itoa(i)] = item
		}
	default:
		m = make(map[string]interface{})
	}
	m[segment] = insertQueryPath(m[segment], rest, value)
	return m
}

// nextIndex returns one past the largest integer key of m, or 0
func nextIndex(m map[string]interface{}) int {
	next := 0
	for key := range m {
		if i, err := strconv.Atoi(key); err == nil && i >= next {
			next = i + 1
		}
	}
	return next
}
