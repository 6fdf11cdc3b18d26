// Package repository holds the key-value backed repositories and the key
// layout they share.
package repository

// DefaultPrefix namespaces every key written by the service.
const DefaultPrefix = "riskboard"

// Key joins prefix, kind and id as "prefix:kind:id".
func Key(prefix, kind, id string) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return prefix + ":" + kind + ":" + id
}
