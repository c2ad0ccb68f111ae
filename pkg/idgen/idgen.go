// Package idgen generates lexicographically sortable identifiers.
package idgen

import "github.com/oklog/ulid/v2"

// New returns a ULID string. ulid.Make uses a process-wide monotonic source
// and is safe for concurrent use.
func New() string { return ulid.Make().String() }

// WithPrefix returns prefix + "_" + ULID.
func WithPrefix(prefix string) string { return prefix + "_" + New() }
