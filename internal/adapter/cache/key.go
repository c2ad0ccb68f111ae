package cache

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// Key derives a deterministic cache key for req. The request is encoded to
// JSON, decoded into a generic value with null members removed and encoded
// again; encoding/json writes map keys sorted, so two requests that differ
// only in field order or in absent-vs-null fields collide.
func Key(namespace string, req any) (string, error) {
	raw, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("op=cache.Key: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return "", fmt.Errorf("op=cache.Key: %w", err)
	}
	canon, err := json.Marshal(dropNulls(generic))
	if err != nil {
		return "", fmt.Errorf("op=cache.Key: %w", err)
	}
	sum := blake2b.Sum256(canon)
	return namespace + ":" + hex.EncodeToString(sum[:]), nil
}

func dropNulls(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			if val == nil {
				delete(t, k)
				continue
			}
			t[k] = dropNulls(val)
		}
		return t
	case []any:
		for i := range t {
			t[i] = dropNulls(t[i])
		}
		return t
	default:
		return v
	}
}
