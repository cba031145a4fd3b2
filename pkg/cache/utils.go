package cache

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
)

// Key joins parts with ':' into a cache key.
func Key(parts ...interface{}) string {
	s := make([]string, len(parts))
	for i, p := range parts {
		s[i] = fmt.Sprint(p)
	}
	return strings.Join(s, ":")
}

// HashKey generates MD5 hash of a key, for bounded-length keys built from free text.
func HashKey(key string) string {
	sum := md5.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}
