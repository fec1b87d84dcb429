package engine

import (
	"strings"

	"github.com/pitchplay/pitchplay/constant"
)

// Resolve returns the stream URL for id on the base endpoint, or "" when either is empty.
func Resolve(id, base string) string {
	id = strings.TrimSpace(id)
	base = strings.TrimRight(strings.TrimSpace(base), "/")

	if id == "" || base == "" {
		return ""
	}

	return base + "/" + constant.StreamPath + "/" + id
}
