package publish

import (
	"crypto/sha256"
	"fmt"

	"github.com/dgallion1/flagdoc/internal/render"
)

// Digest computes a SHA-256 over every page path and content, in order, and
// returns it as a hex string. Two runs over the same inputs share a digest.
func Digest(pages []render.Page) string {
	h := sha256.New()
	for _, p := range pages {
		h.Write([]byte(p.Path))
		h.Write([]byte{0})
		h.Write(p.Content)
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
