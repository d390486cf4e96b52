// Package idgenerator builds sortable string ids: an optional prefix, the creation time in
// unix milliseconds and a raw-url base64 UUID.
package idgenerator

import (
	"encoding/base64"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Generator interface {
	Generate(prefixes ...string) string
}

type IDGenerator struct {
	now func() time.Time
}

func New() Generator {
	return &IDGenerator{now: time.Now}
}

// Generate joins prefixes with "-". Without a prefix the id starts with the timestamp.
func (g *IDGenerator) Generate(prefixes ...string) string {
	id := uuid.New()

	var b strings.Builder
	if prefix := strings.Join(prefixes, "-"); prefix != "" {
		b.WriteString(prefix)
		b.WriteByte('-')
	}
	b.WriteString(strconv.FormatInt(g.now().UnixMilli(), 10))
	b.WriteString(base64.RawURLEncoding.EncodeToString(id[:]))

	return b.String()
}
