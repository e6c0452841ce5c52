package term

import (
	"strconv"
	"strings"
)

// Key is the hash-cons key for a node. It is an unambiguous encoding of
// (Symbol, Children), suitable as a Go map key.
type Key string

// Key produces the canonical encoding of the node.
//
// Format: <len(symbol)>:<symbol>(<child>,<child>,...)
//
// The length prefix makes the encoding injective: a symbol that itself
// contains "(", "," or digits cannot collide with a structurally different
// node. Callers must canonicalize children before computing the key;
// the hash-cons table is keyed by canonical nodes only.
func (n Node) Key() Key {
	var b strings.Builder
	b.WriteString(strconv.Itoa(len(n.Symbol)))
	b.WriteByte(':')
	b.WriteString(n.Symbol)
	b.WriteByte('(')
	for i, c := range n.Children {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(int64(c), 10))
	}
	b.WriteByte(')')
	return Key(b.String())
}
