// Public domain.

package moc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// String returns the ASCII form of the MOC:  cells grouped by ascending
// order as "order/cell,cell-cell ...", runs of consecutive cells
// collapsed to ranges.  A trailing bare "order/" records a stated order
// deeper than any populated cell.  An empty MOC is just "order/".
func (m *MOC) String() string {
	orders, group := m.cellsByOrder()
	var b strings.Builder
	deepest := -1
	for oi, o := range orders {
		if oi > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%d/", o)
		ps := group[o]
		for i := 0; i < len(ps); {
			j := i + 1
			for j < len(ps) && ps[j] == ps[j-1]+1 {
				j++
			}
			if i > 0 {
				b.WriteByte(',')
			}
			if j == i+1 {
				fmt.Fprintf(&b, "%d", ps[i])
			} else {
				fmt.Fprintf(&b, "%d-%d", ps[i], ps[j-1])
			}
			i = j
		}
		deepest = o
	}
	if m.order > deepest {
		if deepest >= 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%d/", m.order)
	}
	return b.String()
}

// ParseASCII parses the ASCII form.
//
// Tokens are separated by white space.  Each is either
// "order/cell,cell-cell,..." as written by String, a bare "order/"
// marker, or a bare integer naming a uniq-encoded cell.  Input with no
// tokens at all is an error.
func ParseASCII(s string) (*MOC, error) {
	m := New(0)
	any := false
	for _, tok := range strings.Fields(s) {
		any = true
		sl := strings.IndexByte(tok, '/')
		if sl < 0 {
			u, err := strconv.ParseInt(tok, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("MOC text: invalid token %q", tok)
			}
			if err = m.AddUniq(u); err != nil {
				return nil, fmt.Errorf("MOC text: %v", err)
			}
			continue
		}
		order, err := strconv.Atoi(tok[:sl])
		if err != nil || order < 0 || order > MaxOrder {
			return nil, fmt.Errorf("MOC text: invalid order in token %q", tok)
		}
		if order > m.order {
			m.order = order
		}
		rest := tok[sl+1:]
		if rest == "" {
			continue // order marker only
		}
		for _, f := range strings.Split(rest, ",") {
			lo, hi := f, f
			if d := strings.IndexByte(f, '-'); d > 0 {
				lo, hi = f[:d], f[d+1:]
			}
			pl, err := strconv.ParseInt(lo, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("MOC text: invalid cell in token %q", tok)
			}
			ph := pl
			if hi != lo {
				if ph, err = strconv.ParseInt(hi, 10, 64); err != nil {
					return nil, fmt.Errorf("MOC text: invalid cell in token %q", tok)
				}
			}
			if pl < 0 || ph < pl || ph >= 12<<uint(2*order) {
				return nil, fmt.Errorf("MOC text: cells %q out of range for order %d", f, order)
			}
			m.addRange(order, pl, ph)
		}
	}
	if !any {
		return nil, errors.New("MOC text: no content")
	}
	return m, nil
}
