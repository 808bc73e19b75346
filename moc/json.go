// Public domain.

package moc

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	json "github.com/goccy/go-json"
)

// JSON returns the JSON form of the MOC, an object mapping order
// strings to cell arrays, keys in ascending order.  As in the ASCII
// form, a stated order deeper than any populated cell appears as a
// trailing key with an empty array.
func (m *MOC) JSON() ([]byte, error) {
	orders, group := m.cellsByOrder()
	var buf bytes.Buffer
	buf.WriteByte('{')
	deepest := -1
	for oi, o := range orders {
		if oi > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%q:", strconv.Itoa(o))
		b, err := json.Marshal(group[o])
		if err != nil {
			return nil, err
		}
		buf.Write(b)
		deepest = o
	}
	if m.order > deepest {
		if deepest >= 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%q:[]", strconv.Itoa(m.order))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ParseJSON parses the JSON form.  An order key with an empty cell
// array acts as an order marker.
func ParseJSON(data []byte) (*MOC, error) {
	var obj map[string][]int64
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("MOC JSON: %v", err)
	}
	if len(obj) == 0 {
		return nil, errors.New("MOC JSON: no content")
	}
	m := New(0)
	for k, ps := range obj {
		order, err := strconv.Atoi(k)
		if err != nil || order < 0 || order > MaxOrder {
			return nil, fmt.Errorf("MOC JSON: invalid order %q", k)
		}
		if order > m.order {
			m.order = order
		}
		for _, p := range ps {
			if p < 0 || p >= 12<<uint(2*order) {
				return nil, fmt.Errorf("MOC JSON: cell %d out of range for order %d", p, order)
			}
			m.addRange(order, p, p)
		}
	}
	return m, nil
}
