// Public domain.

// Package moc implements Multi-Order Coverage maps, hierarchical
// representations of sky regions as nested HEALPix cells of varying
// resolution.
//
// Coverage is held internally as sorted disjoint ranges of cell numbers
// at the deepest supported order, MaxOrder.  A cell of a coarser order
// is a power-of-4 aligned block of these.  Set algebra then reduces to
// range merging, and the multi-order cell list of the serialized forms
// is recovered by greedy decomposition into the largest aligned blocks.
package moc

import (
	"fmt"
	"math/bits"
	"sort"

	"github.com/soniakeys/moctool/healpix"
)

// MaxOrder is the deepest cell order representable in a MOC.
const MaxOrder = 27

// nCell is the number of cells on the whole sky at MaxOrder.
const nCell = 12 << (2 * MaxOrder)

// Range is a half-open interval of cell numbers at order MaxOrder.
type Range struct {
	Lo, Hi int64
}

// Cell identifies a single HEALPix cell.  Order must be in the range
// 0 to MaxOrder and Pix in the range 0 to 12*4^Order-1.
type Cell struct {
	Order int
	Pix   int64
}

// A MOC is a coverage map with a stated resolution order.
//
// The zero value is an empty MOC of order 0, ready to use.
type MOC struct {
	order int
	r     []Range
	dirty bool
}

// New returns an empty MOC of the given order.
//
// Order is not validated here.  It must be in the range 0 to MaxOrder;
// the file parsers and the command line validate orders from input.
func New(order int) *MOC {
	return &MOC{order: order}
}

// Order returns the stated resolution order of the MOC.  It can exceed
// the order of the deepest populated cell.
func (m *MOC) Order() int { return m.order }

// Empty returns true if the MOC covers no cells.
func (m *MOC) Empty() bool {
	m.norm()
	return len(m.r) == 0
}

// AddCell adds a single cell to the coverage.
//
// Like New, arguments are not validated.  A cell deeper than the stated
// order raises the order.
func (m *MOC) AddCell(order int, pix int64) {
	m.addRange(order, pix, pix)
}

// addRange adds cells lo through hi inclusive at the given order.
func (m *MOC) addRange(order int, lo, hi int64) {
	if order > m.order {
		m.order = order
	}
	shift := uint(2 * (MaxOrder - order))
	m.r = append(m.r, Range{lo << shift, (hi + 1) << shift})
	m.dirty = true
}

// AddUniq adds a uniq-encoded cell, validating it against MaxOrder.
func (m *MOC) AddUniq(u int64) error {
	if u < 4 {
		return fmt.Errorf("invalid uniq cell number %d", u)
	}
	order, pix := healpix.SplitUniq(u)
	if order > MaxOrder {
		return fmt.Errorf("uniq cell %d deeper than order %d", u, MaxOrder)
	}
	m.addRange(order, pix, pix)
	return nil
}

// SetOrder changes the stated order of the MOC.
//
// Setting an order coarser than existing cells degrades them, rounding
// coverage outward so that the result is a superset of the original.
// Order is not validated; it must be in the range 0 to MaxOrder.
func (m *MOC) SetOrder(order int) {
	if order < m.order {
		m.norm()
		mask := int64(1)<<uint(2*(MaxOrder-order)) - 1
		for i, r := range m.r {
			m.r[i].Lo = r.Lo &^ mask
			m.r[i].Hi = (r.Hi + mask) &^ mask
		}
		m.dirty = true
	}
	m.order = order
}

// norm sorts and merges ranges.  All read paths call it first.
func (m *MOC) norm() {
	if !m.dirty {
		return
	}
	m.dirty = false
	if len(m.r) == 0 {
		return
	}
	sort.Slice(m.r, func(i, j int) bool { return m.r[i].Lo < m.r[j].Lo })
	out := m.r[:1]
	for _, r := range m.r[1:] {
		if last := &out[len(out)-1]; r.Lo <= last.Hi {
			if r.Hi > last.Hi {
				last.Hi = r.Hi
			}
		} else {
			out = append(out, r)
		}
	}
	m.r = out
}

// Union returns a new MOC covering everything either operand covers.
// The result order is the deeper of the two operand orders.
func (m *MOC) Union(o *MOC) *MOC {
	m.norm()
	o.norm()
	u := &MOC{order: deeper(m.order, o.order)}
	u.r = append(append(make([]Range, 0, len(m.r)+len(o.r)), m.r...), o.r...)
	u.dirty = true
	u.norm()
	return u
}

// Intersect returns a new MOC covering only what both operands cover.
// The result order is the deeper of the two operand orders.
func (m *MOC) Intersect(o *MOC) *MOC {
	m.norm()
	o.norm()
	x := &MOC{order: deeper(m.order, o.order)}
	i, j := 0, 0
	for i < len(m.r) && j < len(o.r) {
		a, b := m.r[i], o.r[j]
		lo, hi := a.Lo, a.Hi
		if b.Lo > lo {
			lo = b.Lo
		}
		if b.Hi < hi {
			hi = b.Hi
		}
		if lo < hi {
			x.r = append(x.r, Range{lo, hi})
		}
		if a.Hi < b.Hi {
			i++
		} else {
			j++
		}
	}
	return x
}

// Subtract returns a new MOC covering what m covers and o does not.
// The result order is the deeper of the two operand orders.
func (m *MOC) Subtract(o *MOC) *MOC {
	m.norm()
	o.norm()
	d := &MOC{order: deeper(m.order, o.order)}
	j := 0
	for _, a := range m.r {
		lo, hi := a.Lo, a.Hi
		for j < len(o.r) && o.r[j].Hi <= lo {
			j++
		}
		for k := j; lo < hi; k++ {
			if k == len(o.r) || o.r[k].Lo >= hi {
				d.r = append(d.r, Range{lo, hi})
				break
			}
			if b := o.r[k]; b.Lo > lo {
				d.r = append(d.r, Range{lo, b.Lo})
			}
			if o.r[k].Hi > lo {
				lo = o.r[k].Hi
			}
		}
	}
	return d
}

// Contains reports whether the MOC covers cell i of order MaxOrder.
func (m *MOC) Contains(i int64) bool {
	m.norm()
	x := sort.Search(len(m.r), func(k int) bool { return m.r[k].Hi > i })
	return x < len(m.r) && m.r[x].Lo <= i
}

// Coverage returns the covered fraction of the sky, 0 through 1.
func (m *MOC) Coverage() float64 {
	m.norm()
	var sum int64
	for _, r := range m.r {
		sum += r.Hi - r.Lo
	}
	return float64(sum) / float64(int64(nCell))
}

// Cells decomposes the coverage into the smallest list of cells,
// greedily emitting the largest aligned cell at each step.  Cells come
// out in sky position order; within a single order that is ascending
// cell number order.
func (m *MOC) Cells() []Cell {
	m.norm()
	var cs []Cell
	for _, r := range m.r {
		for lo := r.Lo; lo < r.Hi; {
			s := uint(2 * MaxOrder)
			if lo != 0 {
				if t := uint(bits.TrailingZeros64(uint64(lo))) &^ 1; t < s {
					s = t
				}
			}
			for lo+1<<s > r.Hi {
				s -= 2
			}
			cs = append(cs, Cell{MaxOrder - int(s/2), lo >> s})
			lo += 1 << s
		}
	}
	return cs
}

// cellsByOrder groups the Cells decomposition by order, for the
// serialized forms.  Orders come back sorted ascending; the cell lists
// inherit ascending order from Cells.
func (m *MOC) cellsByOrder() (orders []int, group map[int][]int64) {
	group = make(map[int][]int64)
	for _, c := range m.Cells() {
		if _, ok := group[c.Order]; !ok {
			orders = append(orders, c.Order)
		}
		group[c.Order] = append(group[c.Order], c.Pix)
	}
	sort.Ints(orders)
	return
}

func deeper(a, b int) int {
	if a > b {
		return a
	}
	return b
}
