// Public domain.

// Package healpix, just enough nested-scheme HEALPix cell math for MOCs.
//
// Only forward projection is here:  given a sky position, find the cell
// that contains it.  There is no ring scheme, no cell boundaries, no
// inverse projection.
package healpix

import (
	"math"
	"math/bits"

	"github.com/soniakeys/coord"
)

var twoPi = 2 * math.Pi

// CellAt returns the nested-scheme cell containing an equatorial position.
//
// Argument order must be in the range 0 to 29.
func CellAt(order int, eq coord.Equa) int64 {
	return CellAtRad(order, eq.RA.Rad(), eq.Dec.Rad())
}

// CellAtRad is CellAt for a position already broken out in radians.
//
// The standard HEALPix ang2pix algorithm, as published by Górski et al.
// RA outside [0,2π) is normalized.
func CellAtRad(order int, ra, dec float64) int64 {
	nside := int64(1) << uint(order)
	fside := float64(nside)
	z := math.Sin(dec)
	ra = math.Mod(ra, twoPi)
	if ra < 0 {
		ra += twoPi
	}
	tt := ra * 2 / math.Pi // in [0,4)
	var face, ix, iy int64
	if za := math.Abs(z); za <= 2./3. {
		// equatorial region
		temp1 := fside * (.5 + tt)
		temp2 := fside * z * .75
		jp := int64(temp1 - temp2) // ascending edge line index
		jm := int64(temp1 + temp2) // descending edge line index
		ifp := jp >> uint(order)
		ifm := jm >> uint(order)
		switch {
		case ifp == ifm:
			face = ifp&3 + 4
		case ifp < ifm:
			face = ifp & 3
		default:
			face = ifm&3 + 8
		}
		ix = jm & (nside - 1)
		iy = nside - 1 - jp&(nside-1)
	} else {
		// polar caps
		ntt := int64(tt)
		if ntt >= 4 {
			ntt = 3
		}
		tp := tt - float64(ntt)
		tmp := fside * math.Sqrt(3*(1-za))
		jp := int64(tp * tmp)
		jm := int64((1 - tp) * tmp)
		if jp >= nside {
			jp = nside - 1
		}
		if jm >= nside {
			jm = nside - 1
		}
		if z >= 0 {
			face = ntt
			ix = nside - 1 - jm
			iy = nside - 1 - jp
		} else {
			face = ntt + 8
			ix = jp
			iy = jm
		}
	}
	return face*nside*nside + int64(spread(uint64(ix))|spread(uint64(iy))<<1)
}

// spread distributes the low 32 bits of v over the even bit positions
// of the result.
func spread(v uint64) uint64 {
	v &= 0xffffffff
	v = (v | v<<16) & 0x0000ffff0000ffff
	v = (v | v<<8) & 0x00ff00ff00ff00ff
	v = (v | v<<4) & 0x0f0f0f0f0f0f0f0f
	v = (v | v<<2) & 0x3333333333333333
	v = (v | v<<1) & 0x5555555555555555
	return v
}

// Uniq packs a cell order and number into the single-integer "uniq"
// encoding, 4*4^order + cell.
func Uniq(order int, cell int64) int64 {
	return 1<<uint(2*order+2) + cell
}

// SplitUniq unpacks a uniq-encoded cell.  Argument u must be at least 4,
// the uniq encoding of cell 0 at order 0.
func SplitUniq(u int64) (order int, cell int64) {
	order = (bits.Len64(uint64(u)) - 3) / 2
	cell = u - 1<<uint(2*order+2)
	return
}

// CellArea returns the solid angle of a single cell at the given order,
// in steradians.  All cells of an order are equal area.
func CellArea(order int) float64 {
	return math.Pi / (3 * float64(int64(1)<<uint(2*order)))
}
