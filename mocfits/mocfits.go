// Public domain.

// Package mocfits reads and writes the FITS serialization of MOCs:
// a primary HDU followed by a single binary table whose one column
// holds uniq-encoded cells as 4 or 8 byte integers.
package mocfits

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/astrogo/fitsio"

	"github.com/soniakeys/moctool/healpix"
	"github.com/soniakeys/moctool/moc"
)

// Read loads a MOC from a FITS file.
//
// The file must hold exactly two HDUs, the second a binary table with
// an integer column of uniq cell numbers, TFORM1 of J or K, and a
// MOCORDER header giving the stated order.
func Read(fn string) (*moc.MOC, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	fit, err := fitsio.Open(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", fn, err)
	}
	defer fit.Close()

	hdus := fit.HDUs()
	if len(hdus) != 2 {
		return nil, fmt.Errorf("%s: expected 2 HDUs, found %d", fn, len(hdus))
	}
	tbl, ok := hdus[1].(*fitsio.Table)
	if !ok {
		return nil, fmt.Errorf("%s: second HDU is not a binary table", fn)
	}
	hdr := tbl.Header()

	card := hdr.Get("MOCORDER")
	if card == nil {
		return nil, fmt.Errorf("%s: missing MOCORDER header", fn)
	}
	var order int
	switch v := card.Value.(type) {
	case int:
		order = v
	case int64:
		order = int(v)
	default:
		return nil, fmt.Errorf("%s: MOCORDER %v is not an integer", fn, card.Value)
	}
	if order < 0 || order > moc.MaxOrder {
		return nil, fmt.Errorf("%s: MOCORDER %d out of range 0-%d", fn, order, moc.MaxOrder)
	}

	card = hdr.Get("TFORM1")
	if card == nil {
		return nil, fmt.Errorf("%s: missing TFORM1 header", fn)
	}
	tform, _ := card.Value.(string)
	var scan32 bool
	switch strings.TrimPrefix(strings.TrimSpace(tform), "1") {
	case "J":
		scan32 = true
	case "K":
	default:
		return nil, fmt.Errorf("%s: unsupported MOC column type %q", fn, tform)
	}

	m := moc.New(order)
	rows, err := tbl.Read(0, tbl.NumRows())
	if err != nil {
		return nil, fmt.Errorf("%s: %v", fn, err)
	}
	defer rows.Close()
	for rows.Next() {
		var u int64
		if scan32 {
			var u32 int32
			if err = rows.Scan(&u32); err != nil {
				return nil, fmt.Errorf("%s: %v", fn, err)
			}
			u = int64(u32)
		} else if err = rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("%s: %v", fn, err)
		}
		if err = m.AddUniq(u); err != nil {
			return nil, fmt.Errorf("%s: %v", fn, err)
		}
	}
	return m, nil
}

// Write stores a MOC as a FITS file.  The column is written as J when
// every uniq cell number fits in 32 bits, otherwise K.  An existing
// file is an error.
func Write(fn string, m *moc.MOC) error {
	cs := m.Cells()
	uniq := make([]int64, len(cs))
	form := "J"
	for i, c := range cs {
		uniq[i] = healpix.Uniq(c.Order, c.Pix)
		if uniq[i] > math.MaxInt32 {
			form = "K"
		}
	}

	f, err := os.OpenFile(fn, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0666)
	if err != nil {
		return err
	}
	defer f.Close()
	fit, err := fitsio.Create(f)
	if err != nil {
		return err
	}
	defer fit.Close()

	phdu, err := fitsio.NewPrimaryHDU(nil)
	if err != nil {
		return err
	}
	if err = fit.Write(phdu); err != nil {
		return err
	}

	tbl, err := fitsio.NewTable("MOC", []fitsio.Column{
		{Name: "UNIQ", Format: form},
	}, fitsio.BINARY_TBL)
	if err != nil {
		return err
	}
	defer tbl.Close()
	err = tbl.Header().Append(
		fitsio.Card{Name: "PIXTYPE", Value: "HEALPIX", Comment: "HEALPix index scheme"},
		fitsio.Card{Name: "ORDERING", Value: "NUNIQ", Comment: "uniq-encoded orders and cells"},
		fitsio.Card{Name: "COORDSYS", Value: "C", Comment: "celestial, ICRS"},
		fitsio.Card{Name: "MOCORDER", Value: m.Order(), Comment: "MOC resolution order"},
	)
	if err != nil {
		return err
	}
	if form == "J" {
		for _, u := range uniq {
			u32 := int32(u)
			if err = tbl.Write(&u32); err != nil {
				return err
			}
		}
	} else {
		for i := range uniq {
			if err = tbl.Write(&uniq[i]); err != nil {
				return err
			}
		}
	}
	return fit.Write(tbl)
}
