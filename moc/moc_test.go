// Public domain.

package moc_test

import (
	"fmt"
	"math"
	"testing"

	xrand "golang.org/x/exp/rand"

	"github.com/soniakeys/moctool/moc"
)

func ExampleParseASCII() {
	m, _ := moc.ParseASCII("1/1-2 2/12,14")
	fmt.Println(m)
	// Output:
	// 1/1-2 2/12,14
}

func parse(t *testing.T, s string) *moc.MOC {
	t.Helper()
	m, err := moc.ParseASCII(s)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestUnion(t *testing.T) {
	a := parse(t, "0/0")
	b := parse(t, "1/1-3")
	// cell 0/0 absorbs its children; the deeper operand order remains
	// as a trailing marker.
	if g := a.Union(b).String(); g != "0/0 1/" {
		t.Fatal("union:", g)
	}
}

func TestIntersect(t *testing.T) {
	a := parse(t, "0/0")
	b := parse(t, "1/1-3")
	if g := a.Intersect(b).String(); g != "1/1-3" {
		t.Fatal("intersect:", g)
	}
	if g := b.Intersect(parse(t, "0/5")); !g.Empty() {
		t.Fatal("intersect of disjoint MOCs:", g)
	}
}

func TestSubtract(t *testing.T) {
	a := parse(t, "0/0")
	if g := a.Subtract(parse(t, "1/0")).String(); g != "1/1-3" {
		t.Fatal("subtract:", g)
	}
	if g := a.Subtract(parse(t, "1/1-3")).String(); g != "1/0" {
		t.Fatal("subtract:", g)
	}
	if g := a.Subtract(parse(t, "0/0 0/5")); !g.Empty() {
		t.Fatal("subtract all:", g)
	}
}

func TestSetOrder(t *testing.T) {
	m := parse(t, "2/16-19,24-27")
	m.SetOrder(1)
	if g := m.String(); g != "1/4,6" {
		t.Fatal("degrade whole cells:", g)
	}
	// four degraded siblings collapse into their parent
	m = parse(t, "2/16-31")
	m.SetOrder(1)
	if g := m.String(); g != "0/1 1/" {
		t.Fatal("degrade and collapse:", g)
	}
	// a partial cell rounds outward
	m = parse(t, "2/17")
	m.SetOrder(1)
	if g := m.String(); g != "1/4" {
		t.Fatal("degrade partial cell:", g)
	}
	// raising the order only adds a marker
	m = parse(t, "0/0")
	m.SetOrder(2)
	if g := m.String(); g != "0/0 2/" {
		t.Fatal("raise order:", g)
	}
}

func TestContains(t *testing.T) {
	m := parse(t, "1/1")
	shift := uint(2 * (moc.MaxOrder - 1))
	lo := int64(1) << shift
	hi := int64(2) << shift
	for _, c := range []struct {
		i  int64
		in bool
	}{
		{0, false},
		{lo - 1, false},
		{lo, true},
		{hi - 1, true},
		{hi, false},
	} {
		if m.Contains(c.i) != c.in {
			t.Fatalf("Contains(%d) != %t", c.i, c.in)
		}
	}
}

func TestCoverage(t *testing.T) {
	if c := parse(t, "0/0-11").Coverage(); c != 1 {
		t.Fatal("full sky coverage", c)
	}
	if c := parse(t, "0/0").Coverage(); math.Abs(c-1./12) > 1e-15 {
		t.Fatal("base cell coverage", c)
	}
}

func TestEmpty(t *testing.T) {
	m := moc.New(5)
	if !m.Empty() || m.String() != "5/" {
		t.Fatal("empty MOC:", m)
	}
	m = parse(t, "3/")
	if !m.Empty() || m.Order() != 3 {
		t.Fatal("marker only:", m)
	}
}

func TestUniqTokens(t *testing.T) {
	if g := parse(t, "4 15").String(); g != "0/0,11" {
		t.Fatal("uniq tokens:", g)
	}
}

func randMOC(rnd *xrand.Rand) *moc.MOC {
	m := moc.New(0)
	for i, n := 0, 5+rnd.Intn(20); i < n; i++ {
		o := rnd.Intn(6)
		m.AddCell(o, rnd.Int63n(12<<uint(2*o)))
	}
	m.SetOrder(8)
	return m
}

// set identities that must hold for any operands
func TestRandomAlgebra(t *testing.T) {
	rnd := xrand.New(&xrand.PCGSource{})
	rnd.Seed(3)
	for i := 0; i < 50; i++ {
		a := randMOC(rnd)
		b := randMOC(rnd)
		x := a.Intersect(b)
		d := a.Subtract(b)
		if g := d.Union(x).String(); g != a.String() {
			t.Fatalf("(a-b)+(a*b) = %s, a = %s", g, a)
		}
		if g := b.Intersect(a).String(); g != x.String() {
			t.Fatal("intersection not commutative")
		}
		if g := d.Intersect(b); !g.Empty() {
			t.Fatal("difference meets subtrahend:", g)
		}
		if g := a.Subtract(a.Union(b)); !g.Empty() {
			t.Fatal("operand exceeds union:", g)
		}
	}
}
