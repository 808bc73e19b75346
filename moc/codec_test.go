// Public domain.

package moc_test

import (
	"testing"

	"github.com/soniakeys/moctool/moc"
)

var badASCII = []string{
	"",
	"   \n\t",
	"x/1",
	"1/x",
	"1/2-x",
	"1/2-1",
	"1/-1",
	"0/12",
	"28/1",
	"3",
	"-5",
}

func TestParseASCIIErrors(t *testing.T) {
	for _, s := range badASCII {
		if m, err := moc.ParseASCII(s); err == nil {
			t.Fatalf("ParseASCII(%q) = %v, want error", s, m)
		}
	}
}

func TestASCIIRoundTrip(t *testing.T) {
	for _, s := range []string{
		"0/0",
		"1/0",
		"1/1-2 2/12,14",
		"0/0 2/",
		"27/0",
		"0/0-11",
	} {
		m, err := moc.ParseASCII(s)
		if err != nil {
			t.Fatal(err)
		}
		if g := m.String(); g != s {
			t.Fatalf("round trip %q = %q", s, g)
		}
	}
}

func TestJSON(t *testing.T) {
	for _, c := range []struct{ ascii, json string }{
		{"0/0", `{"0":[0]}`},
		{"1/1-2 2/12,14", `{"1":[1,2],"2":[12,14]}`},
		{"0/0 2/", `{"0":[0],"2":[]}`},
		{"3/", `{"3":[]}`},
	} {
		m, err := moc.ParseASCII(c.ascii)
		if err != nil {
			t.Fatal(err)
		}
		b, err := m.JSON()
		if err != nil {
			t.Fatal(err)
		}
		if string(b) != c.json {
			t.Fatalf("JSON of %q = %s, want %s", c.ascii, b, c.json)
		}
		m2, err := moc.ParseJSON(b)
		if err != nil {
			t.Fatal(err)
		}
		if g := m2.String(); g != c.ascii {
			t.Fatalf("JSON round trip of %q = %q", c.ascii, g)
		}
	}
}

func TestParseJSONErrors(t *testing.T) {
	for _, s := range []string{
		"",
		"[]",
		"{}",
		`{"x":[1]}`,
		`{"-1":[0]}`,
		`{"28":[0]}`,
		`{"0":[12]}`,
		`{"0":[-1]}`,
	} {
		if m, err := moc.ParseJSON([]byte(s)); err == nil {
			t.Fatalf("ParseJSON(%q) = %v, want error", s, m)
		}
	}
}
