// Public domain.

// Package mocprog implements the moctool command.
//
// The command is a strictly sequential option processor:  options and
// file names act, left to right, on a single running MOC.  There is no
// up-front flag parsing because the surface is order dependent;
// --max-order must come before any MOC is loaded, and the set
// operations apply in the sequence given.
package mocprog

import (
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/soniakeys/exit"
	"github.com/soniakeys/mpcformat"
	"github.com/soniakeys/observation"
	"github.com/soniakeys/unit"

	"github.com/soniakeys/moctool/healpix"
	"github.com/soniakeys/moctool/moc"
	"github.com/soniakeys/moctool/mocfits"
)

const versionString = "moctool version 1.0 Go source."
const copyrightString = "Public domain."

// default obscode data file, fetched on demand for --obs.
const obscodeFn = "obscodes.dat"

func Main() {
	defer exit.Handler()
	if len(os.Args) < 2 {
		usage()
	}
	run(os.Args[1:], os.Stdin, os.Stdout)
}

// state carries the running MOC and settings through the option loop.
type state struct {
	cur      *moc.MOC // nil until a first load
	maxOrder int      // -1 until --max-order
	obscodes string
	stdin    io.Reader
	stdout   io.Writer
}

func run(args []string, stdin io.Reader, stdout io.Writer) {
	s := &state{
		maxOrder: -1,
		obscodes: obscodeFn,
		stdin:    stdin,
		stdout:   stdout,
	}
	// next option argument, terminating if the command line ends early
	narg := func(opt string, i *int) string {
		*i++
		if *i == len(args) {
			exit.Log(opt + " requires an argument")
		}
		return args[*i]
	}
	for i := 0; i < len(args); i++ {
		switch a := args[i]; a {
		case "-h", "--help":
			printHelp()
			os.Exit(0)
		case "-v", "--version":
			fmt.Fprintln(s.stdout, versionString)
			fmt.Fprintln(s.stdout, copyrightString)
			os.Exit(0)
		case "-i", "--info":
			s.info()
		case "--show":
			fmt.Fprintln(s.stdout, s.need())
		case "-o", "--output":
			s.output(narg(a, &i))
		case "--intersection":
			s.cur = s.need().Intersect(s.load(narg(a, &i)))
		case "--subtract":
			s.cur = s.need().Subtract(s.load(narg(a, &i)))
		case "--max-order":
			s.setMaxOrder(narg(a, &i))
		case "--pos":
			ra := narg(a, &i)
			dec := narg(a, &i)
			s.pos(ra, dec)
		case "--contains":
			ra := narg(a, &i)
			dec := narg(a, &i)
			s.contains(ra, dec)
		case "--obs":
			s.obs(narg(a, &i))
		case "--obscodes":
			s.obscodes = narg(a, &i)
		default:
			if a != "-" && strings.HasPrefix(a, "-") {
				exit.Log("unknown option " + a)
			}
			s.union(s.load(a))
		}
	}
}

// need terminates when an operation requires a MOC and none is loaded.
func (s *state) need() *moc.MOC {
	if s.cur == nil {
		exit.Log("no MOC loaded")
	}
	return s.cur
}

func (s *state) union(m *moc.MOC) {
	if s.cur == nil {
		s.cur = m
	} else {
		s.cur = s.cur.Union(m)
	}
}

func (s *state) setMaxOrder(v string) {
	if s.cur != nil {
		exit.Log("--max-order must precede any MOC load")
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 || n > moc.MaxOrder {
		exit.Log(fmt.Sprintf("--max-order must be a number in the range 0-%d",
			moc.MaxOrder))
	}
	s.maxOrder = n
}

// load reads a MOC from a file, dispatching on the file name:
// .fits/.fit FITS, .json JSON, "-" ASCII on stdin, otherwise ASCII
// text.  A --max-order in effect is applied to the loaded MOC.
func (s *state) load(name string) *moc.MOC {
	var m *moc.MOC
	var err error
	switch {
	case name == "-":
		var data []byte
		if data, err = io.ReadAll(s.stdin); err == nil {
			m, err = moc.ParseASCII(string(data))
		}
	case isFits(name):
		m, err = mocfits.Read(name)
	case strings.HasSuffix(name, ".json"):
		var data []byte
		if data, err = os.ReadFile(name); err == nil {
			m, err = moc.ParseJSON(data)
		}
	default:
		var data []byte
		if data, err = os.ReadFile(name); err == nil {
			m, err = moc.ParseASCII(string(data))
		}
	}
	if err != nil {
		exit.Log(err)
	}
	if s.maxOrder >= 0 {
		m.SetOrder(s.maxOrder)
	}
	return m
}

// output writes the running MOC, dispatching on the file name like
// load.  A pre-existing output file is an error.
func (s *state) output(name string) {
	m := s.need()
	if name == "-" {
		fmt.Fprintln(s.stdout, m)
		return
	}
	if _, err := os.Stat(name); err == nil {
		exit.Log("output file " + name + " already exists")
	}
	var err error
	switch {
	case isFits(name):
		err = mocfits.Write(name, m)
	case strings.HasSuffix(name, ".json"):
		var b []byte
		if b, err = m.JSON(); err == nil {
			err = os.WriteFile(name, append(b, '\n'), 0666)
		}
	default:
		err = os.WriteFile(name, []byte(m.String()+"\n"), 0666)
	}
	if err != nil {
		exit.Log(err)
	}
}

func isFits(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".fits", ".fit":
		return true
	}
	return false
}

// whole sky in square degrees, 4π (180/π)².
const skySqDeg = 4 * 180 * 180 / math.Pi

func (s *state) info() {
	m := s.need()
	cs := m.Cells()
	fmt.Fprintln(s.stdout, "MOC order", m.Order())
	fmt.Fprintln(s.stdout, "Cells:", len(cs))
	if len(cs) > 0 {
		n := make(map[int]int)
		for _, c := range cs {
			n[c.Order]++
		}
		fmt.Fprintln(s.stdout, "order  cells")
		for o := 0; o <= moc.MaxOrder; o++ {
			if n[o] > 0 {
				fmt.Fprintf(s.stdout, "%5d %6d\n", o, n[o])
			}
		}
	}
	f := m.Coverage()
	fmt.Fprintf(s.stdout, "Coverage: %.6g square degrees, %.4g%% of sky\n",
		f*skySqDeg, f*100)
}

// parsePos parses --pos and --contains coordinate arguments,
// decimal degrees.
func parsePos(raStr, decStr string) (ra, dec unit.Angle) {
	r, err := strconv.ParseFloat(raStr, 64)
	if err != nil || r < 0 || r >= 360 {
		exit.Log("invalid RA " + raStr + ", need decimal degrees 0-360")
	}
	d, err := strconv.ParseFloat(decStr, 64)
	if err != nil || d < -90 || d > 90 {
		exit.Log("invalid Dec " + decStr + ", need decimal degrees -90 to 90")
	}
	return unit.AngleFromDeg(r), unit.AngleFromDeg(d)
}

func (s *state) pos(raStr, decStr string) {
	if s.maxOrder < 0 {
		exit.Log("--pos requires a preceding --max-order")
	}
	ra, dec := parsePos(raStr, decStr)
	m := moc.New(s.maxOrder)
	m.AddCell(s.maxOrder, healpix.CellAtRad(s.maxOrder, ra.Rad(), dec.Rad()))
	s.union(m)
}

func (s *state) contains(raStr, decStr string) {
	m := s.need()
	ra, dec := parsePos(raStr, decStr)
	if m.Contains(healpix.CellAtRad(moc.MaxOrder, ra.Rad(), dec.Rad())) {
		fmt.Fprintln(s.stdout, "inside")
	} else {
		fmt.Fprintln(s.stdout, "outside")
	}
}

// obs unions the coverage of an MPC 80 column observation file:  the
// cell at --max-order containing each observation of each arc.
func (s *state) obs(fn string) {
	if s.maxOrder < 0 {
		exit.Log("--obs requires a preceding --max-order")
	}
	f, err := os.Open(fn)
	if err != nil {
		exit.Log(err)
	}
	defer f.Close()
	ocd := s.readOcd()
	m := moc.New(s.maxOrder)
	for split := mpcformat.ArcSplitter(f, ocd); ; {
		a, err := split()
		if err == io.EOF {
			break
		}
		if err != nil {
			// arcs that fail to parse are dropped without notice,
			// as in digest2.  read errors are fatal.
			if _, ok := err.(mpcformat.ArcError); ok {
				continue
			}
			exit.Log(err)
		}
		for _, o := range a.Obs {
			m.AddCell(s.maxOrder, healpix.CellAt(s.maxOrder, o.Meas().Equa))
		}
	}
	s.union(m)
}

// readOcd reads the obscode data file needed to parse observations,
// fetching a fresh copy on a read failure.
func (s *state) readOcd() observation.ParallaxMap {
	ocd, readErr := mpcformat.ReadObscodeDatFile(s.obscodes)
	if readErr == nil {
		return ocd
	}
	if err := mpcformat.FetchObscodeDat(s.obscodes); err != nil {
		log.Println(readErr) // show error from read attempt,
		exit.Log(err)        // and error from download attempt
	}
	// retry with downloaded file
	if ocd, readErr = mpcformat.ReadObscodeDatFile(s.obscodes); readErr != nil {
		exit.Log(readErr)
	}
	return ocd
}

func usage() {
	os.Stderr.WriteString(`
Usage: moctool [options and files, processed in order]
       moctool -h    display help and quick reference
       moctool -v    display version and copyright

A bare file name loads a MOC and merges it into the running MOC.
MOC files are read and written as FITS (.fits, .fit), JSON (.json),
ASCII text (anything else), or ASCII on stdin/stdout (-).
`)
	os.Exit(1)
}

func printHelp() {
	fmt.Println(`
Moctool loads, combines, and writes Multi-Order Coverage maps of the
sky.  Options and file names are processed strictly left to right
against a single running MOC; a bare file name loads a MOC and merges
it into the running MOC.

Options:
   -i, --info             print a summary of the running MOC
   --show                 print the running MOC as ASCII text
   -o, --output <file>    write the running MOC; existing files are
                          never overwritten
   --intersection <file>  intersect the running MOC with a file
   --subtract <file>      remove a file's coverage from the running MOC
   --max-order <n>        set MOC order, 0-` + strconv.Itoa(moc.MaxOrder) + `.  Must precede any
                          MOC load; later loads are degraded to it
   --pos <ra> <dec>       merge the cell at a position, decimal degrees.
                          Requires --max-order
   --contains <ra> <dec>  report whether a position is covered
   --obs <file>           merge coverage of an MPC 80-column observation
                          file.  Requires --max-order
   --obscodes <file>      obscode data file for --obs (default ` + obscodeFn + `,
                          fetched from the MPC when unreadable)
   -h, --help             display this help
   -v, --version          display version and copyright

File formats:
   .fits, .fit   FITS binary table of uniq-encoded cells
   .json         JSON object of orders and cells
   -             ASCII text on stdin or stdout
   anything else ASCII text file

For full documentation:
   godoc github.com/soniakeys/moctool`)
}
