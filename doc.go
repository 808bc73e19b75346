/*
Command moctool loads, combines, and writes Multi-Order Coverage maps.

Contents

Version 1.0

  Program overview
  Command line usage
  File formats
  Position options
  Observation coverage

Program overview

A Multi-Order Coverage map, or MOC, represents an arbitrary region of
the sky as a set of nested HEALPix cells of varying resolution, or
"order."  Order 0 divides the sky into 12 base cells; each deeper order
divides every cell into four.  The deepest order handled by moctool
is 27.

Moctool is a sequential option processor.  Options and file names are
acted on strictly left to right, each against a single running MOC.  A
bare file name loads a MOC and merges (unions) it into the running MOC;
--intersection and --subtract load a file and combine it by the named
set operation; --show, --info, and --output report or store the current
result.  All errors are fatal:  a missing file, a malformed MOC, an
option out of sequence, or an existing output file stops the program
immediately with a message.

Sample run, with two small ASCII MOCs:

  $ cat a.txt
  0/0
  $ cat b.txt
  1/1-3
  $ moctool a.txt --subtract b.txt --show
  1/0

Command line usage

  Usage: moctool [options and files, processed in order]
         moctool -h    display help and quick reference
         moctool -v    display version and copyright

  Options:
     -i, --info             print a summary of the running MOC
     --show                 print the running MOC as ASCII text
     -o, --output <file>    write the running MOC
     --intersection <file>  intersect the running MOC with a file
     --subtract <file>      remove a file's coverage from the running MOC
     --max-order <n>        set MOC order, 0-27
     --pos <ra> <dec>       merge the cell at a position, decimal degrees
     --contains <ra> <dec>  report whether a position is covered
     --obs <file>           merge coverage of an MPC observation file
     --obscodes <file>      obscode data file for --obs
     -h, --help             display help
     -v, --version          display version and copyright

--max-order must be given before any MOC is loaded.  It sets the stated
order of the running MOC, and every MOC loaded afterward is degraded to
it.  Degrading rounds coverage outward:  a partially covered coarse
cell becomes fully covered, so the degraded MOC is always a superset of
the original coverage.

--output never overwrites:  writing to an existing file is an error.

File formats

Format follows from the file name.  Names ending .fits or .fit are FITS
files, names ending .json are JSON, the name - is ASCII text on stdin
or stdout, and anything else is an ASCII text file.

The FITS form is a primary HDU followed by a single binary table HDU.
The table has one integer column of uniq-encoded cells, that is,
4*4^order + cell, and carries the stated order in a MOCORDER header.
On read the column may be 4 byte (TFORM1 = 1J) or 8 byte (TFORM1 = 1K)
integers; anything else is an error.  On write moctool uses the
narrower column when every cell number fits.

The ASCII form groups cells by order, runs of consecutive cells
collapsed to ranges:

  1/1-2 2/12,14 6/

A bare "order/" token records a stated order deeper than any populated
cell.  On input, bare integer tokens are also accepted as uniq-encoded
cells.  The JSON form is an object of the same content:

  {"1":[1,2],"2":[12,14],"6":[]}

Position options

--pos and --contains take a position as right ascension and declination
in decimal degrees, ICRS.  --pos merges the single cell containing the
position at the --max-order resolution, and so requires --max-order.
--contains prints "inside" or "outside" by testing the position against
the running MOC at full resolution.

Observation coverage

--obs builds coverage from a file of observations in the MPC 80 column
format, documented at
http://www.minorplanetcenter.net/iau/info/OpticalObs.html.  The cell
containing each observation, at the --max-order resolution, is merged
into the running MOC.  Observations that fail to parse are quietly
dropped.  Parsing requires the MPC observatory code data file; give its
location with --obscodes, or a copy is fetched from the MPC into the
working directory on first use.

-------------
Public domain.
*/
package main
