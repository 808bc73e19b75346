// Public domain.

package main

import "github.com/soniakeys/moctool/internal/mocprog"

func main() {
	mocprog.Main()
}
