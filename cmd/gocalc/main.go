// Command gocalc evaluates formulas from the command line.
//
// Usage:
//
//	gocalc [flags] [expression]
//
// Examples:
//
//	gocalc '1 + 2 * 3'
//	gocalc -p price=12.5 -p qty=4 '[price] * [qty]'
//	gocalc -params order.yaml -f total.calc
//	gocalc -format '(a+b)*c'
//	gocalc -big '0.1 + 0.2'
//
// With -json a single JSON object is read from stdin and a single JSON object
// is written to stdout:
//
//	stdin:  { "expression": "<formula>", "params": { "name": <value>, ... } }
//	stdout: { "result": <value> }    on success
//	        { "error":  "<message>" } on failure (exit code 1)
//
// Exit status is 0 on success, 1 when parsing or evaluation fails and 2 on
// usage errors.
package main

import (
	"os"

	"github.com/go-git/go-billy/v5/osfs"
)

func main() {
	os.Exit(run(osfs.New("/"), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
