// pixeltemp reads an exported temperature CSV and prints the temperature
// at one pixel, or the difference between two.
//
//	pixeltemp thermal_data.csv 640 512
//	pixeltemp thermal_data.csv 100 100 600 500
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"thermaltools/pkg/analyze"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: pixeltemp <csv> <x> <y> [<x2> <y2>]")
	os.Exit(1)
}

func atoi(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad coordinate %q: %v\n", s, err)
		os.Exit(1)
	}
	return v
}

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) != 3 && len(args) != 5 {
		usage()
	}

	grid, err := analyze.LoadFile(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	switch len(args) {
	case 3:
		t, err := grid.TempAt(atoi(args[1]), atoi(args[2]))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Printf("Temperature at pixel (%s, %s): %.2f C\n", args[1], args[2], t)

	case 5:
		t1, t2, diff, err := grid.Diff(atoi(args[1]), atoi(args[2]), atoi(args[3]), atoi(args[4]))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Printf("Pixel 1 (%s, %s): %.2f C\n", args[1], args[2], t1)
		fmt.Printf("Pixel 2 (%s, %s): %.2f C\n", args[3], args[4], t2)
		fmt.Printf("Temperature difference: %.2f C\n", diff)
		if diff < 0 {
			fmt.Printf("Absolute difference: %.2f C\n", -diff)
		} else {
			fmt.Printf("Absolute difference: %.2f C\n", diff)
		}
	}
}
