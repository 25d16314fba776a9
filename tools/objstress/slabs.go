package main

import "fmt"

import humanize "github.com/dustin/go-humanize"

import "github.com/bnclabs/objref/malloc"

func tellutilization() {
	sizes := malloc.Blocksizes(int64(options.minblock), int64(options.maxblock))
	fmsg := "%v slab sizes between %v and %v\n"
	min, max := humanize.Bytes(uint64(sizes[0])), humanize.Bytes(uint64(sizes[len(sizes)-1]))
	fmt.Printf(fmsg, len(sizes), min, max)
	for i, size := range sizes[1:] {
		u := (float64(sizes[i]+sizes[i+1]) / 2.0) / float64(size)
		fmt.Printf("size %8v, util %.2f\n", size, u)
	}
}
