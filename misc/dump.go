package main

import (
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	ldouble "github.com/shabbyrobe/go-ldouble"
)

// This is a cheap-and-nasty inspector for long double bit layouts. It got
// hacked together while chasing byte-order bugs between the x87 and
// double-double representations and has been kept with the repository in
// case it comes in handy again. I wouldn't recommend using it for anything
// serious.

const usage = `Long double dumper

Usage: dump <value>...
       dump raw <hi> <lo>`

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		return fmt.Errorf("missing args")
	}

	if os.Args[1] == "raw" {
		if len(os.Args) < 4 {
			fmt.Println(usage)
			return fmt.Errorf("missing args")
		}
		hi, err := strconv.ParseUint(strings.TrimPrefix(os.Args[2], "0x"), 16, 64)
		if err != nil {
			return err
		}
		lo, err := strconv.ParseUint(strings.TrimPrefix(os.Args[3], "0x"), 16, 64)
		if err != nil {
			return err
		}
		dump(ldouble.LDoubleFromRaw(hi, lo))
		return nil
	}

	for _, arg := range os.Args[1:] {
		d, err := ldouble.LDoubleFromString(arg)
		if err != nil {
			return err
		}
		dump(d)
	}
	return nil
}

func dump(d ldouble.LDouble) {
	f := ldouble.NativeFormat()
	hi, lo := d.Raw()

	fmt.Printf("value: %s\n", d)
	fmt.Printf("format: %s (%d mantissa bits, %d of %d bytes)\n",
		f, f.MantDig(), f.ValueBytes(), f.StorageBytes())
	fmt.Printf("class: %s\n", d.Classify())
	fmt.Printf("raw: hi:%#016x lo:%#016x\n", hi, lo)

	if norm := d.Normalize(); norm != d {
		nhi, nlo := norm.Raw()
		fmt.Printf("norm: hi:%#016x lo:%#016x\n", nhi, nlo)
	}

	wire, err := d.MarshalBinary()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("wire: %s\n", hex.EncodeToString(wire))
	fmt.Printf("hash: %#08x\n", d.Hash())
	fmt.Printf("f64: %v\n", d.AsFloat64())

	spew.Dump(d)
	fmt.Println()
}
