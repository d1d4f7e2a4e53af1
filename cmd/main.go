// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package main

import (
	"fmt"
	"log"
	"math/big"
	"os"
	"strings"
	"time"

	babel "github.com/facebookincubator/go-babel"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/urfave/cli/v2"
)

func bitsFlag() cli.Flag {
	return &cli.UintFlag{
		Name:    "bits",
		Aliases: []string{"b"},
		Value:   babel.DefaultBits,
		Usage:   "number of bits per vector (a power of two, a square for images)",
	}
}

// indexFlags select a vector by bookmark or percentage instead of by an
// index argument
func indexFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "bookmark",
			Usage: "read the index from a bookmark file",
		},
		&cli.Float64Flag{
			Name:    "percent",
			Aliases: []string{"p"},
			Usage:   "select the index at this fraction (0..1) of the enumeration",
		},
		&cli.BoolFlag{
			Name:    "normalized",
			Aliases: []string{"n"},
			Usage:   "with --percent, give every population class the same share",
		},
	}
}

func main() {
	app := &cli.App{
		Name:  "babel",
		Usage: "address every bit-vector by its index in a popcount-ordered enumeration",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "trace",
				Usage: "trace level of the codec library (error, info, debug)",
			},
		},
		Before: func(c *cli.Context) error {
			if c.IsSet("trace") {
				t := gologadapter.New()
				t.SetTraceLevel(tracing.TraceLevelFromString(c.String("trace")))
				tracing.SetTraceSelector(tracing.SelectorForAdapter(func() tracing.Trace {
					return t
				}))
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "decode",
				Usage:     "print the vector found at an index",
				ArgsUsage: "INDEX",
				Flags: append([]cli.Flag{
					bitsFlag(),
					&cli.BoolFlag{
						Name:    "grid",
						Aliases: []string{"g"},
						Usage:   "also print the vector laid out as a square image",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"out", "o"},
						Usage:   "write the packed vector to this file",
					},
				}, indexFlags()...),
				Action: func(c *cli.Context) error {
					codec, err := babel.New(c.Uint("bits"))
					if err != nil {
						return err
					}
					index, err := resolveIndex(c, codec)
					if err != nil {
						return fmt.Errorf("decode: %w", err)
					}
					start := time.Now()
					v, err := codec.DecodeNew(index)
					if err != nil {
						return fmt.Errorf("decode: %w", err)
					}
					log.Printf("decoded %d bits in %s", codec.Bits(), time.Since(start))
					fmt.Printf("%s\n", v)
					fmt.Printf("%d bits set, fingerprint %016x\n", v.PopCount(), v.Fingerprint())
					if c.Bool("grid") {
						if err := printGrid(v); err != nil {
							return fmt.Errorf("decode: %w", err)
						}
					}
					if c.IsSet("output") {
						return writeVectorFile(c.String("output"), v)
					}
					return nil
				},
			},
			{
				Name:      "encode",
				Usage:     "print the index of a vector",
				ArgsUsage: "[VECTOR]",
				Flags: []cli.Flag{
					bitsFlag(),
					&cli.StringFlag{
						Name:    "image",
						Aliases: []string{"i"},
						Usage:   "read the vector from an image, scaled to the vector's square",
					},
					&cli.StringFlag{
						Name:  "vector",
						Usage: "read the vector from a file written by decode --output",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"out", "o"},
						Usage:   "write the index to this bookmark file",
					},
				},
				Action: func(c *cli.Context) error {
					codec, err := babel.New(c.Uint("bits"))
					if err != nil {
						return err
					}
					v, err := resolveVector(c, codec)
					if err != nil {
						return fmt.Errorf("encode: %w", err)
					}
					index, err := codec.Encode(v)
					if err != nil {
						return fmt.Errorf("encode: %w", err)
					}
					percent, _ := codec.PercentFromIndex(index)
					fmt.Printf("%s\n", index)
					fmt.Printf("%d bits set, %.6f%% into the enumeration\n", v.PopCount(), 100*percent)
					if c.IsSet("output") {
						b := babel.Bookmark{Bits: uint(codec.Bits()), Index: index}
						if err := b.WriteToPath(c.String("output")); err != nil {
							return fmt.Errorf("encode: %w", err)
						}
						log.Printf("wrote bookmark to %s", c.String("output"))
					}
					return nil
				},
			},
			{
				Name:      "render",
				Usage:     "write the vector found at an index as a PNG image",
				ArgsUsage: "INDEX",
				Flags: append([]cli.Flag{
					bitsFlag(),
					&cli.UintFlag{
						Name:    "scale",
						Aliases: []string{"s"},
						Value:   16,
						Usage:   "pixels per bit along each axis",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"out", "o"},
						Value:   "babel.png",
						Usage:   "name of the PNG file to write",
					},
				}, indexFlags()...),
				Action: func(c *cli.Context) error {
					codec, err := babel.New(c.Uint("bits"))
					if err != nil {
						return err
					}
					index, err := resolveIndex(c, codec)
					if err != nil {
						return fmt.Errorf("render: %w", err)
					}
					v, err := codec.DecodeNew(index)
					if err != nil {
						return fmt.Errorf("render: %w", err)
					}
					if err := writePNG(c.String("output"), v, c.Uint("scale")); err != nil {
						return fmt.Errorf("render: %w", err)
					}
					log.Printf("wrote index %s to %s", index, c.String("output"))
					return nil
				},
			},
			{
				Name:  "describe",
				Usage: "describe a codec configuration or a bookmark",
				Flags: []cli.Flag{
					bitsFlag(),
					&cli.StringFlag{
						Name:  "bookmark",
						Usage: "bookmark file to describe",
					},
					&cli.BoolFlag{
						Name:  "classes",
						Usage: "list the population classes",
					},
				},
				Action: func(c *cli.Context) error {
					if c.IsSet("bookmark") {
						return describeBookmark(c.String("bookmark"))
					}
					cfg := babel.Config{Bits: c.Uint("bits")}
					if err := cfg.Validate(); err != nil {
						return fmt.Errorf("describe: %w", err)
					}
					cfg.Explain()
					if c.Bool("classes") {
						codec, err := babel.NewWithConfig(cfg)
						if err != nil {
							return err
						}
						describeClasses(codec)
					}
					return nil
				},
			},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

// resolveIndex picks the index named by --bookmark, --percent or the first
// argument, in that order.
func resolveIndex(c *cli.Context, codec *babel.Codec) (*big.Int, error) {
	switch {
	case c.IsSet("bookmark"):
		b, err := babel.ReadBookmarkFromPath(c.String("bookmark"))
		if err != nil {
			return nil, err
		}
		if int(b.Bits) != codec.Bits() {
			return nil, fmt.Errorf("bookmark is for %d bits, codec has %d", b.Bits, codec.Bits())
		}
		return b.Index, nil
	case c.IsSet("percent"):
		if c.Bool("normalized") {
			return codec.NormalizedIndexFromPercent(c.Float64("percent")), nil
		}
		return codec.IndexFromPercent(c.Float64("percent")), nil
	case c.NArg() == 1:
		index, ok := new(big.Int).SetString(c.Args().First(), 0)
		if !ok {
			return nil, fmt.Errorf("not an integer: %q", c.Args().First())
		}
		return index, nil
	default:
		return nil, fmt.Errorf("expected exactly one INDEX argument, got %q", c.Args().Slice())
	}
}

// resolveVector reads the vector named by --image, --vector or the
// arguments, in that order.
func resolveVector(c *cli.Context, codec *babel.Codec) (babel.BitVector, error) {
	switch {
	case c.IsSet("image"):
		return readImageVector(c.String("image"), uint(codec.Bits()))
	case c.IsSet("vector"):
		f, err := os.Open(c.String("vector"))
		if err != nil {
			return nil, err
		}
		defer f.Close()
		v, _, err := babel.ReadVector(f)
		return v, err
	case c.NArg() > 0:
		return babel.ParseBitVector(strings.Join(c.Args().Slice(), ""))
	default:
		return nil, fmt.Errorf("expected a VECTOR argument, --image or --vector")
	}
}

func writeVectorFile(path string, v babel.BitVector) error {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return fmt.Errorf("refusing to over-write existing file: %s", path)
	}
	o, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error opening %s: %s", path, err)
	}
	defer o.Close()
	n, err := babel.WriteVector(o, v)
	if err != nil {
		return fmt.Errorf("error writing vector: %s", err)
	}
	log.Printf("wrote %d bytes to %s", n, path)
	return nil
}

func describeBookmark(path string) error {
	b, err := babel.ReadBookmarkFromPath(path)
	if err != nil {
		return fmt.Errorf("describe: can't read bookmark: %w", err)
	}
	codec, err := babel.New(b.Bits)
	if err != nil {
		return fmt.Errorf("describe: %w", err)
	}
	k, err := codec.ClassOf(b.Index)
	if err != nil {
		return fmt.Errorf("describe: %w", err)
	}
	percent, _ := codec.PercentFromIndex(b.Index)
	normalized, _ := codec.NormalizedPercentFromIndex(b.Index)
	fmt.Printf("bookmark for %d bit vectors\n", b.Bits)
	fmt.Printf("  index %s\n", b.Index)
	fmt.Printf("  %d bits set\n", k)
	fmt.Printf("  %.6f%% into the enumeration, %.6f%% normalized\n", 100*percent, 100*normalized)
	return nil
}

func describeClasses(codec *babel.Codec) {
	fmt.Printf("\n  set bits  vectors  first index\n")
	for k := 0; k <= codec.Bits(); k++ {
		size, _ := codec.Combination(codec.Bits(), k)
		fmt.Printf("  %8d  %7s  %s\n", k, shortInt(size), shortInt(codec.PrefixCount(k)))
	}
}

// shortInt prints small integers in full and large ones in scientific
// notation.
func shortInt(x *big.Int) string {
	s := x.String()
	if len(s) <= 7 {
		return s
	}
	return fmt.Sprintf("%c.%se%d", s[0], s[1:3], len(s)-1)
}
