// Copyright 2020-2023 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command fson validates and reformats FSON documents.
//
//	fson check conf.fson ...     parse documents and report the first error
//	fson fmt [-pretty] [-w] f    reprint documents in canonical form
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/peterbourgon/ff/v3"
	"github.com/pkg/errors"

	"github.com/kralicky/fson/parser"
	"github.com/kralicky/fson/printer"
)

func main() {
	logger := level.NewFilter(log.NewLogfmtLogger(os.Stderr), level.AllowInfo())

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "check":
		err = runCheck(logger, os.Args[2:])
	case "fmt":
		err = runFmt(logger, os.Args[2:])
	case "-h", "--help", "help":
		usage()
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		level.Error(logger).Log("err", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: fson <check|fmt> [flags] <file> ...\n")
}

func runCheck(logger log.Logger, args []string) error {
	flagset := flag.NewFlagSet("fson check", flag.ExitOnError)
	var (
		flVerbose = flagset.Bool("verbose", false, "log each document as it is checked")
	)
	if err := ff.Parse(flagset, args, ff.WithEnvVarPrefix("FSON")); err != nil {
		return errors.Wrap(err, "parsing flags")
	}
	if flagset.NArg() == 0 {
		return errors.New("check: no input files")
	}
	for _, path := range flagset.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrap(err, "reading input")
		}
		if _, err := parser.Parse(data); err != nil {
			return errors.Wrapf(err, "checking %s", path)
		}
		if *flVerbose {
			level.Info(logger).Log("msg", "document ok", "path", path)
		}
	}
	return nil
}

func runFmt(logger log.Logger, args []string) error {
	flagset := flag.NewFlagSet("fson fmt", flag.ExitOnError)
	var (
		flPretty = flagset.Bool("pretty", false, "indent output with 4 spaces per level")
		flWrite  = flagset.Bool("w", false, "write the result back to the source file instead of stdout")
	)
	if err := ff.Parse(flagset, args, ff.WithEnvVarPrefix("FSON")); err != nil {
		return errors.Wrap(err, "parsing flags")
	}
	if flagset.NArg() == 0 {
		return errors.New("fmt: no input files")
	}
	opts := printer.Options{Pretty: *flPretty}
	for _, path := range flagset.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrap(err, "reading input")
		}
		v, err := parser.Parse(data)
		if err != nil {
			return errors.Wrapf(err, "parsing %s", path)
		}
		text, err := printer.Print(v, opts)
		if err != nil {
			return errors.Wrapf(err, "printing %s", path)
		}
		if *flWrite {
			if err := os.WriteFile(path, []byte(text+"\n"), 0o644); err != nil {
				return errors.Wrap(err, "writing output")
			}
			level.Info(logger).Log("msg", "rewrote document", "path", path)
			continue
		}
		fmt.Println(text)
	}
	return nil
}
