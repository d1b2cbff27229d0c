// SPDX-License-Identifier: MIT

// Command censusctl fetches a single census table and writes it to
// stdout or a file, without running the daemon.
//
//	censusctl -dataset acs/detailed -p year=2019 -p group=B01001
//	censusctl -dataset cbp -p year=2018 -p sector=23 -format json -o cbp.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pooja61096/uscensus/internal/census"
	"github.com/pooja61096/uscensus/internal/config"
	"github.com/pooja61096/uscensus/internal/jobs"
	uclog "github.com/pooja61096/uscensus/internal/log"
	"github.com/pooja61096/uscensus/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func run(args []string) int {
	fs := flag.NewFlagSet("censusctl", flag.ContinueOnError)
	showVersion := fs.Bool("version", false, "print version and exit")
	dataset := fs.String("dataset", "", "dataset to fetch, e.g. acs/detailed or cbp")
	format := fs.String("format", "csv", "output format: csv or json")
	output := fs.String("o", "", "output file (default stdout)")
	baseURL := fs.String("base", envOr("USCENSUS_API_BASE", census.DefaultBaseURL), "census API base URL")
	timeout := fs.Duration("timeout", 30*time.Second, "request timeout")

	params := map[string]string{}
	fs.Func("p", "dataset parameter as key=value (repeatable)", func(v string) error {
		key, value, ok := strings.Cut(v, "=")
		if !ok || key == "" {
			return fmt.Errorf("expected key=value, got %q", v)
		}
		params[key] = value
		return nil
	})

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *showVersion {
		fmt.Println(version.String())
		return 0
	}
	if *dataset == "" {
		fmt.Fprintln(os.Stderr, "censusctl: -dataset is required")
		fs.Usage()
		return 2
	}
	if *format != "csv" && *format != "json" {
		fmt.Fprintf(os.Stderr, "censusctl: unknown format %q (want csv or json)\n", *format)
		return 2
	}

	uclog.Configure(uclog.Config{
		Level:   envOr("USCENSUS_LOG_LEVEL", "warn"),
		Service: "censusctl",
		Version: version.Version,
	})

	client := census.New(census.Options{
		BaseURL: *baseURL,
		Key:     os.Getenv("USCENSUS_API_KEY"),
		Timeout: *timeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout+5*time.Second)
	defer cancel()

	table, err := jobs.Fetch(ctx, client, config.Target{
		Name:    "censusctl",
		Dataset: *dataset,
		Params:  params,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "censusctl: %v\n", err)
		return 1
	}

	out := os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "censusctl: %v\n", err)
			return 1
		}
		defer f.Close()
		out = f
	}

	if *format == "csv" {
		err = table.WriteCSV(out)
	} else {
		err = json.NewEncoder(out).Encode(table)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "censusctl: %v\n", err)
		return 1
	}
	return 0
}
