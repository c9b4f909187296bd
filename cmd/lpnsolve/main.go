// Command lpnsolve runs one covering-code reduction and FWHT recovery of an
// LPN secret and prints the outcome.
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/KAIST-CryptLab/CovLPN/core/lpn"
	"github.com/KAIST-CryptLab/CovLPN/report"
	"github.com/KAIST-CryptLab/CovLPN/solver"
)

func main() {
	fs := flag.NewFlagSet("lpnsolve", flag.ExitOnError)
	preset := fs.String("preset", "default", "parameter preset: "+strings.Join(solver.PresetNames(), "|"))
	paramsPath := fs.String("params", "", "JSON parameter file (overrides -preset)")
	seedStr := fs.String("seed", "", "0x-hex or decimal seed; empty draws a fresh one")
	workers := fs.Int("workers", runtime.NumCPU(), "worker goroutines, 1 runs sequentially")
	chartPath := fs.String("chart", "", "write an HTML spectrum chart to this path")
	metrics := fs.Bool("metrics", false, "print oracle counters")
	verbose := fs.Bool("v", false, "log each stage")
	var ov overrides
	ov.register(fs)
	fs.Parse(os.Args[1:])

	logger := log.New(os.Stderr, "lpnsolve: ", log.Ltime|log.Lmicroseconds)

	lit, err := loadLiteral(*preset, *paramsPath)
	if err != nil {
		log.Fatal(err)
	}
	ov.apply(fs, &lit)
	params, err := lpn.NewParametersFromLiteral(lit)
	if err != nil {
		log.Fatal(err)
	}
	seed, err := parseSeed(*seedStr)
	if err != nil {
		log.Fatal(err)
	}

	s, err := solver.NewSolver(params)
	if err != nil {
		log.Fatal(err)
	}
	s.Workers = *workers
	if *verbose {
		s.Logger = logger
	}
	reg := prometheus.NewRegistry()
	if *metrics {
		if s.Metrics, err = lpn.NewMetrics(reg); err != nil {
			log.Fatal(err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := s.Run(ctx, seed)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Seed              : 0x%s\n", hex.EncodeToString(seed))
	if err = report.PrintParameters(os.Stdout, res); err != nil {
		log.Fatal(err)
	}
	if err = report.PrintResult(os.Stdout, res); err != nil {
		log.Fatal(err)
	}
	if *metrics {
		if err = report.PrintMetrics(os.Stdout, reg); err != nil {
			log.Fatal(err)
		}
	}

	if *chartPath != "" {
		f, err := os.Create(*chartPath)
		if err != nil {
			log.Fatalf("create chart: %v", err)
		}
		defer f.Close()
		if err := report.WriteCharts(f, res); err != nil {
			log.Fatalf("render chart: %v", err)
		}
		fmt.Println("Spectrum chart    :", *chartPath)
	}
}
