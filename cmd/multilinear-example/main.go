package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/twpayne/go-multilinear"
)

// A gridDocument is a grid with samples.
type gridDocument struct {
	Axes   [][]float64 `json:"axes"`
	AmbDim int         `json:"ambDim"`
	Values []float64   `json:"values"`
}

func run() error {
	gridPath := flag.String("grid", "", "path to JSON grid document (default stdin)")
	tensor := flag.String("tensor", "", "tensor grid to evaluate, axes separated by ';' and coordinates by ','")
	propagate := flag.Bool("propagate", false, "propagate NaNs from degenerate cells instead of failing")
	verbose := flag.Bool("v", false, "verbose")
	flag.Parse()

	var r io.Reader = os.Stdin
	if *gridPath != "" {
		file, err := os.Open(*gridPath)
		if err != nil {
			return err
		}
		defer file.Close()
		r = file
	}
	var doc gridDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return err
	}

	options := []multilinear.Option{}
	if *propagate {
		options = append(options, multilinear.WithDegeneracyPolicy(multilinear.DegeneracyPropagate))
	}
	if *verbose {
		options = append(options, multilinear.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))))
	}

	grid, err := multilinear.NewGrid(doc.Axes...)
	if err != nil {
		return err
	}
	interpolator, err := multilinear.NewInterpolator(grid, doc.AmbDim, doc.Values, options...)
	if err != nil {
		return err
	}

	if *tensor != "" {
		axes, err := parseAxes(*tensor)
		if err != nil {
			return err
		}
		values, err := interpolator.EvaluateTensorGrid(axes, nil)
		if err != nil {
			return err
		}
		for i := 0; i < len(values); i += doc.AmbDim {
			printVector(values[i : i+doc.AmbDim])
		}
		return nil
	}

	if flag.NArg() != grid.DomDim() {
		return errors.New("syntax: multilinear-example [-grid path] x0 x1 ...")
	}
	x, err := parseFloats(flag.Args())
	if err != nil {
		return err
	}
	y, err := interpolator.Evaluate(x)
	if err != nil {
		return err
	}
	printVector(y)

	return nil
}

// parseAxes parses axes separated by ';' with coordinates separated by ','.
func parseAxes(s string) ([][]float64, error) {
	var axes [][]float64
	for k, field := range strings.Split(s, ";") {
		axis, err := parseFloats(strings.Split(field, ","))
		if err != nil {
			return nil, err
		}
		if len(axis) == 0 {
			return nil, fmt.Errorf("axis %d: no coordinates", k)
		}
		axes = append(axes, axis)
	}
	return axes, nil
}

func parseFloats(fields []string) ([]float64, error) {
	values := make([]float64, 0, len(fields))
	for _, field := range fields {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		value, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, nil
}

func printVector(y []float64) {
	fields := make([]string, len(y))
	for i, v := range y {
		fields[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	fmt.Println(strings.Join(fields, " "))
}

func main() {
	if err := run(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
