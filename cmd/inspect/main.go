// Command inspect normalizes a saved dataset API payload offline and prints
// the result cards and map markers, the way the search view would show them.
// It is useful for checking how a new dataset revision will render.
//
// Usage:
//
//	go run ./cmd/inspect -type climate -file testdata/climate.json
//	curl 'localhost:8080/datasets?type=wind' | go run ./cmd/inspect -type wind
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/couchcryptid/geodata-client/internal/domain"
	"github.com/couchcryptid/geodata-client/internal/mapview"
)

func main() {
	category := flag.String("type", "", "dataset category (meteorite, climate, wind, vegetation, infrastructure, fire)")
	file := flag.String("file", "-", "payload file, or - for stdin")
	geoJSON := flag.Bool("geojson", false, "print markers as a GeoJSON FeatureCollection instead of cards")
	flag.Parse()

	if *category == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*category, *file, *geoJSON, os.Stdin, os.Stdout, os.Stderr); code != 0 {
		os.Exit(code)
	}
}

func run(tag, file string, geoJSON bool, stdin io.Reader, stdout, stderr io.Writer) int {
	category, err := domain.ParseCategory(tag)
	if err != nil {
		fmt.Fprintf(stderr, "FATAL: %v\n", err)
		return 1
	}

	body, err := readPayload(file, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "FATAL: read payload: %v\n", err)
		return 1
	}

	raws, err := domain.DecodeResponse(body)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	records := domain.NormalizeAll(raws, category)
	markers := domain.ProjectMarkers(records)

	if geoJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(mapview.FeatureCollection(markers)); err != nil {
			fmt.Fprintf(stderr, "FATAL: encode geojson: %v\n", err)
			return 1
		}
		return 0
	}

	printCards(stdout, category, records)
	printMarkers(stdout, markers)
	return 0
}

func readPayload(file string, stdin io.Reader) ([]byte, error) {
	if file == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(file)
}

func printCards(w io.Writer, category domain.Category, records []domain.DisplayRecord) {
	presenter := domain.PresenterFor(category)

	fmt.Fprintln(w, domain.ResultHeading(category, len(records)))
	for i, rec := range records {
		p := presenter.Present(rec)
		fmt.Fprintln(w)
		fmt.Fprintf(w, "[%d] %s %s\n", i, p.Icon, rec.Name)
		fmt.Fprintf(w, "    %s: %s\n", p.ValueLabel, p.Value)
		for _, f := range p.Breakdown {
			fmt.Fprintf(w, "    %s: %s\n", f.Label, f.Value)
		}
		if c, ok := rec.Coordinates(); ok {
			fmt.Fprintf(w, "    Coordinates: %s\n", c.Key())
		} else {
			fmt.Fprintln(w, "    Coordinates: none")
		}
	}
}

func printMarkers(w io.Writer, markers []domain.MapMarker) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Markers: %d\n", len(markers))
	if c, ok := mapview.Center(markers); ok {
		fmt.Fprintf(w, "Center: %v,%v\n", c.Lat(), c.Lon())
	}
	if b, ok := mapview.Extent(markers); ok {
		fmt.Fprintf(w, "Extent: %v,%v,%v,%v\n", b.Min.Lon(), b.Min.Lat(), b.Max.Lon(), b.Max.Lat())
	}
}
