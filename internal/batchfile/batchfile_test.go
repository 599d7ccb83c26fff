package batchfile

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/i474232898/area-weather/internal/weather"
)

func TestParse(t *testing.T) {
	input := "Moscow:200\n\n  Saint Petersburg : 150.5 \nYaroslavl:1e2\n"

	got, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []weather.Location{
		{Name: "Moscow", RadiusKm: 200},
		{Name: "Saint Petersburg", RadiusKm: 150.5},
		{Name: "Yaroslavl", RadiusKm: 100},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLine int
	}{
		{name: "missing radius", input: "Moscow:200\nParis\n", wantLine: 2},
		{name: "colon in name", input: "Moscow:200\n\nRio:de Janeiro:50\n", wantLine: 3},
		{name: "bad radius", input: "Moscow:far\n", wantLine: 1},
		{name: "zero radius", input: "Moscow:0\n", wantLine: 1},
		{name: "negative radius", input: "Oslo:10\nMoscow:-5\n", wantLine: 2},
		{name: "empty name", input: " :100\n", wantLine: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			locs, err := Parse(strings.NewReader(tt.input))
			if err == nil {
				t.Fatalf("expected error, got %+v", locs)
			}
			if locs != nil {
				t.Errorf("expected no locations on error, got %+v", locs)
			}
			if !errors.Is(err, ErrParse) {
				t.Errorf("expected ErrParse, got %v", err)
			}

			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if perr.Line != tt.wantLine {
				t.Errorf("expected line %d, got %d", tt.wantLine, perr.Line)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cities.txt")
	if err := os.WriteFile(path, []byte("Oslo:100\nBergen:50\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	locs, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(locs) != 2 || locs[1].Name != "Bergen" {
		t.Fatalf("unexpected locations: %+v", locs)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
