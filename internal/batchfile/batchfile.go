// Package batchfile reads batch input: one "name:radiusKm" pair per line.
package batchfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/i474232898/area-weather/internal/weather"
)

// ErrParse is matched by every *ParseError.
var ErrParse = errors.New("malformed batch line")

var validate = validator.New()

// ParseError describes the first malformed line of a batch file.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Err}
}

// Load parses the batch file at path.
func Load(path string) ([]weather.Location, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open batch file: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads locations from r. Blank lines are skipped. Names cannot contain a
// colon; any malformed line fails the whole input.
func Parse(r io.Reader) ([]weather.Location, error) {
	var locs []weather.Location

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}

		loc, err := parseLine(text)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Text: text, Err: err}
		}
		locs = append(locs, loc)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	return locs, nil
}

func parseLine(text string) (weather.Location, error) {
	parts := strings.Split(text, ":")
	switch {
	case len(parts) < 2:
		return weather.Location{}, errors.New("expected name:radius")
	case len(parts) > 2:
		return weather.Location{}, errors.New("name must not contain ':'")
	}

	name := strings.TrimSpace(parts[0])
	radius, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return weather.Location{}, fmt.Errorf("invalid radius: %w", err)
	}

	loc := weather.Location{Name: name, RadiusKm: radius}
	if err := validate.Struct(loc); err != nil {
		return weather.Location{}, err
	}
	return loc, nil
}
