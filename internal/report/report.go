// Package report renders location results for the terminal.
package report

import (
	"fmt"
	"io"

	"github.com/i474232898/area-weather/internal/weather"
)

const separator = "---------------------------------------"

// Single writes the temperature and area average of a resolved location.
func Single(w io.Writer, r weather.LocationResult) error {
	if r.Failed() {
		return fmt.Errorf("%s: %s", r.Name, r.Reason())
	}
	_, err := fmt.Fprintf(w, "Temperature in %s: %d C\nAverage temperature %.2f\n",
		r.Name, *r.TemperatureC, *r.AverageTempC)
	return err
}

// Batch writes every successful result in order, each followed by a separator,
// then one diagnostic line per failed location.
func Batch(w io.Writer, b weather.BatchResult) error {
	for _, r := range b.Results {
		if err := Single(w, r); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, separator); err != nil {
			return err
		}
	}
	for _, r := range b.Failures {
		if _, err := fmt.Fprintf(w, "location %s: %s\n", r.Name, r.Reason()); err != nil {
			return err
		}
	}
	return nil
}
