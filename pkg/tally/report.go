// Package tally implements the estimators that turn transport events into
// statistical results.
package tally

import (
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/df07/go-particle-transport/pkg/core"
)

// Estimator kinds as reported in summaries
const (
	KindCurrent     = "current"
	KindTrackLength = "trackLength"
	KindCounting    = "counting"
	KindTrackCount  = "track"
)

var printer = message.NewPrinter(language.English)

// WriteReport writes the report of every estimator in order
func WriteReport(w io.Writer, estimators []core.Estimator) error {
	for _, e := range estimators {
		if err := e.Report(w); err != nil {
			return fmt.Errorf("report %s: %w", e.Name(), err)
		}
	}
	return nil
}

func writeScalar(w io.Writer, s core.Summary) error {
	_, err := printer.Fprintf(w, " %s (%s, %d histories)\n   mean = %.6e   rel. error = %.4f\n",
		s.Name, s.Kind, s.Histories, s.Mean, s.RelativeError)
	return err
}

func writeTotal(w io.Writer, s core.Summary) error {
	_, err := printer.Fprintf(w, " %s   %d\n", s.Name, uint64(s.Total))
	return err
}

func writeCounting(w io.Writer, s core.Summary) error {
	if _, err := printer.Fprintf(w, " %s (%d histories)\n", s.Name, s.Histories); err != nil {
		return err
	}
	for i, p := range s.Probabilities {
		if _, err := fmt.Fprintf(w, " %d %.6e   %.4f\n", i, p, BinomialError(p, s.Histories)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "   mean = %.6f\n   var  = %.6f\n", s.Mean, s.Variance)
	return err
}
