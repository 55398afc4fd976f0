package cmd

import (
	"flag"
	"fmt"

	"github.com/etnz/hashledger/date"
)

// rangeFlags select a range of days: either a period around -d, or the
// days between -s and -d.
type rangeFlags struct {
	period string
	start  string
	date   string
}

func (r *rangeFlags) set(f *flag.FlagSet) {
	f.StringVar(&r.period, "p", "", "Predefined period (day, week, month, quarter, year) containing -d.")
	f.StringVar(&r.start, "s", "", "The start date for a custom range. Ignored with -p.")
	f.StringVar(&r.date, "d", "", "The end date for the range. Defaults to today with -p.")
}

// parse returns the selected range. Without any flag, every day is selected.
func (r *rangeFlags) parse() (date.Range, error) {
	var end date.Date
	if r.date != "" {
		var err error
		if end, err = date.Parse(r.date); err != nil {
			return date.Range{}, fmt.Errorf("invalid end date: %w", err)
		}
	}

	if r.period != "" {
		period, err := date.ParsePeriod(r.period)
		if err != nil {
			return date.Range{}, err
		}
		if end.IsZero() {
			end = date.Today()
		}
		return date.NewRange(end, period), nil
	}

	var start date.Date
	if r.start != "" {
		var err error
		if start, err = date.Parse(r.start); err != nil {
			return date.Range{}, fmt.Errorf("invalid start date: %w", err)
		}
	}
	return date.Range{From: start, To: end}, nil
}
