package main

import (
	"flag"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// optFloat is a float flag that remembers whether it was given.
type optFloat struct{ v *float64 }

func (o *optFloat) String() string {
	if o.v == nil {
		return ""
	}
	return strconv.FormatFloat(*o.v, 'f', -1, 64)
}

func (o *optFloat) Set(s string) error {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	o.v = &f
	return nil
}

// optDate is a date flag accepting 2006-01-02 or RFC 3339.
type optDate struct{ v *model.Date }

func (o *optDate) String() string {
	if o.v == nil {
		return ""
	}
	return o.v.Format("2006-01-02")
}

func (o *optDate) Set(s string) error {
	d, err := model.ParseDate(s)
	if err != nil {
		return err
	}
	o.v = &d
	return nil
}

func (o *optDate) time() *time.Time {
	if o.v == nil {
		return nil
	}
	t := o.v.Time
	return &t
}

// visited returns the names of the flags set on the command line.
func visited(fs *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

func splitIDs(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
