package utils

import (
	"strings"
	"time"

	cal "github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/es"
	"github.com/rickar/cal/v2/fr"
	"github.com/rickar/cal/v2/it"
	"github.com/rickar/cal/v2/pt"
	"github.com/rickar/cal/v2/us"
)

// one calendar per supported ISO-3166 alpha-2 country, built once
var nationalCalendars = map[string]*cal.BusinessCalendar{}

func init() {
	for country, holidays := range map[string][]*cal.Holiday{
		"ES": es.Holidays,
		"FR": fr.Holidays,
		"IT": it.Holidays,
		"PT": pt.Holidays,
		"US": us.Holidays,
	} {
		c := cal.NewBusinessCalendar()
		c.AddHoliday(holidays...)
		nationalCalendars[country] = c
	}
}

// HolidaySupported reports whether a national calendar exists for country.
func HolidaySupported(country string) bool {
	_, ok := nationalCalendars[strings.ToUpper(country)]
	return ok
}

// HolidaysBetween lists the national holidays of country falling on the
// days from..to (both inclusive). Unknown countries yield nil.
func HolidaysBetween(country string, from, to time.Time) []string {
	c, ok := nationalCalendars[strings.ToUpper(country)]
	if !ok || to.Before(from) {
		return nil
	}

	var out []string
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		actual, _, h := c.IsHoliday(d)
		if actual && h != nil {
			out = append(out, d.Format("2006-01-02")+" "+h.Name)
		}
	}
	return out
}
