/*
Package calendar provides national holiday presets for seeding the store.

PURPOSE:
  The engine only knows the holidays someone saved. This package supplies
  the usual public holidays of a country for a given year so that an
  administrator can seed a fresh installation (POST /api/holidays/defaults)
  or the server can seed the current year at startup.

PRESETS:
  ma: Moroccan fixed-date civil holidays (the default)
  us: US federal holidays, including the weekday-relative ones

  Religious holidays that follow the lunar calendar are not included; they
  are entered by hand each year.

USAGE:
  preset, err := calendar.Lookup("ma")
  for _, h := range preset.Holidays(2024) {
      store.SaveHoliday(ctx, h)
  }

SEE ALSO:
  - generic/time.go: Holiday and HolidayCalendar
*/
package calendar

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"

	"github.com/warp/leave-engine/generic"
)

// DefaultPreset is used when no preset is configured.
const DefaultPreset = "ma"

// Preset is a named set of public holidays.
type Preset struct {
	Code     string
	holidays []*cal.Holiday
}

func fixed(name string, month time.Month, day int) *cal.Holiday {
	return &cal.Holiday{
		Name:  name,
		Type:  cal.ObservancePublic,
		Month: month,
		Day:   day,
		Func:  cal.CalcDayOfMonth,
	}
}

var presets = map[string]Preset{
	"ma": {Code: "ma", holidays: []*cal.Holiday{
		fixed("Nouvel An", time.January, 1),
		fixed("Manifeste de l'Indépendance", time.January, 11),
		fixed("Fête du Travail", time.May, 1),
		fixed("Fête du Trône", time.July, 30),
		fixed("Allégeance Oued Eddahab", time.August, 14),
		fixed("Révolution du Roi et du Peuple", time.August, 20),
		fixed("Fête de la Jeunesse", time.August, 21),
		fixed("Marche Verte", time.November, 6),
		fixed("Fête de l'Indépendance", time.November, 18),
	}},
	"us": {Code: "us", holidays: []*cal.Holiday{
		us.NewYear,
		us.MlkDay,
		us.PresidentsDay,
		us.MemorialDay,
		us.Juneteenth,
		us.IndependenceDay,
		us.LaborDay,
		us.ColumbusDay,
		us.VeteransDay,
		us.ThanksgivingDay,
		us.ChristmasDay,
	}},
}

// Lookup returns the preset registered under code.
func Lookup(code string) (Preset, error) {
	p, ok := presets[strings.ToLower(strings.TrimSpace(code))]
	if !ok {
		return Preset{}, fmt.Errorf("unknown holiday preset %q", code)
	}
	return p, nil
}

// Codes lists the registered presets.
func Codes() []string {
	codes := make([]string, 0, len(presets))
	for code := range presets {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Holidays returns the preset's holidays on their actual dates in year.
// IDs are derived from the preset and the date so seeding twice is idempotent.
func (p Preset) Holidays(year int) []generic.Holiday {
	out := make([]generic.Holiday, 0, len(p.holidays))
	for _, h := range p.holidays {
		actual, _ := h.Calc(year)
		if actual.IsZero() {
			continue
		}
		day := generic.FromTime(actual)
		out = append(out, generic.Holiday{
			ID:     fmt.Sprintf("holiday-%s-%s", p.Code, day.String()),
			Date:   day,
			Name:   h.Name,
			Active: true,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// GetHolidays implements generic.HolidayCalendar.
func (p Preset) GetHolidays(_ context.Context, year int) ([]generic.Holiday, error) {
	return p.Holidays(year), nil
}
