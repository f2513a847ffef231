// internal/story/season.go
package story

import "time"

type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
	SeasonWinter Season = "winter"
)

var seasonLabels = map[Season]string{
	SeasonSpring: "봄",
	SeasonSummer: "여름",
	SeasonAutumn: "가을",
	SeasonWinter: "겨울",
}

// Label is the Korean name used in prompts.
func (s Season) Label() string {
	return seasonLabels[s]
}

// ResolveSeason maps a calendar month to its meteorological season:
// Mar-May spring, Jun-Aug summer, Sep-Nov autumn, Dec-Feb winter.
func ResolveSeason(t time.Time) Season {
	switch t.Month() {
	case time.March, time.April, time.May:
		return SeasonSpring
	case time.June, time.July, time.August:
		return SeasonSummer
	case time.September, time.October, time.November:
		return SeasonAutumn
	default:
		return SeasonWinter
	}
}
