// internal/story/timeinfo.go
package story

import "time"

type TimeBucket string

const (
	BucketMorning   TimeBucket = "morning"
	BucketLunch     TimeBucket = "lunch"
	BucketAfternoon TimeBucket = "afternoon"
	BucketEvening   TimeBucket = "evening"
	BucketNight     TimeBucket = "night"
)

var bucketLabels = map[TimeBucket]string{
	BucketMorning:   "아침",
	BucketLunch:     "점심",
	BucketAfternoon: "오후",
	BucketEvening:   "저녁",
	BucketNight:     "밤",
}

func (b TimeBucket) Label() string {
	return bucketLabels[b]
}

var weekdayLabels = [...]string{
	time.Sunday:    "일요일",
	time.Monday:    "월요일",
	time.Tuesday:   "화요일",
	time.Wednesday: "수요일",
	time.Thursday:  "목요일",
	time.Friday:    "금요일",
	time.Saturday:  "토요일",
}

// TimeInfo is the time-of-day view of a request instant, in the configured timezone.
type TimeInfo struct {
	Bucket       TimeBucket `json:"period"`
	BucketLabel  string     `json:"periodLabel"`
	Hour         int        `json:"hour"`
	Minute       int        `json:"minute"`
	Clock        string     `json:"time"`
	Date         string     `json:"date"`
	Weekday      string     `json:"weekday"`
	WeekdayLabel string     `json:"weekdayLabel"`
	IsWeekend    bool       `json:"isWeekend"`
}

// ResolveTimeBucket partitions the day: morning [06,11), lunch [11,14),
// afternoon [14,18), evening [18,21), night [21,06).
func ResolveTimeBucket(hour int) TimeBucket {
	switch {
	case hour >= 6 && hour < 11:
		return BucketMorning
	case hour >= 11 && hour < 14:
		return BucketLunch
	case hour >= 14 && hour < 18:
		return BucketAfternoon
	case hour >= 18 && hour < 21:
		return BucketEvening
	default:
		return BucketNight
	}
}

// ResolveTimeInfo evaluates t in its own location; callers convert first.
func ResolveTimeInfo(t time.Time) TimeInfo {
	bucket := ResolveTimeBucket(t.Hour())
	wd := t.Weekday()
	return TimeInfo{
		Bucket:       bucket,
		BucketLabel:  bucket.Label(),
		Hour:         t.Hour(),
		Minute:       t.Minute(),
		Clock:        t.Format("15:04"),
		Date:         t.Format("2006-01-02"),
		Weekday:      wd.String(),
		WeekdayLabel: weekdayLabels[wd],
		IsWeekend:    wd == time.Saturday || wd == time.Sunday,
	}
}
