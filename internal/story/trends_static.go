// internal/story/trends_static.go
package story

import "time"

var monthlyTrends = map[time.Month][]string{
	time.January:   {"신년", "따뜻한음료", "핫초코", "떡국"},
	time.February:  {"발렌타인", "초콜릿", "겨울"},
	time.March:     {"봄", "벚꽃", "피크닉", "봄나들이"},
	time.April:     {"봄", "딸기", "새학기", "야외"},
	time.May:       {"가정의달", "카네이션", "가족"},
	time.June:      {"여름", "아이스커피", "빙수"},
	time.July:      {"여름휴가", "바캉스", "수박", "시원한"},
	time.August:    {"여름", "열대야", "아이스크림"},
	time.September: {"가을", "추석", "송편"},
	time.October:   {"가을", "단풍", "할로윈"},
	time.November:  {"가을", "추위", "따뜻한"},
	time.December:  {"크리스마스", "연말", "겨울", "따뜻한"},
}

var weekdayTrends = map[time.Weekday][]string{
	time.Monday:   {"월요병", "한주시작"},
	time.Friday:   {"불금", "주말"},
	time.Saturday: {"주말", "휴식"},
	time.Sunday:   {"일요일", "휴식"},
}

var bucketTrends = map[TimeBucket][]string{
	BucketMorning:   {"모닝커피", "아침식사", "브런치"},
	BucketLunch:     {"점심메뉴", "런치세트", "샐러드"},
	BucketAfternoon: {"디저트", "아이스커피", "케이크"},
	BucketEvening:   {"저녁식사", "맥주", "치킨"},
	BucketNight:     {"야식", "라면", "치킨"},
}

// StaticTrends is the built-in list used when the provider is down and nothing is cached.
// It depends only on the calendar: weekday, then month, then time of day.
func StaticTrends(now time.Time) []TrendKeyword {
	var texts []string
	texts = append(texts, weekdayTrends[now.Weekday()]...)
	texts = append(texts, monthlyTrends[now.Month()]...)
	texts = append(texts, bucketTrends[ResolveTimeBucket(now.Hour())]...)

	out := make([]TrendKeyword, 0, len(texts))
	seen := make(map[string]struct{}, len(texts))
	for _, text := range texts {
		if _, dup := seen[text]; dup {
			continue
		}
		seen[text] = struct{}{}
		out = append(out, TrendKeyword{
			Text:       text,
			Categories: CategorizeKeyword(text),
			Origin:     OriginFallback,
			FetchedAt:  now,
		})
	}
	return out
}
