// internal/story/categories.go
package story

import (
	"strings"
)

// categoryOrder fixes the order CategorizeKeyword reports tags in.
var categoryOrder = []string{
	"coffee", "dessert", "beverage", "meal", "food", "alcohol", "meat",
	"weather", "event", "season", "daily",
}

// categoryLexicon maps a category to substrings that mark a keyword as belonging to it.
var categoryLexicon = map[string][]string{
	"coffee":   {"커피", "라떼", "아메리카노", "에스프레소", "카페", "coffee", "latte"},
	"dessert":  {"디저트", "케이크", "마카롱", "빙수", "아이스크림", "초콜릿", "핫초코", "딸기", "쿠키", "송편", "dessert", "cake"},
	"beverage": {"음료", "따뜻한", "시원한", "핫초코", "에이드", "스무디", "tea"},
	"meal":     {"식사", "점심", "저녁", "브런치", "런치", "샐러드", "라면", "떡국", "야식", "파스타", "brunch", "lunch", "dinner"},
	"food":     {"맛집", "음식", "메뉴", "디저트", "음료", "커피", "카페", "치킨", "피자"},
	"alcohol":  {"맥주", "소주", "와인", "주류", "양주", "칵테일", "하이볼", "불금", "beer", "wine"},
	"meat":     {"치킨", "삼겹살", "고기", "갈비", "스테이크"},
	"weather":  {"날씨", "장마", "소나기", "추위", "더위", "맑음", "흐림", "열대야", "눈"},
	"event":    {"크리스마스", "설날", "추석", "할로윈", "발렌타인", "생일", "연말", "신년", "가정의달", "카네이션", "새학기"},
	"season":   {"봄", "여름", "가을", "겨울", "벚꽃", "단풍", "낙엽", "바캉스", "휴가", "피크닉", "나들이"},
	"daily":    {"주말", "휴식", "월요병", "한주시작", "일요일", "출근", "퇴근"},
}

// categoryAliases folds Korean and loose menu names onto lexicon categories.
var categoryAliases = map[string]string{
	"커피":       "coffee",
	"카페":       "coffee",
	"디저트":      "dessert",
	"베이커리":     "dessert",
	"bakery":   "dessert",
	"sweets":   "dessert",
	"음료":       "beverage",
	"drink":    "beverage",
	"drinks":   "beverage",
	"tea":      "beverage",
	"식사":       "meal",
	"brunch":   "meal",
	"lunch":    "meal",
	"dinner":   "meal",
	"음식":       "food",
	"술":        "alcohol",
	"주류":       "alcohol",
	"beer":     "alcohol",
	"wine":     "alcohol",
	"cocktail": "alcohol",
	"고기":       "meat",
	"날씨":       "weather",
	"이벤트":      "event",
	"계절":       "season",
}

// NormalizeCategory lower-cases, trims and folds aliases.
func NormalizeCategory(s string) string {
	c := strings.ToLower(strings.TrimSpace(s))
	if alias, ok := categoryAliases[c]; ok {
		return alias
	}
	return c
}

// NormalizeCategories normalizes each entry, drops blanks and removes duplicates,
// keeping the first occurrence.
func NormalizeCategories(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, raw := range in {
		c := NormalizeCategory(raw)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// CategorizeKeyword tags a keyword with every lexicon category it matches.
func CategorizeKeyword(text string) []string {
	lower := strings.ToLower(text)
	var tags []string
	for _, cat := range categoryOrder {
		for _, marker := range categoryLexicon[cat] {
			if strings.Contains(lower, marker) {
				tags = append(tags, cat)
				break
			}
		}
	}
	return tags
}

// mergeCategories appends extra tags not already present.
func mergeCategories(base []string, extra ...string) []string {
	out := append([]string(nil), base...)
	for _, e := range extra {
		if e == "" || containsString(out, e) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func overlaps(a, b []string) bool {
	for _, x := range a {
		if containsString(b, x) {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
