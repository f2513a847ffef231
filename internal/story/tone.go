// internal/story/tone.go
package story

import "strings"

// StoreType is the closed set of store kinds a tone is chosen for.
type StoreType string

const (
	StoreTypeCafe       StoreType = "cafe"
	StoreTypeRestaurant StoreType = "restaurant"
	StoreTypeDessert    StoreType = "dessert"
	StoreTypeBar        StoreType = "bar"
	StoreTypeOther      StoreType = "other"
)

var storeTypeAliases = map[string]StoreType{
	"cafe":       StoreTypeCafe,
	"coffee":     StoreTypeCafe,
	"카페":         StoreTypeCafe,
	"커피":         StoreTypeCafe,
	"restaurant": StoreTypeRestaurant,
	"레스토랑":       StoreTypeRestaurant,
	"음식점":        StoreTypeRestaurant,
	"식당":         StoreTypeRestaurant,
	"dessert":    StoreTypeDessert,
	"bakery":     StoreTypeDessert,
	"디저트":        StoreTypeDessert,
	"베이커리":       StoreTypeDessert,
	"bar":        StoreTypeBar,
	"pub":        StoreTypeBar,
	"술집":         StoreTypeBar,
	"바":          StoreTypeBar,
	"펍":          StoreTypeBar,
}

// ParseStoreType accepts English and Korean names. Anything unrecognized is StoreTypeOther;
// a blank name stays empty so validation reports it as missing.
func ParseStoreType(s string) StoreType {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	if t, ok := storeTypeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t
	}
	return StoreTypeOther
}

// Label is how the store type reads inside a prompt.
func (t StoreType) Label() string {
	switch t {
	case StoreTypeCafe:
		return "카페"
	case StoreTypeRestaurant:
		return "레스토랑"
	case StoreTypeDessert:
		return "디저트 가게"
	case StoreTypeBar:
		return "술집"
	default:
		return "매장"
	}
}

// Tone is the voice a narrative is written in.
type Tone struct {
	Key      string
	Voice    string
	Guide    []string
	Examples []string
	// Excluded trend categories never fit this store, e.g. alcohol at a cafe.
	Excluded []string
}

var (
	cafeTone = Tone{
		Key:   "cafe",
		Voice: "여유롭고 감성적인",
		Guide: []string{"음료 한 잔과 머무는 시간을 떠올리게 할 것", "커피나 음료 메뉴를 구체적으로 언급할 것"},
		Examples: []string{
			"비 오는 가을 오후, 따뜻한 아메리카노 한 잔과 함께 여유를 느껴보세요.",
			"쌀쌀한 겨울 아침, 달콤한 카페모카로 하루를 시작하는 건 어떠세요?",
			"더운 여름 점심, 시원한 아이스 음료로 더위를 날려보세요.",
		},
		Excluded: []string{"alcohol", "meat"},
	}
	restaurantTone = Tone{
		Key:   "restaurant",
		Voice: "따뜻하고 든든한",
		Guide: []string{"한 끼 식사의 만족감을 강조할 것", "대표 요리를 구체적으로 언급할 것"},
		Examples: []string{
			"비 오는 가을 저녁, 크림 파스타와 함께 여유로운 저녁 시간을 즐겨보세요.",
			"추운 겨울 점심, 뜨끈한 국물 요리로 몸을 녹여보세요.",
			"맑은 봄 저녁, 신선한 샐러드와 리조또는 어떠세요?",
		},
	}
	dessertTone = Tone{
		Key:   "dessert",
		Voice: "달콤하고 사랑스러운",
		Guide: []string{"달콤한 휴식과 기분 전환을 강조할 것", "디저트 메뉴를 구체적으로 언급할 것"},
		Examples: []string{
			"맑은 가을 오후, 갓 구운 빵과 따뜻한 차 한 잔 어떠세요?",
			"쌀쌀한 겨울 저녁, 달콤한 케이크로 기분 전환을 해보세요.",
			"봄 오후, 신선한 과일 타르트와 함께 달콤한 휴식 시간을 즐겨보세요.",
		},
		Excluded: []string{"alcohol", "meat"},
	}
	barTone = Tone{
		Key:   "bar",
		Voice: "유쾌하고 편안한",
		Guide: []string{"하루를 마무리하는 분위기를 살릴 것", "과음을 부추기는 표현은 피할 것"},
		Examples: []string{
			"주말 저녁, 시원한 생맥주로 한 주의 피로를 풀어보세요.",
			"비 오는 밤, 따뜻한 안주와 하이볼 한 잔 어떠세요?",
			"선선한 가을 밤, 와인 한 잔과 함께 이야기를 나눠보세요.",
		},
		Excluded: []string{"coffee", "dessert"},
	}
	defaultTone = Tone{
		Key:   "default",
		Voice: "친근하고 자연스러운",
		Guide: []string{"매장의 대표 메뉴를 구체적으로 언급할 것"},
		Examples: []string{
			"비 오는 가을 저녁, 따뜻한 음식과 함께 여유로운 시간을 즐겨보세요.",
			"쌀쌀한 겨울 점심, 따뜻한 국물 요리가 생각나는 날씨네요.",
			"더운 여름 저녁, 시원한 메뉴로 더위를 날려보세요.",
		},
	}
)

// ToneFor is total over StoreType: every value, including unknown ones, has a tone.
func ToneFor(t StoreType) Tone {
	switch t {
	case StoreTypeCafe:
		return cafeTone
	case StoreTypeRestaurant:
		return restaurantTone
	case StoreTypeDessert:
		return dessertTone
	case StoreTypeBar:
		return barTone
	default:
		return defaultTone
	}
}
