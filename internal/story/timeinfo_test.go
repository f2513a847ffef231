// internal/story/timeinfo_test.go
package story

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveTimeBucket_Boundaries(t *testing.T) {
	tests := []struct {
		hour int
		want TimeBucket
	}{
		{0, BucketNight},
		{5, BucketNight},
		{6, BucketMorning},
		{10, BucketMorning},
		{11, BucketLunch},
		{13, BucketLunch},
		{14, BucketAfternoon},
		{17, BucketAfternoon},
		{18, BucketEvening},
		{20, BucketEvening},
		{21, BucketNight},
		{23, BucketNight},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ResolveTimeBucket(tt.hour), "hour %d", tt.hour)
	}
}

func TestResolveTimeBucket_IsTotal(t *testing.T) {
	for h := 0; h < 24; h++ {
		assert.NotEmpty(t, ResolveTimeBucket(h).Label(), "hour %d", h)
	}
}

func TestResolveTimeInfo(t *testing.T) {
	info := ResolveTimeInfo(time.Date(2025, 11, 15, 18, 30, 0, 0, seoul))

	assert.Equal(t, BucketEvening, info.Bucket)
	assert.Equal(t, "저녁", info.BucketLabel)
	assert.Equal(t, "18:30", info.Clock)
	assert.Equal(t, "2025-11-15", info.Date)
	assert.Equal(t, "Saturday", info.Weekday)
	assert.Equal(t, "토요일", info.WeekdayLabel)
	assert.True(t, info.IsWeekend)

	weekday := ResolveTimeInfo(time.Date(2025, 11, 17, 9, 5, 0, 0, seoul))
	assert.Equal(t, BucketMorning, weekday.Bucket)
	assert.False(t, weekday.IsWeekend)
}
