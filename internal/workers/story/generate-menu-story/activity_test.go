// internal/workers/story/generate-menu-story/activity_test.go
package generatemenustory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"seasonal-story-workers/internal/common/config"
	"seasonal-story-workers/pkg/registry"
)

func TestActivity(t *testing.T) {
	a := Activity(NewConfig(config.WorkerConfig{Enabled: true, Timeout: 8000}))

	assert.Equal(t, TaskType, a.TaskType)
	assert.Equal(t, "8s", a.Timeout)
	assert.Equal(t, []interface{}{"menuName"}, a.InputSchema["required"])
	assert.NoError(t, registry.New("1.0.0", time.Now(), a).Validate())
}
