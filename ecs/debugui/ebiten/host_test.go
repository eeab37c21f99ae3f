package ebiten_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/scenegraph/ecs"
	"github.com/plus3/scenegraph/ecs/debugui"
	debugui_ebiten "github.com/plus3/scenegraph/ecs/debugui/ebiten"
)

func TestHostTogglePanels(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	debugui.RegisterDebugUIComponents(registry)
	w := ecs.NewWorld(registry)
	scheduler := ecs.NewScheduler(w)

	host, err := debugui_ebiten.NewHost(w, scheduler, nil)
	require.NoError(t, err)

	stats := scheduler.Stats()
	require.Equal(t, 1, stats.SystemCount)
	assert.Equal(t, "imgui", stats.Systems[0].Name)
	assert.Equal(t, debugui_ebiten.ImguiPriority, stats.Systems[0].Priority)

	items := ecs.GetStore[debugui.ImguiItem](w)
	assert.False(t, host.PanelsOpen())

	require.NoError(t, host.TogglePanels())
	assert.True(t, host.PanelsOpen())
	assert.Equal(t, 1, items.Len())

	require.NoError(t, host.TogglePanels())
	assert.False(t, host.PanelsOpen())
	assert.Zero(t, items.Len())
	assert.Zero(t, w.Entities().Len())
}
