// Package ebiten hosts a World inside an Ebiten game loop with a Dear ImGui
// overlay for ImguiItem windows and the debug panels.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/scenegraph/ecs"
	"github.com/plus3/scenegraph/ecs/debugui"
)

// ImguiPriority is the priority Host registers ImguiSystem with, so render
// functions are queued after every other system has run.
const ImguiPriority = 1 << 20

// ImguiBackend wraps the Ebiten-specific Dear ImGui backend. Host stores it
// as a World singleton.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}

// Host implements ebiten.Game for a World and its Scheduler. Every Update
// ticks the Scheduler inside one ImGui frame, so the render functions that
// ImguiSystem defers to the command flush draw into that frame.
type Host struct {
	World     *ecs.World
	Scheduler *ecs.Scheduler

	// TickRate is the delta passed to Scheduler.Tick. Zero uses 1/TPS.
	TickRate float64
	// PanelKeys toggle the built-in debug panels. Empty disables the toggle.
	PanelKeys []ebiten.Key
	// Input runs before the tick. An error, such as ebiten.Termination,
	// ends the game.
	Input func() error
	// DrawScene paints the frame under the ImGui overlay.
	DrawScene func(screen *ebiten.Image)
	// OnLayout is told the outside size on every layout pass.
	OnLayout func(width, height int)

	backend *ecs.Singleton[ImguiBackend]
	panels  *debugui.Panels
}

// NewHost stores backend as a singleton of w and registers ImguiSystem on
// scheduler.
func NewHost(w *ecs.World, scheduler *ecs.Scheduler, backend *ebitenbackend.EbitenBackend) (*Host, error) {
	h := &Host{
		World:     w,
		Scheduler: scheduler,
		backend:   ecs.NewSingleton(w, ImguiBackend{EbitenBackend: backend}),
	}
	if err := scheduler.Register(&debugui.ImguiSystem{}, ecs.Priority(ImguiPriority), ecs.Named("imgui")); err != nil {
		return nil, err
	}
	return h, nil
}

// Backend returns the ImGui backend.
func (h *Host) Backend() *ebitenbackend.EbitenBackend {
	return h.backend.Get().EbitenBackend
}

// PanelsOpen reports whether the debug panels are spawned.
func (h *Host) PanelsOpen() bool {
	return h.panels != nil
}

// TogglePanels spawns the debug panels, or closes them if they are open.
func (h *Host) TogglePanels() error {
	if h.panels != nil {
		err := h.panels.Close()
		h.panels = nil
		return err
	}
	panels, err := debugui.SpawnDebugUI(h.World, h.Scheduler)
	if err != nil {
		return err
	}
	h.panels = panels
	return nil
}

func (h *Host) Update() error {
	if h.Input != nil {
		if err := h.Input(); err != nil {
			return err
		}
	}
	for _, key := range h.PanelKeys {
		if inpututil.IsKeyJustPressed(key) {
			if err := h.TogglePanels(); err != nil {
				return err
			}
			break
		}
	}

	dt := h.TickRate
	if dt == 0 {
		dt = 1 / float64(ebiten.TPS())
	}

	backend := h.Backend()
	backend.BeginFrame()
	err := h.Scheduler.Tick(dt)
	backend.EndFrame()
	return err
}

func (h *Host) Draw(screen *ebiten.Image) {
	if h.DrawScene != nil {
		h.DrawScene(screen)
	}
	h.Backend().Draw(screen)
}

func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	if h.OnLayout != nil {
		h.OnLayout(outsideWidth, outsideHeight)
	}
	h.Backend().Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}
