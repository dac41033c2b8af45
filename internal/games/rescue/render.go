package rescue

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/tui-avalanche/internal/core"
	"github.com/vovakirdan/tui-avalanche/internal/sim/collision"
	"github.com/vovakirdan/tui-avalanche/internal/sim/mission"
	"github.com/vovakirdan/tui-avalanche/internal/sim/terrain"
)

const (
	minScreenW = 48
	minScreenH = 16
	hudHeight  = 3

	flashFrames    = 6
	barWidth       = 10
	contourSpacing = 6.0
	contourBand    = 0.12
)

// Light comes from the north-west for hill shading.
var sunDir = core.V(-1, -1)

// bearingArrows are indexed by octant, clockwise from east on a map with z down.
var bearingArrows = [8]rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}

// viewport maps world coordinates to screen cells.
type viewport struct {
	x0, y0 int     // Top-left screen cell of the map
	w, h   int     // Map size in cells
	cellX  float64 // World units per column
	cellZ  float64 // World units per row
}

func (v viewport) toScreen(p core.Vec2) (int, int) {
	return v.x0 + int(p.X/v.cellX), v.y0 + int(p.Z/v.cellZ)
}

func (v viewport) toWorld(col, row int) core.Vec2 {
	return core.V((float64(col)+0.5)*v.cellX, (float64(row)+0.5)*v.cellZ)
}

// fitViewport fits the world into the area under the HUD.
// Terminal cells are about twice as tall as wide.
func (g *Game) fitViewport() viewport {
	bounds := g.world.Bounds()
	availW := g.screenW
	availH := g.screenH - hudHeight - 1

	scale := math.Max(bounds.W/float64(availW), bounds.H/float64(availH*2))
	if scale <= 0 {
		scale = 1
	}
	w := core.Clamp(int(math.Ceil(bounds.W/scale)), 1, availW)
	h := core.Clamp(int(math.Ceil(bounds.H/(scale*2))), 1, availH)
	return viewport{
		x0:    (availW - w) / 2,
		y0:    hudHeight + (availH-h)/2,
		w:     w,
		h:     h,
		cellX: scale,
		cellZ: scale * 2,
	}
}

// Render draws the mission to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	vp := g.fitViewport()
	g.renderTerrain(dst, vp)
	g.renderHazard(dst, vp)
	g.renderObstacles(dst, vp)
	g.renderMarkers(dst, vp)
	g.renderHUD(dst)
	g.renderOverlays(dst, vp)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need %dx%d", minScreenW, minScreenH))
}

func (g *Game) renderTerrain(dst *core.Screen, vp viewport) {
	cls := g.field.Classifier()
	for row := range vp.h {
		for col := range vp.w {
			p := vp.toWorld(col, row)
			cat := cls.Classify(p.X, p.Z)
			ch, color := terrainGlyph(cat)

			if cat != terrain.Gully && g.field.ContourPhase(p.X, p.Z, contourSpacing) < contourBand {
				ch = '~'
			}
			if g.field.AspectLight(p.X, p.Z, sunDir) > 0.5 && color == core.ColorWhite {
				color = core.ColorShadow
			}
			dst.SetColored(vp.x0+col, vp.y0+row, ch, color)
		}
	}
}

func terrainGlyph(c terrain.Category) (rune, core.Color) {
	switch c {
	case terrain.Powder:
		return ':', core.ColorBrightWhite
	case terrain.Trees:
		return '"', core.ColorGreen
	case terrain.RidgeRock:
		return '^', core.ColorGray
	case terrain.Gully:
		return 'v', core.ColorIce
	default:
		return '.', core.ColorWhite
	}
}

func (g *Game) renderHazard(dst *core.Screen, vp viewport) {
	hz := g.hazard.Snapshot()
	pulseOn := hz.Pulse < 0.5
	for row := range vp.h {
		for col := range vp.w {
			p := vp.toWorld(col, row)
			d := core.Dist(p, hz.Center)
			switch {
			case d <= hz.KillRadius:
				ch := 'X'
				if !pulseOn {
					ch = '#'
				}
				dst.SetColored(vp.x0+col, vp.y0+row, ch, core.ColorBrightRed)
			case d <= hz.WarningRadius:
				dst.SetColored(vp.x0+col, vp.y0+row, '+', core.ColorOrange)
			}
		}
	}
}

func (g *Game) renderObstacles(dst *core.Screen, vp viewport) {
	for _, o := range g.world.Obstacles() {
		ch, color := 'T', core.ColorBrightGreen
		if o.Kind == collision.Rock {
			ch, color = 'O', core.ColorGray
		}
		b := o.Bounds()
		x0, y0 := vp.toScreen(core.V(b.X, b.Z))
		x1, y1 := vp.toScreen(core.V(b.Right(), b.Bottom()))
		x1 = max(x1, x0+1)
		y1 = max(y1, y0+1)
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				dst.SetColored(x, y, ch, color)
			}
		}
	}
}

func (g *Game) renderMarkers(dst *core.Screen, vp viewport) {
	evac := g.mission.Evac()
	x0, y0 := vp.toScreen(core.V(evac.X, evac.Z))
	x1, y1 := vp.toScreen(core.V(evac.Right(), evac.Bottom()))
	for y := y0; y <= max(y1-1, y0); y++ {
		for x := x0; x <= max(x1-1, x0); x++ {
			dst.SetColored(x, y, '=', core.ColorBrightBlue)
		}
	}

	for _, p := range g.mission.Probes() {
		x, y := vp.toScreen(p)
		dst.SetColored(x, y, '|', core.ColorYellow)
	}

	ms := g.last
	if ms.RunState.Terminal() || ms.Submode == mission.Dig {
		x, y := vp.toScreen(g.mission.Victim())
		dst.SetColored(x, y, '*', core.ColorBrightMagenta)
	}

	px, py := vp.toScreen(g.loco.State().Pos)
	color := core.ColorBrightYellow
	if g.flash > 0 {
		color = core.ColorBrightRed
	}
	dst.SetColored(px, py, '@', color)
}

// renderHUD draws timer, meters and the objective line.
func (g *Game) renderHUD(dst *core.Screen) {
	ms := g.last
	player := g.loco.State()

	title := fmt.Sprintf("%s  [%s]", g.Title(), ms.RunState)
	dst.DrawTextColored(0, 0, title, core.ColorBrightCyan)

	timer := fmt.Sprintf("T %s  Probes %d", formatClock(ms.Timer), ms.ProbesRemaining)
	timerColor := core.ColorWhite
	if ms.Timer < 30 && ms.RunState == mission.Active {
		timerColor = core.ColorBrightRed
	}
	dst.DrawTextColored(g.screenW-len(timer), 0, timer, timerColor)

	x := 0
	x = drawMeter(dst, x, 1, "SIG", float64(ms.Signal)/100, core.ColorBrightGreen)
	dst.SetColored(x, 1, bearingArrow(ms.Bearing), core.ColorBrightYellow)
	x += 2
	staColor := core.ColorBrightBlue
	if player.Sprinting {
		staColor = core.ColorBrightCyan
	}
	x = drawMeter(dst, x, 1, "STA", g.loco.StaminaRatio(), staColor)
	x = drawMeter(dst, x, 1, "DNG", g.pressure(), core.ColorBrightRed)
	if ms.Submode == mission.Dig {
		drawMeter(dst, x, 1, "DIG", ms.DigProgress, core.ColorYellow)
	}

	mode := fmt.Sprintf("%s | %s", ms.Submode, player.Terrain)
	dst.DrawTextColored(0, 2, mode, core.ColorGray)
	dst.DrawText(len(mode)+2, 2, ms.Objective)
}

// drawMeter draws "LBL [####------]" and returns the next free column.
func drawMeter(dst *core.Screen, x, y int, label string, v float64, c core.Color) int {
	filled := int(math.Round(core.ClampF(v, 0, 1) * barWidth))
	dst.DrawText(x, y, label+" [")
	x += len(label) + 2
	dst.DrawTextColored(x, y, strings.Repeat("#", filled), c)
	dst.DrawText(x+filled, y, strings.Repeat("-", barWidth-filled)+"]")
	return x + barWidth + 2
}

// bearingArrow quantizes a bearing to one of eight arrows.
func bearingArrow(bearing float64) rune {
	oct := int(math.Round(bearing/(math.Pi/4))) % 8
	if oct < 0 {
		oct += 8
	}
	return bearingArrows[oct]
}

func formatClock(sec float64) string {
	s := int(math.Ceil(math.Max(0, sec)))
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

// renderOverlays draws banners and end-of-run boxes.
func (g *Game) renderOverlays(dst *core.Screen, vp viewport) {
	ms := g.last
	centerX := vp.x0 + vp.w/2
	centerY := vp.y0 + vp.h/2

	if g.paused {
		g.drawOverlay(dst, centerX, centerY, "PAUSED", "Press P to resume")
		return
	}

	switch ms.RunState {
	case mission.Dispatch:
		g.drawOverlay(dst, centerX, centerY, "DISPATCH",
			fmt.Sprintf("Deploying in %.1fs", ms.DispatchRemaining))
		return
	case mission.Win:
		g.drawOverlay(dst, centerX, centerY, mission.BannerComplete,
			fmt.Sprintf("Score: %d", g.score),
			fmt.Sprintf("Time left %s, %d probes", formatClock(ms.Timer), ms.ProbesRemaining),
			"Press R to restart")
		return
	case mission.Lose:
		title := mission.BannerTimeout
		if ms.LoseReason == mission.Danger {
			title = mission.BannerSlide
		}
		g.drawOverlay(dst, centerX, centerY, title, ms.Objective, "Press R to restart")
		return
	}

	if ms.Banner != "" {
		g.drawOverlay(dst, centerX, vp.y0+2, ms.Banner)
	}
}

// drawOverlay draws a centered text box.
func (g *Game) drawOverlay(dst *core.Screen, centerX, centerY int, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len([]rune(line)))
	}

	boxW := maxLen + 4
	boxH := len(lines) + 2
	boxX := centerX - boxW/2
	boxY := centerY - boxH/2

	dst.DrawRect(core.Rect{X: boxX, Y: boxY, W: boxW, H: boxH}, ' ')
	dst.DrawBoxColored(core.Rect{X: boxX, Y: boxY, W: boxW, H: boxH}, core.ColorBrightWhite)

	for i, line := range lines {
		x := centerX - len([]rune(line))/2
		dst.DrawText(x, boxY+1+i, line)
	}
}

// Controls returns the control hints for the mission.
func (g *Game) Controls() string {
	return "WASD/Arrows: Move | Shift: Sprint | Tab: Probe | E: Use | P: Pause | R: Restart | Q: Quit"
}
