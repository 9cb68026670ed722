package main

import (
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"towngen/internal/bsp"
	"towngen/internal/catalog"
	"towngen/internal/config"
	"towngen/internal/render"
	"towngen/internal/town"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	ebitext "github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

type viewer struct {
	cfg *config.Config
	gen *town.Generator

	seed       int64
	busy       atomic.Bool
	showPlots  bool
	shown      *town.Town
	terrainImg *ebiten.Image
}

func main() {
	ensureRuntimeCWD()

	cfg := config.MustLoadConfig("config.yaml")
	cat, err := catalog.LoadCatalog(cfg.Buildings.Catalog)
	if err != nil {
		log.Printf("Warning: Failed to load building catalog: %v", err)
		cat = catalog.Default()
	}

	v := &viewer{
		cfg:       cfg,
		gen:       town.NewGenerator(cfg, cat),
		showPlots: true,
		seed:      time.Now().UnixNano(),
	}
	if cfg.Town.Seed != nil {
		v.seed = *cfg.Town.Seed
	}
	v.regenerate(v.seed)

	ebiten.SetWindowSize(cfg.GetScreenWidth(), cfg.GetScreenHeight())
	ebiten.SetWindowTitle(cfg.Display.WindowTitle)
	if cfg.Display.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	if err := ebiten.RunGame(v); err != nil {
		log.Fatal(err)
	}
}

// regenerate builds a town off the draw loop; Draw picks it up through the
// generator once it is published.
func (v *viewer) regenerate(seed int64) {
	if !v.busy.CompareAndSwap(false, true) {
		return
	}
	v.seed = seed
	go func() {
		defer v.busy.Store(false)
		if _, err := v.gen.Generate(&seed); err != nil {
			log.Printf("Warning: %v", err)
		}
	}()
}

func (v *viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		v.showPlots = !v.showPlots
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		v.regenerate(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyRight) || inpututil.IsKeyJustPressed(ebiten.KeyD) {
		v.regenerate(v.seed + 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyLeft) || inpututil.IsKeyJustPressed(ebiten.KeyA) {
		v.regenerate(v.seed - 1)
	}

	if t := v.gen.Current(); t != nil && t != v.shown {
		v.shown = t
		v.terrainImg = ebiten.NewImageFromImage(render.Town(t))
	}
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{15, 15, 22, 255})

	t := v.shown
	if t == nil {
		ebitenutil.DebugPrintAt(screen, "generating...", 16, 16)
		return
	}

	screenW, screenH := screen.Bounds().Dx(), screen.Bounds().Dy()
	sidebarWidth := v.cfg.Display.SidebarWidth

	padding := 16
	mapAreaW := screenW - sidebarWidth - padding*3
	mapAreaH := screenH - padding*2
	mapAreaX := padding
	mapAreaY := padding
	sidebarX := mapAreaX + mapAreaW + padding

	v.drawTown(screen, t, mapAreaX, mapAreaY, mapAreaW, mapAreaH)
	v.drawSidebar(screen, t, sidebarX, padding, sidebarWidth, mapAreaH)
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	if v.cfg.Display.Resizable {
		return outsideWidth, outsideHeight
	}
	return v.cfg.GetScreenWidth(), v.cfg.GetScreenHeight()
}

// mapping converts between town space and screen pixels for one frame.
type mapping struct {
	originX, originY float64
	cell             float64
	width, height    int
}

// cellRect returns the screen rectangle of a grid-space rectangle.
func (m mapping) cellRect(x, y, w, h int) (float32, float32, float32, float32) {
	sx := m.originX + float64(x)*m.cell
	sy := m.originY + float64(m.height-y-h)*m.cell
	return float32(sx), float32(sy), float32(float64(w) * m.cell), float32(float64(h) * m.cell)
}

// worldPoint returns the screen position of a world-space ground point.
func (m mapping) worldPoint(p town.Placement) (float32, float32) {
	fx := p.Position.X + float64(m.width)/2
	fy := p.Position.Z + float64(m.height)/2
	return float32(m.originX + fx*m.cell), float32(m.originY + (float64(m.height)-fy)*m.cell)
}

func (v *viewer) drawTown(screen *ebiten.Image, t *town.Town, x, y, w, h int) {
	drawFilledRect(screen, x, y, w, h, color.RGBA{20, 20, 35, 255})
	drawRectBorder(screen, x, y, w, h, 2, color.RGBA{70, 70, 90, 255})

	gw, gh := t.Grid.Width(), t.Grid.Height()
	cell := float64(v.cfg.GetCellSize())
	if fit := min(float64(w)/float64(gw), float64(h)/float64(gh)); fit < cell {
		cell = fit
	}
	m := mapping{
		originX: float64(x) + (float64(w)-float64(gw)*cell)/2,
		originY: float64(y) + (float64(h)-float64(gh)*cell)/2,
		cell:    cell,
		width:   gw,
		height:  gh,
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(cell, cell)
	op.GeoM.Translate(m.originX, m.originY)
	screen.DrawImage(v.terrainImg, op)

	if v.showPlots {
		border := v.cfg.GetBorderSize()
		t.Tree.Walk(func(p bsp.Plot) {
			clr := color.RGBA{120, 110, 60, 120}
			if p.IsLeaf() {
				clr = color.RGBA{255, 220, 0, 160}
			}
			sx, sy, sw, sh := m.cellRect(p.Rect.X+border, p.Rect.Y+border, p.Rect.W, p.Rect.H)
			vector.StrokeRect(screen, sx, sy, sw, sh, 1, clr, false)
		})
	}

	radius := float32(max(cell/3, 1.5))
	for _, p := range t.Placements {
		var clr color.RGBA
		switch p.Kind {
		case town.KindTree:
			clr = color.RGBA{20, 80, 30, 255}
		case town.KindBush:
			clr = color.RGBA{60, 110, 50, 255}
		case town.KindLamppost:
			clr = color.RGBA{255, 230, 120, 255}
		case town.KindGate:
			clr = render.GateColor
		default:
			continue
		}
		cx, cy := m.worldPoint(p)
		vector.DrawFilledCircle(screen, cx, cy, radius, clr, true)
	}
}

func (v *viewer) drawSidebar(screen *ebiten.Image, t *town.Town, x, y, w, h int) {
	drawFilledRect(screen, x, y, w, h, color.RGBA{18, 18, 26, 255})
	drawRectBorder(screen, x, y, w, h, 2, color.RGBA{70, 70, 90, 255})

	face := basicfont.Face7x13
	ebitext.Draw(screen, "Town Viewer", face, x+12, y+22, color.White)

	counts := t.CountByKind()
	lines := []string{
		fmt.Sprintf("Seed: %d", t.Seed),
		fmt.Sprintf("Size: %dx%d", t.Grid.Width(), t.Grid.Height()),
		fmt.Sprintf("Plots: %d", len(t.Tree.Leaves)),
		fmt.Sprintf("Buildings: %d", counts[town.KindBuilding]),
		fmt.Sprintf("Trees: %d  Bushes: %d", counts[town.KindTree], counts[town.KindBush]),
		fmt.Sprintf("Lampposts: %d", t.Lampposts),
		fmt.Sprintf("Road cells: %d", len(t.Grid.RoadCells())),
		fmt.Sprintf("Gates linked: %v", t.GatesConnected()),
		fmt.Sprintf("Built in %.1fms", float64(t.Elapsed.Microseconds())/1000),
	}
	if v.busy.Load() {
		lines = append(lines, "generating...")
	}
	row := y + 40
	for _, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, x+12, row)
		row += 16
	}

	row += 12
	for _, line := range []string{"R: new seed", "Left/Right: step seed", "Tab: plot outlines", "Esc: quit"} {
		ebitenutil.DebugPrintAt(screen, line, x+12, row)
		row += 16
	}
}

func drawFilledRect(screen *ebiten.Image, x, y, w, h int, clr color.RGBA) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), clr, false)
}

func drawRectBorder(screen *ebiten.Image, x, y, w, h, thickness int, clr color.RGBA) {
	t := float32(thickness)
	fx := float32(x)
	fy := float32(y)
	fw := float32(w)
	fh := float32(h)
	vector.DrawFilledRect(screen, fx, fy, fw, t, clr, false)
	vector.DrawFilledRect(screen, fx, fy+fh-t, fw, t, clr, false)
	vector.DrawFilledRect(screen, fx, fy, t, fh, clr, false)
	vector.DrawFilledRect(screen, fx+fw-t, fy, t, fh, clr, false)
}

func ensureRuntimeCWD() {
	if _, err := os.Stat("config.yaml"); err == nil {
		return
	}
	exe, err := os.Executable()
	if err != nil {
		return
	}
	_ = os.Chdir(filepath.Dir(exe))
}
