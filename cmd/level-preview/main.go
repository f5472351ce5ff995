// Command level-preview renders a generated level in the terminal
// Keys: arrows/hjkl pan, +/- zoom, 0 fit, r next seed, m mirror, q quit
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/depthgen/catalog"
	"github.com/lixenwraith/depthgen/config"
	"github.com/lixenwraith/depthgen/core"
	"github.com/lixenwraith/depthgen/level"
)

type app struct {
	screen tcell.Screen
	cfg    *config.Generation
	set    *level.ParamsSet
	cat    *catalog.Catalog

	level  *level.Level
	view   viewport
	reseed int
	err    error
}

func main() {
	os.Exit(preview())
}

// preview returns the process exit code so deferred cleanup runs before exit
func preview() int {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "level-preview: %v\n", err)
		return 2
	}
	fs := flag.NewFlagSet("level-preview", flag.ExitOnError)
	cfg.RegisterFlags(fs)
	_ = fs.Parse(os.Args[1:])

	if logFile := config.SetupLogging(cfg.Debug, "level-preview"); logFile != nil {
		defer logFile.Close()
	}

	set, cat, err := cfg.Sources()
	if err != nil {
		fmt.Fprintf(os.Stderr, "level-preview: %v\n", err)
		return 1
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "level-preview: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "level-preview: %v\n", err)
		return 1
	}
	defer screen.Fini()

	a := &app{screen: screen, cfg: cfg, set: set, cat: cat}
	a.regenerate()
	a.loop()
	return 0
}

func (a *app) seed() string {
	if a.reseed == 0 {
		return a.cfg.Seed
	}
	return fmt.Sprintf("%s-%d", a.cfg.Seed, a.reseed)
}

func (a *app) regenerate() {
	data := a.cfg.Record()
	data.Seed = a.seed()
	l, err := level.Generate(data, a.set, a.cat,
		level.WithLogger(log.Default()),
		level.WithMirror(a.cfg.Mirror),
	)
	a.level, a.err = l, err
	if err != nil {
		log.Printf("WARN: generate %q: %v", data.Seed, err)
		return
	}
	w, h := a.screen.Size()
	a.view = fitViewport(l.Bounds, w, h-1)
}

func (a *app) loop() {
	for {
		a.draw()
		switch ev := a.screen.PollEvent().(type) {
		case *tcell.EventResize:
			a.screen.Sync()
			if a.level != nil {
				w, h := a.screen.Size()
				a.view.resize(w, h-1)
			}
		case *tcell.EventKey:
			if !a.handleKey(ev) {
				return
			}
		}
	}
}

// handleKey returns false when the viewer should exit
func (a *app) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		a.view.pan(-1, 0)
	case tcell.KeyRight:
		a.view.pan(1, 0)
	case tcell.KeyUp:
		a.view.pan(0, 1)
	case tcell.KeyDown:
		a.view.pan(0, -1)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case 'h':
			a.view.pan(-1, 0)
		case 'l':
			a.view.pan(1, 0)
		case 'k':
			a.view.pan(0, 1)
		case 'j':
			a.view.pan(0, -1)
		case '+', '=':
			a.view.zoom(0.5)
		case '-':
			a.view.zoom(2)
		case '0':
			if a.level != nil {
				w, h := a.screen.Size()
				a.view = fitViewport(a.level.Bounds, w, h-1)
			}
		case 'r':
			a.reseed++
			a.regenerate()
		case 'm':
			if a.level != nil {
				a.level.Mirror()
			}
		}
	}
	return true
}

var (
	styleRock   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleWater  = tcell.StyleDefault
	styleIce    = tcell.StyleDefault.Foreground(tcell.ColorLightCyan)
	styleStruct = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleItem   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleMarker = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleStatus = tcell.StyleDefault.Reverse(true)
)

func (a *app) draw() {
	s := a.screen
	s.Clear()
	w, h := s.Size()

	if a.err != nil || a.level == nil {
		drawText(s, 0, 0, fmt.Sprintf("generate failed: %v (r: next seed, q: quit)", a.err), styleStatus)
		s.Show()
		return
	}

	l := a.level
	rows := h - 1
	for row := 0; row < rows; row++ {
		for col := 0; col < w; col++ {
			r, st := cellGlyph(l, a.view.worldAt(col, row))
			s.SetContent(col, row, r, nil, st)
		}
	}

	for _, st := range l.Structures {
		if col, row, ok := a.view.screenAt(st.Rect.Center()); ok {
			s.SetContent(col, row, structureRune(st.Kind), nil, styleStruct)
		}
	}
	for _, pt := range l.PathPoints {
		for _, loc := range pt.ClusterLocations {
			for _, it := range loc.Items {
				if col, row, ok := a.view.screenAt(it.Position); ok {
					s.SetContent(col, row, '·', nil, styleItem)
				}
			}
		}
	}
	for r, p := range map[rune]core.Point{'S': l.StartPosition, 'E': l.EndPosition} {
		if col, row, ok := a.view.screenAt(p.Vec()); ok {
			s.SetContent(col, row, r, nil, styleMarker)
		}
	}

	status := fmt.Sprintf(" %s | %s/%s | tunnels %d caves %d structures %d walls %d items %d | %.0f u/col | mirrored %v ",
		l.Data.Seed, l.Biome.ID, l.Params.ID, len(l.Tunnels), len(l.Caves), len(l.Structures),
		l.Walls.Len(), l.ItemCount(), a.view.scale, l.Mirrored)
	drawText(s, 0, rows, status, styleStatus)
	s.Show()
}

// cellGlyph classifies the world point under one terminal cell
func cellGlyph(l *level.Level, p core.Vec2) (rune, tcell.Style) {
	if !l.Bounds.Contains(p) {
		return ' ', styleWater
	}
	ci, ok := l.CellAt(p)
	if !ok {
		return '░', styleRock
	}
	c := &l.Graph.Cells[ci]
	switch {
	case ci >= l.BaseCellCount && !c.Type.IsOpen():
		return '*', styleIce
	case c.Type.IsOpen():
		return ' ', styleWater
	}
	return '█', styleRock
}

func structureRune(k catalog.StructureKind) rune {
	switch k {
	case catalog.KindRuin:
		return 'R'
	case catalog.KindWreck:
		return 'W'
	case catalog.KindOutpost:
		return 'O'
	case catalog.KindBeacon:
		return 'B'
	}
	return '?'
}

func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
