package main

import (
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"asm6502/internal/config"
	"asm6502/pkg/asm"
	"asm6502/pkg/grid"
	"asm6502/pkg/utils"
)

const (
	screenWidth  = 640
	screenHeight = 480

	lineHeight  = 14
	charWidth   = 7
	topMargin   = 20 // status line
	leftMargin  = 8
	bytesPerRow = 16
)

var (
	colorBg     = color.RGBA{0x1F, 0x29, 0x37, 0xFF}
	colorText   = color.RGBA{0xF9, 0xFA, 0xFB, 0xFF}
	colorBytes  = color.RGBA{0x10, 0xB9, 0x81, 0xFF}
	colorError  = color.RGBA{0xEF, 0x44, 0x44, 0xFF}
	colorMuted  = color.RGBA{0x9C, 0xA3, 0xAF, 0xFF}
	colorCursor = color.RGBA{0x37, 0x41, 0x51, 0xFF}
)

// Viewer shows the listing of one source file and a hex dump of its code.
type Viewer struct {
	path string
	opts asm.Options
	max  int

	prog   *asm.Program
	lines  []string
	err    error
	scroll int
	memory bool // hex dump instead of listing

	face  *text.GoXFace
	strip *ebiten.Image

	watcher *fsnotify.Watcher
	changed chan struct{} // nil until Watch
}

func NewViewer(path string, cfg *config.Config) *Viewer {
	v := &Viewer{
		path: filepath.Clean(path),
		opts: cfg.AssemblerOptions(),
		max:  cfg.Assembler.MaxInput,
		face: text.NewGoXFace(basicfont.Face7x13),
	}
	v.strip = ebiten.NewImage(screenWidth, 1)
	v.strip.Fill(colorCursor)
	v.Reload()
	return v
}

// Reload reads and assembles the file again. On failure the previous
// program stays on screen next to the error.
func (v *Viewer) Reload() {
	src, err := utils.ReadSource(v.path, v.max)
	if err != nil {
		v.err = err
		return
	}
	prog, err := asm.NewAssembler(v.opts).Assemble(src)
	if err != nil {
		v.err = err
		return
	}
	v.err = nil
	v.prog = prog
	v.lines = strings.Split(strings.TrimRight(prog.ListingString(), "\n"), "\n")
	v.scrollBy(0)
}

// Watch reloads the file whenever it is written or replaced on disk. Events
// are handed to Update, which reloads on the game goroutine.
func (v *Viewer) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	// Editors often save by replacing the file, so watch its directory.
	if err := watcher.Add(filepath.Dir(v.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", v.path, err)
	}
	v.watcher = watcher
	v.changed = make(chan struct{}, 1)
	go v.watchLoop()
	return nil
}

func (v *Viewer) watchLoop() {
	for {
		select {
		case event, ok := <-v.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != v.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			select {
			case v.changed <- struct{}{}:
			default: // a reload is already pending
			}
		case err, ok := <-v.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Watcher error: %v", err)
		}
	}
}

// pollChanges reloads once if the file changed since the last call.
func (v *Viewer) pollChanges() bool {
	select {
	case <-v.changed:
		v.Reload()
		return true
	default:
		return false
	}
}

// Close stops watching the file.
func (v *Viewer) Close() error {
	if v.watcher == nil {
		return nil
	}
	return v.watcher.Close()
}

// rowCount is the number of rows in the active view.
func (v *Viewer) rowCount() int {
	if v.prog == nil {
		return 0
	}
	if v.memory {
		return grid.Rows(len(v.prog.Code), bytesPerRow)
	}
	return len(v.lines)
}

func (v *Viewer) visibleRows() int {
	return (screenHeight - topMargin) / lineHeight
}

func (v *Viewer) scrollBy(n int) {
	v.scroll += n
	if limit := v.rowCount() - v.visibleRows(); v.scroll > limit {
		v.scroll = limit
	}
	if v.scroll < 0 {
		v.scroll = 0
	}
}

func (v *Viewer) Update() error {
	v.pollChanges()

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyDown):
		v.scrollBy(1)
	case inpututil.IsKeyJustPressed(ebiten.KeyUp):
		v.scrollBy(-1)
	case inpututil.IsKeyJustPressed(ebiten.KeyPageDown):
		v.scrollBy(v.visibleRows())
	case inpututil.IsKeyJustPressed(ebiten.KeyPageUp):
		v.scrollBy(-v.visibleRows())
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		v.memory = !v.memory
		v.scroll = 0
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		v.Reload()
	}
	if _, dy := ebiten.Wheel(); dy != 0 {
		v.scrollBy(-int(dy * 3))
	}
	return nil
}

func (v *Viewer) drawText(screen *ebiten.Image, s string, x, y int, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, v.face, op)
}

func (v *Viewer) drawListing(screen *ebiten.Image) {
	for row := 0; row < v.visibleRows(); row++ {
		i := v.scroll + row
		if i >= len(v.lines) {
			return
		}
		y := topMargin + row*lineHeight
		line := v.lines[i]
		if len(line) < 17 {
			v.drawText(screen, line, leftMargin, y, colorText)
			continue
		}
		v.drawText(screen, line[:7], leftMargin, y, colorMuted)
		v.drawText(screen, line[7:17], leftMargin+7*charWidth, y, colorBytes)
		v.drawText(screen, line[17:], leftMargin+17*charWidth, y, colorText)
	}
}

// cell is one byte of the hex dump with its screen position.
type cell struct {
	x, y int
	text string
}

// memoryCells lays out the visible part of the hex dump.
func (v *Viewer) memoryCells() (rows []cell, bytes []cell) {
	code := v.prog.Code
	first := v.scroll * bytesPerRow
	last := min(len(code), first+v.visibleRows()*bytesPerRow)
	for i := first; i < last; i++ {
		col, row := grid.GetGridCoords(i-first, bytesPerRow)
		y := topMargin + row*lineHeight
		if col == 0 {
			addr := int(v.prog.Origin) + i
			rows = append(rows, cell{x: leftMargin, y: y, text: fmt.Sprintf("$%04X", addr)})
		}
		bytes = append(bytes, cell{
			x:    leftMargin + (7+col*3)*charWidth,
			y:    y,
			text: fmt.Sprintf("%02X", code[i]),
		})
	}
	return rows, bytes
}

func (v *Viewer) drawMemory(screen *ebiten.Image) {
	rows, bytes := v.memoryCells()
	for _, c := range rows {
		v.drawText(screen, c.text, c.x, c.y, colorMuted)
	}
	for _, c := range bytes {
		v.drawText(screen, c.text, c.x, c.y, colorBytes)
	}
}

func (v *Viewer) status() string {
	view := "listing"
	if v.memory {
		view = "memory"
	}
	size := 0
	if v.prog != nil {
		size = len(v.prog.Code)
	}
	return fmt.Sprintf("%s  %d bytes  [%s]  tab: view  r: reload (auto on save)", v.path, size, view)
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(colorBg)
	ebitenutil.DebugPrintAt(screen, v.status(), leftMargin, 2)

	if v.prog != nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(0, topMargin-3)
		screen.DrawImage(v.strip, op)

		if v.memory {
			v.drawMemory(screen)
		} else {
			v.drawListing(screen)
		}
	}
	if v.err != nil {
		v.drawText(screen, v.err.Error(), leftMargin, screenHeight-lineHeight-2, colorError)
	}
}

func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("usage: %s <file.s> [config.toml]", os.Args[0])
	}

	var cfg *config.Config
	var err error
	if len(os.Args) > 2 {
		cfg, err = config.Load(os.Args[2])
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	fullPath, _, err := utils.GetPathInfo(os.Args[1])
	if err != nil {
		log.Fatalf("Failed to resolve source file: %v", err)
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("asm6502 listing")

	viewer := NewViewer(fullPath, cfg)
	if err := viewer.Watch(); err != nil {
		log.Printf("Auto-reload disabled: %v", err)
	}
	defer viewer.Close()

	if err := ebiten.RunGame(viewer); err != nil {
		log.Fatal(err)
	}
}
