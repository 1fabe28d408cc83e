package lander

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	tickerPanelWidth = 320
	tickerMaxEntries = 60
	tickerLineHeight = 11
)

// TickerEntry is a single line in the on-screen event ticker.
type TickerEntry struct {
	Tick    int
	Team    string
	Color   color.RGBA
	Message string
}

// EventTicker is a ring buffer of guidance and flight events rendered in the
// viewer's side panel. The match's SimLog is the durable record; the ticker
// only shows the recent tail.
type EventTicker struct {
	entries []TickerEntry
	head    int
	count   int
}

// NewEventTicker creates a ticker with a fixed capacity.
func NewEventTicker() *EventTicker {
	return &EventTicker{
		entries: make([]TickerEntry, tickerMaxEntries),
	}
}

// Add appends an entry to the ticker.
func (et *EventTicker) Add(tick int, team string, col color.RGBA, msg string) {
	et.entries[et.head] = TickerEntry{
		Tick:    tick,
		Team:    team,
		Color:   col,
		Message: msg,
	}
	et.head = (et.head + 1) % tickerMaxEntries
	if et.count < tickerMaxEntries {
		et.count++
	}
}

// Recent returns entries in chronological order (oldest first).
func (et *EventTicker) Recent() []TickerEntry {
	result := make([]TickerEntry, et.count)
	for i := 0; i < et.count; i++ {
		idx := (et.head - et.count + i + tickerMaxEntries) % tickerMaxEntries
		result[i] = et.entries[idx]
	}
	return result
}

// Draw renders the ticker panel on the right side of the screen.
func (et *EventTicker) Draw(screen *ebiten.Image, panelX, panelH int) {
	// Panel background.
	vector.FillRect(screen, float32(panelX), 0, float32(tickerPanelWidth), float32(panelH), color.RGBA{R: 10, G: 10, B: 14, A: 248}, false)
	// Left separator line.
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 50, G: 55, B: 75, A: 255}, false)

	// Title bar.
	vector.FillRect(screen, float32(panelX), 0, float32(tickerPanelWidth), 16, color.RGBA{R: 20, G: 22, B: 34, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "GUIDANCE EVENTS", panelX+8, 2)
	vector.StrokeLine(screen, float32(panelX), 16, float32(panelX+tickerPanelWidth), 16, 1.0, color.RGBA{R: 55, G: 60, B: 90, A: 200}, false)

	entries := et.Recent()

	// Draw from bottom up so newest is at bottom.
	maxVisible := (panelH - 24) / tickerLineHeight
	startIdx := 0
	if len(entries) > maxVisible {
		startIdx = len(entries) - maxVisible
	}

	visible := entries[startIdx:]
	const recent = 3 // how many latest entries to highlight

	y := 20
	for i, e := range visible {
		isRecent := i >= len(visible)-recent

		if isRecent {
			vector.FillRect(screen, float32(panelX+2), float32(y), float32(tickerPanelWidth-4), float32(tickerLineHeight), color.RGBA{R: 28, G: 30, B: 44, A: 160}, false)
		}

		// Team colour indicator dot.
		vector.FillRect(screen, float32(panelX+5), float32(y+3), 3, 5, e.Color, false)

		line := fmt.Sprintf("%4d [%s] %s", e.Tick, e.Team, e.Message)
		ebitenutil.DebugPrintAt(screen, line, panelX+12, y)
		y += tickerLineHeight
	}
}
