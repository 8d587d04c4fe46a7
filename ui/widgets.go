// Package ui draws the parameter panel and heads-up display.
package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	StatusColor    rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	ValueWidth     int32
	WidgetHeight   int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 20, G: 25, B: 30, A: 230},
		PanelBorder:    rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader:  rl.Yellow,
		LabelColor:     rl.LightGray,
		ValueColor:     rl.White,
		StatusColor:    rl.Orange,
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     80,
		ValueWidth:     44,
		WidgetHeight:   16,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight + 2
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// Slider draws a labelled raygui slider with its value printed on the right.
// Returns the (possibly changed) value and the new Y position.
func (r *Renderer) Slider(x, y, width int32, label string, value, min, max float32, format string) (float32, int32) {
	t := r.Theme
	rl.DrawText(label, x, y+3, t.FontSize, t.LabelColor)

	bounds := rl.Rectangle{
		X:      float32(x + t.LabelWidth),
		Y:      float32(y),
		Width:  float32(width - t.LabelWidth - t.ValueWidth),
		Height: float32(t.WidgetHeight),
	}
	value = gui.SliderBar(bounds, "", "", value, min, max)

	rl.DrawText(fmt.Sprintf(format, value), x+width-t.ValueWidth+4, y+3, t.FontSize, t.ValueColor)
	return value, y + t.WidgetHeight + 4
}

// Button draws a raygui button spanning width and reports whether it was clicked.
func (r *Renderer) Button(x, y, width int32, text string) (bool, int32) {
	bounds := rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(width), Height: float32(r.Theme.WidgetHeight + 4)}
	return gui.Button(bounds, text), y + r.Theme.WidgetHeight + 8
}

// CheckBox draws a raygui checkbox and returns its new state.
func (r *Renderer) CheckBox(x, y int32, text string, checked bool) (bool, int32) {
	size := float32(r.Theme.WidgetHeight - 4)
	bounds := rl.Rectangle{X: float32(x), Y: float32(y + 2), Width: size, Height: size}
	return gui.CheckBox(bounds, text, checked), y + r.Theme.WidgetHeight + 4
}
