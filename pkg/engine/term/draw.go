package term

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/Sudo-Ivan/arcgis-viewer/pkg/view"
	"github.com/Sudo-Ivan/arcgis-viewer/pkg/viewpoint"
)

const (
	pointRune  = '●'
	gridRune   = '·'
	pathRune   = '*'
	vertexRune = '+'

	graticuleStep = 10.0
	sampleStep    = 0.5
	segmentSteps  = 48
)

var (
	styleMap    = tcell.StyleDefault.Foreground(tcell.ColorSteelBlue)
	stylePoint  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleLabel  = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	stylePath   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleBar    = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	styleButton = styleBar.Bold(true)
	styleActive = styleBar.Reverse(true)
	stylePanel  = tcell.StyleDefault.Foreground(tcell.ColorWhite)
)

// Draw paints the mounted renderer, its overlays and the control bar. The
// map area stays empty while no renderer is mounted.
func (e *Engine) Draw(st view.State, status string) {
	s := e.screen
	s.Clear()
	w, h := s.Size()
	drawBar(s, w, st, status)
	if r := e.Mounted(); r != nil {
		r.draw(s, w, h)
	}
	s.Show()
}

func drawBar(s tcell.Screen, w int, st view.State, status string) {
	for x := 0; x < w; x++ {
		s.SetContent(x, 0, ' ', nil, styleBar)
	}
	x := drawText(s, 0, 0, fmt.Sprintf(" %s %s ", st.Active, framing(st)), styleBar)
	x = drawText(s, x, 0, fmt.Sprintf(" [s] %s ", st.SwitchLabel), styleButton)
	x = drawText(s, x, 0, " [d] Distance ", buttonStyle(st.Measurement.DistanceActive))
	x = drawText(s, x, 0, " [a] Area ", buttonStyle(st.Measurement.AreaActive))
	x = drawText(s, x, 0, " [c] Clear ", styleButton)
	if status != "" {
		drawText(s, x+1, 0, status, styleBar)
	}
}

func framing(st view.State) string {
	if st.Active == viewpoint.Perspective {
		return fmt.Sprintf("1:%.0f tilt %.0f", st.Viewpoint.Framing(st.Active), st.Viewpoint.Tilt)
	}
	return fmt.Sprintf("zoom %.1f", st.Viewpoint.Framing(st.Active))
}

func buttonStyle(active bool) tcell.Style {
	if active {
		return styleActive
	}
	return styleButton
}

func (r *Renderer) draw(s tcell.Screen, w, h int) {
	proj := r.Projector()
	plot := func(pt viewpoint.LonLat, ch rune, style tcell.Style) (int, int, bool) {
		x, y, ok := proj.Project(pt)
		if !ok {
			return 0, 0, false
		}
		cx, cy := int(math.Floor(x)), int(math.Floor(y))+1
		s.SetContent(cx, cy, ch, nil, style)
		return cx, cy, true
	}

	for lon := -180.0; lon <= 180; lon += graticuleStep {
		for lat := -80.0; lat <= 80; lat += sampleStep {
			plot(viewpoint.LonLat{Lon: lon, Lat: lat}, gridRune, styleMap)
		}
	}
	for lat := -80.0; lat <= 80; lat += graticuleStep {
		for lon := -180.0; lon <= 180; lon += sampleStep {
			plot(viewpoint.LonLat{Lon: lon, Lat: lat}, gridRune, styleMap)
		}
	}

	for ov := range r.overlays {
		m, ok := ov.(*MeasurementWidget)
		if !ok {
			continue
		}
		path := m.Vertices()
		if m.Closed() && len(path) > 2 {
			path = append(path, path[0])
		}
		for i := 1; i < len(path); i++ {
			a, b := path[i-1], path[i]
			for k := 0; k <= segmentSteps; k++ {
				t := float64(k) / segmentSteps
				plot(viewpoint.LonLat{Lon: a.Lon + t*(b.Lon-a.Lon), Lat: a.Lat + t*(b.Lat-a.Lat)}, pathRune, stylePath)
			}
		}
		for _, v := range m.Vertices() {
			plot(v, vertexRune, stylePath)
		}
	}

	for _, pt := range r.scene.Points() {
		if x, y, ok := plot(pt.Position, pointRune, stylePoint); ok {
			drawText(s, x+2, y, pt.Label, styleLabel)
		}
	}

	for ov, pos := range r.overlays {
		if p, ok := ov.(panel); ok {
			drawPanel(s, w, h, pos, p.Lines())
		}
	}
}

func drawPanel(s tcell.Screen, w, h int, pos view.Position, lines []string) {
	width := 0
	for _, l := range lines {
		if n := len([]rune(l)); n > width {
			width = n
		}
	}
	width += 2
	height := len(lines) + 2
	x0 := 0
	if pos == view.BottomRight {
		x0 = w - width
	}
	y0 := h - height

	for y := y0; y < h; y++ {
		for x := x0; x < x0+width; x++ {
			s.SetContent(x, y, ' ', nil, stylePanel)
		}
	}
	for x := x0 + 1; x < x0+width-1; x++ {
		s.SetContent(x, y0, tcell.RuneHLine, nil, stylePanel)
		s.SetContent(x, h-1, tcell.RuneHLine, nil, stylePanel)
	}
	for y := y0 + 1; y < h-1; y++ {
		s.SetContent(x0, y, tcell.RuneVLine, nil, stylePanel)
		s.SetContent(x0+width-1, y, tcell.RuneVLine, nil, stylePanel)
	}
	s.SetContent(x0, y0, tcell.RuneULCorner, nil, stylePanel)
	s.SetContent(x0+width-1, y0, tcell.RuneURCorner, nil, stylePanel)
	s.SetContent(x0, h-1, tcell.RuneLLCorner, nil, stylePanel)
	s.SetContent(x0+width-1, h-1, tcell.RuneLRCorner, nil, stylePanel)
	for i, l := range lines {
		drawText(s, x0+1, y0+1+i, l, stylePanel)
	}
}

// drawText writes text from (x, y) and returns the column after it.
func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) int {
	for _, ch := range text {
		s.SetContent(x, y, ch, nil, style)
		x++
	}
	return x
}
