package export

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/san-kum/popsim/internal/sim"
)

var DefaultPalette = []string{"#00ff88", "#ff6b6b", "#4ecdc4", "#ffd93d", "#c084fc", "#60a5fa"}

// SeriesToSVG draws one path per population over time. Every path shares
// the same value axis so relative sizes stay comparable. Non-finite amounts
// leave a gap in their path.
func SeriesToSVG(snapshots []sim.Snapshot, width, height int) string {
	if len(snapshots) < 2 || width <= 0 || height <= 0 {
		return ""
	}

	minDay, maxDay := snapshots[0].Day, snapshots[len(snapshots)-1].Day
	var minV, maxV float64
	found := false
	for _, s := range snapshots {
		for _, v := range s.Amounts {
			if !finite(v) {
				continue
			}
			if !found {
				minV, maxV, found = v, v, true
				continue
			}
			if v < minV {
				minV = v
			}
			if v > maxV {
				maxV = v
			}
		}
	}

	rangeX := float64(maxDay - minDay)
	rangeY := maxV - minV
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minV -= rangeY * 0.05
	rangeY *= 1.1

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	n := len(snapshots[0].Amounts)
	for i := 0; i < n; i++ {
		color := DefaultPalette[i%len(DefaultPalette)]
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" data-population="%d" d="`, color, i))
		pen := "M"
		for _, s := range snapshots {
			if i >= len(s.Amounts) || !finite(s.Amounts[i]) {
				pen = "M"
				continue
			}
			x := float64(s.Day-minDay) / rangeX * float64(width)
			y := float64(height) - (s.Amounts[i]-minV)/rangeY*float64(height)
			if pen == "L" {
				sb.WriteString(" ")
			}
			sb.WriteString(fmt.Sprintf("%s%.1f,%.1f", pen, x, y))
			pen = "L"
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// SVGFile renders the snapshots and writes them to path.
func SVGFile(path string, snapshots []sim.Snapshot, width, height int) error {
	svg := SeriesToSVG(snapshots, width, height)
	if svg == "" {
		return fmt.Errorf("not enough snapshots to plot")
	}
	return os.WriteFile(path, []byte(svg), 0644)
}
