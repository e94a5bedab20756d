// Package export renders world frames and recorded runs as SVG.
package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/san-kum/physbox/internal/sim"
	"github.com/san-kum/physbox/internal/storage"
)

// ErrNoTrajectory is returned when a run has no body positions to draw.
var ErrNoTrajectory = errors.New("export: no body trajectories")

const (
	background = "#0a0a0a"
	ground     = "#666688"
)

// colors cycles per body index.
var colors = []string{"#00cccc", "#ff88ff", "#ffcc00", "#88ff88", "#ff6666", "#6699ff"}

func bodyColor(i int) string { return colors[i%len(colors)] }

func header(sb *strings.Builder, width, height float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

func floorLine(sb *strings.Builder, y, width float64) {
	fmt.Fprintf(sb, `<line x1="0" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="2"/>
`, y, width, y, ground)
}

// Frame draws every body of s in world coordinates. The floor line is
// drawn when floor is true.
func Frame(s sim.Snapshot, width float64, floor bool) string {
	height := s.Floor + 20
	var sb strings.Builder
	header(&sb, width, height)
	if floor {
		floorLine(&sb, s.Floor, width)
	}

	for i, b := range s.Bodies {
		if b.IsCircle() {
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, b.X, b.Y, b.Radius, bodyColor(i))
			continue
		}
		fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>
`, b.X-b.W/2, b.Y-b.H/2, b.W, b.H, bodyColor(i))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// Trajectories draws the path of every recorded body. The recorded
// coordinates are world units with y growing downward, so no axis is flipped.
func Trajectories(st *storage.States, width, floor float64) (string, error) {
	var paths []string
	for i := 0; i < st.Bodies(); i++ {
		xs, okX := st.Column(fmt.Sprintf("b%d_x", i))
		ys, okY := st.Column(fmt.Sprintf("b%d_y", i))
		if !okX || !okY || len(xs) < 2 {
			continue
		}

		var d strings.Builder
		for j := range min(len(xs), len(ys)) {
			cmd := "L"
			if j == 0 {
				cmd = "M"
			}
			fmt.Fprintf(&d, "%s%.1f,%.1f ", cmd, xs[j], ys[j])
		}
		paths = append(paths, fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="%s"/>
`, bodyColor(i), strings.TrimSpace(d.String())))
	}
	if len(paths) == 0 {
		return "", ErrNoTrajectory
	}

	var sb strings.Builder
	header(&sb, width, floor+20)
	floorLine(&sb, floor, width)
	for _, p := range paths {
		sb.WriteString(p)
	}
	sb.WriteString("</svg>")
	return sb.String(), nil
}
