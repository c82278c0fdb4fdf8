// Package svg renders computed family-tree layouts as standalone SVG
// documents. The renderer draws exactly what the engine placed: one
// circle per person, a partner line per partnership and an elbow
// connector from each partnership midpoint to each child. Coordinates
// are taken from the layout unchanged apart from a uniform translation
// into the positive quadrant.
package svg

import (
	"bytes"
	"fmt"
	"html"
	"math"

	"github.com/kindredlab/kindred/pkg/layout"
)

// Render defaults, in layout units.
const (
	DefaultNodeRadius = 16.0
	DefaultPadding    = 48.0
)

// Option configures SVG rendering.
type Option func(*renderer)

type renderer struct {
	nodeRadius float64
	padding    float64
	labels     bool
	labelFor   func(id string) string
}

// WithNodeRadius sets the radius of person circles.
func WithNodeRadius(r float64) Option {
	return func(s *renderer) { s.nodeRadius = r }
}

// WithPadding sets the margin around the drawing.
func WithPadding(p float64) Option {
	return func(s *renderer) { s.padding = p }
}

// WithoutLabels disables the name label under each person.
func WithoutLabels() Option {
	return func(s *renderer) { s.labels = false }
}

// WithLabelFunc replaces the default label (the person id) with a
// caller-supplied lookup, for example a display name from the payload.
func WithLabelFunc(fn func(id string) string) Option {
	return func(s *renderer) { s.labelFor = fn }
}

// Render produces a standalone SVG document for the layout.
func Render(res layout.Result, opts ...Option) []byte {
	r := renderer{
		nodeRadius: DefaultNodeRadius,
		padding:    DefaultPadding,
		labels:     true,
	}
	for _, opt := range opts {
		opt(&r)
	}

	minX, minY, maxX, maxY := bounds(res)
	// Translate everything into the positive quadrant with padding.
	dx := r.padding - minX
	dy := r.padding - minY
	width := maxX - minX + 2*r.padding
	height := maxY - minY + 2*r.padding

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	buf.WriteString(`  <style>` + documentCSS + "</style>\n")

	// Connectors first so nodes paint over them.
	for _, pc := range res.PartnershipConnections {
		r.renderPartnerLine(&buf, res, pc, dx, dy)
	}
	for _, cc := range res.ChildConnections {
		mid := midpointOf(res, cc.PartnershipID)
		fmt.Fprintf(&buf, `  <polyline class="child-line" points="%.1f,%.1f %.1f,%.1f %.1f,%.1f"/>`+"\n",
			mid.X+dx, mid.Y+dy,
			cc.DropPoint.X+dx, cc.DropPoint.Y+dy,
			cc.ChildPoint.X+dx, cc.ChildPoint.Y+dy)
	}

	for _, n := range res.Nodes {
		fmt.Fprintf(&buf, `  <circle class="person" id="person-%s" cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n",
			html.EscapeString(n.ID), n.X+dx, n.Y+dy, r.nodeRadius)
	}
	if r.labels {
		for _, n := range res.Nodes {
			label := n.ID
			if r.labelFor != nil {
				label = r.labelFor(n.ID)
			}
			fmt.Fprintf(&buf, `  <text class="person-label" x="%.1f" y="%.1f">%s</text>`+"\n",
				n.X+dx, n.Y+dy+r.nodeRadius+14, html.EscapeString(label))
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

const documentCSS = `
    .person { fill: #fdfdfd; stroke: #2b2b2b; stroke-width: 2; }
    .person-label { font-family: sans-serif; font-size: 12px; text-anchor: middle; fill: #2b2b2b; }
    .partner-line { stroke: #2b2b2b; stroke-width: 2; }
    .child-line { stroke: #6b6b6b; stroke-width: 1.5; fill: none; }`

func (r *renderer) renderPartnerLine(buf *bytes.Buffer, res layout.Result, pc layout.PartnershipConnection, dx, dy float64) {
	if pc.Partner2 == "" {
		return
	}
	p1, ok1 := nodeOf(res, pc.Partner1)
	p2, ok2 := nodeOf(res, pc.Partner2)
	if !ok1 || !ok2 {
		return
	}
	fmt.Fprintf(buf, `  <line class="partner-line" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n",
		p1.X+dx, p1.Y+dy, p2.X+dx, p2.Y+dy)
}

func nodeOf(res layout.Result, id string) (layout.Node, bool) {
	for _, n := range res.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return layout.Node{}, false
}

func midpointOf(res layout.Result, partnershipID string) layout.Point {
	for _, pc := range res.PartnershipConnections {
		if pc.PartnershipID == partnershipID {
			return pc.Midpoint
		}
	}
	return layout.Point{}
}

// bounds returns the extremes over every point-bearing field of the
// layout. An empty layout collapses to the origin.
func bounds(res layout.Result) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)

	consider := func(x, y float64) {
		minX = math.Min(minX, x)
		minY = math.Min(minY, y)
		maxX = math.Max(maxX, x)
		maxY = math.Max(maxY, y)
	}

	for _, n := range res.Nodes {
		consider(n.X, n.Y)
	}
	for _, pc := range res.PartnershipConnections {
		consider(pc.Midpoint.X, pc.Midpoint.Y)
	}
	for _, cc := range res.ChildConnections {
		consider(cc.DropPoint.X, cc.DropPoint.Y)
		consider(cc.ChildPoint.X, cc.ChildPoint.Y)
	}

	if math.IsInf(minX, 1) {
		return 0, 0, 0, 0
	}
	return minX, minY, maxX, maxY
}
