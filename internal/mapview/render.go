package mapview

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/spacesedan/sentimap/internal/aggregate"
)

// RenderOptions controls the links attached to each region. A nil RegionHref
// renders plain paths.
type RenderOptions struct {
	RegionHref func(region string) string
}

// Render writes the map as a standalone SVG document.
func (v *View) Render(w io.Writer, opts RenderOptions) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" class="choropleth" viewBox="0 0 %s %s" data-mode="%s">`,
		num(v.Width), num(v.Height), v.mode)
	bw.WriteString("\n")

	t := v.transform
	fmt.Fprintf(bw, `<g transform="translate(%s,%s) scale(%s)" stroke-width="%s">`,
		num(t.X), num(t.Y), num(t.K), num(1/t.K))
	bw.WriteString("\n")

	for _, r := range v.regions {
		name := html.EscapeString(r.Name)
		title := name + "\n" + html.EscapeString(strings.Join(TooltipLines(v.sentiments.Lookup(r.Name)), "\n"))

		class := "state"
		if r.Name == v.selected {
			class += " selected"
		}

		if opts.RegionHref != nil {
			fmt.Fprintf(bw, `<a href="%s">`, html.EscapeString(opts.RegionHref(r.Name)))
		}
		fmt.Fprintf(bw, `<path class="%s" data-state="%s" d="%s" fill="%s" stroke="#000" cursor="pointer"><title>%s</title></path>`,
			class, name, r.D, r.Fill, title)
		if opts.RegionHref != nil {
			bw.WriteString("</a>")
		}
		bw.WriteString("\n")
	}
	bw.WriteString("</g>\n")

	if tt := v.tooltip; tt.Visible {
		lines := append([]string{tt.Title}, tt.Lines...)
		fmt.Fprintf(bw, `<g class="tooltip" transform="translate(%s,%s)">`, num(tt.X), num(tt.Y))
		fmt.Fprintf(bw, `<rect width="150" height="%d" fill="white" stroke="#ccc" rx="4"/>`, 8+len(lines)*16)
		for i, line := range lines {
			fmt.Fprintf(bw, `<text x="8" y="%d" font-size="12" fill="#333">%s</text>`, 18+i*16, html.EscapeString(line))
		}
		bw.WriteString("</g>\n")
	}

	bw.WriteString("</svg>\n")
	return bw.Flush()
}

const (
	LEGEND_SIZE    = 20
	LEGEND_SPACING = 5
)

// RenderLegend writes the color legend: one square and label per entry.
func RenderLegend(w io.Writer) error {
	bw := bufio.NewWriter(w)
	legend := aggregate.Legend()

	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" class="legend" width="150" height="%d">`,
		(LEGEND_SIZE+LEGEND_SPACING)*len(legend))
	bw.WriteString("\n")
	for i, e := range legend {
		y := i * (LEGEND_SIZE + LEGEND_SPACING)
		fmt.Fprintf(bw, `<rect x="0" y="%d" width="%d" height="%d" style="fill:%s"/>`, y, LEGEND_SIZE, LEGEND_SIZE, e.Color)
		fmt.Fprintf(bw, `<text x="%d" y="%d" font-size="13px" alignment-baseline="middle">%s</text>`,
			LEGEND_SIZE+5, y+LEGEND_SIZE/2, html.EscapeString(e.Label))
		bw.WriteString("\n")
	}
	bw.WriteString("</svg>\n")
	return bw.Flush()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
