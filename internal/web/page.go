package web

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/a-h/templ"
	"github.com/huangsam/dmgcalc/core"
	"github.com/huangsam/dmgcalc/schema"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// pageModel is everything the calculator page renders.
type pageModel struct {
	Query    string
	Builds   []buildForm
	Points   []schema.SamplePoint
	Summary  schema.SeriesSummary
	BaseDiff string // percent difference at base strength
	Tooltips []tooltipRow
}

type buildForm struct {
	ID     schema.BuildID
	Title  string
	Groups []formGroup
}

type formGroup struct {
	Purpose string
	Inputs  []formInput
}

type formInput struct {
	Name  string // query key, also the element id
	Key   string
	Label string
	Value string
}

// tooltipRow holds the hover text of one sample point.
type tooltipRow struct {
	Strength1 string
	Strength2 string // empty when both builds share the strength
	Values    []tooltipValue
}

type tooltipValue struct {
	Label string
	Color string
	Text  string
}

// newPageModel renders the store state into display strings.
func newPageModel(store *core.BuildStore, printer *message.Printer) pageModel {
	result := store.Result()
	m := pageModel{
		Query:    result.Query,
		Points:   result.Points,
		Summary:  result.Summary,
		Tooltips: newTooltipRows(result.Points, printer),
	}
	if base := schema.SampleCount / 2; base < len(result.Points) {
		diff := result.Points[base].PercentDiff
		m.BaseDiff = fmt.Sprintf("%s (%s)", formatPercent(printer, diff), schema.GetDiffLabel(diff))
	}
	for _, build := range schema.AllBuilds {
		p, _ := store.Params(build)
		form := buildForm{ID: build, Title: build.Title()}
		for _, g := range schema.AllGroups {
			group := formGroup{Purpose: schema.GroupPurposes[g]}
			for _, f := range schema.Fields {
				if f.Group != g {
					continue
				}
				group.Inputs = append(group.Inputs, formInput{
					Name:  schema.QueryKey(build, f.Key),
					Key:   f.Key,
					Label: f.Label,
					Value: schema.FormatValue(f.Get(p)),
				})
			}
			form.Groups = append(form.Groups, group)
		}
		m.Builds = append(m.Builds, form)
	}
	return m
}

// newPrinter returns the printer used for grouped numbers on the page.
func newPrinter() *message.Printer {
	return message.NewPrinter(language.English)
}

// newTooltipRows formats strengths and damage as rounded integers and the
// percent difference with two decimals. Integers are digit-grouped.
func newTooltipRows(points []schema.SamplePoint, printer *message.Printer) []tooltipRow {
	styles := make(map[string]schema.SeriesStyle, len(schema.SeriesStyles))
	for _, s := range schema.SeriesStyles {
		styles[s.Key] = s
	}
	value := func(key string, text string) tooltipValue {
		return tooltipValue{Label: styles[key].Label, Color: styles[key].Color, Text: text}
	}

	rows := make([]tooltipRow, 0, len(points))
	for _, p := range points {
		row := tooltipRow{Strength1: formatStrength(printer, p.Strength1)}
		if p.Strength1 != p.Strength2 {
			row.Strength2 = formatStrength(printer, p.Strength2)
		}
		diff := value("percentDiff", formatPercent(printer, p.PercentDiff))
		diff.Label = "Normal Damage Difference"
		row.Values = []tooltipValue{
			value("damage1Normal", formatRounded(printer, p.Damage1Normal)),
			value("damage1Crit", formatRounded(printer, p.Damage1Crit)),
			value("damage2Normal", formatRounded(printer, p.Damage2Normal)),
			value("damage2Crit", formatRounded(printer, p.Damage2Crit)),
			diff,
		}
		rows = append(rows, row)
	}
	return rows
}

// formatStrength rounds halves up, so -2.5 shows as -2.
func formatStrength(printer *message.Printer, v float64) string {
	if s := schema.FormatNonFinite(v); s != "" {
		return s
	}
	return printer.Sprintf("%d", int64(math.Floor(v+0.5)))
}

// formatRounded rounds halves away from zero.
func formatRounded(printer *message.Printer, v float64) string {
	if s := schema.FormatNonFinite(v); s != "" {
		return s
	}
	return printer.Sprintf("%d", int64(math.Round(v)))
}

func formatPercent(printer *message.Printer, v float64) string {
	if s := schema.FormatNonFinite(v); s != "" {
		return s
	}
	return printer.Sprintf("%.2f%%", v)
}

// Text returns the tooltip as plain lines.
func (r tooltipRow) Text() string {
	lines := []string{"Build 1 Strength: " + r.Strength1}
	if r.Strength2 != "" {
		lines = append(lines, "Build 2 Strength: "+r.Strength2)
	}
	for _, v := range r.Values {
		lines = append(lines, v.Label+": "+v.Text)
	}
	return strings.Join(lines, "\n")
}

const pageStyle = `body{font-family:system-ui,sans-serif;margin:0 auto;max-width:1100px;padding:16px;background:#fafafa;color:#222}
.builds{display:flex;gap:16px;flex-wrap:wrap}
.build{flex:1;min-width:320px;background:#fff;border:1px solid #ddd;border-radius:6px;padding:12px}
.field{display:flex;align-items:center;gap:6px;margin:2px 0}
.field label{width:150px;font-size:14px}
.field input[type=number]{width:110px}
fieldset{border:1px solid #eee;margin:8px 0}
legend{font-size:12px;color:#666}
.legend span{display:inline-block;margin-right:14px;font-size:13px}
.swatch{display:inline-block;width:18px;height:0;border-top:3px solid;vertical-align:middle;margin-right:4px}
table{border-collapse:collapse;font-size:13px;margin-top:12px}
td,th{border:1px solid #ddd;padding:3px 8px;text-align:right}`

// pageTitle heads the document and the page.
const pageTitle = "Damage Calculator"

// page renders the calculator body inside the document layout.
func page(m pageModel) templ.Component {
	body := templ.Join(
		builds(m),
		chart(m.Points, m.Tooltips),
		legend(),
		summary(m),
		tooltipTable(m.Tooltips),
		share(m.Query),
	)
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return layout(pageTitle).Render(templ.WithChildren(ctx, body), w)
	})
}

// layout writes the document shell around the children in ctx.
func layout(title string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		children := templ.GetChildren(ctx)
		ctx = templ.ClearChildren(ctx)

		t := templ.EscapeString(title)
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>%s</title><style>%s</style></head><body><h1>%s</h1>`, t, pageStyle, t); err != nil {
			return err
		}
		if err := children.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}

// builds places the two build forms side by side.
func builds(m pageModel) templ.Component {
	sections := make([]templ.Component, 0, len(m.Builds)+2)
	sections = append(sections, templ.Raw(`<div class="builds">`))
	for _, b := range m.Builds {
		sections = append(sections, buildSection(b, m.Query))
	}
	sections = append(sections, templ.Raw(`</div>`))
	return templ.Join(sections...)
}

// buildSection renders the labelled inputs of one build. Each input posts a
// single change together with the current state.
func buildSection(b buildForm, query string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var sb strings.Builder
		fmt.Fprintf(&sb, `<section class="build" id="%s"><h2>%s</h2>`, templ.EscapeString(string(b.ID)), templ.EscapeString(b.Title))
		action := "/set"
		if query != "" {
			action += "?" + query
		}
		for _, g := range b.Groups {
			fmt.Fprintf(&sb, `<fieldset><legend>%s</legend>`, templ.EscapeString(g.Purpose))
			for _, in := range g.Inputs {
				fmt.Fprintf(&sb, `<form class="field" method="post" action="%s">`, templ.EscapeString(action))
				fmt.Fprintf(&sb, `<label for="%s">%s</label>`, templ.EscapeString(in.Name), templ.EscapeString(in.Label))
				fmt.Fprintf(&sb, `<input id="%s" type="number" step="any" name="value" value="%s">`, templ.EscapeString(in.Name), templ.EscapeString(in.Value))
				fmt.Fprintf(&sb, `<input type="hidden" name="build" value="%s"><input type="hidden" name="field" value="%s">`, templ.EscapeString(string(b.ID)), templ.EscapeString(in.Key))
				sb.WriteString(`<button type="submit">Set</button></form>`)
			}
			sb.WriteString(`</fieldset>`)
		}
		sb.WriteString(`</section>`)
		_, err := io.WriteString(w, sb.String())
		return err
	})
}

// legend lists the plotted series with their colors.
func legend() templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var sb strings.Builder
		sb.WriteString(`<div class="legend">`)
		for _, s := range schema.SeriesStyles {
			style := "solid"
			if s.Dashed {
				style = "dashed"
			}
			fmt.Fprintf(&sb, `<span><i class="swatch" style="border-top-color:%s;border-top-style:%s"></i>%s</span>`,
				templ.EscapeString(s.Color), style, templ.EscapeString(s.Label))
		}
		sb.WriteString(`</div>`)
		_, err := io.WriteString(w, sb.String())
		return err
	})
}

// tooltipTable shows every tooltip as a table row.
func tooltipTable(rows []tooltipRow) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var sb strings.Builder
		sb.WriteString(`<table class="samples"><thead><tr><th>Build 1 Strength</th><th>Build 2 Strength</th>`)
		if len(rows) > 0 {
			for _, v := range rows[0].Values {
				fmt.Fprintf(&sb, `<th style="color:%s">%s</th>`, templ.EscapeString(v.Color), templ.EscapeString(v.Label))
			}
		}
		sb.WriteString(`</tr></thead><tbody>`)
		for _, r := range rows {
			fmt.Fprintf(&sb, `<tr><td>%s</td><td>%s</td>`, templ.EscapeString(r.Strength1), templ.EscapeString(r.Strength2))
			for _, v := range r.Values {
				fmt.Fprintf(&sb, `<td>%s</td>`, templ.EscapeString(v.Text))
			}
			sb.WriteString(`</tr>`)
		}
		sb.WriteString(`</tbody></table>`)
		_, err := io.WriteString(w, sb.String())
		return err
	})
}

// summary states the difference at base strength.
func summary(m pageModel) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var sb strings.Builder
		if m.BaseDiff != "" {
			fmt.Fprintf(&sb, `<p class="summary">At base strength, Build 2 vs Build 1: %s</p>`, templ.EscapeString(m.BaseDiff))
		}
		if m.Summary.UndefinedPoints > 0 {
			fmt.Fprintf(&sb, `<p class="summary">Undefined percent difference at %d samples (Build 1 normal damage is zero)</p>`, m.Summary.UndefinedPoints)
		}
		_, err := io.WriteString(w, sb.String())
		return err
	})
}

// share prints the link that reproduces the page.
func share(query string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		href := "/?" + query
		_, err := fmt.Fprintf(w, `<p>Share: <a href="%s">%s</a></p>`, templ.EscapeString(href), templ.EscapeString(href))
		return err
	})
}

// Chart geometry.
const (
	chartWidth   = 800
	chartHeight  = 400
	chartPadding = 50
)

// chart draws the damage series against the left axis and the percent
// difference against the right axis. Non-finite values break their line.
func chart(points []schema.SamplePoint, tooltips []tooltipRow) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var sb strings.Builder
		fmt.Fprintf(&sb, `<svg class="chart" viewBox="0 0 %d %d" width="100%%" role="img" aria-label="Damage by strength">`, chartWidth, chartHeight)
		if len(points) > 1 {
			damage := newAxis()
			percent := newAxis()
			percent.add(0)
			for _, p := range points {
				damage.add(p.Damage1Normal, p.Damage1Crit, p.Damage2Normal, p.Damage2Crit)
				percent.add(p.PercentDiff)
			}
			step := float64(chartWidth-2*chartPadding) / float64(len(points)-1)
			x := func(i int) float64 { return chartPadding + float64(i)*step }

			fmt.Fprintf(&sb, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#999"/>`, chartPadding, chartHeight-chartPadding, chartWidth-chartPadding, chartHeight-chartPadding)
			fmt.Fprintf(&sb, `<text x="%d" y="%d" font-size="11">%s</text>`, 4, chartPadding-8, templ.EscapeString(axisLabel(damage.max)))
			fmt.Fprintf(&sb, `<text x="%d" y="%d" font-size="11" text-anchor="end">%s%%</text>`, chartWidth-4, chartPadding-8, templ.EscapeString(axisLabel(percent.max)))
			for i, p := range points {
				fmt.Fprintf(&sb, `<text x="%.1f" y="%d" font-size="11" text-anchor="middle">%.0f</text>`, x(i), chartHeight-chartPadding+16, p.Strength1)
			}

			for _, s := range schema.SeriesStyles {
				axis := damage
				if s.Axis == "percent" {
					axis = percent
				}
				dash := ""
				if s.Dashed {
					dash = ` stroke-dasharray="5 5"`
				}
				for _, segment := range segments(points, s.Key) {
					coords := make([]string, 0, len(segment))
					for _, i := range segment {
						coords = append(coords, fmt.Sprintf("%.1f,%.1f", x(i), axis.y(seriesValue(points[i], s.Key))))
					}
					fmt.Fprintf(&sb, `<polyline fill="none" stroke="%s" stroke-width="2"%s points="%s"/>`,
						templ.EscapeString(s.Color), dash, strings.Join(coords, " "))
				}
			}

			// Hover columns carry the tooltip of their sample
			for i := range points {
				if i >= len(tooltips) {
					break
				}
				fmt.Fprintf(&sb, `<rect x="%.1f" y="%d" width="%.1f" height="%d" fill="transparent"><title>%s</title></rect>`,
					x(i)-step/2, chartPadding, step, chartHeight-2*chartPadding, templ.EscapeString(tooltips[i].Text()))
			}
		}
		sb.WriteString(`</svg>`)
		_, err := io.WriteString(w, sb.String())
		return err
	})
}

// axis maps finite values onto the plot height.
type axis struct {
	min, max float64
	empty    bool
}

func newAxis() *axis {
	return &axis{empty: true}
}

func (a *axis) add(values ...float64) {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if a.empty {
			a.min, a.max, a.empty = v, v, false
			continue
		}
		a.min = math.Min(a.min, v)
		a.max = math.Max(a.max, v)
	}
}

func (a *axis) y(v float64) float64 {
	lo, hi := a.min, a.max
	if hi == lo {
		lo, hi = lo-1, hi+1
	}
	plot := float64(chartHeight - 2*chartPadding)
	return float64(chartHeight-chartPadding) - (v-lo)/(hi-lo)*plot
}

func axisLabel(v float64) string {
	return fmt.Sprintf("%.0f", v)
}

// segments splits the sample indexes into runs of finite values for key.
func segments(points []schema.SamplePoint, key string) [][]int {
	var out [][]int
	var current []int
	for i, p := range points {
		v := seriesValue(p, key)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			if len(current) > 0 {
				out = append(out, current)
				current = nil
			}
			continue
		}
		current = append(current, i)
	}
	if len(current) > 0 {
		out = append(out, current)
	}
	return out
}

func seriesValue(p schema.SamplePoint, key string) float64 {
	switch key {
	case "damage1Normal":
		return p.Damage1Normal
	case "damage1Crit":
		return p.Damage1Crit
	case "damage2Normal":
		return p.Damage2Normal
	case "damage2Crit":
		return p.Damage2Crit
	case "percentDiff":
		return p.PercentDiff
	default:
		return math.NaN()
	}
}
