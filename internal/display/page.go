// Package display defines the render-agnostic directives a view emits:
// headings, prose, tables, chart specifications, heatmaps, progress
// fractions, metrics, notices and links. A frontend draws them.
package display

import (
	"math"
)

// Kind tags a directive.
type Kind string

const (
	KindHeading  Kind = "heading"
	KindText     Kind = "text"
	KindList     Kind = "list"
	KindTable    Kind = "table"
	KindChart    Kind = "chart"
	KindHeatmap  Kind = "heatmap"
	KindProgress Kind = "progress"
	KindMetric   Kind = "metric"
	KindNotice   Kind = "notice"
	KindLink     Kind = "link"
)

// ChartType selects how a Chart is drawn.
type ChartType string

const (
	ChartBar       ChartType = "bar"
	ChartLine      ChartType = "line"
	ChartPie       ChartType = "pie"
	ChartScatter   ChartType = "scatter"
	ChartHistogram ChartType = "histogram"
)

// Severity of a notice.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Series is a named list of values aligned with Chart.Labels.
type Series struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// Point is one scatter point; Group selects the colour.
type Point struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Group string  `json:"group,omitempty"`
}

// Chart is a chart specification.
type Chart struct {
	Type   ChartType `json:"type"`
	Title  string    `json:"title,omitempty"`
	XLabel string    `json:"x_label,omitempty"`
	YLabel string    `json:"y_label,omitempty"`
	Labels []string  `json:"labels,omitempty"`
	Series []Series  `json:"series,omitempty"`
	Points []Point   `json:"points,omitempty"`
	// Edges holds histogram bin boundaries, one more than values.
	Edges []float64 `json:"edges,omitempty"`
}

// Table is a grid of preformatted cells.
type Table struct {
	Title   string     `json:"title,omitempty"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Heatmap is a labelled matrix. A nil cell is undefined.
type Heatmap struct {
	Title  string       `json:"title,omitempty"`
	XLabel string       `json:"x_label,omitempty"`
	YLabel string       `json:"y_label,omitempty"`
	X      []string     `json:"x"`
	Y      []string     `json:"y"`
	Values [][]*float64 `json:"values"`
}

// Progress is a fraction in [0, 1].
type Progress struct {
	Label    string  `json:"label"`
	Fraction float64 `json:"fraction"`
}

// Metric is a headline number.
type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Notice is a highlighted message.
type Notice struct {
	Severity Severity `json:"severity"`
	Text     string   `json:"text"`
}

// Link points to an external resource.
type Link struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// Directive is one element of a page. Exactly one payload field is set,
// matching Kind.
type Directive struct {
	Kind     Kind      `json:"kind"`
	Level    int       `json:"level,omitempty"`
	Text     string    `json:"text,omitempty"`
	Items    []string  `json:"items,omitempty"`
	Table    *Table    `json:"table,omitempty"`
	Chart    *Chart    `json:"chart,omitempty"`
	Heatmap  *Heatmap  `json:"heatmap,omitempty"`
	Progress *Progress `json:"progress,omitempty"`
	Metric   *Metric   `json:"metric,omitempty"`
	Notice   *Notice   `json:"notice,omitempty"`
	Link     *Link     `json:"link,omitempty"`
}

// Page is the ordered output of a view.
type Page struct {
	Name       string      `json:"name"`
	Title      string      `json:"title"`
	Directives []Directive `json:"directives"`
}

// NewPage starts a page whose first directive is a level-1 heading.
func NewPage(name, title string) *Page {
	p := &Page{Name: name, Title: title}
	return p.Heading(1, title)
}

func (p *Page) add(d Directive) *Page {
	p.Directives = append(p.Directives, d)
	return p
}

// Heading appends a heading of the given level.
func (p *Page) Heading(level int, text string) *Page {
	return p.add(Directive{Kind: KindHeading, Level: level, Text: text})
}

// Text appends a paragraph.
func (p *Page) Text(text string) *Page {
	return p.add(Directive{Kind: KindText, Text: text})
}

// List appends a bullet list.
func (p *Page) List(items ...string) *Page {
	return p.add(Directive{Kind: KindList, Items: items})
}

// Table appends a table.
func (p *Page) Table(t Table) *Page {
	return p.add(Directive{Kind: KindTable, Table: &t})
}

// Chart appends a chart.
func (p *Page) Chart(c Chart) *Page {
	return p.add(Directive{Kind: KindChart, Chart: &c})
}

// Heatmap appends a heatmap.
func (p *Page) Heatmap(h Heatmap) *Page {
	return p.add(Directive{Kind: KindHeatmap, Heatmap: &h})
}

// Progress appends a progress bar. The fraction is clamped to [0, 1] and
// NaN becomes 0.
func (p *Page) Progress(label string, fraction float64) *Page {
	return p.add(Directive{Kind: KindProgress, Progress: &Progress{Label: label, Fraction: Clamp01(fraction)}})
}

// Metric appends a headline number.
func (p *Page) Metric(label, value string) *Page {
	return p.add(Directive{Kind: KindMetric, Metric: &Metric{Label: label, Value: value}})
}

// Notice appends a highlighted message.
func (p *Page) Notice(severity Severity, text string) *Page {
	return p.add(Directive{Kind: KindNotice, Notice: &Notice{Severity: severity, Text: text}})
}

// Link appends an external link.
func (p *Page) Link(text, url string) *Page {
	return p.add(Directive{Kind: KindLink, Link: &Link{Text: text, URL: url}})
}

// Find returns the directives of kind k in order.
func (p *Page) Find(k Kind) []Directive {
	var out []Directive
	for _, d := range p.Directives {
		if d.Kind == k {
			out = append(out, d)
		}
	}
	return out
}

// Clamp01 limits v to [0, 1]; NaN maps to 0.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

// Cell returns a pointer to v, or nil when v is NaN or infinite.
func Cell(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
