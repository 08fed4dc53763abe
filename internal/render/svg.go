package render

import (
	"strconv"

	"github.com/beevik/etree"

	"github.com/xkilldash9x/heronet/api/schemas"
)

const (
	svgNamespace = "http://www.w3.org/2000/svg"
	nodeColor    = "skyblue"
	nodeRadius   = 15.0
	canvasMargin = 60.0
	titleHeight  = 50.0
)

// Scene is everything needed to draw the network.
type Scene struct {
	Title     string
	Width     int
	Height    int
	Nodes     []int64
	Edges     []schemas.Link
	Positions map[int64]Point
	// Labels maps node ids to names. Nodes without a label are drawn with
	// their id.
	Labels map[int64]string
}

// BuildSVG lays the scene out as an SVG document: edges first, then nodes,
// then labels on top.
func BuildSVG(scene Scene) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	svg := doc.CreateElement("svg")
	svg.CreateAttr("xmlns", svgNamespace)
	svg.CreateAttr("width", strconv.Itoa(scene.Width))
	svg.CreateAttr("height", strconv.Itoa(scene.Height))
	svg.CreateAttr("viewBox", "0 0 "+strconv.Itoa(scene.Width)+" "+strconv.Itoa(scene.Height))

	bg := svg.CreateElement("rect")
	bg.CreateAttr("width", "100%")
	bg.CreateAttr("height", "100%")
	bg.CreateAttr("fill", "white")

	title := svg.CreateElement("text")
	title.CreateAttr("class", "title")
	title.CreateAttr("x", ftoa(float64(scene.Width)/2))
	title.CreateAttr("y", ftoa(titleHeight*0.7))
	title.CreateAttr("text-anchor", "middle")
	title.CreateAttr("font-family", "sans-serif")
	title.CreateAttr("font-size", "16")
	title.SetText(scene.Title)

	project := projector(scene.Width, scene.Height)

	edges := svg.CreateElement("g")
	edges.CreateAttr("class", "edges")
	edges.CreateAttr("stroke", "black")
	edges.CreateAttr("stroke-width", "1.5")
	edges.CreateAttr("stroke-opacity", "0.5")
	for _, e := range scene.Edges {
		from, okFrom := scene.Positions[e.Source]
		to, okTo := scene.Positions[e.Target]
		if !okFrom || !okTo {
			continue
		}
		x1, y1 := project(from)
		x2, y2 := project(to)
		line := edges.CreateElement("line")
		line.CreateAttr("x1", ftoa(x1))
		line.CreateAttr("y1", ftoa(y1))
		line.CreateAttr("x2", ftoa(x2))
		line.CreateAttr("y2", ftoa(y2))
	}

	nodes := svg.CreateElement("g")
	nodes.CreateAttr("class", "nodes")
	nodes.CreateAttr("fill", nodeColor)
	labels := svg.CreateElement("g")
	labels.CreateAttr("class", "labels")
	labels.CreateAttr("font-family", "sans-serif")
	labels.CreateAttr("font-size", "10")
	labels.CreateAttr("font-weight", "bold")
	labels.CreateAttr("text-anchor", "middle")
	labels.CreateAttr("dominant-baseline", "central")

	for _, id := range scene.Nodes {
		p, ok := scene.Positions[id]
		if !ok {
			continue
		}
		x, y := project(p)

		circle := nodes.CreateElement("circle")
		circle.CreateAttr("data-id", strconv.FormatInt(id, 10))
		circle.CreateAttr("cx", ftoa(x))
		circle.CreateAttr("cy", ftoa(y))
		circle.CreateAttr("r", ftoa(nodeRadius))

		text := labels.CreateElement("text")
		text.CreateAttr("x", ftoa(x))
		text.CreateAttr("y", ftoa(y))
		label, ok := scene.Labels[id]
		if !ok || label == "" {
			label = strconv.FormatInt(id, 10)
		}
		text.SetText(label)
	}

	doc.Indent(2)
	return doc
}

// projector maps layout space onto the canvas below the title band.
func projector(width, height int) func(Point) (float64, float64) {
	w := float64(width) - 2*canvasMargin
	h := float64(height) - 2*canvasMargin - titleHeight
	return func(p Point) (float64, float64) {
		x := canvasMargin + (p.X+1)/2*w
		y := titleHeight + canvasMargin + (1-(p.Y+1)/2)*h
		return x, y
	}
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
