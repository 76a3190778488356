package chart

// Placeholder is the chart reference returned to clients when rendering
// fails. The request still completes; the frontend shows a stand-in image.
const Placeholder = "placeholder.png"

// Renderer draws a grouped original-vs-predicted comparison and writes it to
// a uniquely named file, returning the file name. Implementations must not
// panic across this boundary and must release drawing resources per call.
type Renderer interface {
	Render(title string, names []string, original, predicted []float64) (string, error)
}
