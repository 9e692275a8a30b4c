package pipeline

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/easelhq/easel/pkg/canvas"
)

// previewTemplate renders a standalone HTML page that loads the document
// into a fabric.js canvas. Useful for eyeballing a banner without a
// frontend.
var previewTemplate = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>easel preview</title>
<script src="https://cdnjs.cloudflare.com/ajax/libs/fabric.js/{{.Version}}/fabric.min.js"></script>
<style>body { margin: 0; background: #1a1a1a; } canvas { display: block; margin: 2rem auto; }</style>
</head>
<body>
<canvas id="banner" width="{{.Width}}" height="{{.Height}}"></canvas>
<script>
const doc = {{.Document}};
const c = new fabric.StaticCanvas("banner");
c.loadFromJSON(doc, c.renderAll.bind(c));
</script>
</body>
</html>
`))

func encodeArtifact(doc *canvas.Document, format string, indent bool) ([]byte, error) {
	switch format {
	case FormatJSON:
		if indent {
			return doc.EncodeIndent()
		}
		return doc.Encode()
	case FormatHTML:
		return encodeHTML(doc)
	default:
		return nil, fmt.Errorf("invalid format: %q", format)
	}
}

func encodeHTML(doc *canvas.Document) ([]byte, error) {
	data, err := doc.EncodeIndent()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	err = previewTemplate.Execute(&buf, struct {
		Version  string
		Width    int
		Height   int
		Document template.JS
	}{
		Version:  doc.Version,
		Width:    doc.Width,
		Height:   doc.Height,
		Document: template.JS(data),
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
