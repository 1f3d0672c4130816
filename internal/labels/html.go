package labels

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// HTMLPrinter renders label sheets as a print-ready A4 HTML page. The file
// is meant to be opened in a browser and printed from there.
type HTMLPrinter struct {
	OutputDir string
}

func NewHTMLPrinter(outputDir string) *HTMLPrinter {
	return &HTMLPrinter{OutputDir: outputDir}
}

func (p *HTMLPrinter) Print(items []Item, tpl Template) (string, error) {
	if err := os.MkdirAll(p.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	stamp := time.Now().Format("2006-01-02-15-04-05")
	path := filepath.Join(p.OutputDir, fmt.Sprintf("labels-%s.html", stamp))

	if err := os.WriteFile(path, []byte(buildHTML(items, tpl)), 0o644); err != nil {
		return "", fmt.Errorf("failed to write label sheet: %w", err)
	}
	return path, nil
}

func buildHTML(items []Item, tpl Template) string {
	perPage := tpl.PerPage()
	var pages strings.Builder
	for i := 0; i < len(items); i += perPage {
		end := i + perPage
		if end > len(items) {
			end = len(items)
		}
		pages.WriteString(`<section class="page">`)
		for _, it := range items[i:end] {
			sig := html.EscapeString(it.Signature)
			pages.WriteString(fmt.Sprintf(
				`<div class="label"><div class="signature">%s</div><div class="code">%s</div></div>`,
				sig, sig,
			))
		}
		pages.WriteString(`</section>`)
	}

	return fmt.Sprintf(`<!doctype html>
<html>
<head>
<meta charset="utf-8" />
<title>Label sheet</title>
<style>
@page { size: A4; margin: 0; }
* { box-sizing: border-box; }
html, body { margin: 0; padding: 0; }
body { font-family: Arial, Helvetica, sans-serif; background: #fff; color: #000; }
.page {
  width: 210mm;
  height: 297mm;
  display: grid;
  grid-template-columns: repeat(%d, %.1fmm);
  grid-template-rows: repeat(%d, %.1fmm);
  justify-content: center;
  align-content: center;
  page-break-after: always;
}
.page:last-child { page-break-after: auto; }
.label {
  padding: 1.6mm 1.8mm;
  display: flex;
  flex-direction: column;
  justify-content: space-between;
  overflow: hidden;
}
.signature {
  font-size: %.1fmm;
  line-height: 1.05;
  font-weight: 700;
  text-align: center;
  word-break: break-word;
  text-transform: uppercase;
  letter-spacing: 0.03em;
}
.code {
  font-size: %.1fmm;
  text-align: center;
  letter-spacing: 0.04em;
  white-space: nowrap;
  overflow: hidden;
  text-overflow: ellipsis;
}
</style>
</head>
<body>
%s
</body>
</html>`,
		tpl.Columns, tpl.LabelWidthMm,
		tpl.Rows, tpl.LabelHeightMm,
		tpl.SignatureFontMm,
		tpl.CodeFontMm,
		pages.String(),
	)
}
