// Package nb2docx fills a Word report template with the contents of a
// Jupyter notebook.
//
// # Quick Start
//
// Create a converter, convert, and close when done:
//
//	conv, err := nb2docx.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, nb2docx.Input{
//	    Notebook: "lab3.ipynb",
//	    Template: "report.docx",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("Created", result.OutputPath) // new-report.docx
//
// # Templates
//
// A template is an ordinary .docx with three anchor paragraphs whose whole
// text is, by default, "desarrollo", "código" and "conclusiones". Case and
// surrounding spaces are ignored; any other text is not an anchor.
//
// Everything between the development and conclusions anchors is removed
// before insertion, except the code anchor itself, so converting into a
// previously generated report replaces its content.
//
// # Assembly
//
// The header cell (index 0) is skipped. For the remaining cells, in order:
//
//  1. A cell without outputs whose first line holds a "3)" style marker
//     becomes a heading after the development anchor.
//  2. A cell with outputs contributes its first output's PNG after the
//     development anchor, and a picture of its source after the code anchor.
//
// Images are produced before the template is touched and kept in a
// directory named after the notebook, removed when the run ends.
//
// # Code Images
//
// The default renderer highlights the source with chroma and screenshots it
// in headless Chrome (go-rod). The remote renderer drives a carbon-style web
// editor instead. Set ROD_BROWSER_BIN to use a pre-installed Chrome.
//
// # Configuration
//
// Pass a Config to change anchors, heading style, picture width,
// renderer and output naming:
//
//	cfg, err := nb2docx.LoadConfig("report") // report.yaml
//	if err != nil {
//	    log.Fatal(err)
//	}
//	conv, err := nb2docx.NewConverter(
//	    nb2docx.WithConfig(cfg),
//	    nb2docx.WithLogger(slog.Default()),
//	)
//
// # Errors
//
// Failures wrap sentinel errors, so callers can branch with errors.Is:
//
//	if errors.Is(err, nb2docx.ErrRenderTimeout) {
//	    // rendering service too slow
//	}
//
// A missing development or code anchor is not an error: the section is left
// empty and the run reports a warning in Result.Warnings.
package nb2docx
