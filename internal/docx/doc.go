// Package docx edits the body of Office Open XML word-processing documents.
//
// A Document keeps every part of the package byte-for-byte except the ones
// it has to change: word/document.xml, its relationships, the content types
// and any media it adds. Body children (paragraphs, tables, section
// properties) are held as raw XML slices, so unknown markup survives a
// round trip untouched.
//
// Paragraph positions count only body-level <w:p> elements, the same
// sequence Word shows as paragraphs. Tables and the trailing <w:sectPr>
// are preserved but never addressed.
//
//	doc, err := docx.Open("template.docx")
//	...
//	err = doc.InsertTextBefore(3, "Intro", "Heading 2", docx.AlignJustify)
//	err = doc.Save("new-template.docx")
package docx
