// Package pipeline turns notebook text into what the renderer and the
// document need:
//   - source code to a highlighted HTML card page (goldmark + chroma)
//   - Markdown heading text to plain text
//
// Screenshotting the card is handled by the root nb2docx package using
// headless Chrome (go-rod). This package never touches a browser.
package pipeline
