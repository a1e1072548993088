// Package assets provides the HTML template and stylesheet for code cards.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in card)
//	    ├── FilesystemLoader  - loads from a directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver is what the local renderer uses. When render.assetsDir is
// set, a file found there replaces the embedded one of the same name;
// anything missing falls back to the embedded copy, so overriding only the
// stylesheet is enough to restyle cards.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css       # e.g. card.css
//	└── templates/
//	    └── {name}.html      # e.g. card.html
//
// # Security
//
// Asset names are validated to prevent path traversal.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
