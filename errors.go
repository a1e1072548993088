package nb2docx

import "errors"

// Sentinel errors for library operations.
var (
	// Notebook errors. All of them abort before the template is touched.
	ErrNotebookRead  = errors.New("failed to read notebook")
	ErrNotebookParse = errors.New("invalid notebook")
	ErrNoCells       = errors.New("notebook has no cells field")

	// Rendering errors.
	ErrBrowserConnect   = errors.New("failed to connect to browser")
	ErrPageCreate       = errors.New("failed to create browser page")
	ErrPageLoad         = errors.New("failed to load page")
	ErrRenderTimeout    = errors.New("rendering timed out")
	ErrSelectorNotFound = errors.New("page element not found")
	ErrDownload         = errors.New("code image download failed")
	ErrCodeRender       = errors.New("code rendering failed")

	// Artifact errors.
	ErrImageDecode     = errors.New("output image is not a valid PNG")
	ErrArtifactMissing = errors.New("artifact not found")

	// Document errors.
	ErrTemplateOpen    = errors.New("failed to open template")
	ErrTemplateInvalid = errors.New("template is not a valid document")
	ErrStyleNotFound   = errors.New("heading style not found in template")
	ErrWriteDocument   = errors.New("failed to write document")

	// Input validation errors.
	ErrEmptyNotebookPath = errors.New("notebook path cannot be empty")
	ErrEmptyTemplatePath = errors.New("template path cannot be empty")
	ErrInvalidConfig     = errors.New("invalid configuration")
)
