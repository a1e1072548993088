package assets

// Card holds the template and stylesheet for rendering one code card.
type Card struct {
	Template string
	CSS      string
}

// LoadCard loads the card template and stylesheet through loader.
func LoadCard(loader AssetLoader) (*Card, error) {
	tmpl, err := loader.LoadTemplate(CardTemplateName)
	if err != nil {
		return nil, err
	}
	css, err := loader.LoadStyle(CardStyleName)
	if err != nil {
		return nil, err
	}
	return &Card{Template: tmpl, CSS: css}, nil
}
