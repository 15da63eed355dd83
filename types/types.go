package types

const (
	FeatureD2          = "d2"
	FeatureMermaid     = "mermaid"
	FeatureAdmonitions = "admonitions"
	FeatureMath        = "math"
)

const (
	MermaidProviderCloudScript = "cloudscript"
	MermaidProviderMermaidGo   = "mermaid-go"
)

const (
	DiagramFormatSVG = "svg"
	DiagramFormatPNG = "png"
)

// DeckConfig holds the runtime knobs coming from command line flags, as
// opposed to options.Config which is authored next to the slides.
type DeckConfig struct {
	Features        []string
	MermaidProvider string
	MermaidScale    float64
	D2Scale         float64
	DiagramFormat   string

	// InlineAssets embeds generated PNG diagrams as data URIs instead of
	// referencing AssetPrefix/<filename>.
	InlineAssets bool
	AssetPrefix  string
}

var (
	Features         = []string{FeatureD2, FeatureMermaid, FeatureAdmonitions, FeatureMath}
	MermaidProviders = []string{MermaidProviderCloudScript, MermaidProviderMermaidGo}
	DiagramFormats   = []string{DiagramFormatSVG, DiagramFormatPNG}
)
