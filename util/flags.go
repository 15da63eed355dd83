package util

import (
	"os"
	"path/filepath"

	"github.com/kovetskiy/deck/types"
	"github.com/reconquest/pkg/log"
	altsrc "github.com/urfave/cli-altsrc/v3"
	altsrctoml "github.com/urfave/cli-altsrc/v3/toml"
	"github.com/urfave/cli/v3"
)

var filename string

var Flags = []cli.Flag{
	&cli.StringFlag{
		Name:      "files",
		Aliases:   []string{"f"},
		Value:     "",
		Usage:     "use specified markdown file(s) for converting to slides. Supports file globbing patterns (needs to be quoted). Defaults to *.md in the inputDir of the .deckrc file.",
		TakesFile: true,
		Sources:   cli.NewValueSourceChain(cli.EnvVar("DECK_FILES"), altsrctoml.TOML("files", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.StringFlag{
		Name:      "output",
		Aliases:   []string{"o"},
		Value:     "",
		Usage:     "write <name>.html and its assets into the specified directory instead of printing to stdout.",
		TakesFile: true,
		Sources:   cli.NewValueSourceChain(cli.EnvVar("DECK_OUTPUT"), altsrctoml.TOML("output", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.StringFlag{
		Name:      "options",
		Value:     "",
		Usage:     "use the specified .deckrc file for every deck instead of looking it up next to each markdown file.",
		TakesFile: true,
		Sources:   cli.NewValueSourceChain(cli.EnvVar("DECK_OPTIONS"), altsrctoml.TOML("options", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.StringFlag{
		Name:      "include-path",
		Value:     "",
		Usage:     "Path for shared includes, used as a fallback if the include doesn't exist in the deck directory.",
		TakesFile: true,
		Sources:   cli.NewValueSourceChain(cli.EnvVar("DECK_INCLUDE_PATH"), altsrctoml.TOML("include-path", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.BoolFlag{
		Name:    "continue-on-error",
		Value:   false,
		Usage:   "don't exit if an error occurs while processing a file, continue processing remaining files.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("DECK_CONTINUE_ON_ERROR"), altsrctoml.TOML("continue-on-error", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.StringFlag{
		Name:  "color",
		Value: "auto",
		Usage: "display logs in color. Possible values: auto, never.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("DECK_COLOR"),
			altsrctoml.TOML("color", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.StringFlag{
		Name:    "log-level",
		Value:   "info",
		Usage:   "set the log level. Possible values: TRACE, DEBUG, INFO, WARNING, ERROR, FATAL.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("DECK_LOG_LEVEL"), altsrctoml.TOML("log-level", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Value:       ConfigFilePath(),
		Usage:       "use the specified configuration file.",
		TakesFile:   true,
		Sources:     cli.NewValueSourceChain(cli.EnvVar("DECK_CONFIG")),
		Destination: &filename,
	},
	&cli.BoolFlag{
		Name:    "ci",
		Value:   false,
		Usage:   "run on CI mode. It won't fail if files are not found.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("DECK_CI"), altsrctoml.TOML("ci", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.StringFlag{
		Name:    "mermaid-provider",
		Value:   types.MermaidProviderCloudScript,
		Usage:   "defines the mermaid provider to use. Supported options are: cloudscript, mermaid-go.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("DECK_MERMAID_PROVIDER"), altsrctoml.TOML("mermaid-provider", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.FloatFlag{
		Name:    "mermaid-scale",
		Value:   1.0,
		Usage:   "defines the scaling factor for mermaid renderings.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("DECK_MERMAID_SCALE"), altsrctoml.TOML("mermaid-scale", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.FloatFlag{
		Name:    "d2-scale",
		Value:   1.0,
		Usage:   "defines the scaling factor for d2 renderings.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("DECK_D2_SCALE"), altsrctoml.TOML("d2-scale", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.StringFlag{
		Name:    "diagram-format",
		Value:   types.DiagramFormatSVG,
		Usage:   "defines how locally rendered diagrams are embedded. Supported options are: svg (inline), png (asset file).",
		Sources: cli.NewValueSourceChain(cli.EnvVar("DECK_DIAGRAM_FORMAT"), altsrctoml.TOML("diagram-format", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.BoolFlag{
		Name:    "preview",
		Value:   false,
		Usage:   "render slides to the terminal instead of producing HTML.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("DECK_PREVIEW"), altsrctoml.TOML("preview", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.StringFlag{
		Name:    "preview-style",
		Value:   "auto",
		Usage:   "terminal style used by --preview. Possible values: auto, dark, light, notty, ascii, dracula, pink, tokyo-night.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("DECK_PREVIEW_STYLE"), altsrctoml.TOML("preview-style", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.IntFlag{
		Name:    "preview-width",
		Value:   80,
		Usage:   "word wrap width used by --preview.",
		Sources: cli.NewValueSourceChain(cli.EnvVar("DECK_PREVIEW_WIDTH"), altsrctoml.TOML("preview-width", altsrc.NewStringPtrSourcer(&filename))),
	},
	&cli.StringSliceFlag{
		Name:    "features",
		Value:   []string{types.FeatureMermaid},
		Usage:   "Enables optional features. Current features: d2, mermaid, admonitions, math",
		Sources: cli.NewValueSourceChain(cli.EnvVar("DECK_FEATURES"), altsrctoml.TOML("features", altsrc.NewStringPtrSourcer(&filename))),
	},
}

func ConfigFilePath() string {
	fp, err := os.UserConfigDir()
	if err != nil {
		log.Fatal(err)
	}
	return filepath.Join(fp, "deck.toml")
}
