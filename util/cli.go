package util

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/kovetskiy/deck/asset"
	"github.com/kovetskiy/deck/deck"
	"github.com/kovetskiy/deck/includes"
	"github.com/kovetskiy/deck/markdown"
	"github.com/kovetskiy/deck/metadata"
	"github.com/kovetskiy/deck/options"
	"github.com/kovetskiy/deck/preview"
	"github.com/kovetskiy/deck/types"
	"github.com/kovetskiy/lorg"
	"github.com/reconquest/karma-go"
	"github.com/reconquest/pkg/log"
	"github.com/urfave/cli/v3"
)

func RunDeck(ctx context.Context, cmd *cli.Command) error {
	if err := SetLogLevel(cmd); err != nil {
		return err
	}

	if cmd.String("color") == "never" {
		log.GetLogger().SetFormat(
			lorg.NewFormat(
				`${time:2006-01-02 15:04:05.000} ${level:%s:left:true} ${prefix}%s`,
			),
		)
		log.GetLogger().SetOutput(os.Stderr)
	}

	cfg, err := GetDeckConfig(cmd)
	if err != nil {
		return err
	}

	loader := NewOptionsLoader(cmd.String("options"))

	files, err := findFiles(cmd.String("files"), loader)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		msg := "No files matched"
		if cmd.Bool("ci") {
			log.Warning(msg)
		} else {
			log.Fatal(msg)
		}
	}

	log.Debug("config:")
	for _, f := range cmd.Flags {
		flag := f.Names()
		log.Debugf(nil, "%20s: %v", flag[0], cmd.Value(flag[0]))
	}

	fatalErrorHandler := NewErrorHandler(cmd.Bool("continue-on-error"))

	var previewer *preview.Previewer
	if cmd.Bool("preview") {
		previewer = &preview.Previewer{
			Style: cmd.String("preview-style"),
			Width: cmd.Int("preview-width"),
		}
	}

	// Loop through files matched by glob pattern
	for _, file := range files {
		log.Infof(
			nil,
			"processing %s",
			file,
		)

		target := processFile(
			file,
			cmd.String("output"),
			cmd.String("include-path"),
			loader,
			cfg,
			previewer,
			fatalErrorHandler,
		)
		if target != "" {
			log.Infof(nil, "deck successfully written: %s", target)
		}
	}

	return fatalErrorHandler.Err(len(files))
}

// GetDeckConfig collects the runtime knobs from command line flags.
func GetDeckConfig(cmd *cli.Command) (types.DeckConfig, error) {
	cfg := types.DeckConfig{
		Features:        cmd.StringSlice("features"),
		MermaidProvider: cmd.String("mermaid-provider"),
		MermaidScale:    cmd.Float("mermaid-scale"),
		D2Scale:         cmd.Float("d2-scale"),
		DiagramFormat:   cmd.String("diagram-format"),
	}

	for _, feature := range cfg.Features {
		if !slices.Contains(types.Features, feature) {
			return cfg, fmt.Errorf("unknown feature: %s", feature)
		}
	}

	if !slices.Contains(types.MermaidProviders, cfg.MermaidProvider) {
		return cfg, fmt.Errorf("unknown mermaid provider: %s", cfg.MermaidProvider)
	}

	if !slices.Contains(types.DiagramFormats, cfg.DiagramFormat) {
		return cfg, fmt.Errorf("unknown diagram format: %s", cfg.DiagramFormat)
	}

	return cfg, nil
}

// OptionsLoader loads .deckrc files once per directory. When Path is set,
// that file is used for every deck.
type OptionsLoader struct {
	Path string

	// Root replaces the defaults for directories without their own .deckrc.
	// It is the config whose inputDir listed the decks.
	Root *options.Config

	loaded map[string]*options.Config
}

func NewOptionsLoader(path string) *OptionsLoader {
	return &OptionsLoader{
		Path:   path,
		loaded: map[string]*options.Config{},
	}
}

func (loader *OptionsLoader) Load(dir string) (*options.Config, error) {
	key := dir
	if loader.Path != "" {
		key = loader.Path
	}

	if config, ok := loader.loaded[key]; ok {
		return config, nil
	}

	var (
		config *options.Config
		err    error
	)

	if loader.Path != "" {
		config, err = options.LoadFile(loader.Path)
	} else {
		config, err = options.Load(dir)
		if options.IsNotFound(err) {
			if loader.Root != nil {
				log.Debugf(nil, "no deck options found in %q, using %s", dir, loader.Root.Path)
				config, err = loader.Root, nil
			} else {
				log.Debugf(nil, "no deck options found in %q, using defaults", dir)
				config, err = options.Default(), nil
			}
		}
	}

	if err != nil {
		return nil, err
	}

	loader.loaded[key] = config

	return config, nil
}

func findFiles(pattern string, loader *OptionsLoader) ([]string, error) {
	if pattern == "" {
		config, err := loader.Load(".")
		if err != nil {
			return nil, err
		}

		if config.InputDir == "" {
			return nil, nil
		}

		loader.Root = config

		pattern = filepath.Join(config.InputDir, "**", "*.md")
	}

	files, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, karma.Format(err, "unable to match files: %q", pattern)
	}

	return files, nil
}

func processFile(
	file string,
	output string,
	includePath string,
	loader *OptionsLoader,
	cfg types.DeckConfig,
	previewer *preview.Previewer,
	fatalErrorHandler *FatalErrorHandler,
) string {
	source, err := os.ReadFile(file)
	if err != nil {
		fatalErrorHandler.Handle(err, "unable to read file %q", file)
		return ""
	}

	source = bytes.ReplaceAll(source, []byte("\r\n"), []byte("\n"))

	config, err := loader.Load(filepath.Dir(file))
	if err != nil {
		fatalErrorHandler.Handle(err, "unable to load deck options for file %q", file)
		return ""
	}

	meta, body, err := metadata.ExtractMeta(source)
	if err != nil {
		fatalErrorHandler.Handle(err, "unable to extract metadata from file %q", file)
		return ""
	}

	if meta == nil {
		meta = &metadata.Meta{}
	}

	body, err = includes.NewIncluder(filepath.Dir(file), includePath).Expand(body)
	if err != nil {
		fatalErrorHandler.Handle(err, "unable to process includes of file %q", file)
		return ""
	}

	if previewer != nil {
		terminal := *previewer
		terminal.Breaks = config.Options.Markdown.Breaks

		err = terminal.Render(os.Stdout, deckTitle(meta, body, file), body)
		if err != nil {
			fatalErrorHandler.Handle(err, "unable to preview deck %q", file)
		}

		return ""
	}

	if output == "" {
		output = config.Output
	}

	name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))

	cfg.InlineAssets = output == ""
	cfg.AssetPrefix = name + ".assets"

	slides, assets, err := markdown.CompileMarkdown(body, meta, config.Options, cfg)
	if err != nil {
		fatalErrorHandler.Handle(
			karma.Describe("file", file).Reason(err),
			"unable to compile deck",
		)
		return ""
	}

	// Compilation may have set the title from a comment directive.
	title := deckTitle(meta, body, file)

	theme := meta.Theme
	if theme == "" {
		theme = config.Theme
	}

	size := meta.Size
	if size == "" {
		size = config.Size
	}

	var buffer bytes.Buffer

	err = deck.Render(&buffer, deck.Document{
		Title:  title,
		Theme:  theme,
		Size:   size,
		Slides: slides,
	})
	if err != nil {
		fatalErrorHandler.Handle(err, "unable to render deck %q", file)
		return ""
	}

	if output == "" {
		fmt.Println(buffer.String())
		return ""
	}

	err = os.MkdirAll(output, 0o755)
	if err != nil {
		fatalErrorHandler.Handle(err, "unable to create output directory %q", output)
		return ""
	}

	target := filepath.Join(output, name+".html")

	err = os.WriteFile(target, buffer.Bytes(), 0o644)
	if err != nil {
		fatalErrorHandler.Handle(err, "unable to write deck %q", target)
		return ""
	}

	err = asset.Write(filepath.Join(output, cfg.AssetPrefix), assets)
	if err != nil {
		fatalErrorHandler.Handle(err, "unable to write assets of deck %q", target)
		return ""
	}

	return target
}

func deckTitle(meta *metadata.Meta, body []byte, file string) string {
	if meta.Title != "" {
		return meta.Title
	}

	if title := metadata.ExtractDocumentLeadingH1(body); title != "" {
		return title
	}

	return metadata.TitleFromFilename(file)
}

func SetLogLevel(cmd *cli.Command) error {
	logLevel := cmd.String("log-level")
	switch strings.ToUpper(logLevel) {
	case lorg.LevelTrace.String():
		log.SetLevel(lorg.LevelTrace)
	case lorg.LevelDebug.String():
		log.SetLevel(lorg.LevelDebug)
	case lorg.LevelInfo.String():
		log.SetLevel(lorg.LevelInfo)
	case lorg.LevelWarning.String():
		log.SetLevel(lorg.LevelWarning)
	case lorg.LevelError.String():
		log.SetLevel(lorg.LevelError)
	case lorg.LevelFatal.String():
		log.SetLevel(lorg.LevelFatal)
	default:
		return fmt.Errorf("unknown log level: %s", logLevel)
	}
	log.GetLevel()

	return nil
}
