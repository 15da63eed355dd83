package options

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/reconquest/pkg/log"
	"github.com/spf13/viper"
)

const (
	FieldOptions     = `options`
	FieldMarkdown    = `options.markdown`
	FieldBreaks      = `options.markdown.breaks`
	FieldHTML        = `options.markdown.html`
	FieldXHTMLOut    = `options.markdown.xhtmlOut`
	FieldLinkify     = `options.markdown.linkify`
	FieldTypographer = `options.markdown.typographer`
	FieldTheme       = `theme`
	FieldSize        = `size`
	FieldInputDir    = `inputDir`
	FieldOutput      = `output`
)

const (
	DefaultTheme = "default"
	DefaultSize  = "16:9"
)

// Sizes lists the slide sizes a deck can declare.
var Sizes = []string{"16:9", "4:3"}

// Filenames are probed in order by Load, the first existing one wins.
var Filenames = []string{
	".deckrc",
	".deckrc.yml",
	".deckrc.yaml",
	".deckrc.json",
	".deckrc.toml",
}

// MarkdownOptions are the construction switches of the markdown converter.
type MarkdownOptions struct {
	// Breaks renders a single newline inside a paragraph as a hard break.
	Breaks      bool
	HTML        bool
	XHTMLOut    bool
	Linkify     bool
	Typographer bool
}

// RendererOptions is passed verbatim to the markdown converter constructor
// and is never modified afterwards.
type RendererOptions struct {
	Markdown MarkdownOptions
}

// Config is the content of a single .deckrc file.
type Config struct {
	Options RendererOptions

	Theme    string
	Size     string
	InputDir string
	Output   string

	// Path of the file the config was loaded from, empty for defaults.
	Path string
}

func Default() *Config {
	return &Config{
		Theme: DefaultTheme,
		Size:  DefaultSize,
	}
}

// Load reads the first .deckrc file found in dir.
func Load(dir string) (*Config, error) {
	for _, name := range Filenames {
		path := filepath.Join(dir, name)

		_, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}

			return nil, &ConfigLoadError{Path: path, Err: err}
		}

		return LoadFile(path)
	}

	return nil, &ConfigLoadError{
		Path: dir,
		Err: fmt.Errorf(
			"none of %s found: %w",
			strings.Join(Filenames, ", "),
			os.ErrNotExist,
		),
	}
}

// LoadFile reads the given config file, the format is chosen by extension,
// files without extension are treated as YAML.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if filepath.Ext(path) == "" || filepath.Base(path) == filepath.Ext(path) {
		v.SetConfigType("yaml")
	}

	err := v.ReadInConfig()
	if err != nil {
		var parseErr viper.ConfigParseError
		if errors.As(err, &parseErr) {
			return nil, &ConfigLoadError{Path: path, Err: parseErr.Unwrap()}
		}

		return nil, &ConfigLoadError{Path: path, Err: err}
	}

	config, err := decode(v)
	if err != nil {
		var loadErr *ConfigLoadError
		if errors.As(err, &loadErr) {
			loadErr.Path = path
		}

		return nil, err
	}

	config.Path = path
	config.InputDir = resolve(path, config.InputDir)
	config.Output = resolve(path, config.Output)

	log.Debugf(
		nil,
		"loaded deck options from %s: %+v",
		path,
		config.Options.Markdown,
	)

	return config, nil
}

func decode(v *viper.Viper) (*Config, error) {
	config := Default()

	for _, key := range []string{FieldOptions, FieldMarkdown} {
		if _, err := getMap(v, key); err != nil {
			return nil, err
		}
	}

	markdown, _ := getMap(v, FieldMarkdown)
	warnUnknown(markdown)

	fields := []struct {
		key   string
		value *bool
	}{
		{FieldBreaks, &config.Options.Markdown.Breaks},
		{FieldHTML, &config.Options.Markdown.HTML},
		{FieldXHTMLOut, &config.Options.Markdown.XHTMLOut},
		{FieldLinkify, &config.Options.Markdown.Linkify},
		{FieldTypographer, &config.Options.Markdown.Typographer},
	}

	for _, field := range fields {
		err := getBool(v, field.key, field.value)
		if err != nil {
			return nil, err
		}
	}

	texts := []struct {
		key   string
		value *string
	}{
		{FieldTheme, &config.Theme},
		{FieldSize, &config.Size},
		{FieldInputDir, &config.InputDir},
		{FieldOutput, &config.Output},
	}

	for _, field := range texts {
		err := getString(v, field.key, field.value)
		if err != nil {
			return nil, err
		}
	}

	if !slices.Contains(Sizes, config.Size) {
		return nil, &ConfigLoadError{
			Field: FieldSize,
			Err:   fmt.Errorf("unsupported size %q, expected one of %v", config.Size, Sizes),
		}
	}

	if config.Theme == "" {
		return nil, &ConfigLoadError{
			Field: FieldTheme,
			Err:   errors.New("theme must not be empty"),
		}
	}

	return config, nil
}

func getMap(v *viper.Viper, key string) (map[string]interface{}, error) {
	raw := v.Get(key)
	if raw == nil {
		return nil, nil
	}

	value, ok := raw.(map[string]interface{})
	if !ok {
		return nil, &ConfigLoadError{Field: key, Err: mismatch("object", raw)}
	}

	return value, nil
}

// getBool leaves target untouched when the key is absent or null.
func getBool(v *viper.Viper, key string, target *bool) error {
	raw := v.Get(key)
	if raw == nil {
		return nil
	}

	value, ok := raw.(bool)
	if !ok {
		return &ConfigLoadError{Field: key, Err: mismatch("boolean", raw)}
	}

	*target = value

	return nil
}

func getString(v *viper.Viper, key string, target *string) error {
	raw := v.Get(key)
	if raw == nil {
		return nil
	}

	value, ok := raw.(string)
	if !ok {
		return &ConfigLoadError{Field: key, Err: mismatch("string", raw)}
	}

	*target = value

	return nil
}

func mismatch(expected string, value interface{}) error {
	return fmt.Errorf("expected %s, got %T (%v)", expected, value, value)
}

func warnUnknown(markdown map[string]interface{}) {
	known := map[string]bool{}
	for _, key := range []string{
		FieldBreaks, FieldHTML, FieldXHTMLOut, FieldLinkify, FieldTypographer,
	} {
		known[strings.ToLower(strings.TrimPrefix(key, FieldMarkdown+"."))] = true
	}

	var unknown []string
	for key := range markdown {
		if !known[strings.ToLower(key)] {
			unknown = append(unknown, key)
		}
	}

	sort.Strings(unknown)

	for _, key := range unknown {
		log.Warningf(nil, "unknown markdown option %s.%s is ignored", FieldMarkdown, key)
	}
}

func resolve(configPath string, value string) string {
	if value == "" || filepath.IsAbs(value) {
		return value
	}

	return filepath.Join(filepath.Dir(configPath), value)
}
