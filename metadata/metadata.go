package metadata

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/reconquest/karma-go"
	"github.com/reconquest/pkg/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

const (
	DirectiveTitle           = `title`
	DirectiveTheme           = `theme`
	DirectiveSize            = `size`
	DirectivePaginate        = `paginate`
	DirectiveClass           = `class`
	DirectiveHeader          = `header`
	DirectiveFooter          = `footer`
	DirectiveBackgroundColor = `backgroundColor`
	DirectiveColor           = `color`
)

// SpotPrefix scopes a local directive to the slide it appears on.
const SpotPrefix = `_`

var (
	globalDirectives = []string{
		DirectiveTitle,
		DirectiveTheme,
		DirectiveSize,
	}

	localDirectives = []string{
		DirectivePaginate,
		DirectiveClass,
		DirectiveHeader,
		DirectiveFooter,
		DirectiveBackgroundColor,
		DirectiveColor,
	}

	reFrontMatterDelimiter = regexp.MustCompile(`^(?:---|\.\.\.)\s*$`)
)

// Directives maps canonical directive names to their values.
type Directives map[string]string

func (d Directives) Clone() Directives {
	clone := make(Directives, len(d))
	for key, value := range d {
		clone[key] = value
	}

	return clone
}

// Bool treats only "true" as true.
func (d Directives) Bool(name string) bool {
	return d[name] == "true"
}

type Meta struct {
	Title string
	Theme string
	Size  string

	// Local holds the initial values of local directives.
	Local Directives
}

// Directive is a single key: value pair found in a directive comment.
type Directive struct {
	Name  string
	Value string
	Spot  bool
}

func (d Directive) Global() bool {
	return isGlobal(d.Name)
}

// ExtractMeta splits YAML front matter from the markdown body. A document
// without front matter yields nil meta and the data untouched.
func ExtractMeta(data []byte) (*Meta, []byte, error) {
	lines := bytes.SplitAfter(data, []byte("\n"))
	if len(lines) == 0 || string(bytes.TrimRight(lines[0], " \t\r\n")) != "---" {
		return nil, data, nil
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if reFrontMatterDelimiter.Match(bytes.TrimRight(lines[i], "\r\n")) {
			end = i
			break
		}
	}

	if end < 0 {
		return nil, data, nil
	}

	var matter bytes.Buffer
	for _, line := range lines[1:end] {
		matter.Write(line)
	}

	offset := 0
	for _, line := range lines[:end+1] {
		offset += len(line)
	}

	values := map[string]interface{}{}
	err := yaml.Unmarshal(matter.Bytes(), &values)
	if err != nil {
		return nil, nil, karma.Format(
			err,
			"unable to parse front matter (lines 2-%d)",
			end,
		)
	}

	meta := &Meta{Local: Directives{}}

	for _, key := range sortedKeys(values) {
		directive, ok := normalize(key, values[key])
		if !ok {
			continue
		}

		if directive.Spot {
			log.Warningf(
				nil,
				"spot directive %q has no effect in front matter, use %q",
				key,
				directive.Name,
			)
		}

		meta.Set(directive)
	}

	return meta, data[offset:], nil
}

// Set applies a global directive to the meta itself and a local one to the
// initial local directives.
func (meta *Meta) Set(directive Directive) {
	switch directive.Name {
	case DirectiveTitle:
		meta.Title = directive.Value
	case DirectiveTheme:
		meta.Theme = directive.Value
	case DirectiveSize:
		meta.Size = directive.Value
	default:
		if meta.Local == nil {
			meta.Local = Directives{}
		}

		meta.Local[directive.Name] = directive.Value
	}
}

// ParseComment parses the body of an HTML comment as a YAML mapping of
// directives. ok is false when the comment is not a directive comment.
func ParseComment(body string) ([]Directive, bool) {
	values := map[string]interface{}{}
	err := yaml.Unmarshal([]byte(body), &values)
	if err != nil || len(values) == 0 {
		return nil, false
	}

	var (
		directives []Directive
		unknown    []string
	)

	for _, key := range sortedKeys(values) {
		if canonical(strings.TrimPrefix(key, SpotPrefix)) == "" {
			unknown = append(unknown, key)
			continue
		}

		directive, ok := normalize(key, values[key])
		if ok {
			directives = append(directives, directive)
		}
	}

	if len(directives) == 0 {
		return nil, false
	}

	for _, key := range unknown {
		log.Warningf(nil, "encountered unknown directive %q in comment: %q", key, body)
	}

	return directives, true
}

func normalize(key string, value interface{}) (Directive, bool) {
	spot := strings.HasPrefix(key, SpotPrefix)
	name := canonical(strings.TrimPrefix(key, SpotPrefix))

	if name == "" {
		log.Warningf(nil, "encountered unknown directive %q", key)
		return Directive{}, false
	}

	if spot && isGlobal(name) {
		log.Warningf(nil, "global directive %q can't be scoped to a slide", name)
		spot = false
	}

	var text string
	switch typed := value.(type) {
	case nil:
		text = ""
	case string:
		text = strings.TrimSpace(typed)
	case bool:
		text = fmt.Sprint(typed)
	case int, int64, float64:
		text = fmt.Sprint(typed)
	default:
		log.Warningf(nil, "directive %q must be a scalar, got %T", key, value)
		return Directive{}, false
	}

	if name == DirectivePaginate {
		if _, ok := value.(bool); !ok {
			log.Warningf(nil, "directive %q must be a boolean, got %q", key, text)
			return Directive{}, false
		}
	}

	return Directive{Name: name, Value: text, Spot: spot}, true
}

func canonical(name string) string {
	for _, known := range slices.Concat(globalDirectives, localDirectives) {
		if strings.EqualFold(known, name) {
			return known
		}
	}

	return ""
}

func isGlobal(name string) bool {
	return slices.Contains(globalDirectives, name)
}

func sortedKeys(values map[string]interface{}) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

// TitleFromFilename turns "quarterly_report-2024.md" into
// "Quarterly Report 2024".
func TitleFromFilename(filename string) string {
	base := filepath.Base(filename)
	title := strings.TrimSuffix(base, filepath.Ext(base))
	title = strings.ReplaceAll(title, "_", " ")
	title = strings.ReplaceAll(title, "-", " ")

	return cases.Title(language.English).String(title)
}

// ExtractDocumentLeadingH1 will extract leading H1 heading
func ExtractDocumentLeadingH1(markdown []byte) string {
	h1 := regexp.MustCompile(`(?m)^#[^#]\s*(.*)\s*$`)
	groups := h1.FindSubmatch(markdown)
	if groups == nil {
		return ""
	} else {
		return strings.TrimSpace(string(groups[1]))
	}
}
