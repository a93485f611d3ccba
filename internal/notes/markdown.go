package notes

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

type frontmatter struct {
	ID    int64   `yaml:"id,omitempty"`
	Title *string `yaml:"title,omitempty"`
	BG    string  `yaml:"bg,omitempty"`
	Date  string  `yaml:"date,omitempty"`
}

// MarshalMarkdown renders a note as markdown with yaml frontmatter. The title
// is kept in the frontmatter, so the body is the description verbatim.
func MarshalMarkdown(n Note) ([]byte, error) {
	var buf bytes.Buffer

	title := n.Title
	buf.WriteString("---\n")
	yamlBytes, err := yaml.Marshal(frontmatter{ID: n.ID, Title: &title, BG: n.BG, Date: n.Date})
	if err != nil {
		return nil, err
	}
	buf.Write(yamlBytes)
	buf.WriteString("---\n\n")

	if n.Description != "" {
		buf.WriteString(n.Description)
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

// ExportMarkdown writes one <id>-<slug>.md file per note into dir and returns
// the written paths in collection order.
func ExportMarkdown(dir string, c Collection) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("error creating directory: %w", err)
	}

	paths := make([]string, 0, len(c))
	for _, n := range c {
		data, err := MarshalMarkdown(n)
		if err != nil {
			return paths, fmt.Errorf("rendering note %d: %w", n.ID, err)
		}
		path := filepath.Join(dir, strconv.FormatInt(n.ID, 10)+"-"+Slugify(n.Title)+".md")
		if err := os.WriteFile(path, data, 0644); err != nil {
			return paths, fmt.Errorf("error writing %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// ParseMarkdown reads a note from markdown. Frontmatter is optional. Without a
// title key, the first level-1 heading is the title and everything else is the
// description.
func ParseMarkdown(content []byte) (Note, error) {
	fm, body, err := splitFrontmatter(content)
	if err != nil {
		return Note{}, err
	}

	var title, description string
	if fm.Title != nil {
		title = *fm.Title
		description = strings.TrimSuffix(strings.TrimPrefix(string(body), "\n"), "\n")
	} else {
		title, description = splitTitle(body)
	}
	return Note{
		ID:          fm.ID,
		Title:       title,
		Description: description,
		BG:          strings.ToUpper(strings.TrimPrefix(fm.BG, "#")),
		Date:        fm.Date,
	}, nil
}

// ReadMarkdownFile parses the note stored at path.
func ReadMarkdownFile(path string) (Note, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Note{}, err
	}
	n, err := ParseMarkdown(content)
	if err != nil {
		return Note{}, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}

func splitFrontmatter(content []byte) (frontmatter, []byte, error) {
	var fm frontmatter
	lines := bytes.Split(content, []byte("\n"))

	if len(lines) == 0 || !isFence(lines[0]) {
		return fm, content, nil
	}

	var fmEnd int
	for i := 1; i < len(lines); i++ {
		if isFence(lines[i]) {
			fmEnd = i
			break
		}
	}
	if fmEnd == 0 {
		return fm, content, nil
	}

	fmBytes := bytes.Join(lines[1:fmEnd], []byte("\n"))
	if err := yaml.Unmarshal(fmBytes, &fm); err != nil {
		return fm, nil, fmt.Errorf("invalid frontmatter: %w", err)
	}
	return fm, bytes.Join(lines[fmEnd+1:], []byte("\n")), nil
}

// isFence reports a frontmatter delimiter. Indented dashes belong to a yaml
// block scalar and do not count.
func isFence(line []byte) bool {
	return bytes.Equal(bytes.TrimRight(line, " \t\r"), []byte("---"))
}

// splitTitle cuts the first level-1 heading out of body.
func splitTitle(body []byte) (string, string) {
	reader := text.NewReader(body)
	doc := goldmark.DefaultParser().Parse(reader)

	var heading *ast.Heading
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if h, ok := n.(*ast.Heading); ok && entering && h.Level == 1 && h.Lines().Len() > 0 {
			heading = h
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})

	if heading == nil {
		return "", strings.TrimSpace(string(body))
	}

	lines := heading.Lines()
	title := strings.TrimSpace(string(lines.Value(body)))

	start := lines.At(0).Start
	lineStart := bytes.LastIndexByte(body[:start], '\n') + 1
	lineEnd := len(body)
	if i := bytes.IndexByte(body[lines.At(lines.Len()-1).Stop:], '\n'); i >= 0 {
		lineEnd = lines.At(lines.Len()-1).Stop + i + 1
	}

	rest := string(body[lineEnd:])
	// Setext headings keep their underline on the following line.
	first, after, _ := strings.Cut(rest, "\n")
	if t := strings.TrimSpace(first); t != "" && strings.Trim(t, "=") == "" {
		rest = after
	}

	before := strings.TrimSpace(string(body[:lineStart]))
	rest = strings.TrimSpace(rest)
	switch {
	case before == "":
		return title, rest
	case rest == "":
		return title, before
	}
	return title, before + "\n\n" + rest
}

var multiDash = regexp.MustCompile(`-+`)

// Slugify converts a title to a lowercase dash-separated file name stem.
// "My Note Title!" -> "my-note-title"
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "_", "-")

	var result strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			result.WriteRune(r)
		}
	}
	s = multiDash.ReplaceAllString(result.String(), "-")
	s = strings.Trim(s, "-")

	if s == "" {
		s = "note"
	}
	return s
}
