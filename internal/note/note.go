// Package note renders the daily note and writes it into the vault.
// The template is fixed: YAML front matter, metadata, a reference link
// and the three analysis sections.
package note

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"knowledgedrop/internal/summary"
)

const maxTitleLen = 50

var noteTemplate = template.Must(template.New("note").Parse(`---
tags: [{{.Category}}]
date: {{.Date}}
source: "{{.Category}}"
---

# {{.Title}}

## Metadata
- **Id:** {{.ID}}

## Referência
- Fonte: [{{.Category}}]({{.Link}})

## Resumo
{{.Sections.Resumo}}

## Pontos-chave
{{.Sections.PontosChave}}

## Citação do dia
{{.Sections.Citacao}}
`))

// Input carries everything the template needs.
type Input struct {
	Title    string
	Link     string
	Category string
	Sections summary.Sections
	Now      time.Time
}

type templateData struct {
	Title    string
	Link     string
	Category string
	Date     string
	ID       string
	Sections summary.Sections
}

// Render produces the note body. Title, Link and Category are all
// required; the sections always have at least their canned defaults.
func Render(in Input) (string, error) {
	if in.Title == "" || in.Link == "" || in.Category == "" {
		return "", fmt.Errorf("incomplete note data: title=%q link=%q category=%q",
			in.Title, in.Link, in.Category)
	}

	data := templateData{
		Title:    in.Title,
		Link:     in.Link,
		Category: in.Category,
		Date:     in.Now.Format("2006-01-02"),
		ID:       in.Now.Format("200601021504"),
		Sections: in.Sections,
	}

	var sb strings.Builder
	if err := noteTemplate.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render note: %w", err)
	}
	return sb.String(), nil
}

// SanitizeTitle normalizes the title and strips the characters that are
// invalid in filenames, bounding the result to 50 runes.
func SanitizeTitle(title string) string {
	title = norm.NFC.String(title)

	var sb strings.Builder
	for _, r := range title {
		switch r {
		case '\\', '/', '*', '?', ':', '"', '<', '>', '|':
			continue
		}
		sb.WriteRune(r)
	}

	runes := []rune(sb.String())
	if len(runes) > maxTitleLen {
		runes = runes[:maxTitleLen]
	}
	return string(runes)
}

// Filename builds the dated note filename from a raw title.
func Filename(title string, t time.Time) string {
	return fmt.Sprintf("%s - %s.md", SanitizeTitle(title), t.Format("20060102"))
}

// Capitalize upper-cases the first rune, the way the source name is
// displayed in tags and references.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// Write stores the note body under dir, creating the directory if
// needed. It returns the full path of the written file.
func Write(dir, name, body string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create vault dir: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("failed to write note: %w", err)
	}
	return path, nil
}
