package summary

import (
	"regexp"
	"strings"
)

// Sections are the three note blocks extracted from the model response.
type Sections struct {
	Resumo      string
	PontosChave string
	Citacao     string
}

// DefaultSections returns the canned fallback blocks used when the
// model response is missing or malformed.
func DefaultSections() Sections {
	return Sections{
		Resumo:      "⚠️ Falha ao gerar conteúdo. Leia o artigo original.",
		PontosChave: "- Ponto 1\n- Ponto 2",
		Citacao:     "> Citação não disponível",
	}
}

// The response contract is three markdown headings; anything between a
// heading and the next one (or a deeper heading, or end of text) is the
// section body.
var (
	resumoRe  = regexp.MustCompile(`(?is)## Resumo:?\s*(.*?)\s*(?:## Pontos-chave|###|\z)`)
	pontosRe  = regexp.MustCompile(`(?is)## Pontos-chave:?\s*(.*?)\s*(?:## Citação|###|\z)`)
	citacaoRe = regexp.MustCompile(`(?is)## Citação do dia:?\s*(.*?)\s*(?:##|\z)`)
)

// ParseSections extracts the three sections from the model's markdown.
// A section that cannot be matched keeps its canned default, so a
// partially malformed response still yields a complete note.
func ParseSections(markdown string) Sections {
	sections := DefaultSections()
	if strings.TrimSpace(markdown) == "" {
		return sections
	}

	if m := resumoRe.FindStringSubmatch(markdown); m != nil && strings.TrimSpace(m[1]) != "" {
		sections.Resumo = strings.TrimSpace(m[1])
	}
	if m := pontosRe.FindStringSubmatch(markdown); m != nil && strings.TrimSpace(m[1]) != "" {
		sections.PontosChave = strings.TrimSpace(m[1])
	}
	if m := citacaoRe.FindStringSubmatch(markdown); m != nil && strings.TrimSpace(m[1]) != "" {
		sections.Citacao = strings.TrimSpace(m[1])
	}

	return sections
}
