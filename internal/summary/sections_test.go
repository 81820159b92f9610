package summary

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const wellFormedResponse = `## Resumo:

A teoria das cordas propõe que as partículas fundamentais são vibrações.

## Pontos-chave:

- **Unificação:** Tenta conciliar gravidade e mecânica quântica.
    - **Aplicação prática:** Nenhuma direta até hoje.

- **Dimensões extras:** Requer mais de quatro dimensões.

---

## Citação do dia:

> "Você tem poder sobre sua mente, não sobre eventos externos."
- Marco Aurélio

---
`

func TestParseSections_WellFormed(t *testing.T) {
	s := ParseSections(wellFormedResponse)

	assert.Equal(t, "A teoria das cordas propõe que as partículas fundamentais são vibrações.", s.Resumo)
	assert.True(t, strings.HasPrefix(s.PontosChave, "- **Unificação:**"))
	assert.Contains(t, s.PontosChave, "Dimensões extras")
	assert.NotContains(t, s.PontosChave, "Citação do dia")
	assert.Contains(t, s.Citacao, "Marco Aurélio")
	assert.True(t, strings.HasPrefix(s.Citacao, `> "Você tem poder`))
}

func TestParseSections_CaseInsensitiveHeadings(t *testing.T) {
	resp := "## RESUMO:\ntexto\n## PONTOS-CHAVE:\n- ponto\n## CITAÇÃO DO DIA:\n> frase"
	s := ParseSections(resp)

	assert.Equal(t, "texto", s.Resumo)
	assert.Equal(t, "- ponto", s.PontosChave)
	assert.Equal(t, "> frase", s.Citacao)
}

func TestParseSections_EmptyResponseKeepsDefaults(t *testing.T) {
	s := ParseSections("")
	assert.Equal(t, DefaultSections(), s)

	s = ParseSections("   \n\n  ")
	assert.Equal(t, DefaultSections(), s)
}

func TestParseSections_PartialResponse(t *testing.T) {
	s := ParseSections("## Resumo:\nsó o resumo veio")

	assert.Equal(t, "só o resumo veio", s.Resumo)
	assert.Equal(t, DefaultSections().PontosChave, s.PontosChave)
	assert.Equal(t, DefaultSections().Citacao, s.Citacao)
}

func TestParseSections_HeadingWithoutColon(t *testing.T) {
	resp := "## Resumo\ncorpo\n## Pontos-chave\n- a\n## Citação do dia\n> b"
	s := ParseSections(resp)

	assert.Equal(t, "corpo", s.Resumo)
	assert.Equal(t, "- a", s.PontosChave)
	assert.Equal(t, "> b", s.Citacao)
}

func TestDefaultSections_AreComplete(t *testing.T) {
	s := DefaultSections()
	assert.NotEmpty(t, s.Resumo)
	assert.NotEmpty(t, s.PontosChave)
	assert.NotEmpty(t, s.Citacao)
}
