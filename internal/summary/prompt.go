package summary

import "fmt"

// buildPrompt renders the rigid-format analysis prompt over the two
// links. The response contract is the three markdown headings that
// ParseSections extracts; the surrounding instructions exist to keep
// the model from reformatting them.
func buildPrompt(mainLink, quoteLink string) string {
	return fmt.Sprintf(`# ANÁLISE SEPARADA DE FONTES - FORMATAÇÃO RIGOROSA

## INSTRUÇÕES GERAIS:
- **Acesse o link %[1]s e ANALISE CUIDADOSAMENTE o conteúdo principal do texto.**
- **EXTRAIA as informações EXATAS do link, SEM INTERPRETAR, RESUMIR ou PARAFRASEAR.**
- **MANTENHA o formato de saída EXATAMENTE como no exemplo fornecido, sem adicionar ou remover elementos.**
- **Acesse o link %[2]s e EXAMINE o conteúdo, identificando a citação mais relevante do dia.**
- **NÃO adicione informações extras ou faça suposições. Extraia APENAS o que é solicitado.**
- **A resposta deve ser sempre em português**, independentemente do idioma original das fontes.
- **Mantenha o padrão visual exato**: títulos, bullets e separações devem ser respeitados.

---

## FORMATO OBRIGATÓRIO DA RESPOSTA:

## Resumo:

<!-- Explique o conceito central do link %[1]s de forma clara e estruturada,
com frases curtas e diretas, sem sacrificar a clareza. -->

## Pontos-chave:

- **[TÍTULO DO PONTO]:** [Descrição objetiva do ponto].
    - **Aplicação prática:** [Explicação de como aplicar (se necessário)].

- **[TÍTULO DO PONTO]:** [Descrição objetiva do ponto].
    - **Aplicação prática:** [Explicação de como aplicar (se necessário)].

- **[TÍTULO DO PONTO]:** [Descrição objetiva do ponto].
    - **Aplicação prática:** [Explicação de como aplicar (se necessário)].

- *(Opcional: até 5 pontos no total)*

---

## Citação do dia:

> "[Texto EXATO da citação mais relevante de %[2]s]"
- [Autor da citação] (se identificado)

---

**IMPORTANTE:**
A saída **deve ser exatamente** como o formato acima. O modelo **NÃO deve alterar a estrutura ou formato**.
`, mainLink, quoteLink)
}
