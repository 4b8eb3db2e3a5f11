package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizarTexto capitaliza cada palavra no padrão de exibição do site.
func NormalizarTexto(texto string) string {
	s := strings.TrimSpace(texto)
	if s == "" {
		return ""
	}
	return cases.Title(language.BrazilianPortuguese).String(strings.ToLower(s))
}

// RemoverAcentos devolve o texto com as marcas diacríticas retiradas.
func RemoverAcentos(texto string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, texto)
	if err != nil {
		return texto
	}
	return out
}

// NormalizarTipoProduto reduz o tipo de anúncio à forma canônica usada nas
// comparações: minúsculas e sem acento ("Variação" -> "variacao").
func NormalizarTipoProduto(tipo string) string {
	return RemoverAcentos(strings.ToLower(strings.TrimSpace(tipo)))
}

// NormalizarChave prepara um texto para servir de chave de agrupamento.
func NormalizarChave(texto string) string {
	return strings.ToUpper(strings.TrimSpace(texto))
}
