package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrSemDigitos indica que nenhum dígito restou após a limpeza do token.
var ErrSemDigitos = errors.New("nenhum dígito no valor")

// MetodoArredondamento identifica a estratégia de arredondamento de dimensões.
type MetodoArredondamento string

const (
	ArredondaParaCima  MetodoArredondamento = "ceil"
	ArredondaParaBaixo MetodoArredondamento = "floor"
	ArredondaComum     MetodoArredondamento = "round"
)

// ParseNumeroLocale converte um número em formato pt-BR, US ou simples para float64.
// Quando vírgula e ponto aparecem juntos, o separador que ocorre por último é o decimal.
func ParseNumeroLocale(token string) (float64, error) {
	s := strings.ReplaceAll(token, " ", " ")
	s = strings.TrimSpace(s)

	temVirgula := strings.Contains(s, ",")
	temPonto := strings.Contains(s, ".")

	switch {
	case temVirgula && temPonto:
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case temVirgula:
		s = strings.ReplaceAll(s, ",", ".")
	}

	if !strings.ContainsAny(s, "0123456789") {
		return 0, ErrSemDigitos
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("valor numérico inválido %q: %w", token, err)
	}
	return v, nil
}

// Arredondar aplica o método escolhido com o número de casas decimais dado.
// Métodos desconhecidos caem em ArredondaParaCima.
func Arredondar(v float64, metodo MetodoArredondamento, casas int) float64 {
	fator := math.Pow(10, float64(casas))
	switch metodo {
	case ArredondaParaBaixo:
		return math.Floor(v*fator) / fator
	case ArredondaComum:
		return math.Round(v*fator) / fator
	default:
		return math.Ceil(v*fator) / fator
	}
}

// ParseIntSeguro interpreta inteiros vindos de planilha, inclusive na forma "3.0".
// A palavra "imediata" não é um número e retorna falso, assim como as células
// "nan"/"none" que o exportador deixa em colunas vazias.
func ParseIntSeguro(token string) (int, bool) {
	s := strings.TrimSpace(token)
	if s == "" {
		return 0, false
	}
	switch strings.ToLower(s) {
	case "imediata", "nan", "none":
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return int(v), true
}

// NormalizarEAN remove o sufixo ".0" herdado de planilhas e tudo que não for dígito.
func NormalizarEAN(valor string) string {
	s := strings.TrimSpace(valor)
	if s == "" {
		return ""
	}
	switch strings.ToLower(s) {
	case "nan", "none", "null":
		return ""
	}
	if i := strings.Index(s, "."); i >= 0 && soDigitos(s[:i]) && soZeros(s[i+1:]) {
		s = s[:i]
	}
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func soDigitos(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func soZeros(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r != '0' {
			return false
		}
	}
	return true
}
