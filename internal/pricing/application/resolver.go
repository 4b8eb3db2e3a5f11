package application

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"catalogprep/internal/pricing/domain"
)

// Resultado agrega os custos e preços resolvidos para um código de fabricante.
type Resultado struct {
	CustoFornecedor float64
	CustoFrete      float64
	CustoIPI        float64
	PrecoDe         float64
	PrecoPromocao   float64
	Encontrado      bool
	Detalhe         string
}

// Resolver resolve códigos de fabricante contra a tabela de custos,
// incluindo as formas compostas "2*1090D" e "100/200/300D".
type Resolver struct {
	tabela *domain.Tabela
}

// NovoResolver cria um resolvedor sobre a tabela dada.
func NovoResolver(tabela *domain.Tabela) *Resolver {
	return &Resolver{tabela: tabela}
}

// Resolve despacha o código pela sua forma: kit, multiplicado ou simples.
func (r *Resolver) Resolve(codigo string) Resultado {
	codigo = strings.TrimSpace(codigo)
	if codigo == "" {
		return Resultado{Detalhe: "código de fabricante vazio"}
	}
	switch {
	case strings.Contains(codigo, "/"):
		return r.resolveKit(codigo)
	case strings.Contains(codigo, "*"):
		return r.resolveMultiplicado(codigo)
	default:
		base, tc := domain.ExtrairLinhaTecido(codigo)
		return r.resolveSimples(base, tc)
	}
}

// resolveSimples busca um único código base já separado da linha de tecido.
func (r *Resolver) resolveSimples(base string, tc domain.LinhaTecido) Resultado {
	custo, ok := r.tabela.Get(base, tc)
	if !ok {
		return Resultado{Detalhe: fmt.Sprintf("código %s não encontrado na tabela (linha %s)", base, tc)}
	}

	promocao := custo.PrecoPor
	if promocao <= 0 {
		promocao = custo.PrecoDe
	}
	return Resultado{
		CustoFornecedor: custo.CustoFornecedor,
		CustoFrete:      custo.CustoFrete,
		CustoIPI:        custo.CustoIPI,
		PrecoDe:         custo.PrecoDe,
		PrecoPromocao:   promocao,
		Encontrado:      true,
	}
}

// resolveMultiplicado trata a forma "N*codigo", multiplicando custos e preços.
func (r *Resolver) resolveMultiplicado(codigo string) Resultado {
	partes := strings.SplitN(codigo, "*", 2)
	mult, ok := parseMultiplicador(partes[0])
	if !ok {
		return Resultado{Detalhe: fmt.Sprintf("formato de multiplicador inválido: %s", codigo)}
	}

	base, tc := domain.ExtrairLinhaTecido(strings.TrimSpace(partes[1]))
	res := r.resolveSimples(base, tc)
	if !res.Encontrado {
		return res
	}
	return escalar(res, mult)
}

// resolveKit trata a forma "a/b/cD": a linha de tecido vem do código completo
// e vale para todos os componentes. Componentes inválidos são pulados.
func (r *Resolver) resolveKit(codigo string) Resultado {
	base, tc := domain.ExtrairLinhaTecido(codigo)

	var total Resultado
	var detalhes []string

	for _, componente := range strings.Split(base, "/") {
		componente = strings.TrimSpace(componente)
		if componente == "" {
			continue
		}

		mult := 1.0
		codigoComponente := componente
		if strings.Contains(componente, "*") {
			partes := strings.SplitN(componente, "*", 2)
			m, ok := parseMultiplicador(partes[0])
			if !ok {
				detalhes = append(detalhes, fmt.Sprintf("formato de multiplicador inválido: %s", componente))
				continue
			}
			mult = m
			codigoComponente = strings.TrimSpace(partes[1])
		}

		parcial := r.resolveSimples(codigoComponente, tc)
		if !parcial.Encontrado {
			detalhes = append(detalhes, parcial.Detalhe)
			continue
		}
		parcial = escalar(parcial, mult)

		total.CustoFornecedor += parcial.CustoFornecedor
		total.CustoFrete += parcial.CustoFrete
		total.CustoIPI += parcial.CustoIPI
		total.PrecoDe += parcial.PrecoDe
		total.PrecoPromocao += parcial.PrecoPromocao
		total.Encontrado = true
	}

	total.Detalhe = strings.Join(detalhes, "; ")
	return total
}

// parseMultiplicador aceita multiplicadores inteiros ou fracionários
// ("2", "2.5") maiores que zero.
func parseMultiplicador(token string) (float64, bool) {
	mult, err := strconv.ParseFloat(strings.TrimSpace(token), 64)
	if err != nil || math.IsNaN(mult) || math.IsInf(mult, 0) || mult <= 0 {
		return 0, false
	}
	return mult, true
}

func escalar(r Resultado, fator float64) Resultado {
	r.CustoFornecedor *= fator
	r.CustoFrete *= fator
	r.CustoIPI *= fator
	r.PrecoDe *= fator
	r.PrecoPromocao *= fator
	return r
}
