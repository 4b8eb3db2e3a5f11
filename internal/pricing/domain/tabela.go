package domain

import (
	"math"
	"strings"
)

// LinhaTecido é a classe de acabamento embutida no sufixo do código do
// fabricante ("1090D" -> linha D). "A+" é a única classe de dois caracteres.
type LinhaTecido string

// LinhaPadrao é usada quando o código não carrega sufixo de linha válido.
const LinhaPadrao LinhaTecido = "C"

var linhasValidas = map[LinhaTecido]struct{}{
	"A+": {}, "A": {}, "B": {}, "C": {}, "D": {},
	"E": {}, "F": {}, "G": {}, "H": {}, "I": {},
}

// LinhaValida informa se o valor é uma classe de acabamento reconhecida.
func LinhaValida(tc LinhaTecido) bool {
	_, ok := linhasValidas[tc]
	return ok
}

// ExtrairLinhaTecido separa um código de fabricante em código base e linha
// de tecido. Sufixo ausente ou inválido cai na linha padrão.
func ExtrairLinhaTecido(codigo string) (string, LinhaTecido) {
	codigo = strings.TrimSpace(codigo)
	if len(codigo) <= 1 {
		return codigo, LinhaPadrao
	}

	maiusculo := strings.ToUpper(codigo)
	if len(codigo) > 2 && strings.HasSuffix(maiusculo, "A+") {
		return codigo[:len(codigo)-2], "A+"
	}

	sufixo := LinhaTecido(maiusculo[len(maiusculo)-1:])
	if sufixo != "A+" && LinhaValida(sufixo) {
		return codigo[:len(codigo)-1], sufixo
	}
	return codigo, LinhaPadrao
}

// Custo é uma entrada da tabela de custos por código base e linha de tecido.
type Custo struct {
	CustoFornecedor float64
	CustoFrete      float64
	CustoIPI        float64
	PrecoDe         float64
	PrecoPor        float64
	Aba             string
}

// Tabela indexa os custos por código base e linha de tecido. Encontros
// repetidos sobrescrevem a entrada anterior e são contabilizados.
type Tabela struct {
	entradas     map[string]map[LinhaTecido]Custo
	sobrescritas int
}

// NovaTabela cria uma tabela de custos vazia.
func NovaTabela() *Tabela {
	return &Tabela{entradas: make(map[string]map[LinhaTecido]Custo)}
}

// Put grava uma entrada, sobrescrevendo qualquer valor anterior.
func (t *Tabela) Put(codigoBase string, tc LinhaTecido, custo Custo) {
	codigoBase = strings.TrimSpace(codigoBase)
	porLinha, ok := t.entradas[codigoBase]
	if !ok {
		porLinha = make(map[LinhaTecido]Custo)
		t.entradas[codigoBase] = porLinha
	}
	if _, existia := porLinha[tc]; existia {
		t.sobrescritas++
	}
	porLinha[tc] = custo
}

// Get busca a entrada para o código base na linha de tecido dada.
func (t *Tabela) Get(codigoBase string, tc LinhaTecido) (Custo, bool) {
	porLinha, ok := t.entradas[strings.TrimSpace(codigoBase)]
	if !ok {
		return Custo{}, false
	}
	custo, ok := porLinha[tc]
	return custo, ok
}

// Len retorna o número de pares (código, linha) carregados.
func (t *Tabela) Len() int {
	n := 0
	for _, porLinha := range t.entradas {
		n += len(porLinha)
	}
	return n
}

// Sobrescritas retorna quantas entradas foram substituídas durante a carga.
func (t *Tabela) Sobrescritas() int {
	return t.sobrescritas
}

// AplicarRegra90Centavos trunca o preço para o inteiro abaixo e fixa os
// centavos em 90. Preços não positivos viram zero.
func AplicarRegra90Centavos(preco float64) float64 {
	if preco <= 0 {
		return 0
	}
	return math.Floor(preco) + 0.90
}
