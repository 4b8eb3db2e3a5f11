package domain

import (
	"strconv"
	"strings"
)

// TipoItem identifica o nível do item dentro da hierarquia do ERP.
type TipoItem string

const (
	TipoPA  TipoItem = "PA"
	TipoKit TipoItem = "KIT"
	TipoPai TipoItem = "PAI"
)

// Regra nomeia cada regra de reclassificação, na ordem em que executam.
type Regra string

const (
	RegraForaDeLinha          Regra = "FORA DE LINHA"
	RegraEstoqueCompartilhado Regra = "ESTOQUE COMPARTILHADO"
	RegraEnvioImediato        Regra = "ENVIO IMEDIATO"
	RegraNenhumGrupo          Regra = "NENHUM GRUPO"
	RegraOutlet               Regra = "OUTLET"
)

// RegrasOrdenadas lista as regras na ordem de execução. A ordem importa:
// regras anteriores travam itens contra alterações das posteriores.
var RegrasOrdenadas = []Regra{
	RegraForaDeLinha,
	RegraEstoqueCompartilhado,
	RegraEnvioImediato,
	RegraNenhumGrupo,
	RegraOutlet,
}

// SemPai marca linhas cujo produto não possui pai no ERP.
const SemPai = "__SEM_PAI__"

// Linha representa uma linha do join PA/KIT/PAI vindo do banco do ERP.
type Linha struct {
	CodbarraProduto   string
	EstoqueProduto    float64
	PrazoProduto      string
	FabricanteProduto string
	NomeGrupo3        string
	GrupoProduto      string

	CodbarraKit   string
	EstoqueKit    float64
	PrazoKit      string
	FabricanteKit string
	GrupoKit      string

	CodbarraPai   string
	PrazoPai      string
	FabricantePai string
	GrupoPai      string
}

// ChavePai devolve a chave de agrupamento por pai, usando a sentinela
// SemPai quando o produto não tem pai cadastrado.
func (l Linha) ChavePai() string {
	if strings.TrimSpace(l.CodbarraPai) == "" {
		return SemPai
	}
	return strings.TrimSpace(l.CodbarraPai)
}

// Grupo3 devolve o nome do grupo3 normalizado (maiúsculas, sem espaços
// nas pontas). O segundo retorno indica se o produto tem grupo3.
func (l Linha) Grupo3() (string, bool) {
	nome := strings.ToUpper(strings.TrimSpace(l.NomeGrupo3))
	if nome == "" {
		return "", false
	}
	return nome, true
}

// Acao acumula as alterações que uma regra decidiu para um item. Campos
// com ponteiro nulo significam "não mexer"; a mesclagem é sempre aditiva.
type Acao struct {
	Regra    Regra
	Tipo     TipoItem
	Codbarra string

	Grupo3              *string
	EstoqueSeguranca    *int
	ProdutoInativo      *string
	DiasEntrega         *int
	SiteDisponibilidade *string

	Marca         string
	Grupo3OrigemPA string
	Mensagens     []string
}

// AplicarPrazo define dias de entrega e disponibilidade numéricas.
func (a *Acao) AplicarPrazo(dias int) {
	a.DiasEntrega = IntPtr(dias)
	a.SiteDisponibilidade = StrPtr(strconv.Itoa(dias))
}

// AplicarImediata define entrega imediata (zero dias).
func (a *Acao) AplicarImediata() {
	a.DiasEntrega = IntPtr(0)
	a.SiteDisponibilidade = StrPtr("IMEDIATA")
}

// Mesclar incorpora outra ação sobre o mesmo item: só preenche campos
// ainda vazios e acrescenta mensagens inéditas. Nunca sobrescreve.
func (a *Acao) Mesclar(outra Acao) {
	if a.Grupo3 == nil {
		a.Grupo3 = outra.Grupo3
	}
	if a.EstoqueSeguranca == nil {
		a.EstoqueSeguranca = outra.EstoqueSeguranca
	}
	if a.ProdutoInativo == nil {
		a.ProdutoInativo = outra.ProdutoInativo
	}
	if a.DiasEntrega == nil {
		a.DiasEntrega = outra.DiasEntrega
	}
	if a.SiteDisponibilidade == nil {
		a.SiteDisponibilidade = outra.SiteDisponibilidade
	}
	if a.Marca == "" {
		a.Marca = outra.Marca
	}
	if a.Grupo3OrigemPA == "" {
		a.Grupo3OrigemPA = outra.Grupo3OrigemPA
	}
	for _, msg := range outra.Mensagens {
		if !contemMensagem(a.Mensagens, msg) {
			a.Mensagens = append(a.Mensagens, msg)
		}
	}
}

func contemMensagem(mensagens []string, msg string) bool {
	for _, m := range mensagens {
		if m == msg {
			return true
		}
	}
	return false
}

// LinhaRelatorio é uma entrada do relatório consolidado de execução.
type LinhaRelatorio struct {
	Planilha string
	Codbarra string
	Tipo     TipoItem
	Marca    string
	Grupo3   string
	Acao     string
}

// IntPtr devolve um ponteiro para o inteiro informado.
func IntPtr(v int) *int { return &v }

// StrPtr devolve um ponteiro para a string informada.
func StrPtr(v string) *string { return &v }
