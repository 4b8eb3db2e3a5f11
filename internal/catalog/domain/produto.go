package domain

import (
	"strings"

	shareddomain "catalogprep/internal/shared/domain"
)

// Tipos de produto reconhecidos na planilha de origem.
const (
	TipoPai      = "pai"
	TipoVariacao = "variacao"
	TipoUnitario = "unitario"
	TipoKit      = "kit"
	TipoFabrica  = "fabrica"
)

// ProdutoOrigem representa uma linha da planilha de origem do fornecedor.
type ProdutoOrigem struct {
	EAN                string
	EANVariacao        string
	CodFornecedor      string
	ComplementoTitulo  string
	Anuncio            string
	TituloCompra       string
	Cat                string
	Grupo              string
	Cor                string
	TipoAnuncio        string
	TipoProduto        string
	Volumes            int
	QtdeVolume         int
	PesoBruto          float64
	Largura            float64
	Altura             float64
	Comprimento        float64
	Prazo              int
	DescricaoHTML      string
	Categoria          string
	NCM                string
	ComplementoProduto string
}

// TipoNormalizado devolve o tipo de produto na forma canônica de comparação.
func (p ProdutoOrigem) TipoNormalizado() string {
	return shareddomain.NormalizarTipoProduto(p.TipoProduto)
}

// Separador informa se a linha é um separador de grupos (EAN em branco).
func (p ProdutoOrigem) Separador() bool {
	return strings.TrimSpace(p.EAN) == ""
}

// PaiVazio detecta o pai usado apenas para amarrar variações: tem EAN, tipo
// pai e complemento, mas no máximo um dos demais campos descritivos.
func (p ProdutoOrigem) PaiVazio() bool {
	if p.TipoNormalizado() != TipoPai {
		return false
	}
	if strings.TrimSpace(p.EAN) == "" || strings.TrimSpace(p.ComplementoProduto) == "" {
		return false
	}

	extras := []string{
		p.ComplementoTitulo,
		p.Anuncio,
		p.TituloCompra,
		p.DescricaoHTML,
		p.Cor,
		p.Cat,
		p.Grupo,
	}
	preenchidos := 0
	for _, campo := range extras {
		valor := strings.TrimSpace(campo)
		if valor == "" {
			continue
		}
		switch strings.ToLower(valor) {
		case "nan", "none":
			continue
		}
		preenchidos++
	}
	return preenchidos <= 1
}

// ProdutoDestino é uma linha da aba PRODUTO da planilha de cadastro.
type ProdutoDestino struct {
	EAN                string
	CodFabricante      string
	Fornecedor         string
	DescNFE            string
	DescCompra         string
	DescEtiqueta       string
	ObsProduto         string
	ComplementoProduto string
	Categoria          string
	Grupo              string
	Cor                string
	DescSite           string
	Marca              string
	NCM                string

	VrCustoTotal  float64
	CustoIPI      float64
	CustoFrete    float64
	PrecoDeVenda  float64
	PrecoPromocao float64

	FabricacaoPropria string
	TipoProduto       string
	ImprimePed        string
	ImprimeComp       string
	ImprimeNF         string
	SiteMarca         string
	UnidadeVenda      string
	UnidadeCompra     string
	ProdutoInativo    string

	DiasGarantia   int
	SiteGarantia   string
	InicioPromocao string
	FimPromocao    string

	QtdeEmbVenda int
	QtdeVolume   int
	PesoBruto    float64
	PesoLiquido  float64
	Largura      float64
	Altura       float64
	Comprimento  float64
	Diametro     float64
	EstoqueMin   int
	EstoqueSeg   int
	DiasEntrega  int

	SiteDisponibilidade int
	DescHTML            string
}

// NovoProdutoDestino devolve uma linha de produto com os valores fixos do
// cadastro D'Rossi preenchidos.
func NovoProdutoDestino() ProdutoDestino {
	return ProdutoDestino{
		Fornecedor:        "D'Rossi",
		Marca:             "D'Rossi",
		NCM:               "94016100",
		FabricacaoPropria: "F",
		TipoProduto:       "0",
		ImprimePed:        "T",
		ImprimeComp:       "T",
		ImprimeNF:         "F",
		SiteMarca:         "D Rossi",
		UnidadeVenda:      "UN",
		UnidadeCompra:     "UN",
		ProdutoInativo:    "F",
		DiasGarantia:      90,
		SiteGarantia:      "90 dias após o recebimento do produto",
		InicioPromocao:    "01/01/2025",
		FimPromocao:       "31/12/2040",
		QtdeEmbVenda:      1,
	}
}

// ProdutoSeparador devolve a linha em branco inserida entre grupos.
func ProdutoSeparador() ProdutoDestino {
	return ProdutoDestino{TipoProduto: "0", FabricacaoPropria: "F"}
}

// VariacaoDestino é uma linha da aba VARIACAO ligando filho a pai.
type VariacaoDestino struct {
	EANFilho string
	EANPai   string
	Cor      string
}

// LojaWebDestino é uma linha da aba LOJA WEB com a hierarquia de categorias.
type LojaWebDestino struct {
	EAN                string
	CodLoja            string
	EnviarSite         string
	DisponibilizarSite string
	SiteLancamento     string
	SiteDestaque       string
	CategoriaPrincipal string
	Nivel1             string
	Nivel2             string
	Nivel3             string
}

// NovaLojaWebDestino devolve uma linha de loja web com os flags padrão.
func NovaLojaWebDestino(ean string) LojaWebDestino {
	return LojaWebDestino{
		EAN:                ean,
		CodLoja:            "1",
		EnviarSite:         "T",
		DisponibilizarSite: "T",
		SiteLancamento:     "F",
		SiteDestaque:       "F",
	}
}

// EANComponenteKit é o componente fixo usado pelo modelo de cadastro de kits.
const EANComponenteKit = "7901017021596"

// KitDestino é uma linha da aba KIT.
type KitDestino struct {
	EANKit        string
	EANComponente string
	Quantidade    int
	CustoKit      float64
	DescVenda     float64
}

// LimparAnuncio remove o sufixo de marca do título do anúncio.
func LimparAnuncio(anuncio string) string {
	return strings.TrimSpace(strings.ReplaceAll(anuncio, " - D'Rossi", ""))
}
