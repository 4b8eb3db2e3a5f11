package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	cubingdomain "catalogprep/internal/cubing/domain"
	shareddomain "catalogprep/internal/shared/domain"
)

// Modos de precificação reconhecidos no perfil.
const (
	ModoFabrica    = "Fábrica"
	ModoFornecedor = "Fornecedor"
)

// Cubagem parametriza a consolidação de embalagens no perfil.
type Cubagem struct {
	ComprimentoFixoCm   float64 `yaml:"comprimento_fixo_cm"`
	Metodo              string  `yaml:"metodo_arredondamento"`
	CasasDecimais       int     `yaml:"casas_decimais"`
	FolgaCm             float64 `yaml:"folga_cm"`
	FolgaNoComprimento  bool    `yaml:"folga_no_comprimento"`
	FatorCubagemKgPorM3 float64 `yaml:"fator_cubagem_kg_m3"`
}

// Athos reúne os caminhos e a conexão usados no modo de reclassificação.
type Athos struct {
	DSN             string `yaml:"dsn"`
	WhitelistCSV    string `yaml:"whitelist_csv"`
	DiretorioSaida  string `yaml:"diretorio_saida"`
	BancoFornecedor string `yaml:"banco_fornecedores"`
}

// Perfil é a configuração de uma rodada de preparação de catálogo.
type Perfil struct {
	ModoPrecificacao       string  `yaml:"modo_precificacao"`
	PrecificacaoAutomatica bool    `yaml:"precificacao_automatica"`
	Regra90Centavos        bool    `yaml:"regra_90_centavos"`
	MarcaPadrao            string  `yaml:"marca_padrao"`
	CodigoFornecedor       int64   `yaml:"codigo_fornecedor"`
	PrazoExcecaoAtivo      bool    `yaml:"prazo_excecao_ativo"`
	PrazoExcecaoDias       int     `yaml:"prazo_excecao_dias"`
	Cubagem                Cubagem `yaml:"cubagem"`

	PlanilhaOrigem  string `yaml:"planilha_origem"`
	PastaCustos     string `yaml:"pasta_custos"`
	CategoriasJSON  string `yaml:"categorias_json"`
	BancoFornecedor string `yaml:"banco_fornecedores"`
	DiretorioSaida  string `yaml:"diretorio_saida"`

	Athos Athos `yaml:"athos"`
}

// PerfilPadrao devolve um perfil utilizável sem arquivo: modo Fornecedor,
// sem precificação automática e cubagem nos parâmetros de operação.
func PerfilPadrao() Perfil {
	return Perfil{
		ModoPrecificacao: ModoFornecedor,
		Cubagem: Cubagem{
			ComprimentoFixoCm:   101,
			Metodo:              string(shareddomain.ArredondaParaCima),
			FatorCubagemKgPorM3: 300,
		},
	}
}

// Carregar lê o perfil YAML do caminho dado, sobre os padrões. Caminho vazio
// devolve o perfil padrão.
func Carregar(caminho string) (Perfil, error) {
	perfil := PerfilPadrao()
	if caminho == "" {
		return perfil, nil
	}

	dados, err := os.ReadFile(caminho)
	if err != nil {
		return Perfil{}, err
	}
	if err := yaml.Unmarshal(dados, &perfil); err != nil {
		return Perfil{}, fmt.Errorf("perfil %s: %w", caminho, err)
	}
	if err := perfil.Validar(); err != nil {
		return Perfil{}, fmt.Errorf("perfil %s: %w", caminho, err)
	}
	return perfil, nil
}

// Validar confere os campos cujo valor errado mudaria o resultado em silêncio.
func (p Perfil) Validar() error {
	switch p.ModoPrecificacao {
	case ModoFabrica, ModoFornecedor:
	default:
		return fmt.Errorf("modo de precificação desconhecido: %q", p.ModoPrecificacao)
	}
	switch shareddomain.MetodoArredondamento(p.Cubagem.Metodo) {
	case shareddomain.ArredondaParaCima, shareddomain.ArredondaParaBaixo, shareddomain.ArredondaComum, "":
	default:
		return fmt.Errorf("método de arredondamento desconhecido: %q", p.Cubagem.Metodo)
	}
	if p.PrazoExcecaoDias < 0 {
		return fmt.Errorf("prazo de exceção negativo: %d", p.PrazoExcecaoDias)
	}
	return nil
}

// ModoFabricaAtivo informa se as regras da linha Fábrica se aplicam: modo
// Fábrica com precificação automática, ou marca padrão dmov.
func (p Perfil) ModoFabricaAtivo() bool {
	if p.PrecificacaoAutomatica && p.ModoPrecificacao == ModoFabrica {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(p.MarcaPadrao), "dmov")
}

// OpcoesCubagem converte os parâmetros do perfil para as opções do motor.
func (p Perfil) OpcoesCubagem() cubingdomain.Opcoes {
	return cubingdomain.Opcoes{
		ComprimentoFixoCm:   p.Cubagem.ComprimentoFixoCm,
		Metodo:              shareddomain.MetodoArredondamento(p.Cubagem.Metodo),
		CasasDecimais:       p.Cubagem.CasasDecimais,
		FolgaCm:             p.Cubagem.FolgaCm,
		FolgaNoComprimento:  p.Cubagem.FolgaNoComprimento,
		FatorCubagemKgPorM3: p.Cubagem.FatorCubagemKgPorM3,
	}
}
