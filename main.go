package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"

	athosapp "catalogprep/internal/athos/application"
	athosdomain "catalogprep/internal/athos/domain"
	athosinfra "catalogprep/internal/athos/infrastructure"
	catalogapp "catalogprep/internal/catalog/application"
	catalogdomain "catalogprep/internal/catalog/domain"
	cataloginfra "catalogprep/internal/catalog/infrastructure"
	"catalogprep/database"
	"catalogprep/internal/config"
	exportapp "catalogprep/internal/export/application"
	pricingapp "catalogprep/internal/pricing/application"
	pricinginfra "catalogprep/internal/pricing/infrastructure"
)

func main() {
	var (
		modo         = flag.String("mode", "catalog", "modo de execução: catalog ou athos")
		perfilPath   = flag.String("perfil", "", "arquivo YAML com o perfil de precificação")
		planilha     = flag.String("planilha", "", "planilha de origem do fornecedor (CSV)")
		custos       = flag.String("custos", "", "pasta com as planilhas de custos")
		categorias   = flag.String("categorias", "", "arquivo JSON com a árvore de categorias")
		fornecedores = flag.String("fornecedores", "", "banco SQLite de fornecedores")
		saidaDir     = flag.String("saida", "", "diretório de saída")
		whitelist    = flag.String("whitelist", "", "whitelist de EANs do envio imediato (CSV ou TXT)")
	)
	flag.Parse()

	_ = godotenv.Load()

	perfil, err := config.Carregar(*perfilPath)
	if err != nil {
		log.Fatalf("carregar perfil: %v", err)
	}
	aplicarFlags(&perfil, *planilha, *custos, *categorias, *fornecedores, *saidaDir, *whitelist)

	switch *modo {
	case "catalog":
		if err := executarCatalogo(perfil); err != nil {
			log.Fatalf("processamento do catálogo: %v", err)
		}
	case "athos":
		if err := executarAthos(perfil); err != nil {
			log.Fatalf("execução do athos: %v", err)
		}
	default:
		log.Fatalf("modo desconhecido: %q (use catalog ou athos)", *modo)
	}
}

// aplicarFlags sobrepõe os caminhos do perfil com os passados na linha
// de comando.
func aplicarFlags(perfil *config.Perfil, planilha, custos, categorias, fornecedores, saida, whitelist string) {
	if planilha != "" {
		perfil.PlanilhaOrigem = planilha
	}
	if custos != "" {
		perfil.PastaCustos = custos
	}
	if categorias != "" {
		perfil.CategoriasJSON = categorias
	}
	if fornecedores != "" {
		perfil.BancoFornecedor = fornecedores
	}
	if saida != "" {
		perfil.DiretorioSaida = saida
	}
	if whitelist != "" {
		perfil.Athos.WhitelistCSV = whitelist
	}
	if perfil.DiretorioSaida == "" {
		perfil.DiretorioSaida = "saida"
	}
}

func executarCatalogo(perfil config.Perfil) error {
	if perfil.PlanilhaOrigem == "" {
		return fmt.Errorf("planilha de origem não informada (-planilha)")
	}

	produtos, err := cataloginfra.LerPlanilhaOrigem(perfil.PlanilhaOrigem)
	if err != nil {
		return fmt.Errorf("ler planilha de origem: %w", err)
	}
	log.Printf("planilha de origem lida: %d linhas", len(produtos))

	var resolver *pricingapp.Resolver
	if perfil.PrecificacaoAutomatica && perfil.PastaCustos != "" {
		tabela, resumo, err := pricinginfra.CarregarPastaCustos(perfil.PastaCustos, perfil.ModoFabricaAtivo())
		if err != nil {
			return fmt.Errorf("carregar custos: %w", err)
		}
		log.Printf("custos carregados: %d entradas de %d abas", resumo.Entradas, resumo.Abas)
		resolver = pricingapp.NovoResolver(tabela)
	}

	var arvore *catalogdomain.ArvoreCategorias
	if perfil.CategoriasJSON != "" {
		arvore, err = cataloginfra.CarregarCategorias(perfil.CategoriasJSON)
		if err != nil {
			return fmt.Errorf("carregar categorias: %w", err)
		}
	}

	var busca catalogapp.BuscaFornecedores
	if perfil.BancoFornecedor != "" {
		repo, err := cataloginfra.AbrirRepositorioFornecedores(perfil.BancoFornecedor)
		if err != nil {
			return fmt.Errorf("abrir banco de fornecedores: %w", err)
		}
		defer repo.Close()
		busca = repo
	}

	assembler := catalogapp.NovoAssembler(perfil, resolver, arvore, busca)

	barra := progressbar.NewOptions(100,
		progressbar.OptionSetDescription("processando catálogo"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	assembler.Progresso = func(fracao float64) {
		_ = barra.Set(int(fracao * 100))
	}

	saida := assembler.Processar(context.Background(), produtos)

	dir := filepath.Join(perfil.DiretorioSaida, saida.Resultado.RunID)
	servico := exportapp.NewCatalogExportService()
	defer servico.Cleanup()

	caminhos, err := servico.Exportar(dir, saida)
	if err != nil {
		return fmt.Errorf("exportar planilhas: %w", err)
	}

	fmt.Printf("\nExecução %s concluída em %s\n", saida.Resultado.RunID, saida.Resultado.Duracao)
	fmt.Printf("  produtos:  %d\n", saida.Resultado.TotalProdutos)
	fmt.Printf("  variações: %d\n", saida.Resultado.TotalVariacoes)
	fmt.Printf("  loja web:  %d\n", saida.Resultado.TotalLojaWeb)
	fmt.Printf("  kits:      %d\n", saida.Resultado.TotalKits)
	for _, caminho := range caminhos {
		fmt.Printf("  arquivo:   %s\n", caminho)
	}
	for _, aviso := range saida.Resultado.Avisos {
		log.Printf("aviso: %s", aviso)
	}
	for _, erro := range saida.Resultado.Erros {
		log.Printf("erro: %s", erro)
	}
	if !saida.Resultado.Sucesso {
		os.Exit(1)
	}
	return nil
}

func executarAthos(perfil config.Perfil) error {
	if perfil.Athos.DSN == "" {
		perfil.Athos.DSN = os.Getenv("DATABASE_URL")
	}
	if perfil.Athos.DSN == "" {
		return fmt.Errorf("DSN do banco do ERP não informada (perfil ou DATABASE_URL)")
	}
	if perfil.Athos.WhitelistCSV == "" {
		return fmt.Errorf("whitelist de imediatos não informada (-whitelist)")
	}

	if err := database.Init(perfil.Athos.DSN); err != nil {
		return fmt.Errorf("conectar ao banco do ERP: %w", err)
	}
	defer database.Close()

	wl, err := athosinfra.CarregarWhitelist(perfil.Athos.WhitelistCSV)
	if err != nil {
		return err
	}
	log.Printf("whitelist carregada: %d EANs válidos (%d duplicados, %d inválidos)",
		wl.Validos, wl.DuplicadosIgnorados, wl.InvalidosIgnorados)

	linhas, err := athosinfra.NewLinhaRepository(database.DB).Todas()
	if err != nil {
		return err
	}
	log.Printf("linhas do ERP: %d", len(linhas))

	var consulta athosapp.ConsultaPrazo
	bancoFornecedor := perfil.Athos.BancoFornecedor
	if bancoFornecedor == "" {
		bancoFornecedor = perfil.BancoFornecedor
	}
	if bancoFornecedor != "" {
		repo, err := cataloginfra.AbrirRepositorioFornecedores(bancoFornecedor)
		if err != nil {
			return fmt.Errorf("abrir banco de fornecedores: %w", err)
		}
		defer repo.Close()
		consulta = func(marca string) (int, bool) {
			f, achou, err := repo.BuscarPorNome(context.Background(), marca)
			if err != nil || !achou {
				return 0, false
			}
			return f.PrazoDias, true
		}
	}

	saida := athosapp.NovoEngine(wl.EANs, consulta).Processar(linhas)

	saidaDir := perfil.Athos.DiretorioSaida
	if saidaDir == "" {
		saidaDir = perfil.DiretorioSaida
	}
	dir := filepath.Join(saidaDir, uuid.NewString())
	gerados, err := exportapp.NewAthosExportService().Exportar(dir, saida)
	if err != nil {
		return err
	}

	fmt.Println("\nExecução do Athos concluída")
	total := 0
	for _, regra := range athosdomain.RegrasOrdenadas {
		acoes := saida.AcoesPorRegra[regra]
		fmt.Printf("  %-22s %d ações\n", regra, len(acoes))
		total += len(acoes)
	}
	fmt.Printf("  total: %d ações, %d linhas de relatório\n", total, len(saida.Relatorio))
	for _, caminho := range gerados {
		fmt.Printf("  arquivo: %s\n", caminho)
	}
	return nil
}
