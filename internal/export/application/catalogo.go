package application

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	catalogapp "catalogprep/internal/catalog/application"
	"catalogprep/internal/export/domain"
	sharedinfra "catalogprep/internal/shared/infrastructure"
)

// CatalogExportService grava as quatro abas da planilha de cadastro em
// arquivos CSV dentro de um diretório de execução.
type CatalogExportService struct {
	workerPool *sharedinfra.WorkerPool
	batchSize  int
}

// NewCatalogExportService cria o serviço com um pool de quatro workers,
// um por aba.
func NewCatalogExportService() *CatalogExportService {
	wp := sharedinfra.NewWorkerPool(4)
	wp.Start()

	return &CatalogExportService{
		workerPool: wp,
		batchSize:  1000,
	}
}

// Exportar escreve os quatro arquivos da saída do processamento no
// diretório indicado, criando-o se preciso. As abas são gravadas em
// paralelo e o retorno lista os caminhos gerados.
func (s *CatalogExportService) Exportar(dir string, saida catalogapp.Saida) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("criar diretório de saída: %w", err)
	}

	tarefas := []struct {
		arquivo   string
		cabecalho []string
		linhas    func() [][]string
	}{
		{domain.ArquivoProduto, domain.CabecalhoProduto(), func() [][]string {
			linhas := make([][]string, 0, len(saida.Produtos))
			for _, p := range saida.Produtos {
				linhas = append(linhas, domain.LinhaProduto(p))
			}
			return linhas
		}},
		{domain.ArquivoVariacao, domain.CabecalhoVariacao(), func() [][]string {
			linhas := make([][]string, 0, len(saida.Variacoes))
			for _, v := range saida.Variacoes {
				linhas = append(linhas, domain.LinhaVariacao(v))
			}
			return linhas
		}},
		{domain.ArquivoLojaWeb, domain.CabecalhoLojaWeb(), func() [][]string {
			linhas := make([][]string, 0, len(saida.LojaWeb))
			for _, l := range saida.LojaWeb {
				linhas = append(linhas, domain.LinhaLojaWeb(l))
			}
			return linhas
		}},
		{domain.ArquivoKit, domain.CabecalhoKit(), func() [][]string {
			linhas := make([][]string, 0, len(saida.Kits))
			for _, k := range saida.Kits {
				linhas = append(linhas, domain.LinhaKit(k))
			}
			return linhas
		}},
	}

	caminhos := make([]string, len(tarefas))
	concluidas := make(chan error, len(tarefas))

	for i, tarefa := range tarefas {
		i, tarefa := i, tarefa
		caminho := filepath.Join(dir, tarefa.arquivo)
		caminhos[i] = caminho

		err := s.workerPool.Submit(func() error {
			if err := s.escreverCSV(caminho, tarefa.cabecalho, tarefa.linhas()); err != nil {
				concluidas <- fmt.Errorf("escrever %s: %w", tarefa.arquivo, err)
				return nil
			}
			concluidas <- nil
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	for range tarefas {
		if err := <-concluidas; err != nil {
			return nil, err
		}
	}
	return caminhos, nil
}

// escreverCSV monta a aba inteira em memória e grava de uma vez, com
// flush periódico do writer para limitar o buffer interno.
func (s *CatalogExportService) escreverCSV(caminho string, cabecalho []string, linhas [][]string) error {
	buffer := bytes.NewBuffer(make([]byte, 0, 1024*1024))
	writer := csv.NewWriter(buffer)
	writer.Comma = ';'

	if err := writer.Write(cabecalho); err != nil {
		return err
	}
	for i, linha := range linhas {
		if err := writer.Write(linha); err != nil {
			return err
		}
		if (i+1)%s.batchSize == 0 {
			writer.Flush()
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	return os.WriteFile(caminho, buffer.Bytes(), 0o644)
}

// Cleanup libera o pool de workers.
func (s *CatalogExportService) Cleanup() {
	if s.workerPool != nil {
		s.workerPool.Stop()
	}
}
