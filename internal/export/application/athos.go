package application

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	athosapp "catalogprep/internal/athos/application"
	athosdomain "catalogprep/internal/athos/domain"
	"catalogprep/internal/export/domain"
)

// AthosExportService grava as planilhas de atualização do ERP e o
// relatório consolidado de uma execução do motor de regras.
type AthosExportService struct{}

// NewAthosExportService cria o serviço de exportação do Athos.
func NewAthosExportService() *AthosExportService {
	return &AthosExportService{}
}

// Exportar escreve, no diretório indicado, um CSV de atualização por
// regra que produziu ações e o relatório consolidado em CSV e Parquet.
// Devolve os caminhos gerados na ordem das regras.
func (s *AthosExportService) Exportar(dir string, saida athosapp.Saida) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("criar diretório de saída: %w", err)
	}

	var gerados []string
	for _, regra := range athosdomain.RegrasOrdenadas {
		acoes := saida.AcoesPorRegra[regra]
		if len(acoes) == 0 {
			continue
		}
		caminho := filepath.Join(dir, domain.ArquivoPorRegra[regra])
		linhas := make([][]string, 0, len(acoes))
		for _, a := range acoes {
			linhas = append(linhas, domain.LinhaAtualizacao(a))
		}
		if err := escreverCSV(caminho, domain.CabecalhoAtualizacao(), linhas); err != nil {
			return nil, fmt.Errorf("escrever %s: %w", domain.ArquivoPorRegra[regra], err)
		}
		gerados = append(gerados, caminho)
	}

	relatorioCSV := filepath.Join(dir, domain.ArquivoRelatorio+".csv")
	linhas := make([][]string, 0, len(saida.Relatorio))
	for _, r := range saida.Relatorio {
		linhas = append(linhas, domain.LinhaRelatorio(r))
	}
	if err := escreverCSV(relatorioCSV, domain.CabecalhoRelatorio(), linhas); err != nil {
		return nil, fmt.Errorf("escrever relatório: %w", err)
	}
	gerados = append(gerados, relatorioCSV)

	relatorioParquet := filepath.Join(dir, domain.ArquivoRelatorio+".parquet")
	if err := s.escreverRelatorioParquet(relatorioParquet, saida.Relatorio); err != nil {
		return nil, fmt.Errorf("escrever relatório parquet: %w", err)
	}
	gerados = append(gerados, relatorioParquet)

	return gerados, nil
}

func (s *AthosExportService) escreverRelatorioParquet(caminho string, relatorio []athosdomain.LinhaRelatorio) error {
	fw, err := local.NewLocalFileWriter(caminho)
	if err != nil {
		return err
	}
	defer fw.Close()

	pw, err := writer.NewParquetWriter(fw, new(domain.RelatorioParquet), 2)
	if err != nil {
		return err
	}
	pw.RowGroupSize = 16 * 1024 * 1024
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, r := range relatorio {
		if err := pw.Write(domain.NovoRelatorioParquet(r)); err != nil {
			return err
		}
	}
	return pw.WriteStop()
}

func escreverCSV(caminho string, cabecalho []string, linhas [][]string) error {
	buffer := bytes.NewBuffer(make([]byte, 0, 64*1024))
	w := csv.NewWriter(buffer)
	w.Comma = ';'

	if err := w.Write(cabecalho); err != nil {
		return err
	}
	for _, linha := range linhas {
		if err := w.Write(linha); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return os.WriteFile(caminho, buffer.Bytes(), 0o644)
}
