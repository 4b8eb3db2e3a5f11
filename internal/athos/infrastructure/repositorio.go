package infrastructure

import (
	"database/sql"
	"fmt"

	"catalogprep/internal/athos/domain"
	shareddomain "catalogprep/internal/shared/domain"
	"catalogprep/internal/shared/infrastructure"
)

// consultaLinhas monta o join PA -> KIT -> PAI do ERP. Não filtra por
// grupo3: o motor de regras decide o destino de cada linha. O estoque
// real de um kit é o menor número de kits montáveis entre os componentes,
// já descontadas as reservas de pedido.
const consultaLinhas = `
WITH reserva AS (
  SELECT
    pr.codprod,
    SUM(COALESCE(pr.qtdepedido, 0)) AS qtde_reservada
  FROM produto_reserva pr
  GROUP BY pr.codprod
),

base_kit AS (
  SELECT
    pk.codprod AS codigo_kit,
    pk.codbarra AS codbarra_kit,
    CASE
      WHEN COALESCE(k.qtde, 0) <= 0 THEN 0
      WHEN (COALESCE(c.estatual, 0) - COALESCE(r.qtde_reservada, 0)) < 1 THEN 0
      ELSE CAST(FLOOR(
        (COALESCE(c.estatual, 0) - COALESCE(r.qtde_reservada, 0)) / k.qtde
      ) AS INTEGER)
    END AS kits_possiveis_componente
  FROM kit_produtos k
  INNER JOIN produtos pk ON pk.codprod = k.codigo
  INNER JOIN produtos c ON c.codprod = k.produto
  LEFT JOIN reserva r ON r.codprod = c.codprod
  WHERE pk.inativo = 'F'
),

estoque_kit AS (
  SELECT
    codbarra_kit,
    MIN(kits_possiveis_componente) AS estoque_real_kit
  FROM base_kit
  GROUP BY codbarra_kit
)

SELECT
  pa.codbarra                    AS codbarra_produto,
  COALESCE(pa.estatual, 0)       AS estoque_real_produto,
  pa.site_disponibilidade        AS prazo_produto,
  fpa.descrfabricante            AS fabricante_produto,
  g3pa.descricao                 AS nome_grupo3,
  gpa.descricao                  AS grupo_produto,

  kit.codbarra                   AS codbarra_kit,
  COALESCE(ek.estoque_real_kit, 0) AS estoque_real_kit,
  kit.site_disponibilidade       AS prazo_kit,
  fkit.descrfabricante           AS fabricante_kit,
  gkit.descricao                 AS grupo_kit,

  pai.codbarra                   AS codbarra_pai,
  pai.site_disponibilidade       AS prazo_pai,
  fpai.descrfabricante           AS fabricante_pai,
  gpai.descricao                 AS grupo_pai

FROM produtos pa

LEFT JOIN grupos3 g3pa ON g3pa.codigo = pa.grupo3
LEFT JOIN grupos gpa ON gpa.codigo = pa.grupo
LEFT JOIN fabricantes fpa ON fpa.fabricante = pa.fabricante

LEFT JOIN kit_produtos kp ON kp.produto = pa.codprod
LEFT JOIN produtos kit ON kit.codprod = kp.codigo AND kit.inativo = 'F'
LEFT JOIN estoque_kit ek ON ek.codbarra_kit = kit.codbarra
LEFT JOIN fabricantes fkit ON fkit.fabricante = kit.fabricante
LEFT JOIN grupos gkit ON gkit.codigo = kit.grupo

LEFT JOIN produto_pai_filho ppf ON ppf.codprodfilho = kit.codprod
LEFT JOIN produtos pai ON pai.codprod = ppf.codprodpai AND pai.inativo = 'F'
LEFT JOIN fabricantes fpai ON fpai.fabricante = pai.fabricante
LEFT JOIN grupos gpai ON gpai.codigo = pai.grupo

WHERE pa.inativo = 'F'

ORDER BY pa.codbarra, kit.codbarra
`

// LinhaRepository lê do banco do ERP as linhas que alimentam o motor de
// regras.
type LinhaRepository struct {
	infrastructure.BaseRepository
}

// NewLinhaRepository cria o repositório sobre a conexão dada.
func NewLinhaRepository(db *sql.DB) *LinhaRepository {
	return &LinhaRepository{
		BaseRepository: infrastructure.NewBaseRepository(db),
	}
}

// Todas devolve todas as linhas ativas do join PA/KIT/PAI, na ordem dos
// códigos de barras.
func (r *LinhaRepository) Todas() ([]domain.Linha, error) {
	rows, err := r.Query(consultaLinhas)
	if err != nil {
		return nil, fmt.Errorf("consultar linhas do ERP: %w", err)
	}
	defer rows.Close()

	var linhas []domain.Linha
	for rows.Next() {
		var (
			codProduto, prazoProduto, fabProduto, grupo3, grupoProduto sql.NullString
			estoqueProduto, estoqueKit                                 sql.NullFloat64
			codKit, prazoKit, fabKit, grupoKit                         sql.NullString
			codPai, prazoPai, fabPai, grupoPai                         sql.NullString
		)
		if err := rows.Scan(
			&codProduto, &estoqueProduto, &prazoProduto, &fabProduto, &grupo3, &grupoProduto,
			&codKit, &estoqueKit, &prazoKit, &fabKit, &grupoKit,
			&codPai, &prazoPai, &fabPai, &grupoPai,
		); err != nil {
			return nil, fmt.Errorf("ler linha do ERP: %w", err)
		}
		linhas = append(linhas, domain.Linha{
			CodbarraProduto:   shareddomain.NormalizarEAN(codProduto.String),
			EstoqueProduto:    estoqueProduto.Float64,
			PrazoProduto:      prazoProduto.String,
			FabricanteProduto: texto(fabProduto),
			NomeGrupo3:        texto(grupo3),
			GrupoProduto:      texto(grupoProduto),

			CodbarraKit:   shareddomain.NormalizarEAN(codKit.String),
			EstoqueKit:    estoqueKit.Float64,
			PrazoKit:      prazoKit.String,
			FabricanteKit: texto(fabKit),
			GrupoKit:      texto(grupoKit),

			CodbarraPai:   shareddomain.NormalizarEAN(codPai.String),
			PrazoPai:      prazoPai.String,
			FabricantePai: texto(fabPai),
			GrupoPai:      texto(grupoPai),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("percorrer linhas do ERP: %w", err)
	}
	return linhas, nil
}

func texto(v sql.NullString) string {
	if !v.Valid {
		return ""
	}
	return v.String
}
