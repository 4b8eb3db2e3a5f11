package database

import (
	"fmt"
)

// esquemaERP cria as tabelas mínimas do espelho do ERP usadas pelo
// motor de regras. Os nomes seguem o banco de origem.
const esquemaERP = `
CREATE TABLE IF NOT EXISTS fabricantes (
	fabricante       SERIAL PRIMARY KEY,
	descrfabricante  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS grupos (
	codigo     SERIAL PRIMARY KEY,
	descricao  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS grupos3 (
	codigo     SERIAL PRIMARY KEY,
	descricao  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS produtos (
	codprod              SERIAL PRIMARY KEY,
	codbarra             TEXT NOT NULL,
	estatual             NUMERIC(18,4) DEFAULT 0,
	site_disponibilidade TEXT,
	inativo              CHAR(1) NOT NULL DEFAULT 'F',
	fabricante           INTEGER REFERENCES fabricantes(fabricante),
	grupo                INTEGER REFERENCES grupos(codigo),
	grupo3               INTEGER REFERENCES grupos3(codigo)
);

CREATE TABLE IF NOT EXISTS kit_produtos (
	codigo   INTEGER NOT NULL REFERENCES produtos(codprod),
	produto  INTEGER NOT NULL REFERENCES produtos(codprod),
	qtde     NUMERIC(18,4) NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS produto_pai_filho (
	codprodpai   INTEGER NOT NULL REFERENCES produtos(codprod),
	codprodfilho INTEGER NOT NULL REFERENCES produtos(codprod)
);

CREATE TABLE IF NOT EXISTS produto_reserva (
	codprod     INTEGER NOT NULL REFERENCES produtos(codprod),
	qtdepedido  NUMERIC(18,4) NOT NULL DEFAULT 0
);
`

// CreateSchema cria as tabelas do espelho do ERP, se ainda não existem.
func CreateSchema() error {
	_, err := DB.Exec(esquemaERP)
	return err
}

// SeedDatabase cria o esquema e carrega uma amostra pequena cobrindo os
// cinco grupos3 tratados pelas regras.
func SeedDatabase() error {
	fmt.Println("🌱 Criando esquema do espelho do ERP...")
	if err := CreateSchema(); err != nil {
		return fmt.Errorf("criar esquema: %w", err)
	}

	fmt.Println("🌱 Carregando dados de amostra...")
	fabricantes, err := seedFabricantes()
	if err != nil {
		return fmt.Errorf("carregar fabricantes: %w", err)
	}
	grupos, err := seedGrupos()
	if err != nil {
		return fmt.Errorf("carregar grupos: %w", err)
	}
	grupos3, err := seedGrupos3()
	if err != nil {
		return fmt.Errorf("carregar grupos3: %w", err)
	}
	if err := seedProdutos(fabricantes, grupos, grupos3); err != nil {
		return fmt.Errorf("carregar produtos: %w", err)
	}

	if _, err := DB.Exec("ANALYZE"); err != nil {
		fmt.Println("⚠️ Falha ao analisar tabelas:", err)
	}
	fmt.Println("✅ Amostra carregada")
	return nil
}

func seedFabricantes() (map[string]int, error) {
	nomes := []string{"DMOV", "DMOV2", "KONFORT", "HERVAL", "MOVEIS VILA RICA", "LUMIL"}
	ids := make(map[string]int, len(nomes))
	for _, nome := range nomes {
		var id int
		err := DB.QueryRow(`
			INSERT INTO fabricantes (descrfabricante)
			VALUES ($1)
			RETURNING fabricante
		`, nome).Scan(&id)
		if err != nil {
			return nil, err
		}
		ids[nome] = id
	}
	return ids, nil
}

func seedGrupos() (map[string]int, error) {
	nomes := []string{"10", "15", "SOFAS"}
	ids := make(map[string]int, len(nomes))
	for _, nome := range nomes {
		var id int
		err := DB.QueryRow(`
			INSERT INTO grupos (descricao)
			VALUES ($1)
			RETURNING codigo
		`, nome).Scan(&id)
		if err != nil {
			return nil, err
		}
		ids[nome] = id
	}
	return ids, nil
}

func seedGrupos3() (map[string]int, error) {
	nomes := []string{"FORA DE LINHA", "ESTOQUE COMPARTILHADO", "ENVIO IMEDIATO", "OUTLET"}
	ids := make(map[string]int, len(nomes))
	for _, nome := range nomes {
		var id int
		err := DB.QueryRow(`
			INSERT INTO grupos3 (descricao)
			VALUES ($1)
			RETURNING codigo
		`, nome).Scan(&id)
		if err != nil {
			return nil, err
		}
		ids[nome] = id
	}
	return ids, nil
}

// seedProdutos cria um conjunto pequeno de PAs, um kit e um pai, com um
// representante de cada grupo3 e um produto sem grupo3.
func seedProdutos(fabricantes, grupos, grupos3 map[string]int) error {
	inserir := func(codbarra string, estoque float64, prazo string, fabricante, grupo, grupo3 *int) (int, error) {
		var id int
		err := DB.QueryRow(`
			INSERT INTO produtos (codbarra, estatual, site_disponibilidade, inativo, fabricante, grupo, grupo3)
			VALUES ($1, $2, $3, 'F', $4, $5, $6)
			RETURNING codprod
		`, codbarra, estoque, prazo, fabricante, grupo, grupo3).Scan(&id)
		return id, err
	}
	ref := func(m map[string]int, chave string) *int {
		if id, ok := m[chave]; ok {
			return &id
		}
		return nil
	}

	// PA fora de linha sem estoque
	if _, err := inserir("7890000000101", 0, "20",
		ref(fabricantes, "HERVAL"), ref(grupos, "SOFAS"), ref(grupos3, "FORA DE LINHA")); err != nil {
		return err
	}

	// PA de estoque compartilhado com kit e pai
	pa, err := inserir("7890000000201", 4, "15",
		ref(fabricantes, "LUMIL"), ref(grupos, "10"), ref(grupos3, "ESTOQUE COMPARTILHADO"))
	if err != nil {
		return err
	}
	componente, err := inserir("7890000000202", 8, "",
		ref(fabricantes, "LUMIL"), ref(grupos, "10"), nil)
	if err != nil {
		return err
	}
	kit, err := inserir("7890000000203", 0, "",
		ref(fabricantes, "LUMIL"), ref(grupos, "10"), nil)
	if err != nil {
		return err
	}
	pai, err := inserir("7890000000204", 0, "",
		ref(fabricantes, "LUMIL"), ref(grupos, "10"), nil)
	if err != nil {
		return err
	}
	if _, err := DB.Exec(`INSERT INTO kit_produtos (codigo, produto, qtde) VALUES ($1, $2, 2)`, kit, componente); err != nil {
		return err
	}
	if _, err := DB.Exec(`INSERT INTO kit_produtos (codigo, produto, qtde) VALUES ($1, $2, 1)`, kit, pa); err != nil {
		return err
	}
	if _, err := DB.Exec(`INSERT INTO produto_pai_filho (codprodpai, codprodfilho) VALUES ($1, $2)`, pai, kit); err != nil {
		return err
	}
	if _, err := DB.Exec(`INSERT INTO produto_reserva (codprod, qtdepedido) VALUES ($1, 2)`, componente); err != nil {
		return err
	}

	// PA de envio imediato com estoque
	if _, err := inserir("7890000000301", 6, "Imediata",
		ref(fabricantes, "KONFORT"), ref(grupos, "10"), ref(grupos3, "ENVIO IMEDIATO")); err != nil {
		return err
	}

	// PA do outlet sem estoque
	if _, err := inserir("7890000000401", 0, "10",
		ref(fabricantes, "DMOV"), ref(grupos, "15"), ref(grupos3, "OUTLET")); err != nil {
		return err
	}

	// PA sem grupo3
	if _, err := inserir("7890000000501", 3, "7",
		ref(fabricantes, "HERVAL"), ref(grupos, "SOFAS"), nil); err != nil {
		return err
	}

	return nil
}
