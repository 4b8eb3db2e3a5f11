package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"catalogprep/database"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("aviso: arquivo .env não encontrado, usando o ambiente")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("❌ DATABASE_URL não definida")
	}

	if err := database.Init(dsn); err != nil {
		log.Fatal("❌ Erro na conexão com o banco:", err)
	}
	defer database.Close()

	fmt.Println("✅ Conexão estabelecida")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	if err := database.SeedDatabase(); err != nil {
		log.Fatal("❌ Erro no seed:", err)
	}
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println("✅ Seed concluído")
	fmt.Println()
	fmt.Println("Execute o motor de regras com:")
	fmt.Println("  go run . -mode athos -whitelist whitelist.csv")
}
