package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/ikkim/stores-rest-api/config"
	"github.com/ikkim/stores-rest-api/internal/catalogimport"
	"github.com/ikkim/stores-rest-api/internal/db"
	"github.com/ikkim/stores-rest-api/pkg/logger"
)

func main() {
	yes := flag.Bool("y", false, "skip the confirmation prompt")
	flag.Parse()

	// 명령줄 인자 확인
	if flag.NArg() < 1 {
		log.Fatal("Usage: go run cmd/seed/main.go [-y] <xlsx_file_path>")
	}
	filePath := flag.Arg(0)

	// 설정 로드
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	logger.Initialize(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		EnableColor: true,
	})

	// DB 연결
	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// XLSX 파일 읽기
	fmt.Printf("Reading XLSX file: %s\n", filePath)
	rows, skipped, err := catalogimport.ReadFile(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}
	fmt.Printf("Rows to import: %d (skipped: %d)\n", len(rows), skipped)

	// 사용자 확인
	if !*yes {
		fmt.Print("Do you want to proceed with the import? (yes/no): ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Import cancelled.")
			return
		}
	}

	summary, err := catalogimport.Import(db.GetDB(), rows)
	if err != nil {
		log.Fatal("Failed to import catalog:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Stores created: %d\n", summary.Stores)
	fmt.Printf("Items created: %d\n", summary.Items)
	fmt.Printf("Tags created: %d\n", summary.Tags)
	fmt.Printf("Item-tag links: %d\n", summary.Links)
}
