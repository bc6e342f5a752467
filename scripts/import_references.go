// Ручной импорт справочников интересов и регионов.
//
// Обычно справочники загружаются администратором через бота или через
// POST /api/admin/references/upload. Этот скрипт нужен для первичного
// наполнения базы при развертывании.
//
// Использование: go run scripts/import_references.go <файл.xlsx>

package main

import (
	"log"
	"os"

	"meetup_bot/internal/config"
	"meetup_bot/internal/repository"
	"meetup_bot/internal/service"
	"meetup_bot/pkg/database"
	"meetup_bot/pkg/logger"

	"gopkg.in/yaml.v3"
)

func main() {
	if len(os.Args) != 2 {
		log.Fatalf("использование: go run scripts/import_references.go <файл.xlsx>")
	}

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("не удалось прочитать конфигурацию: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("разбор конфигурации: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("подключение к базе данных: %v", err)
	}

	f, err := os.Open(os.Args[1])
	if err != nil {
		log.Fatalf("не удалось открыть файл: %v", err)
	}
	defer f.Close()

	refs := service.NewReferenceService(repository.NewReferenceRepository(db))
	interests, regions, err := refs.ImportWorkbook(f)
	if err != nil {
		log.Fatalf("импорт не выполнен: %v", err)
	}
	log.Printf("Импортировано: интересов %d, регионов %d", interests, regions)
}
