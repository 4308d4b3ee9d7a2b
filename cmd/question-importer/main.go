// cmd/question-importer - loads a curriculum JSON file into the database
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/PedroCidro/TriMathLon-sub002/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type JSONQuestion struct {
	Statement     string   `json:"statement"`
	CorrectAnswer string   `json:"correct_answer"`
	WrongAnswers  []string `json:"wrong_answers"`
	Difficulty    string   `json:"difficulty"`
}

type JSONTopic struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Questions []JSONQuestion `json:"questions"`
}

type JSONModule struct {
	ID                  string      `json:"id"`
	Name                string      `json:"name"`
	GameDurationSeconds int         `json:"game_duration_seconds"`
	QuestionsPerGame    int         `json:"questions_per_game"`
	Topics              []JSONTopic `json:"topics"`
}

func main() {
	path := flag.String("file", "./data/curriculum.json", "curriculum JSON file to import")
	flag.Parse()

	db := openDB()

	if err := db.AutoMigrate(&models.Module{}, &models.Topic{}, &models.Question{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	data, err := os.ReadFile(*path)
	if err != nil {
		log.Fatal("Failed to read JSON file:", err)
	}

	var modules []JSONModule
	if err := json.Unmarshal(data, &modules); err != nil {
		log.Fatal("Failed to parse JSON:", err)
	}

	fmt.Printf("Found %d modules\n\n", len(modules))

	totalQuestions := 0
	for _, m := range modules {
		fmt.Printf("Processing: %s (%d topics)\n", m.Name, len(m.Topics))

		module := models.Module{
			ID:                  m.ID,
			Name:                m.Name,
			GameDurationSeconds: m.GameDurationSeconds,
			QuestionsPerGame:    m.QuestionsPerGame,
			IsActive:            true,
		}
		if module.GameDurationSeconds <= 0 {
			module.GameDurationSeconds = 180
		}
		if module.QuestionsPerGame <= 0 {
			module.QuestionsPerGame = 20
		}
		if err := db.Save(&module).Error; err != nil {
			log.Fatalf("Failed to save module %s: %v", m.ID, err)
		}

		for _, t := range m.Topics {
			topic := models.Topic{
				ID:       t.ID,
				ModuleID: m.ID,
				Name:     t.Name,
			}
			if err := db.Save(&topic).Error; err != nil {
				log.Fatalf("Failed to save topic %s: %v", t.ID, err)
			}

			for _, q := range t.Questions {
				question := models.Question{
					TopicID:       t.ID,
					ModuleID:      m.ID,
					Statement:     q.Statement,
					CorrectAnswer: q.CorrectAnswer,
					Difficulty:    q.Difficulty,
					IsActive:      true,
				}
				if question.Difficulty == "" {
					question.Difficulty = "medium"
				}
				if err := question.SetWrongAnswers(q.WrongAnswers); err != nil {
					log.Fatalf("Failed to encode wrong answers: %v", err)
				}
				if err := db.Create(&question).Error; err != nil {
					log.Fatalf("Failed to save question: %v", err)
				}
				totalQuestions++
			}
		}
	}

	fmt.Printf("\nImported %d questions across %d modules\n", totalQuestions, len(modules))
}

func openDB() *gorm.DB {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL:", err)
		}
		return db
	}

	db, err := gorm.Open(sqlite.Open("./data/trimathlon.db"), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to open sqlite database:", err)
	}
	return db
}
