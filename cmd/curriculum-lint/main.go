// cmd/curriculum-lint - validates curriculum JSON files before import
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const minQuestionsPerTopic = 5

type jsonQuestion struct {
	Statement     string   `json:"statement"`
	CorrectAnswer string   `json:"correct_answer"`
	WrongAnswers  []string `json:"wrong_answers"`
}

type jsonTopic struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Questions []jsonQuestion `json:"questions"`
}

type jsonModule struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Topics []jsonTopic `json:"topics"`
}

func main() {
	files, err := filepath.Glob("./data/*.json")
	if err != nil {
		fmt.Println("error: cannot read ./data:", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Println("no .json curriculum files found in ./data")
		return
	}

	exitCode := 0
	for _, f := range files {
		problems := lintFile(f)
		if len(problems) == 0 {
			fmt.Printf("%s: ok\n", f)
			continue
		}
		exitCode = 1
		for _, p := range problems {
			fmt.Printf("%s: %s\n", f, p)
		}
	}
	os.Exit(exitCode)
}

func lintFile(path string) []string {
	var problems []string

	data, err := os.ReadFile(path)
	if err != nil {
		return []string{fmt.Sprintf("read error: %v", err)}
	}

	var modules []jsonModule
	if err := json.Unmarshal(data, &modules); err != nil {
		return []string{fmt.Sprintf("parse error: %v", err)}
	}

	seenTopics := make(map[string]string) // topic id -> module id
	for _, m := range modules {
		if m.ID == "" {
			problems = append(problems, "module with empty id")
			continue
		}
		if len(m.Topics) == 0 {
			problems = append(problems, fmt.Sprintf("module %q has no topics", m.ID))
		}

		for _, t := range m.Topics {
			if t.ID == "" {
				problems = append(problems, fmt.Sprintf("module %q: topic with empty id", m.ID))
				continue
			}
			if owner, dup := seenTopics[t.ID]; dup {
				problems = append(problems, fmt.Sprintf("topic %q appears in both %q and %q", t.ID, owner, m.ID))
			}
			seenTopics[t.ID] = m.ID

			if len(t.Questions) < minQuestionsPerTopic {
				problems = append(problems, fmt.Sprintf("topic %q has %d questions, need at least %d", t.ID, len(t.Questions), minQuestionsPerTopic))
			}

			for i, q := range t.Questions {
				if q.Statement == "" {
					problems = append(problems, fmt.Sprintf("topic %q question %d: empty statement", t.ID, i+1))
				}
				if q.CorrectAnswer == "" {
					problems = append(problems, fmt.Sprintf("topic %q question %d: empty correct answer", t.ID, i+1))
				}
				if len(q.WrongAnswers) < 2 {
					problems = append(problems, fmt.Sprintf("topic %q question %d: needs at least 2 wrong answers", t.ID, i+1))
				}
			}
		}
	}

	return problems
}
