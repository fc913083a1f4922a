package domain

import (
	"encoding/json"
	"fmt"
	"sort"
)

// RootKey is the single top-level key of a quiz database.
const RootKey = "quizzes"

// Question is one multiple-choice question of a quiz record.
type Question struct {
	ID            string   `json:"id" yaml:"id"`
	Question      string   `json:"question" yaml:"question"`
	Options       []string `json:"options" yaml:"options"`
	CorrectAnswer string   `json:"correctAnswer" yaml:"correctAnswer"`
	Explanation   string   `json:"explanation" yaml:"explanation"`
	Points        int      `json:"points" yaml:"points"`
}

// Quiz is one record of a section, identified by QuizID.
type Quiz struct {
	QuizID         string     `json:"quizId" yaml:"quizId"`
	Title          string     `json:"title" yaml:"title"`
	Description    string     `json:"description" yaml:"description"`
	TotalQuestions int        `json:"totalQuestions" yaml:"totalQuestions"`
	TimeLimit      int        `json:"timeLimit" yaml:"timeLimit"`
	PointsToEarn   int        `json:"pointsToEarn" yaml:"pointsToEarn"`
	HeartsToEarn   int        `json:"heartsToEarn" yaml:"heartsToEarn"`
	Questions      []Question `json:"questions" yaml:"questions"`
}

// Document is the expected shape of a quiz database:
// difficulty level -> section name -> ordered list of quizzes.
type Document struct {
	Quizzes map[string]map[string][]Quiz `json:"quizzes"`
}

// RawDocument keeps every section as undecoded JSON so that unknown record
// fields survive a round trip.
type RawDocument struct {
	Quizzes map[string]map[string]json.RawMessage `json:"quizzes"`
}

// ParseDocument decodes a valid quiz database.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, NewParseFailureError(err)
	}
	if doc.Quizzes == nil {
		return nil, NewInvalidInputError(fmt.Sprintf("document has no %q key", RootKey))
	}
	return &doc, nil
}

// ParseRawDocument decodes the difficulty/section skeleton only.
func ParseRawDocument(data []byte) (*RawDocument, error) {
	var doc RawDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, NewParseFailureError(err)
	}
	if doc.Quizzes == nil {
		return nil, NewInvalidInputError(fmt.Sprintf("document has no %q key", RootKey))
	}
	return &doc, nil
}

// SectionSummary counts the content of one section.
type SectionSummary struct {
	Name      string `json:"name" yaml:"name"`
	Quizzes   int    `json:"quizzes" yaml:"quizzes"`
	Questions int    `json:"questions" yaml:"questions"`
	FirstQuiz string `json:"firstQuiz,omitempty" yaml:"firstQuiz,omitempty"`
}

// DifficultySummary groups the sections of one difficulty level.
type DifficultySummary struct {
	Name     string           `json:"name" yaml:"name"`
	Sections []SectionSummary `json:"sections" yaml:"sections"`
}

// Summary describes a document, sorted by name at every level.
type Summary struct {
	Difficulties []DifficultySummary `json:"difficulties" yaml:"difficulties"`
	Quizzes      int                 `json:"totalQuizzes" yaml:"totalQuizzes"`
	Questions    int                 `json:"totalQuestions" yaml:"totalQuestions"`
}

// Summarize walks the document and counts quizzes and questions.
func (d *Document) Summarize() Summary {
	var s Summary
	for _, level := range sortedKeys(d.Quizzes) {
		ds := DifficultySummary{Name: level, Sections: []SectionSummary{}}
		sections := d.Quizzes[level]
		for _, name := range sortedKeys(sections) {
			quizzes := sections[name]
			ss := SectionSummary{Name: name, Quizzes: len(quizzes)}
			if len(quizzes) > 0 {
				ss.FirstQuiz = quizzes[0].QuizID
			}
			for _, q := range quizzes {
				ss.Questions += len(q.Questions)
			}
			s.Quizzes += ss.Quizzes
			s.Questions += ss.Questions
			ds.Sections = append(ds.Sections, ss)
		}
		s.Difficulties = append(s.Difficulties, ds)
	}
	return s
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
