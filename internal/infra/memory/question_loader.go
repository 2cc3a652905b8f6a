package memory

import (
	"context"

	"wrong-answers-service/internal/domain"
)

// StaticQuestionLoader serves a fixed catalog from memory (useful for
// tests and Postgres-less runs).
type StaticQuestionLoader struct {
	questions []domain.Question
}

func NewStaticQuestionLoader(questions []domain.Question) *StaticQuestionLoader {
	return &StaticQuestionLoader{questions: questions}
}

func (l *StaticQuestionLoader) LoadQuestions(_ context.Context) ([]domain.Question, error) {
	out := make([]domain.Question, len(l.questions))
	copy(out, l.questions)
	return out, nil
}

// DefaultQuestions is the built-in trivia catalog used when no Postgres
// backend is configured, and by the seed command to populate one.
func DefaultQuestions() []domain.Question {
	return []domain.Question{
		{ID: "q001", Text: "What year did the French Revolution begin?", Category: "History", CorrectAnswer: "1789"},
		{ID: "q002", Text: "What is the chemical symbol for gold?", Category: "Science", CorrectAnswer: "Au"},
		{ID: "q003", Text: "Who painted the Mona Lisa?", Category: "Art", CorrectAnswer: "Leonardo da Vinci"},
		{ID: "q004", Text: "What is the capital of Australia?", Category: "Geography", CorrectAnswer: "Canberra"},
		{ID: "q005", Text: "How many planets are in our solar system?", Category: "Science", CorrectAnswer: "8"},
		{ID: "q006", Text: "Who wrote Romeo and Juliet?", Category: "Literature", CorrectAnswer: "William Shakespeare"},
		{ID: "q007", Text: "What is the largest ocean on Earth?", Category: "Geography", CorrectAnswer: "Pacific Ocean"},
		{ID: "q008", Text: "In which year did World War II end?", Category: "History", CorrectAnswer: "1945"},
		{ID: "q009", Text: "What is the speed of light in vacuum?", Category: "Science", CorrectAnswer: "299,792,458 meters per second"},
		{ID: "q010", Text: "Who was the first person to walk on the moon?", Category: "Science", CorrectAnswer: "Neil Armstrong"},
		{ID: "q011", Text: "What is the smallest country in the world?", Category: "Geography", CorrectAnswer: "Vatican City"},
		{ID: "q012", Text: "Who composed the Four Seasons?", Category: "Music", CorrectAnswer: "Antonio Vivaldi"},
		{ID: "q013", Text: "What is the capital of Japan?", Category: "Geography", CorrectAnswer: "Tokyo"},
		{ID: "q014", Text: "In which year did the Titanic sink?", Category: "History", CorrectAnswer: "1912"},
		{ID: "q015", Text: "What is the chemical formula for water?", Category: "Science", CorrectAnswer: "H2O"},
		{ID: "q016", Text: "Who painted Starry Night?", Category: "Art", CorrectAnswer: "Vincent van Gogh"},
		{ID: "q017", Text: "What is the largest mammal in the world?", Category: "Science", CorrectAnswer: "Blue whale"},
		{ID: "q018", Text: "Who wrote The Great Gatsby?", Category: "Literature", CorrectAnswer: "F. Scott Fitzgerald"},
		{ID: "q019", Text: "What is the capital of Egypt?", Category: "Geography", CorrectAnswer: "Cairo"},
		{ID: "q020", Text: "In which year did the Berlin Wall fall?", Category: "History", CorrectAnswer: "1989"},
		{ID: "q021", Text: "What is the hardest natural substance on Earth?", Category: "Science", CorrectAnswer: "Diamond"},
		{ID: "q022", Text: "Who composed Beethoven's 5th Symphony?", Category: "Music", CorrectAnswer: "Ludwig van Beethoven"},
		{ID: "q023", Text: "What is the largest desert in the world?", Category: "Geography", CorrectAnswer: "Antarctica"},
		{ID: "q024", Text: "Who was the first President of the United States?", Category: "History", CorrectAnswer: "George Washington"},
		{ID: "q025", Text: "What is the chemical symbol for silver?", Category: "Science", CorrectAnswer: "Ag"},
		{ID: "q026", Text: "Who wrote Don Quixote?", Category: "Literature", CorrectAnswer: "Miguel de Cervantes"},
		{ID: "q027", Text: "What is the capital of Brazil?", Category: "Geography", CorrectAnswer: "Brasília"},
		{ID: "q028", Text: "In which year did Christopher Columbus reach the Americas?", Category: "History", CorrectAnswer: "1492"},
		{ID: "q029", Text: "What is the fastest land animal?", Category: "Science", CorrectAnswer: "Cheetah"},
		{ID: "q030", Text: "Who painted The Persistence of Memory?", Category: "Art", CorrectAnswer: "Salvador Dalí"},
	}
}
