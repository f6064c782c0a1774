package repository

import "quiz_web/internal/storage"

type Repositories struct {
	User        UserRepository
	Room        RoomRepository
	Participant ParticipantRepository
	Question    QuestionRepository
	Round       RoundRepository
	Answer      AnswerRepository
	Score       ScoreRepository
}

func NewRepositories(db *storage.PostgresDB) *Repositories {
	return &Repositories{
		User:        NewUserRepository(db),
		Room:        NewRoomRepository(db),
		Participant: NewParticipantRepository(db),
		Question:    NewQuestionRepository(db),
		Round:       NewRoundRepository(db),
		Answer:      NewAnswerRepository(db),
		Score:       NewScoreRepository(db),
	}
}
