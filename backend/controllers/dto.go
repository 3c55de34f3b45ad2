package controllers

import (
	"time"

	"forum/backend/models"

	"github.com/samber/lo"
)

// TopicForm is the body of POST /topicos.
type TopicForm struct {
	Title      string `json:"titulo" validate:"required,min=5"`
	Message    string `json:"mensagem" validate:"required,min=10"`
	CourseName string `json:"nomeCurso" validate:"required"`
}

// UpdateTopicForm is the body of PUT /topicos/:id.
type UpdateTopicForm struct {
	Title   string `json:"titulo" validate:"required,min=5"`
	Message string `json:"mensagem" validate:"required,min=10"`
}

type AnswerForm struct {
	Message string `json:"mensagem" validate:"required"`
}

type LoginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"senha" validate:"required"`
}

type TokenResponse struct {
	Token string `json:"token"`
	Type  string `json:"tipo"`
}

type TopicResponse struct {
	ID        uint      `json:"id"`
	Title     string    `json:"titulo"`
	Message   string    `json:"mensagem"`
	CreatedAt time.Time `json:"dataCriacao"`
}

type TopicDetailsResponse struct {
	ID         uint               `json:"id"`
	Title      string             `json:"titulo"`
	Message    string             `json:"mensagem"`
	CreatedAt  time.Time          `json:"dataCriacao"`
	AuthorName string             `json:"nomeAutor"`
	Status     models.TopicStatus `json:"status"`
	Answers    []AnswerResponse   `json:"respostas"`
}

type AnswerResponse struct {
	ID         uint      `json:"id"`
	Message    string    `json:"mensagem"`
	CreatedAt  time.Time `json:"dataCriacao"`
	AuthorName string    `json:"nomeAutor"`
}

func NewTopicResponse(t models.Topic) TopicResponse {
	return TopicResponse{
		ID:        t.ID,
		Title:     t.Title,
		Message:   t.Message,
		CreatedAt: t.CreatedAt,
	}
}

func NewTopicResponses(topics []models.Topic) []TopicResponse {
	return lo.Map(topics, func(t models.Topic, _ int) TopicResponse {
		return NewTopicResponse(t)
	})
}

func NewTopicDetailsResponse(t models.Topic) TopicDetailsResponse {
	return TopicDetailsResponse{
		ID:         t.ID,
		Title:      t.Title,
		Message:    t.Message,
		CreatedAt:  t.CreatedAt,
		AuthorName: t.AuthorName(),
		Status:     t.Status,
		Answers: lo.Map(t.Answers, func(a models.Answer, _ int) AnswerResponse {
			return NewAnswerResponse(a)
		}),
	}
}

func NewAnswerResponse(a models.Answer) AnswerResponse {
	return AnswerResponse{
		ID:         a.ID,
		Message:    a.Message,
		CreatedAt:  a.CreatedAt,
		AuthorName: a.AuthorName(),
	}
}
