package controllers

import (
	"errors"
	"log"

	"forum/backend/middleware"
	"forum/backend/models"
	"forum/backend/repository"
	"forum/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type AnswersController struct {
	Topics repository.TopicRepository
	Cache  Evictor
	Logger *log.Logger
}

func NewAnswersController(topics repository.TopicRepository, cache Evictor, logger *log.Logger) *AnswersController {
	return &AnswersController{Topics: topics, Cache: cache, Logger: logger}
}

// Create godoc
// @Summary Answer a topic
// @Description Adds an answer by the authenticated user to a topic
// @Tags answers
// @Accept json
// @Produce json
// @Param id path int true "Topic ID"
// @Param input body AnswerForm true "Answer data"
// @Success 201 {object} AnswerResponse
// @Failure 400 {array} utils.FieldError
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /topicos/{id}/respostas [post]
func (ac *AnswersController) Create(c *fiber.Ctx) error {
	topicID, err := parseID(c)
	if err != nil {
		return err
	}

	var form AnswerForm
	fields, err := utils.ParseAndValidate(c, &form)
	if err != nil {
		return err
	}
	if len(fields) > 0 {
		return utils.ValidationError(c, fields)
	}

	answer := models.Answer{
		Message: form.Message,
		TopicID: topicID,
	}
	user := middleware.CurrentUser(c)
	if user != nil {
		answer.AuthorID = &user.ID
		answer.Author = user
	}

	if err := ac.Topics.AddAnswer(c.UserContext(), &answer); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.NotFound(c, "Topic not found")
		}
		ac.Logger.Printf("Error answering topic %d: %v", topicID, err)
		return utils.InternalServerError(c, "Could not create answer")
	}
	ac.Cache.Evict()

	return c.Status(fiber.StatusCreated).JSON(NewAnswerResponse(answer))
}
