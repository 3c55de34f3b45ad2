package controllers

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"forum/backend/middleware"
	"forum/backend/models"
	"forum/backend/repository"
	"forum/backend/utils"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// topicSortColumns maps the sort fields accepted on the wire to columns.
var topicSortColumns = map[string]string{
	"id":          "id",
	"titulo":      "title",
	"mensagem":    "message",
	"dataCriacao": "created_at",
	"status":      "status",
}

type TopicsController struct {
	Topics  repository.TopicRepository
	Courses repository.CourseRepository
	Cache   Evictor
	Logger  *log.Logger
}

func NewTopicsController(topics repository.TopicRepository, courses repository.CourseRepository, cache Evictor, logger *log.Logger) *TopicsController {
	return &TopicsController{Topics: topics, Courses: courses, Cache: cache, Logger: logger}
}

// List godoc
// @Summary List topics
// @Description Returns a page of topics, optionally filtered by course name
// @Tags topics
// @Produce json
// @Param nomeCurso query string false "Course name"
// @Param page query int false "Page number, 0-based"
// @Param size query int false "Page size"
// @Param sort query string false "field[,asc|desc]"
// @Success 200 {object} utils.Page[TopicResponse]
// @Failure 400 {object} utils.ErrorResponse
// @Router /topicos [get]
func (tc *TopicsController) List(c *fiber.Ctx) error {
	page, err := parsePageRequest(c)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	filter := repository.TopicFilter{CourseName: c.Query("nomeCurso")}
	topics, total, err := tc.Topics.FindAll(c.UserContext(), filter, page)
	if err != nil {
		tc.Logger.Printf("Error listing topics: %v", err)
		return utils.InternalServerError(c, "Could not fetch topics")
	}

	return c.JSON(utils.NewPage(NewTopicResponses(topics), total, page.Page, page.Size))
}

// Create godoc
// @Summary Create topic
// @Description Opens a topic in a course on behalf of the authenticated user
// @Tags topics
// @Accept json
// @Produce json
// @Param input body TopicForm true "Topic data"
// @Success 201 {object} TopicResponse
// @Failure 400 {array} utils.FieldError
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /topicos [post]
func (tc *TopicsController) Create(c *fiber.Ctx) error {
	var form TopicForm
	fields, err := utils.ParseAndValidate(c, &form)
	if err != nil {
		return err
	}
	if len(fields) > 0 {
		return utils.ValidationError(c, fields)
	}

	course, err := tc.Courses.FindByName(c.UserContext(), form.CourseName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.ValidationError(c, []utils.FieldError{{Field: "nomeCurso", Error: "course not found"}})
		}
		tc.Logger.Printf("Error finding course %q: %v", form.CourseName, err)
		return utils.InternalServerError(c, "Could not create topic")
	}

	topic := models.Topic{
		Title:    form.Title,
		Message:  form.Message,
		CourseID: course.ID,
		Status:   models.StatusUnanswered,
	}
	if user := middleware.CurrentUser(c); user != nil {
		topic.AuthorID = &user.ID
	}

	if err := tc.Topics.Create(c.UserContext(), &topic); err != nil {
		tc.Logger.Printf("Error creating topic: %v", err)
		return utils.InternalServerError(c, "Could not create topic")
	}
	tc.Cache.Evict()

	c.Location(fmt.Sprintf("%s/topicos/%d", c.BaseURL(), topic.ID))
	return c.Status(fiber.StatusCreated).JSON(NewTopicResponse(topic))
}

// Detail godoc
// @Summary Get topic
// @Description Returns a topic with its author, status and answers
// @Tags topics
// @Produce json
// @Param id path int true "Topic ID"
// @Success 200 {object} TopicDetailsResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /topicos/{id} [get]
func (tc *TopicsController) Detail(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	topic, err := tc.Topics.FindByID(c.UserContext(), id)
	if err != nil {
		return tc.lookupError(c, id, err)
	}

	return c.JSON(NewTopicDetailsResponse(*topic))
}

// Update godoc
// @Summary Update topic
// @Description Replaces the title and message of a topic
// @Tags topics
// @Accept json
// @Produce json
// @Param id path int true "Topic ID"
// @Param input body UpdateTopicForm true "Topic data"
// @Success 200 {object} TopicResponse
// @Failure 400 {array} utils.FieldError
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /topicos/{id} [put]
func (tc *TopicsController) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var form UpdateTopicForm
	fields, err := utils.ParseAndValidate(c, &form)
	if err != nil {
		return err
	}
	if len(fields) > 0 {
		return utils.ValidationError(c, fields)
	}

	topic, err := tc.Topics.FindByID(c.UserContext(), id)
	if err != nil {
		return tc.lookupError(c, id, err)
	}

	topic.Title = form.Title
	topic.Message = form.Message
	if err := tc.Topics.Update(c.UserContext(), topic); err != nil {
		tc.Logger.Printf("Error updating topic %d: %v", id, err)
		return utils.InternalServerError(c, "Could not update topic")
	}
	tc.Cache.Evict()

	return c.JSON(NewTopicResponse(*topic))
}

// Delete godoc
// @Summary Delete topic
// @Description Deletes a topic and its answers
// @Tags topics
// @Param id path int true "Topic ID"
// @Success 200
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /topicos/{id} [delete]
func (tc *TopicsController) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := tc.Topics.Delete(c.UserContext(), id); err != nil {
		return tc.lookupError(c, id, err)
	}
	tc.Cache.Evict()

	c.Status(fiber.StatusOK)
	return nil
}

func (tc *TopicsController) lookupError(c *fiber.Ctx, id uint, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return utils.NotFound(c, "Topic not found")
	}
	tc.Logger.Printf("Error accessing topic %d: %v", id, err)
	return utils.InternalServerError(c, "Could not query database")
}

// parsePageRequest reads page, size and sort from the query string.
// Results are ordered by id descending unless another order is given;
// id is always the last sort key so pages are stable.
func parsePageRequest(c *fiber.Ctx) (repository.PageRequest, error) {
	req := repository.PageRequest{Page: 0, Size: defaultPageSize}

	if raw := c.Query("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 || size > maxPageSize {
			return req, fmt.Errorf("invalid size %q, must be between 1 and %d", raw, maxPageSize)
		}
		req.Size = size
	}

	// (page+1)*size must fit in an int for the offset and page metadata.
	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 0 || page > math.MaxInt/req.Size-1 {
			return req, fmt.Errorf("invalid page %q", raw)
		}
		req.Page = page
	}

	hasID := false
	for _, raw := range c.Context().QueryArgs().PeekMulti("sort") {
		order, err := parseSortOrder(string(raw))
		if err != nil {
			return req, err
		}
		hasID = hasID || order.Column == "id"
		req.Sort = append(req.Sort, order)
	}
	if !hasID {
		req.Sort = append(req.Sort, repository.SortOrder{Column: "id", Desc: true})
	}

	return req, nil
}

func parseSortOrder(raw string) (repository.SortOrder, error) {
	field, direction, _ := strings.Cut(raw, ",")
	column, ok := topicSortColumns[field]
	if !ok {
		return repository.SortOrder{}, fmt.Errorf("cannot sort by %q", field)
	}

	switch strings.ToLower(direction) {
	case "", "asc":
		return repository.SortOrder{Column: column}, nil
	case "desc":
		return repository.SortOrder{Column: column, Desc: true}, nil
	default:
		return repository.SortOrder{}, fmt.Errorf("invalid sort direction %q", direction)
	}
}
