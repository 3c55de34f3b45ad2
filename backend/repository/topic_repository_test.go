package repository_test

import (
	"context"
	"fmt"
	"testing"

	"forum/backend/models"
	"forum/backend/repository"
	"forum/backend/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopicRepositoryFindAll(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewGormTopicRepository(db)
	ctx := context.Background()

	spring := testutil.CreateCourse(t, db, "Spring Boot", "Programação")
	html := testutil.CreateCourse(t, db, "HTML 5", "Front-end")
	for i := 1; i <= 5; i++ {
		testutil.CreateTopic(t, db, fmt.Sprintf("Spring %d", i), "mensagem longa", spring, nil)
	}
	testutil.CreateTopic(t, db, "Tags", "mensagem longa", html, nil)

	t.Run("pages by id desc", func(t *testing.T) {
		topics, total, err := repo.FindAll(ctx, repository.TopicFilter{}, repository.PageRequest{
			Page: 0, Size: 4, Sort: []repository.SortOrder{{Column: "id", Desc: true}},
		})
		require.NoError(t, err)
		assert.EqualValues(t, 6, total)
		require.Len(t, topics, 4)
		assert.Equal(t, "Tags", topics[0].Title)

		topics, _, err = repo.FindAll(ctx, repository.TopicFilter{}, repository.PageRequest{
			Page: 1, Size: 4, Sort: []repository.SortOrder{{Column: "id", Desc: true}},
		})
		require.NoError(t, err)
		require.Len(t, topics, 2)
		assert.Equal(t, "Spring 1", topics[1].Title)
	})

	t.Run("filters by course name", func(t *testing.T) {
		topics, total, err := repo.FindAll(ctx, repository.TopicFilter{CourseName: "HTML 5"}, repository.PageRequest{Size: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, topics, 1)
		assert.Equal(t, html.ID, topics[0].CourseID)
	})

	t.Run("unknown course matches nothing", func(t *testing.T) {
		topics, total, err := repo.FindAll(ctx, repository.TopicFilter{CourseName: "Kotlin"}, repository.PageRequest{Size: 10})
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, topics)
	})

	t.Run("sorts by title", func(t *testing.T) {
		topics, _, err := repo.FindAll(ctx, repository.TopicFilter{}, repository.PageRequest{
			Size: 10, Sort: []repository.SortOrder{{Column: "title"}},
		})
		require.NoError(t, err)
		assert.Equal(t, "Spring 1", topics[0].Title)
		assert.Equal(t, "Tags", topics[len(topics)-1].Title)
	})
}

func TestTopicRepositoryLifecycle(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewGormTopicRepository(db)
	ctx := context.Background()

	course := testutil.CreateCourse(t, db, "Go", "Programação")
	author := testutil.CreateUser(t, db, "Aluno", "aluno@email.com", "123456")

	topic := &models.Topic{Title: "Goroutines", Message: "Como sincronizar?", CourseID: course.ID, AuthorID: &author.ID}
	require.NoError(t, repo.Create(ctx, topic))
	require.NotZero(t, topic.ID)
	assert.Equal(t, models.StatusUnanswered, topic.Status)
	assert.False(t, topic.CreatedAt.IsZero())

	topic.Title = "Channels"
	topic.Message = "Buffered ou unbuffered?"
	require.NoError(t, repo.Update(ctx, topic))

	answer := &models.Answer{Message: "Depende do caso", TopicID: topic.ID, AuthorID: &author.ID}
	require.NoError(t, repo.AddAnswer(ctx, answer))

	found, err := repo.FindByID(ctx, topic.ID)
	require.NoError(t, err)
	assert.Equal(t, "Channels", found.Title)
	assert.Equal(t, "Buffered ou unbuffered?", found.Message)
	assert.Equal(t, "Aluno", found.AuthorName())
	assert.Equal(t, "Go", found.Course.Name)
	assert.Equal(t, models.StatusUnsolved, found.Status)
	require.Len(t, found.Answers, 1)
	assert.Equal(t, "Aluno", found.Answers[0].AuthorName())

	require.NoError(t, repo.Delete(ctx, topic.ID))
	_, err = repo.FindByID(ctx, topic.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	var answers int64
	db.Model(&models.Answer{}).Count(&answers)
	assert.Zero(t, answers)

	assert.ErrorIs(t, repo.Delete(ctx, topic.ID), repository.ErrNotFound)
	assert.ErrorIs(t, repo.AddAnswer(ctx, &models.Answer{Message: "x", TopicID: topic.ID}), repository.ErrNotFound)
}

func TestAddAnswerKeepsSolvedStatus(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewGormTopicRepository(db)
	ctx := context.Background()

	course := testutil.CreateCourse(t, db, "Go", "Programação")
	topic := testutil.CreateTopic(t, db, "Resolvido", "Já tem solução", course, nil)
	require.NoError(t, db.Model(&topic).Update("status", models.StatusSolved).Error)

	require.NoError(t, repo.AddAnswer(ctx, &models.Answer{Message: "Obrigado", TopicID: topic.ID}))

	found, err := repo.FindByID(ctx, topic.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSolved, found.Status)
}
