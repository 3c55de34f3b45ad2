package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"forum/backend/models"
	"forum/backend/testutil"
	"forum/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	app    *fiber.App
	db     *gorm.DB
	user   models.User
	token  string
	course models.Course
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewDB(t)
	cfg := testutil.Config()
	app := NewApp(db, cfg, utils.InitLogger(utils.LoggerConfig{Output: io.Discard}))

	user := testutil.CreateUser(t, db, "Aluno", "aluno@email.com", "123456")
	token, err := utils.NewTokenService(cfg).GenerateToken(user.ID)
	require.NoError(t, err)

	return &testEnv{
		app:    app,
		db:     db,
		user:   user,
		token:  token,
		course: testutil.CreateCourse(t, db, "Spring Boot", "Programação"),
	}
}

// do sends a request and returns the response with its body read.
func (e *testEnv) do(t *testing.T, method, path string, body interface{}, token string) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func TestAuthenticate(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, "POST", "/auth", map[string]string{"email": "aluno@email.com", "senha": "123456"}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	token := decode[map[string]string](t, body)
	assert.Equal(t, "Bearer", token["tipo"])
	assert.NotEmpty(t, token["token"])

	// The issued token opens protected routes.
	resp, _ = env.do(t, "POST", "/topicos", map[string]string{
		"titulo": "Dúvida de JPA", "mensagem": "Como mapear um enum?", "nomeCurso": "Spring Boot",
	}, token["token"])
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, body = env.do(t, "POST", "/auth", map[string]string{"email": "aluno@email.com", "senha": "errada"}, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid credentials", decode[utils.ErrorResponse](t, body).Message)

	resp, body = env.do(t, "POST", "/auth", map[string]string{"email": "not-an-email"}, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	fields := decode[[]utils.FieldError](t, body)
	assert.Len(t, fields, 2)

	req := httptest.NewRequest("POST", "/auth", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSeededUserCanAuthenticate(t *testing.T) {
	db := testutil.NewDB(t)
	require.NoError(t, utils.Seed(db))
	env := &testEnv{app: NewApp(db, testutil.Config(), utils.InitLogger(utils.LoggerConfig{Output: io.Discard}))}

	resp, _ := env.do(t, "POST", "/auth", map[string]string{"email": "moderador@email.com", "senha": "123456"}, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body := env.do(t, "GET", "/topicos?nomeCurso=Spring+Boot", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 2, decode[utils.Page[map[string]interface{}]](t, body).TotalElements)
}

func TestTopicLifecycle(t *testing.T) {
	env := newTestEnv(t)

	form := map[string]string{
		"titulo":    "Dúvida sobre Spring",
		"mensagem":  "O projeto não sobe com o Tomcat",
		"nomeCurso": "Spring Boot",
	}

	resp, _ := env.do(t, "POST", "/topicos", form, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, body := env.do(t, "POST", "/topicos", form, env.token)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(body))
	created := decode[map[string]interface{}](t, body)
	id := int(created["id"].(float64))
	assert.Equal(t, "Dúvida sobre Spring", created["titulo"])
	assert.NotEmpty(t, created["dataCriacao"])
	assert.Regexp(t, `/topicos/\d+$`, resp.Header.Get("Location"))

	path := "/topicos/" + itoa(id)

	resp, body = env.do(t, "GET", path, nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	details := decode[map[string]interface{}](t, body)
	assert.Equal(t, "Aluno", details["nomeAutor"])
	assert.Equal(t, "NAO_RESPONDIDO", details["status"])
	assert.Empty(t, details["respostas"])

	resp, body = env.do(t, "PUT", path, map[string]string{
		"titulo": "Spring não inicia", "mensagem": "Porta 8080 já está em uso",
	}, env.token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "Spring não inicia", decode[map[string]interface{}](t, body)["titulo"])

	resp, body = env.do(t, "DELETE", path, nil, env.token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, body)

	resp, _ = env.do(t, "GET", path, nil, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp, _ = env.do(t, "DELETE", path, nil, env.token)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp, _ = env.do(t, "PUT", path, map[string]string{"titulo": "Ainda existe?", "mensagem": "Tópico já removido"}, env.token)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestTopicValidation(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, "POST", "/topicos", map[string]string{"titulo": "abc", "nomeCurso": "Spring Boot"}, env.token)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	fields := decode[[]utils.FieldError](t, body)
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Field)
	}
	assert.ElementsMatch(t, []string{"titulo", "mensagem"}, names)

	resp, body = env.do(t, "POST", "/topicos", map[string]string{
		"titulo": "Curso inexistente", "mensagem": "Esse curso não existe", "nomeCurso": "COBOL",
	}, env.token)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, []utils.FieldError{{Field: "nomeCurso", Error: "course not found"}}, decode[[]utils.FieldError](t, body))

	resp, _ = env.do(t, "GET", "/topicos/abc", nil, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp, _ = env.do(t, "GET", "/topicos/0", nil, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestListTopics(t *testing.T) {
	env := newTestEnv(t)
	html := testutil.CreateCourse(t, env.db, "HTML 5", "Front-end")
	for i := 0; i < 3; i++ {
		testutil.CreateTopic(t, env.db, "Spring "+itoa(i), "mensagem do tópico", env.course, &env.user)
	}
	testutil.CreateTopic(t, env.db, "Tag HTML", "mensagem do tópico", html, &env.user)

	resp, body := env.do(t, "GET", "/topicos?size=2", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	page := decode[utils.Page[map[string]interface{}]](t, body)
	assert.EqualValues(t, 4, page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Content, 2)
	assert.Equal(t, "Tag HTML", page.Content[0]["titulo"])

	resp, body = env.do(t, "GET", "/topicos?nomeCurso=HTML+5", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	page = decode[utils.Page[map[string]interface{}]](t, body)
	assert.EqualValues(t, 1, page.TotalElements)

	resp, body = env.do(t, "GET", "/topicos?sort=titulo,asc&page=0&size=10", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	page = decode[utils.Page[map[string]interface{}]](t, body)
	assert.Equal(t, "Spring 0", page.Content[0]["titulo"])
	assert.True(t, page.Last)

	for _, query := range []string{"page=-1", "page=4611686018427387904&size=4", "page=9223372036854775807", "page=99999999999999999999", "size=0", "size=1000", "sort=senha", "sort=id,sideways"} {
		resp, _ = env.do(t, "GET", "/topicos?"+query, nil, "")
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, query)
	}

	resp, _ = env.do(t, "HEAD", "/topicos", nil, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestListCacheIsEvictedOnWrite(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreateTopic(t, env.db, "Primeiro tópico", "mensagem do tópico", env.course, &env.user)

	resp, _ := env.do(t, "GET", "/topicos", nil, "")
	assert.Equal(t, "miss", resp.Header.Get("X-Cache"))
	resp, body := env.do(t, "GET", "/topicos", nil, "")
	assert.Equal(t, "hit", resp.Header.Get("X-Cache"))
	assert.EqualValues(t, 1, decode[utils.Page[map[string]interface{}]](t, body).TotalElements)

	resp, _ = env.do(t, "POST", "/topicos", map[string]string{
		"titulo": "Segundo tópico", "mensagem": "mensagem do tópico", "nomeCurso": "Spring Boot",
	}, env.token)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, body = env.do(t, "GET", "/topicos", nil, "")
	assert.Equal(t, "miss", resp.Header.Get("X-Cache"))
	assert.EqualValues(t, 2, decode[utils.Page[map[string]interface{}]](t, body).TotalElements)
}

func TestListCacheDoesNotKeepErrors(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreateTopic(t, env.db, "Primeiro tópico", "mensagem do tópico", env.course, &env.user)

	require.NoError(t, env.db.Migrator().DropTable(&models.Answer{}, &models.Topic{}))
	resp, _ := env.do(t, "GET", "/topicos", nil, "")
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	require.NoError(t, utils.Migrate(env.db))
	resp, body := env.do(t, "GET", "/topicos", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "miss", resp.Header.Get("X-Cache"))
	assert.EqualValues(t, 0, decode[utils.Page[map[string]interface{}]](t, body).TotalElements)
}

func TestAnswerTopic(t *testing.T) {
	env := newTestEnv(t)
	topic := testutil.CreateTopic(t, env.db, "Dúvida de Go", "Como fechar um channel?", env.course, &env.user)
	path := "/topicos/" + itoa(int(topic.ID)) + "/respostas"

	resp, _ := env.do(t, "POST", path, map[string]string{"mensagem": "Use close(ch)"}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, body := env.do(t, "POST", path, map[string]string{"mensagem": "Use close(ch)"}, env.token)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(body))
	answer := decode[map[string]interface{}](t, body)
	assert.Equal(t, "Aluno", answer["nomeAutor"])

	resp, body = env.do(t, "GET", "/topicos/"+itoa(int(topic.ID)), nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	details := decode[map[string]interface{}](t, body)
	assert.Equal(t, "NAO_SOLUCIONADO", details["status"])
	require.Len(t, details["respostas"], 1)

	resp, _ = env.do(t, "POST", path, map[string]string{}, env.token)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, "POST", "/topicos/9999/respostas", map[string]string{"mensagem": "Alguém?"}, env.token)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, "GET", "/actuator/health", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	health := decode[map[string]interface{}](t, body)
	assert.Equal(t, "UP", health["status"])
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
