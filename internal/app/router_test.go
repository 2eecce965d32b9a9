package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coursehub_backend/internal/config"
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/service"
	"coursehub_backend/internal/testutil"
	"coursehub_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const testSecret = "router-test-secret"

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	util.RegisterBindingFieldNames()

	cfg := &config.Config{
		JWT:     config.JWTConfig{Secret: testSecret},
		Storage: config.StorageConfig{Type: util.StorageLocal, LocalPath: t.TempDir()},
		Locale:  config.LocaleConfig{Default: "en", Supported: []string{"es"}},
		Content: config.ContentConfig{ReflectionMinChars: 20},
	}
	db := testutil.NewDB(t)

	a := &App{Config: cfg, DB: db}
	repos := a.initRepositories(db)
	svcs := a.initServices(repos, cfg, &service.LocalStorageProvider{Config: &cfg.Storage})
	ctrls := a.initControllers(svcs, db)

	router := gin.New()
	a.registerRoutes(router, ctrls, cfg)
	return &testServer{router: router, db: db}
}

func token(t *testing.T, userID uint, role string) string {
	t.Helper()
	tok, err := util.GenerateJWT(userID, role, "user@example.com", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	return tok
}

func (s *testServer) do(t *testing.T, method, path, tok string, body interface{}) (*httptest.ResponseRecorder, util.Response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp util.Response
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response %q: %v", w.Body.String(), err)
		}
	}
	return w, resp
}

func dataMap(t *testing.T, resp util.Response) map[string]interface{} {
	t.Helper()
	m, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data is %T, want object", resp.Data)
	}
	return m
}

func seedQuizSection(t *testing.T, db *gorm.DB) *model.Section {
	t.Helper()
	fx := testutil.SeedCourse(t, db, 1, 1, 0)
	quiz := map[string]interface{}{
		"kind": "knowledge_check",
		"items": []map[string]interface{}{
			{"question": "q1", "difficulty": "easy", "choices": []map[string]interface{}{{"text": "a", "correct": true}, {"text": "b"}}},
			{"question": "q2", "difficulty": "easy", "choices": []map[string]interface{}{{"text": "a", "correct": true}, {"text": "b"}}},
		},
	}
	return testutil.CreateSection(t, db, fx.Modules[0].ID, model.SectionQuiz, 0, quiz)
}

func TestHealthIsPublic(t *testing.T) {
	s := newTestServer(t)
	w, _ := s.do(t, http.MethodGet, "/api/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestRequiresToken(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(t, http.MethodGet, "/api/courses/anything", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d", w.Code)
	}
	w, _ = s.do(t, http.MethodGet, "/api/courses/anything", "not-a-jwt", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: status = %d", w.Code)
	}
}

func TestForgedQuestionBankIsIgnored(t *testing.T) {
	s := newTestServer(t)
	sec := seedQuizSection(t, s.db)
	tok := token(t, 2, service.RoleStudent)

	// 客户端附带一份“正确答案是 1”的题库，评分仍按服务端题库
	body := `{"answers":[1,1],"items":[{"question":"q1","choices":[{"text":"a"},{"text":"b","correct":true}]},{"question":"q2","choices":[{"text":"a"},{"text":"b","correct":true}]}]}`
	w, resp := s.do(t, http.MethodPost, "/api/sections/"+sec.ID+"/quiz-attempts", tok, body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	data := dataMap(t, resp)
	if data["correct"].(float64) != 0 || data["passed"].(bool) {
		t.Fatalf("forged bank was used: %v", data)
	}

	w, resp = s.do(t, http.MethodPost, "/api/sections/"+sec.ID+"/quiz-attempts", tok, map[string]interface{}{"answers": []int{0, 0}})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	data = dataMap(t, resp)
	if data["attemptNo"].(float64) != 2 || !data["passed"].(bool) {
		t.Fatalf("second attempt = %v", data)
	}
	if data["progress"] == nil {
		t.Fatal("passing attempt should return course progress")
	}
}

func TestSubmitAttemptValidation(t *testing.T) {
	s := newTestServer(t)
	sec := seedQuizSection(t, s.db)
	tok := token(t, 2, service.RoleStudent)

	w, resp := s.do(t, http.MethodPost, "/api/sections/"+sec.ID+"/quiz-attempts", tok, `{}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("missing answers: status = %d", w.Code)
	}
	if len(resp.Issues) == 0 || resp.Issues[0].Field != "answers" {
		t.Fatalf("issues = %+v", resp.Issues)
	}

	w, resp = s.do(t, http.MethodPost, "/api/sections/"+sec.ID+"/quiz-attempts", tok, `{"answers":[0]}`)
	if w.Code != http.StatusUnprocessableEntity || resp.Issues[0].Field != "answers" {
		t.Fatalf("count mismatch: status = %d issues = %+v", w.Code, resp.Issues)
	}

	w, _ = s.do(t, http.MethodPost, "/api/sections/missing/quiz-attempts", tok, `{"answers":[0]}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing section: status = %d", w.Code)
	}
}

func TestCreateGroupRequiresTeacher(t *testing.T) {
	s := newTestServer(t)
	body := map[string]string{"name": "Compliance Guild"}

	w, _ := s.do(t, http.MethodPost, "/api/groups", token(t, 2, service.RoleStudent), body)
	if w.Code != http.StatusForbidden {
		t.Fatalf("student: status = %d", w.Code)
	}

	w, resp := s.do(t, http.MethodPost, "/api/groups", token(t, 1, service.RoleTeacher), body)
	if w.Code != http.StatusCreated {
		t.Fatalf("teacher: status = %d body = %s", w.Code, w.Body.String())
	}
	if dataMap(t, resp)["ownerId"].(float64) != 1 {
		t.Fatalf("owner not set: %v", resp.Data)
	}
}

func TestSavePayloadRejection(t *testing.T) {
	s := newTestServer(t)
	fx := testutil.SeedCourse(t, s.db, 1, 1, 0)
	sec := testutil.CreateSection(t, s.db, fx.Modules[0].ID, model.SectionCallout, 0, nil)
	tok := token(t, 1, service.RoleTeacher)

	body := `{"type":"callout","payload":{"style":"shout","body":"x"}}`
	w, resp := s.do(t, http.MethodPut, "/api/sections/"+sec.ID+"/payload", tok, body)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	if resp.Issues[0].Field != "style" {
		t.Fatalf("issues = %+v", resp.Issues)
	}

	body = `{"type":"callout","payload":{"body":"Check the rules"}}`
	w, resp = s.do(t, http.MethodPut, "/api/sections/"+sec.ID+"/payload", tok, body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	p := dataMap(t, resp)["payload"].(map[string]interface{})
	if p["style"] != "info" {
		t.Fatalf("default style not applied: %v", p)
	}

	// 学习者不能编辑
	w, _ = s.do(t, http.MethodPut, "/api/sections/"+sec.ID+"/payload", token(t, 2, service.RoleStudent), body)
	if w.Code != http.StatusForbidden {
		t.Fatalf("student: status = %d", w.Code)
	}
}

func TestSectionFlow(t *testing.T) {
	s := newTestServer(t)
	fx := testutil.SeedCourse(t, s.db, 1, 1, 2)
	tok := token(t, 2, service.RoleStudent)
	sec := fx.Sections[0]

	w, resp := s.do(t, http.MethodGet, "/api/sections/"+sec.ID+"?locale=es", tok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get section: status = %d", w.Code)
	}
	if dataMap(t, resp)["locale"] != "es" {
		t.Fatalf("locale = %v", dataMap(t, resp)["locale"])
	}

	w, resp = s.do(t, http.MethodPost, "/api/sections/"+sec.ID+"/complete", tok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("complete: status = %d body = %s", w.Code, w.Body.String())
	}
	if dataMap(t, resp)["progress"].(float64) != 50 {
		t.Fatalf("progress = %v", resp.Data)
	}

	w, resp = s.do(t, http.MethodGet, "/api/courses/"+fx.Course.ID+"/progress", tok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("progress: status = %d", w.Code)
	}
	data := dataMap(t, resp)
	if data["progress"].(float64) != 50 || data["lastSectionId"] != sec.ID {
		t.Fatalf("progress = %v", data)
	}
}
