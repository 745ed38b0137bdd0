package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/immxrtalbeast/classroom_live/internal/repository"
	"github.com/immxrtalbeast/classroom_live/internal/service"
	"github.com/immxrtalbeast/classroom_live/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiFixture struct {
	t      *testing.T
	router *gin.Engine
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	log := testutil.Logger()
	rooms := repository.NewGormRoomRepository(db)
	quizRepo := repository.NewGormQuizRepository(db)
	events := repository.NewInMemoryQuizEventLog()

	authSvc := service.NewAuthService(repository.NewGormPrincipalRepository(db), repository.NewInMemoryRevocationList(), "secret", time.Hour, 24*time.Hour, log)
	roomSvc := service.NewRoomService(rooms, 6, 5, log)
	quizSvc := service.NewQuizService(quizRepo, rooms, events, nil, log)
	timelineSvc := service.NewTimelineService(
		repository.NewGormChatRepository(db),
		repository.NewGormOXPollRepository(db),
		repository.NewGormChecklistRepository(db),
		repository.NewGormDrawRepository(db),
		quizRepo,
		events,
		log,
	)
	imageSvc := service.NewImageService(rooms, nil, nil, log)

	router := SetupRouter(nil, AuthMiddleware(authSvc), Controllers{
		Auth:    NewAuthController(authSvc),
		Rooms:   NewRoomController(roomSvc, timelineSvc, quizSvc, imageSvc),
		Quizzes: NewQuizController(quizSvc),
	}, nil)
	return &apiFixture{t: t, router: router}
}

func (f *apiFixture) do(method, path, token string, body any) *httptest.ResponseRecorder {
	f.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(f.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *apiFixture) register(role, number string) string {
	f.t.Helper()
	rec := f.do(http.MethodPost, "/api/auth/register", "", map[string]any{
		"name":                "user " + number,
		"role":                role,
		"institutionalNumber": number,
		"password":            "pass1234",
	})
	require.Equal(f.t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(f.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.AccessToken
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthz(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRequired(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(http.MethodGet, "/api/me/rooms", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(http.MethodGet, "/api/me/rooms", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoomFlow(t *testing.T) {
	f := newAPIFixture(t)
	prof := f.register("professor", "P-100")
	stu := f.register("student", "S-100")

	rec := f.do(http.MethodPost, "/api/rooms", stu, map[string]any{"name": "math"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(http.MethodPost, "/api/rooms", prof, map[string]any{"name": "math"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[struct {
		Room struct {
			ID   uint   `json:"id"`
			Code string `json:"code"`
		} `json:"room"`
	}](t, rec)
	require.Len(t, created.Room.Code, 6)

	rec = f.do(http.MethodGet, "/api/rooms/code/"+created.Room.Code, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resolved := decode[struct {
		ID uint `json:"id"`
	}](t, rec)
	assert.Equal(t, created.Room.ID, resolved.ID)

	rec = f.do(http.MethodGet, "/api/rooms/code/NOPE00", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(http.MethodGet, "/api/rooms/code/"+created.Room.Code+"/history", stu, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	history := decode[struct {
		History []json.RawMessage `json:"history"`
	}](t, rec)
	assert.Empty(t, history.History)

	rec = f.do(http.MethodGet, "/api/rooms/code/"+created.Room.Code+"/history?limit=-1", stu, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodGet, "/api/rooms/abc", stu, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodGet, "/api/rooms/1/image/download-url", stu, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQuizFlowHidesAnswersFromStudents(t *testing.T) {
	f := newAPIFixture(t)
	prof := f.register("professor", "P-200")
	stu := f.register("student", "S-200")

	rec := f.do(http.MethodPost, "/api/rooms", prof, map[string]any{"name": "bio"})
	require.Equal(t, http.StatusCreated, rec.Code)
	room := decode[struct {
		Room struct {
			ID uint `json:"id"`
		} `json:"room"`
	}](t, rec)

	rec = f.do(http.MethodPost, "/api/quizzes", prof, map[string]any{
		"roomId": room.Room.ID,
		"title":  "cells",
		"questions": []map[string]any{
			{"question": "q1", "choices": []string{"A", "B", "C", "D"}, "correctAnswer": "A"},
			{"question": "q2", "choices": []string{"A", "B", "C", "D"}, "correctAnswer": "C"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	quiz := decode[struct {
		ID uint `json:"id"`
	}](t, rec)
	quizPath := "/api/quizzes/" + jsonNumber(quiz.ID)

	rec = f.do(http.MethodGet, quizPath, stu, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "correctAnswer")

	rec = f.do(http.MethodGet, quizPath, prof, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "correctAnswer")

	rec = f.do(http.MethodPost, quizPath+"/submit", prof, map[string]any{"answers": []string{"A", "C"}})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(http.MethodPost, quizPath+"/submit", stu, map[string]any{"answers": []string{"A"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodPost, quizPath+"/submit", stu, map[string]any{"answers": []string{"A", "B"}})
	require.Equal(t, http.StatusOK, rec.Code)
	result := decode[struct {
		CorrectCount   int `json:"correctCount"`
		TotalQuestions int `json:"totalQuestions"`
	}](t, rec)
	assert.Equal(t, 1, result.CorrectCount)
	assert.Equal(t, 2, result.TotalQuestions)

	rec = f.do(http.MethodGet, quizPath+"/score", stu, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	score := decode[struct {
		TotalScore int `json:"totalScore"`
	}](t, rec)
	assert.Equal(t, 10, score.TotalScore)
	assert.Contains(t, rec.Body.String(), "correctAnswer")

	rec = f.do(http.MethodGet, "/api/rooms/"+jsonNumber(room.Room.ID)+"/ranking", stu, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodGet, "/api/quizzes/999", stu, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func jsonNumber(v uint) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func TestRoomManagement(t *testing.T) {
	f := newAPIFixture(t)
	owner := f.register("professor", "P-200")
	other := f.register("professor", "P-201")
	stu := f.register("student", "S-200")

	rec := f.do(http.MethodPost, "/api/rooms", owner, map[string]any{"name": "math"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[struct {
		Room struct {
			ID uint `json:"id"`
		} `json:"room"`
	}](t, rec)
	path := "/api/rooms/" + strconv.FormatUint(uint64(created.Room.ID), 10)

	rec = f.do(http.MethodPut, path, stu, map[string]any{"isActive": false})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(http.MethodPut, path, other, map[string]any{"isActive": false})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(http.MethodPut, path, owner, map[string]any{"name": "calculus", "isActive": false})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[struct {
		Room struct {
			Name     string `json:"name"`
			IsActive bool   `json:"isActive"`
		} `json:"room"`
	}](t, rec)
	assert.Equal(t, "calculus", updated.Room.Name)
	assert.False(t, updated.Room.IsActive)

	rec = f.do(http.MethodDelete, path, other, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(http.MethodDelete, path, owner, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(http.MethodGet, path, owner, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(http.MethodDelete, path, owner, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
