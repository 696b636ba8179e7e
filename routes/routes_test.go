package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/encryption"
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/handlers/auth"
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/handlers/ping"
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/handlers/privateMessages"
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/handlers/users"
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/middleware"
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/models"
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/repository"
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/services/messaging"
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/storage"
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/testutils"
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jwtSecret = "routes-test-secret"

type app struct {
	router    *gin.Engine
	uploadDir string
}

func newApp(t *testing.T) app {
	t.Helper()
	testutils.InitTestMain()
	utils.Logger.SetOutput(io.Discard)

	conn := testutils.SetupSQLiteDB(t)
	sqlDB, err := conn.DB()
	require.NoError(t, err)

	uploadDir := t.TempDir()
	codec, err := encryption.NewCodec("routes-test-master-secret")
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(conn)
	svc, err := messaging.NewService(
		repository.NewMessageRepository(conn),
		repository.NewConversationRepository(conn),
		userRepo,
		codec,
		storage.NewJanitor(storage.NewLocalStore(uploadDir, "/uploads/")),
		messaging.Options{EncryptMessages: true, EditWindow: 15 * time.Minute},
	)
	require.NoError(t, err)

	return app{
		router: SetupRouter(Deps{
			JWTSecret:       jwtSecret,
			Ping:            ping.New(sqlDB),
			Auth:            auth.New(userRepo, jwtSecret),
			Users:           users.New(userRepo),
			PrivateMessages: privateMessages.New(svc),
			UploadDir:       uploadDir,
			UploadURLPrefix: "/uploads/",
		}),
		uploadDir: uploadDir,
	}
}

func (a app) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		buf = bytes.NewBuffer(data)
	}
	req, _ := http.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a app) register(t *testing.T, email string) (uint, string) {
	t.Helper()
	creds := map[string]string{"email": email, "password": "Password123"}
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/register", "", creds).Code)

	w := a.do(http.MethodPost, "/login", "", creds)
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	claims, err := utils.DecodeJWT(jwtSecret, body["token"])
	require.NoError(t, err)
	id, err := utils.UserIDFromClaims(claims)
	require.NoError(t, err)
	return id, body["token"]
}

func TestRouter_PingAndRequestID(t *testing.T) {
	a := newApp(t)

	w := a.do(http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	a := newApp(t)

	for _, path := range []string{"/private-messages/conversations", "/private-messages/unread-count", "/users/me"} {
		assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, path, "", nil).Code, path)
	}
}

func TestRouter_MessagingDisabledReceiver(t *testing.T) {
	a := newApp(t)
	_, aliceToken := a.register(t, "alice@example.com")
	bobID, bobToken := a.register(t, "bob@example.com")

	w := a.do(http.MethodPut, "/users/me/messaging", bobToken, map[string]bool{"messageEnable": false})
	require.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodPost, "/private-messages", aliceToken, map[string]interface{}{"receiverId": bobID, "content": "hi"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_DeleteForBothPurgesLocalUpload(t *testing.T) {
	a := newApp(t)
	_, aliceToken := a.register(t, "alice@example.com")
	bobID, bobToken := a.register(t, "bob@example.com")

	file := filepath.Join(a.uploadDir, "photo.png")
	require.NoError(t, os.WriteFile(file, []byte("png"), 0o644))

	w := a.do(http.MethodGet, "/uploads/photo.png", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodPost, "/private-messages", aliceToken, map[string]interface{}{
		"receiverId": bobID,
		"content":    "look",
		"mediaUrl":   "/uploads/photo.png",
		"mediaType":  "image/png",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var sent models.MessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sent))

	path := fmt.Sprintf("/private-messages/%d", sent.ID)
	require.Equal(t, http.StatusOK, a.do(http.MethodDelete, path, aliceToken, nil).Code)
	_, err := os.Stat(file)
	assert.NoError(t, err, "media must survive while the receiver can still see it")

	require.Equal(t, http.StatusOK, a.do(http.MethodDelete, path, bobToken, nil).Code)
	_, err = os.Stat(file)
	assert.True(t, os.IsNotExist(err))

	w = a.do(http.MethodGet, fmt.Sprintf("/private-messages/conversations/%d", bobID), aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}
