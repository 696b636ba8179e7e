package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/apperrors"
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	cases := map[apperrors.Code]int{
		apperrors.CodeInvalidArgument:    http.StatusBadRequest,
		apperrors.CodeUnauthenticated:    http.StatusUnauthorized,
		apperrors.CodePermissionDenied:   http.StatusForbidden,
		apperrors.CodeNotFound:           http.StatusNotFound,
		apperrors.CodeFailedPrecondition: http.StatusConflict,
		apperrors.CodeIntegrity:          http.StatusUnprocessableEntity,
		apperrors.CodeDecryption:         http.StatusUnprocessableEntity,
		apperrors.CodeInternal:           http.StatusInternalServerError,
		apperrors.CodeUnknown:            http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, StatusFor(code), code)
	}
}

func sendAppError(err error) (int, map[string]string) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	SendAppError(c, err)

	var body map[string]string
	json.Unmarshal(w.Body.Bytes(), &body)
	return w.Code, body
}

func TestSendAppError(t *testing.T) {
	status, body := sendAppError(apperrors.ErrEditWindowExpired)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "message can no longer be edited", body["error"])
	assert.Equal(t, "FAILED_PRECONDITION", body["code"])

	status, body = sendAppError(apperrors.ErrPersistence("save message", errors.New("pq: secret detail")))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Internal server error", body["error"])

	status, body = sendAppError(fmt.Errorf("authentication tag mismatch: %w", apperrors.ErrDecryption))
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "message could not be decrypted", body["error"])
	assert.Equal(t, "DECRYPTION_FAILED", body["code"])

	status, body = sendAppError(errors.New("plain"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "UNKNOWN", body["code"])
}

func TestJWT_RoundTrip(t *testing.T) {
	user := models.User{Role: models.UserRole}
	user.ID = 12

	token, err := GenerateJWT("s3cret", user, 1)
	require.NoError(t, err)

	claims, err := DecodeJWT("s3cret", token)
	require.NoError(t, err)
	id, err := UserIDFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, uint(12), id)

	_, err = DecodeJWT("other", token)
	assert.Error(t, err)
}

func TestDecodeJWT_RejectsNoneAlgorithm(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": 1}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = DecodeJWT("s3cret", token)
	assert.Error(t, err)
}

func TestUserIDFromClaims(t *testing.T) {
	_, err := UserIDFromClaims(jwt.MapClaims{})
	assert.Error(t, err)
	_, err = UserIDFromClaims(jwt.MapClaims{"user_id": "12"})
	assert.Error(t, err)
	_, err = UserIDFromClaims(jwt.MapClaims{"user_id": float64(0)})
	assert.Error(t, err)
}
