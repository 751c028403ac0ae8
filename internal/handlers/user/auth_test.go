package user

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"game_market_back_end/internal/models"
	"game_market_back_end/internal/utils"
)

type fakeUserStore struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[primitive.ObjectID]*models.User)}
}

func (f *fakeUserStore) Insert(_ context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return u, nil
}

func (f *fakeUserStore) FindByConfirmationToken(_ context.Context, token string) (*models.User, error) {
	for _, u := range f.users {
		if u.ConfirmationToken == token && token != "" {
			return u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeUserStore) SetConfirmation(_ context.Context, userID primitive.ObjectID, token string, expires time.Time) error {
	u, ok := f.users[userID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	u.ConfirmationToken = token
	u.ConfirmationTokenExpires = &expires
	return nil
}

func (f *fakeUserStore) MarkVerified(_ context.Context, userID primitive.ObjectID) error {
	u, ok := f.users[userID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	u.IsVerified = true
	u.ConfirmationToken = ""
	u.ConfirmationTokenExpires = nil
	return nil
}

func (f *fakeUserStore) UpdateHash(_ context.Context, userID primitive.ObjectID, hash string) error {
	u, ok := f.users[userID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	u.Hash = hash
	return nil
}

func (f *fakeUserStore) List(_ context.Context) ([]models.User, error) {
	var out []models.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserStore) Update(_ context.Context, userID primitive.ObjectID, fields bson.M) (*models.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	if email, ok := fields["email"]; ok {
		u.Email = email.(string)
	}
	if role, ok := fields["role"]; ok {
		u.Role = role.(string)
	}
	return u, nil
}

func (f *fakeUserStore) Delete(_ context.Context, userID primitive.ObjectID) error {
	if _, ok := f.users[userID]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(f.users, userID)
	return nil
}

type fakeResetStore struct {
	resets map[primitive.ObjectID]*models.ResetPassword
}

func newFakeResetStore() *fakeResetStore {
	return &fakeResetStore{resets: make(map[primitive.ObjectID]*models.ResetPassword)}
}

func (f *fakeResetStore) Upsert(_ context.Context, userID primitive.ObjectID, token string, expires time.Time) error {
	for _, r := range f.resets {
		if r.User == userID {
			r.ResetPasswordToken = token
			r.ResetPasswordExpires = expires
			return nil
		}
	}
	id := primitive.NewObjectID()
	f.resets[id] = &models.ResetPassword{ID: id, User: userID, ResetPasswordToken: token, ResetPasswordExpires: expires}
	return nil
}

func (f *fakeResetStore) FindByToken(_ context.Context, token string) (*models.ResetPassword, error) {
	for _, r := range f.resets {
		if r.ResetPasswordToken == token {
			return r, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeResetStore) FindByUser(_ context.Context, userID primitive.ObjectID) (*models.ResetPassword, error) {
	for _, r := range f.resets {
		if r.User == userID {
			return r, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeResetStore) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(f.resets, id)
	return nil
}

type recordingMailer struct {
	sent []string
}

func (m *recordingMailer) SendEmail(to []string, _, _ string, _ []byte, _ string) error {
	m.sent = append(m.sent, to[0])
	return nil
}

type fakeTokenCache struct {
	invalidated []string
}

func (f *fakeTokenCache) InvalidateToken(_ context.Context, token string) {
	f.invalidated = append(f.invalidated, token)
}

type authFixture struct {
	users  *fakeUserStore
	resets *fakeResetStore
	mailer *recordingMailer
	tokens *fakeTokenCache
	router *gin.Engine
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:  newFakeUserStore(),
		resets: newFakeResetStore(),
		mailer: &recordingMailer{},
		tokens: &fakeTokenCache{},
	}
	h := NewHandler(f.users, f.resets, f.mailer, f.tokens)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/users/signup", h.Signup)
	r.POST("/users/login", h.Login)
	r.GET("/users/confirm/:token", h.ConfirmEmail)
	r.POST("/users/reset-password", h.RequestResetPassword)
	r.GET("/users/reset-password/:token", h.CheckResetToken)
	r.POST("/users/edit-password", h.EditPassword)
	f.router = r
	return f
}

func (f *authFixture) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *authFixture) seedUser(email, password string, verified bool) *models.User {
	salt := utils.GenerateSalt()
	u := &models.User{
		ID:         primitive.NewObjectID(),
		Email:      email,
		Role:       models.RoleUser,
		Token:      utils.GenerateToken(),
		Salt:       salt,
		Hash:       utils.HashPassword(password, salt),
		IsVerified: verified,
	}
	f.users.users[u.ID] = u
	return u
}

func TestSignup(t *testing.T) {
	f := newAuthFixture()

	w := f.do(http.MethodPost, "/users/signup", gin.H{
		"firstName": "Jean", "lastName": "Dupont",
		"email": "jean@example.com", "password": "S3cret!",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	u, err := f.users.FindByEmail(context.Background(), "jean@example.com")
	require.NoError(t, err)
	assert.False(t, u.IsVerified)
	assert.NotEmpty(t, u.Token)
	assert.NotEmpty(t, u.ConfirmationToken)
	assert.NotEqual(t, "S3cret!", u.Hash)
	assert.True(t, utils.VerifyPassword("S3cret!", u.Salt, u.Hash))
	assert.Equal(t, []string{"jean@example.com"}, f.mailer.sent)
}

func TestSignupDuplicateEmail(t *testing.T) {
	f := newAuthFixture()
	f.seedUser("jean@example.com", "S3cret!", true)

	w := f.do(http.MethodPost, "/users/signup", gin.H{"email": "jean@example.com", "password": "autre"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Cet email est déja pris")
	assert.Len(t, f.users.users, 1)
	assert.Empty(t, f.mailer.sent)
}

func TestSignupMissingFields(t *testing.T) {
	f := newAuthFixture()

	w := f.do(http.MethodPost, "/users/signup", gin.H{"email": "jean@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Données manquante")
}

func TestLoginSuccess(t *testing.T) {
	f := newAuthFixture()
	u := f.seedUser("jean@example.com", "S3cret!", true)

	w := f.do(http.MethodPost, "/users/login", gin.H{"email": "jean@example.com", "password": "S3cret!"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		ID    string `json:"_id"`
		Email string `json:"email"`
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, u.ID.Hex(), resp.ID)
	assert.Equal(t, u.Token, resp.Token)
}

func TestLoginWithRawToken(t *testing.T) {
	f := newAuthFixture()
	u := f.seedUser("jean@example.com", "S3cret!", true)

	w := f.do(http.MethodPost, "/users/login", gin.H{"email": "jean@example.com", "token": u.Token})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newAuthFixture()
	f.seedUser("jean@example.com", "S3cret!", true)

	w := f.do(http.MethodPost, "/users/login", gin.H{"email": "jean@example.com", "password": "faux"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "email et/ou mot de passe incorrect(s)")
}

func TestLoginUnverifiedResendsOneEmail(t *testing.T) {
	f := newAuthFixture()
	f.seedUser("jean@example.com", "S3cret!", false)

	w := f.do(http.MethodPost, "/users/login", gin.H{"email": "jean@example.com", "password": "S3cret!"})
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Contains(t, w.Body.String(), "compte non vérifié")
	assert.Len(t, f.mailer.sent, 1)
}

func TestConfirmEmail(t *testing.T) {
	f := newAuthFixture()
	u := f.seedUser("jean@example.com", "S3cret!", false)
	expires := time.Now().Add(24 * time.Hour)
	u.ConfirmationToken = "token-confirmation"
	u.ConfirmationTokenExpires = &expires

	w := f.do(http.MethodGet, "/users/confirm/token-confirmation", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, u.IsVerified)
	assert.Empty(t, u.ConfirmationToken)

	// token inconnu
	w = f.do(http.MethodGet, "/users/confirm/inconnu", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConfirmEmailExpiredResends(t *testing.T) {
	f := newAuthFixture()
	u := f.seedUser("jean@example.com", "S3cret!", false)
	expires := time.Now().Add(-time.Hour)
	u.ConfirmationToken = "token-expire"
	u.ConfirmationTokenExpires = &expires

	w := f.do(http.MethodGet, "/users/confirm/token-expire", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, u.IsVerified)
	assert.Len(t, f.mailer.sent, 1)
	assert.NotEqual(t, "token-expire", u.ConfirmationToken)
}

func TestResetPasswordFlow(t *testing.T) {
	f := newAuthFixture()
	u := f.seedUser("jean@example.com", "AncienMdp", true)

	// la demande répond 200 même pour un email inconnu
	w := f.do(http.MethodPost, "/users/reset-password", gin.H{"email": "inconnu@example.com"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, f.resets.resets)

	w = f.do(http.MethodPost, "/users/reset-password", gin.H{"email": "jean@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, f.resets.resets, 1)
	assert.Equal(t, []string{"jean@example.com"}, f.mailer.sent)

	reset, err := f.resets.FindByUser(context.Background(), u.ID)
	require.NoError(t, err)

	w = f.do(http.MethodGet, "/users/reset-password/"+reset.ResetPasswordToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "jean@example.com")

	w = f.do(http.MethodPost, "/users/edit-password", gin.H{"email": "jean@example.com", "password": "NouveauMdp"})
	require.Equal(t, http.StatusOK, w.Code)

	assert.True(t, utils.VerifyPassword("NouveauMdp", u.Salt, u.Hash))
	assert.False(t, utils.VerifyPassword("AncienMdp", u.Salt, u.Hash))
	// la demande est consommée et le cache d'authentification purgé
	assert.Empty(t, f.resets.resets)
	assert.Equal(t, []string{u.Token}, f.tokens.invalidated)
}

func TestCheckResetTokenExpired(t *testing.T) {
	f := newAuthFixture()
	u := f.seedUser("jean@example.com", "S3cret!", true)
	require.NoError(t, f.resets.Upsert(context.Background(), u.ID, "token-perime", time.Now().Add(-time.Minute)))

	w := f.do(http.MethodGet, "/users/reset-password/token-perime", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(http.MethodPost, "/users/edit-password", gin.H{"email": "jean@example.com", "password": "NouveauMdp"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.True(t, utils.VerifyPassword("S3cret!", u.Salt, u.Hash))
}
