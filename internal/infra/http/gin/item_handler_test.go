package ginserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thriftee/internal/app/dto"
	authsvc "thriftee/internal/app/services/auth"
	catalogsvc "thriftee/internal/app/services/catalog"
	chatsvc "thriftee/internal/app/services/chat"
	domainchat "thriftee/internal/domain/chat"
	"thriftee/internal/infra/config"
	"thriftee/internal/infra/obs"
	"thriftee/internal/infra/security"
	"thriftee/internal/infra/storage/memory"
)

func newTestServer(t *testing.T) (http.Handler, *authsvc.Service) {
	t.Helper()

	authService := &authsvc.Service{
		Users:     memory.NewUserRepository(),
		Sessions:  memory.NewSessionStore(),
		OTPs:      memory.NewOTPStore(),
		Passwords: security.BcryptHasher{Cost: 4},
		Tokens:    security.RandomTokenGenerator{},
	}
	catalogService := &catalogsvc.Service{
		Items:    memory.NewItemRepository(),
		Requests: memory.NewRequestRepository(),
	}
	chatService := &chatsvc.Service{
		Rooms:    memory.NewChatRoomRepository(),
		Messages: memory.NewChatMessageRepository(),
	}

	handlers := Handlers{
		Auth:           AuthHandler{Service: authService},
		Item:           ItemHandler{Catalog: catalogService, Chat: chatService},
		Request:        RequestHandler{Catalog: catalogService, Chat: chatService},
		Chat:           NewChatHandler(chatService, nil, nil),
		Me:             MeHandler{Auth: authService, Catalog: catalogService},
		AuthMiddleware: AuthMiddleware{Service: authService}.Handle,
	}
	server := NewServer(config.Config{Env: "test", HTTPAddr: ":0"}, obs.Middleware{}, obs.HealthHandlers{}, handlers)
	return server.Handler, authService
}

func registerUser(t *testing.T, handler http.Handler, email string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{
		"email":    email,
		"name":     "Tester",
		"password": "password123",
	})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token
}

func createItem(t *testing.T, handler http.Handler, token, name string, price int64) dto.ItemCard {
	t.Helper()
	body, _ := json.Marshal(map[string]any{
		"name":  name,
		"price": price,
		"city":  "Bergen",
	})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/items", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var card dto.ItemCard
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &card))
	return card
}

func TestBrowseItemsEndpoint(t *testing.T) {
	handler, _ := newTestServer(t)
	token := registerUser(t, handler, "seller@example.com")
	for i := 0; i < 8; i++ {
		createItem(t, handler, token, "Chair", int64(100*(i+1)))
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/items", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var page dto.ItemBrowse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Len(t, page.Items, 6)
	assert.Equal(t, 8, page.Total)
	assert.True(t, page.HasMore)
	assert.NotEmpty(t, page.Items[0].Posted)
}

func TestBrowseItemsFilterQueryParams(t *testing.T) {
	handler, _ := newTestServer(t)
	token := registerUser(t, handler, "seller@example.com")
	createItem(t, handler, token, "Lamplight vintage", 500)
	createItem(t, handler, token, "Desk", 2000)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/items?q=lamp&max_price=1000", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var page dto.ItemBrowse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Lamplight vintage", page.Items[0].Name)
}

func TestCreateItemRequiresAuth(t *testing.T) {
	handler, _ := newTestServer(t)

	body, _ := json.Marshal(map[string]any{"name": "Chair", "price": 100, "city": "Bergen"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/items", bytes.NewReader(body)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStartChatFromItem(t *testing.T) {
	handler, _ := newTestServer(t)
	sellerToken := registerUser(t, handler, "seller@example.com")
	buyerToken := registerUser(t, handler, "buyer@example.com")
	item := createItem(t, handler, sellerToken, "Chair", 100)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/items/"+item.ID+"/chat", nil)
	req.Header.Set("Authorization", "Bearer "+buyerToken)
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var room dto.ChatRoom
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &room))
	assert.Equal(t, item.ID, room.ListingID)

	// the seller opening a chat on their own item is rejected
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/items/"+item.ID+"/chat", nil)
	req.Header.Set("Authorization", "Bearer "+sellerToken)
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStartChatStoreOutageMapsToBadGateway(t *testing.T) {
	authService := &authsvc.Service{
		Users:     memory.NewUserRepository(),
		Sessions:  memory.NewSessionStore(),
		OTPs:      memory.NewOTPStore(),
		Passwords: security.BcryptHasher{Cost: 4},
		Tokens:    security.RandomTokenGenerator{},
	}
	catalogService := &catalogsvc.Service{
		Items:    memory.NewItemRepository(),
		Requests: memory.NewRequestRepository(),
	}
	chatService := &chatsvc.Service{
		Rooms:    brokenRoomRepo{err: errors.New("connection reset")},
		Messages: memory.NewChatMessageRepository(),
	}

	handlers := Handlers{
		Auth:           AuthHandler{Service: authService},
		Item:           ItemHandler{Catalog: catalogService, Chat: chatService},
		AuthMiddleware: AuthMiddleware{Service: authService}.Handle,
	}
	server := NewServer(config.Config{Env: "test", HTTPAddr: ":0"}, obs.Middleware{}, obs.HealthHandlers{}, handlers)
	handler := server.Handler

	sellerToken := registerUser(t, handler, "seller@example.com")
	buyerToken := registerUser(t, handler, "buyer@example.com")
	item := createItem(t, handler, sellerToken, "Chair", 100)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/items/"+item.ID+"/chat", nil)
	req.Header.Set("Authorization", "Bearer "+buyerToken)
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

type brokenRoomRepo struct {
	err error
}

func (r brokenRoomRepo) ByID(context.Context, domainchat.RoomID) (*domainchat.Room, error) {
	return nil, r.err
}

func (r brokenRoomRepo) ByKey(context.Context, string, string, string) (*domainchat.Room, error) {
	return nil, r.err
}

func (r brokenRoomRepo) ByParticipant(context.Context, string) ([]*domainchat.Room, error) {
	return nil, r.err
}

func (r brokenRoomRepo) Save(context.Context, *domainchat.Room) error {
	return r.err
}

func TestMarkSoldEndpointOwnership(t *testing.T) {
	handler, _ := newTestServer(t)
	sellerToken := registerUser(t, handler, "seller@example.com")
	otherToken := registerUser(t, handler, "other@example.com")
	item := createItem(t, handler, sellerToken, "Chair", 100)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/items/"+item.ID+"/sold", nil)
	req.Header.Set("Authorization", "Bearer "+otherToken)
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/items/"+item.ID+"/sold", nil)
	req.Header.Set("Authorization", "Bearer "+sellerToken)
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var card dto.ItemCard
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &card))
	assert.True(t, card.IsSold)
}
