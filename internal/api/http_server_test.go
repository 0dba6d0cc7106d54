package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"leilao/internal/auth"
	"leilao/internal/config"
	"leilao/internal/entity"
	"leilao/internal/model"
	"leilao/internal/storage"
)

type testServer struct {
	handler *HTTPHandler
	router  *gin.Engine
	repo    model.Repository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	cfg := config.Config{
		DBType:               model.DBTypeSQLite,
		DBPath:               filepath.Join(dir, "test.db"),
		DBMaxOpenConns:       1,
		DBMaxIdleConns:       1,
		StorageType:          storage.TypeLocal,
		StorageLocalDir:      filepath.Join(dir, "banners"),
		StoragePublicBaseURL: "/files",
		JWTSecret:            "test-secret",
		JWTIssuer:            "leilao-test",
		JWTExpirationMinutes: 60,
	}

	repo, err := model.InitRepository(&cfg)
	if err != nil {
		t.Fatalf("init repository: %v", err)
	}
	store, err := storage.NewStorage(cfg)
	if err != nil {
		t.Fatalf("init storage: %v", err)
	}
	handler, err := NewHTTPHandler(cfg, repo, store)
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	r := gin.New()
	apiGroup := r.Group("/api")
	apiGroup.POST("/login", handler.Login)
	apiGroup.GET("/campanhas", handler.ListCampaigns)
	apiGroup.GET("/itens", handler.ListItems)
	apiGroup.GET("/itens/:id", handler.GetItem)
	apiGroup.POST("/lances", handler.CreateBid)
	apiGroup.GET("/configuracoes", handler.GetSettings)

	protected := apiGroup.Group("")
	protected.Use(handler.AuthMiddleware())
	protected.GET("/me", handler.Me)
	protected.GET("/lances/ultimos", handler.LatestBids)
	protected.GET("/lances", handler.ListBids)
	protected.GET("/lances/exportar", handler.ExportBidsCSV)
	protected.GET("/dashboard", handler.Dashboard)

	manager := protected.Group("")
	manager.Use(handler.RequireManager())
	manager.POST("/campanhas", handler.CreateCampaign)
	manager.PUT("/categorias/:id", handler.UpdateCategory)
	manager.POST("/categorias", handler.CreateCategory)
	manager.POST("/itens", handler.CreateItem)

	admin := protected.Group("")
	admin.Use(handler.RequireAdmin())
	admin.GET("/usuarios", handler.ListUsers)
	admin.POST("/usuarios", handler.CreateUser)
	admin.DELETE("/usuarios/:id", handler.DeleteUser)
	admin.POST("/configuracoes", handler.UpdateSettings)
	admin.GET("/auditoria", handler.ListAudit)

	return &testServer{handler: handler, router: r, repo: repo}
}

// seedUser creates an account directly and returns a valid token for it.
func (s *testServer) seedUser(t *testing.T, name, email, role string) (*entity.DbUser, string) {
	t.Helper()
	hash, err := auth.HashPassword("secret123")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := entity.DbUser{Name: name, Email: email, PasswordHash: hash, Role: role}
	if err := s.repo.CreateUser(context.Background(), &user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	token, _, err := s.handler.authManager.GenerateToken(&user)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return &user, token
}

func (s *testServer) seedItem(t *testing.T, startingBid float64) *entity.DbItem {
	t.Helper()
	ctx := context.Background()
	campaign := entity.DbCampaign{Name: "Leilão 2026", Year: 2026, Status: entity.CampaignStatusActive}
	if err := s.repo.CreateCampaign(ctx, &campaign); err != nil {
		t.Fatalf("create campaign: %v", err)
	}
	category := entity.DbCategory{Name: "Artesanato"}
	if err := s.repo.CreateCategory(ctx, &category); err != nil {
		t.Fatalf("create category: %v", err)
	}
	item := entity.DbItem{Name: "Toalha bordada", StartingBid: startingBid, CampaignID: campaign.ID, CategoryID: category.ID}
	if err := s.repo.CreateItem(ctx, &item); err != nil {
		t.Fatalf("create item: %v", err)
	}
	return &item
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response %q: %v", w.Body.String(), err)
	}
	message, _ := body["message"].(string)
	return message
}

func TestAuthMiddlewareTokenOutcomes(t *testing.T) {
	s := newTestServer(t)

	// Signed with the server secret but already past its expiry.
	now := time.Now().UTC()
	expiredClaims := auth.Claims{
		UserID: 7,
		Email:  "gone@example.com",
		Role:   entity.UserRoleManager,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now.Add(-48 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-24 * time.Hour)),
		},
	}
	expiredToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expiredClaims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign expired token: %v", err)
	}

	tests := []struct {
		name        string
		header      string
		expectedMsg string
	}{
		{name: "missing header", header: "", expectedMsg: MsgMissingToken},
		{name: "malformed scheme", header: "Basic abc", expectedMsg: MsgInvalidToken},
		{name: "blank token", header: "Bearer ", expectedMsg: MsgInvalidToken},
		{name: "garbage token", header: "Bearer not-a-jwt", expectedMsg: MsgInvalidToken},
		{name: "expired token", header: "Bearer " + expiredToken, expectedMsg: MsgExpiredToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			s.router.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", w.Code)
			}
			if msg := decodeMessage(t, w); msg != tt.expectedMsg {
				t.Errorf("expected message %q, got %q", tt.expectedMsg, msg)
			}
		})
	}
}

func TestRoleMatrix(t *testing.T) {
	s := newTestServer(t)
	_, adminToken := s.seedUser(t, "Admin", "admin@example.com", entity.UserRoleAdmin)
	_, managerToken := s.seedUser(t, "Gestor", "gestor@example.com", entity.UserRoleManager)

	// Managers may run campaign mutations.
	w := s.do(http.MethodPost, "/api/campanhas", managerToken, gin.H{"nome": "Campanha", "ano": 2026})
	if w.Code != http.StatusCreated {
		t.Fatalf("manager create campaign: expected 201, got %d (%s)", w.Code, w.Body.String())
	}

	// Managers are rejected from user administration.
	w = s.do(http.MethodGet, "/api/usuarios", managerToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("manager list users: expected 403, got %d", w.Code)
	}
	if msg := decodeMessage(t, w); msg != MsgAdminRequired {
		t.Errorf("expected %q, got %q", MsgAdminRequired, msg)
	}

	// Admins pass both gates.
	w = s.do(http.MethodGet, "/api/usuarios", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin list users: expected 200, got %d", w.Code)
	}
	w = s.do(http.MethodGet, "/api/dashboard", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin dashboard: expected 200, got %d", w.Code)
	}
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)
	user, _ := s.seedUser(t, "Admin", "admin@example.com", entity.UserRoleAdmin)

	w := s.do(http.MethodPost, "/api/login", "", gin.H{"email": "admin@example.com", "senha": "secret123"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	var resp entity.AuthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal login response: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a token")
	}
	if resp.User.ID != user.ID || resp.User.Role != entity.UserRoleAdmin {
		t.Errorf("unexpected user payload: %+v", resp.User)
	}

	// Wrong password and unknown email share one message.
	w = s.do(http.MethodPost, "/api/login", "", gin.H{"email": "admin@example.com", "senha": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if msg := decodeMessage(t, w); msg != MsgInvalidCredentials {
		t.Errorf("expected %q, got %q", MsgInvalidCredentials, msg)
	}
	w = s.do(http.MethodPost, "/api/login", "", gin.H{"email": "nobody@example.com", "senha": "secret123"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if msg := decodeMessage(t, w); msg != MsgInvalidCredentials {
		t.Errorf("expected %q, got %q", MsgInvalidCredentials, msg)
	}

	w = s.do(http.MethodPost, "/api/login", "", gin.H{"email": "admin@example.com"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestUpdateCategoryRequiresName(t *testing.T) {
	s := newTestServer(t)
	_, token := s.seedUser(t, "Gestor", "gestor@example.com", entity.UserRoleManager)

	w := s.do(http.MethodPut, "/api/categorias/5", token, gin.H{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if msg := decodeMessage(t, w); msg != "Nome é obrigatório!" {
		t.Errorf("expected name-required message, got %q", msg)
	}
}

func TestCreateBidFlow(t *testing.T) {
	s := newTestServer(t)
	item := s.seedItem(t, 100)

	// Equal to the current price is rejected and reports that price.
	w := s.do(http.MethodPost, "/api/lances", "", gin.H{
		"item_id": item.ID, "valor": 100, "nome_participante": "Ana", "telefone": "11999990000",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (%s)", w.Code, w.Body.String())
	}
	var rejection map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &rejection); err != nil {
		t.Fatalf("unmarshal rejection: %v", err)
	}
	if rejection["lance_atual"] != 100.0 {
		t.Errorf("expected lance_atual 100, got %v", rejection["lance_atual"])
	}
	if msg, _ := rejection["message"].(string); !strings.Contains(msg, "R$ 100.00") {
		t.Errorf("expected current price in message, got %q", msg)
	}

	w = s.do(http.MethodPost, "/api/lances", "", gin.H{
		"item_id": item.ID, "valor": 150, "nome_participante": "Ana", "telefone": "11999990000",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", w.Code, w.Body.String())
	}

	w = s.do(http.MethodPost, "/api/lances", "", gin.H{
		"item_id": 9999, "valor": 10, "nome_participante": "Ana", "telefone": "11999990000",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	w = s.do(http.MethodPost, "/api/lances", "", gin.H{"item_id": item.ID, "valor": 200})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing fields, got %d", w.Code)
	}
}

func TestItemDetailCarriesCurrentBid(t *testing.T) {
	s := newTestServer(t)
	item := s.seedItem(t, 100)

	w := s.do(http.MethodPost, "/api/lances", "", gin.H{
		"item_id": item.ID, "valor": 120, "nome_participante": "Ana", "telefone": "11999990000",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("place bid: expected 201, got %d", w.Code)
	}

	w = s.do(http.MethodGet, "/api/itens/"+uintToString(item.ID), "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var detail entity.ItemDetail
	if err := json.Unmarshal(w.Body.Bytes(), &detail); err != nil {
		t.Fatalf("unmarshal detail: %v", err)
	}
	if detail.CurrentBid != 120 {
		t.Errorf("expected current bid 120, got %v", detail.CurrentBid)
	}
	if len(detail.LatestBids) != 1 || detail.LatestBids[0].Value != 120 {
		t.Errorf("unexpected latest bids: %+v", detail.LatestBids)
	}
}

func TestCreateItemRejectsClosedCampaign(t *testing.T) {
	s := newTestServer(t)
	_, token := s.seedUser(t, "Gestor", "gestor@example.com", entity.UserRoleManager)
	ctx := context.Background()

	campaign := entity.DbCampaign{Name: "Encerrada", Year: 2025, Status: entity.CampaignStatusClosed}
	if err := s.repo.CreateCampaign(ctx, &campaign); err != nil {
		t.Fatalf("create campaign: %v", err)
	}
	category := entity.DbCategory{Name: "Doces"}
	if err := s.repo.CreateCategory(ctx, &category); err != nil {
		t.Fatalf("create category: %v", err)
	}

	w := s.do(http.MethodPost, "/api/itens", token, gin.H{
		"nome": "Bolo", "campanha_id": campaign.ID, "categoria_id": category.ID, "lance_inicial": 10,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (%s)", w.Code, w.Body.String())
	}
	if msg := decodeMessage(t, w); msg != "Apenas campanhas ativas podem receber novos itens!" {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestExportBidsCSVEmpty(t *testing.T) {
	s := newTestServer(t)
	_, token := s.seedUser(t, "Gestor", "gestor@example.com", entity.UserRoleManager)

	w := s.do(http.MethodGet, "/api/lances/exportar", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("expected csv content type, got %q", ct)
	}
	body := strings.TrimSpace(w.Body.String())
	if body != "ID,Item,Categoria,Valor,Participante,Telefone,Data" {
		t.Errorf("expected header-only csv, got %q", body)
	}
}

func TestDeleteOwnUserRejected(t *testing.T) {
	s := newTestServer(t)
	admin, token := s.seedUser(t, "Admin", "admin@example.com", entity.UserRoleAdmin)

	w := s.do(http.MethodDelete, "/api/usuarios/"+uintToString(admin.ID), token, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if msg := decodeMessage(t, w); msg != "Você não pode deletar seu próprio usuário!" {
		t.Errorf("unexpected message %q", msg)
	}

	// The account must still exist afterwards.
	if _, err := s.repo.GetUserByID(context.Background(), admin.ID); err != nil {
		t.Fatalf("admin disappeared: %v", err)
	}
}

func TestSettingsDefaultsAndUpdate(t *testing.T) {
	s := newTestServer(t)
	_, token := s.seedUser(t, "Admin", "admin@example.com", entity.UserRoleAdmin)

	w := s.do(http.MethodGet, "/api/configuracoes", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var defaults entity.SettingResponse
	if err := json.Unmarshal(w.Body.Bytes(), &defaults); err != nil {
		t.Fatalf("unmarshal settings: %v", err)
	}
	if defaults.InstitutionName != entity.DefaultInstitutionName || defaults.Currency != entity.DefaultCurrency {
		t.Errorf("unexpected defaults: %+v", defaults)
	}

	w = s.do(http.MethodPost, "/api/configuracoes", token, gin.H{"nome_instituicao": "Igreja Central"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	w = s.do(http.MethodGet, "/api/configuracoes", "", nil)
	var saved entity.SettingResponse
	if err := json.Unmarshal(w.Body.Bytes(), &saved); err != nil {
		t.Fatalf("unmarshal settings: %v", err)
	}
	if saved.InstitutionName != "Igreja Central" {
		t.Errorf("expected updated name, got %q", saved.InstitutionName)
	}
	if saved.Currency != entity.DefaultCurrency {
		t.Errorf("expected default currency to survive, got %q", saved.Currency)
	}
}

func TestAuditTrailRecordsMutations(t *testing.T) {
	s := newTestServer(t)
	admin, adminToken := s.seedUser(t, "Admin", "admin@example.com", entity.UserRoleAdmin)

	w := s.do(http.MethodPost, "/api/categorias", adminToken, gin.H{"nome": "Livros"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create category: expected 201, got %d", w.Code)
	}

	w = s.do(http.MethodGet, "/api/auditoria", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var entries []entity.AuditSummary
	if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
		t.Fatalf("unmarshal audit: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(entries))
	}
	if !strings.Contains(entries[0].Action, "Livros") {
		t.Errorf("expected action naming the category, got %q", entries[0].Action)
	}
	if entries[0].User == nil || entries[0].User.ID != admin.ID {
		t.Errorf("expected acting user %d, got %+v", admin.ID, entries[0].User)
	}
}

func uintToString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
