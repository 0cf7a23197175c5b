package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"smartbar/internal/handlers"
	"smartbar/internal/middleware"
	"smartbar/internal/models"
	"smartbar/internal/repositories"
	"smartbar/internal/services"
	"smartbar/pkg/ollama"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeChatClient replays scripted responses so the import endpoint can be
// exercised without a running model server.
type fakeChatClient struct {
	responses []*ollama.ChatResponse
	errs      []error
	calls     int
}

func (f *fakeChatClient) Chat(ctx context.Context, req ollama.ChatRequest) (*ollama.ChatResponse, error) {
	i := f.calls
	f.calls++
	if i >= len(f.responses) {
		i = len(f.responses) - 1
	}
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	return f.responses[i], nil
}

func setupTestApp(t *testing.T, chat services.ChatClient) *fiber.App {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.SpiritType{},
		&models.Bottle{},
		&models.Recipe{},
		&models.BarcodeRegistry{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	userRepo := repositories.NewGORMUserRepository(db)
	spiritRepo := repositories.NewGORMSpiritTypeRepository(db)
	bottleRepo := repositories.NewGORMBottleRepository(db)
	recipeRepo := repositories.NewGORMRecipeRepository(db)
	barcodeRepo := repositories.NewGORMBarcodeRepository(db)

	authService := services.NewAuthService(userRepo, "integration-test-secret")
	spiritService := services.NewSpiritTypeService(spiritRepo)
	bottleService := services.NewBottleService(bottleRepo, spiritRepo, nil)
	recipeService := services.NewRecipeService(recipeRepo, spiritRepo)
	barcodeService := services.NewBarcodeService(barcodeRepo)
	seedService := services.NewSeedService(spiritRepo, recipeRepo)
	importService := services.NewBottleImportService(chat, "test-model", nil)
	importService.RetryDelay = 0

	authHandler := handlers.NewAuthHandler(authService, seedService)
	spiritHandler := handlers.NewSpiritTypeHandler(spiritService)
	bottleHandler := handlers.NewBottleHandler(bottleService, importService)
	recipeHandler := handlers.NewRecipeHandler(recipeService)
	barcodeHandler := handlers.NewBarcodeHandler(barcodeService)
	seedHandler := handlers.NewSeedHandler(seedService)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)

	protected := apiV1.Group("", middleware.AuthRequired(authService, userRepo))
	spiritHandler.RegisterRoutes(protected)
	bottleHandler.RegisterRoutes(protected)
	recipeHandler.RegisterRoutes(protected)
	barcodeHandler.RegisterRoutes(protected)
	seedHandler.RegisterRoutes(protected)

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	resp.Body.Close()

	var decoded map[string]interface{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			// Non-object bodies (e.g. list endpoints) are fine; callers that
			// need them decode the raw bytes themselves.
			decoded = nil
		}
	}
	return resp, decoded
}

func doJSONList(t *testing.T, app *fiber.App, path, token string) []map[string]interface{} {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request GET %s failed: %v", path, err)
	}
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var items []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		t.Fatalf("failed to decode list response: %v", err)
	}
	return items
}

func registerAndLogin(t *testing.T, app *fiber.App, username string) (accessToken, refreshToken string) {
	t.Helper()

	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"username": username,
		"password": "secret123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	access, _ := body["access_token"].(string)
	refresh, _ := body["refresh_token"].(string)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	return access, refresh
}

func TestAuthEndpoints(t *testing.T) {
	app := setupTestApp(t, &fakeChatClient{responses: []*ollama.ChatResponse{nil}})

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	user, _ := body["user"].(map[string]interface{})
	if assert.NotNil(t, user) {
		assert.Equal(t, "alice", user["username"])
		assert.NotEmpty(t, user["id"])
		// The password hash must never appear on the wire.
		_, leaked := user["Password"]
		assert.False(t, leaked)
	}

	// Duplicate username conflicts.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"username": "alice",
		"email":    "other@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Missing fields fail validation.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"username": "bob",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Login works with the username or the email.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"username": "alice@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"username": "alice",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTokenRefreshEndpoint(t *testing.T) {
	app := setupTestApp(t, &fakeChatClient{responses: []*ollama.ChatResponse{nil}})
	access, refresh := registerAndLogin(t, app, "alice")

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/auth/refresh", "", fiber.Map{
		"refresh_token": refresh,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["access_token"])
	assert.NotEmpty(t, body["refresh_token"])

	// An access token is not accepted at the refresh endpoint.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/refresh", "", fiber.Map{
		"refresh_token": access,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := setupTestApp(t, &fakeChatClient{responses: []*ollama.ChatResponse{nil}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bottles/", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/bottles/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegistrationSeedsDefaults(t *testing.T) {
	app := setupTestApp(t, &fakeChatClient{responses: []*ollama.ChatResponse{nil}})
	access, _ := registerAndLogin(t, app, "alice")

	recipes := doJSONList(t, app, "/api/v1/recipes/", access)
	assert.NotEmpty(t, recipes)
	spiritTypes := doJSONList(t, app, "/api/v1/spirit-types/", access)
	assert.NotEmpty(t, spiritTypes)

	// Lists page with skip/limit.
	page := doJSONList(t, app, "/api/v1/spirit-types/?limit=2", access)
	assert.Len(t, page, 2)
	rest := doJSONList(t, app, fmt.Sprintf("/api/v1/spirit-types/?skip=%d", len(spiritTypes)), access)
	assert.Empty(t, rest)

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/seed/status", access, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["is_user_seeded"])

	// Reseeding an already-seeded account creates nothing.
	resp, body = doJSON(t, app, http.MethodPost, "/api/v1/seed/", access, fiber.Map{})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 0, body["spirit_types"])
	assert.EqualValues(t, 0, body["recipes"])
}

func TestSpiritTypeEndpoints(t *testing.T) {
	app := setupTestApp(t, &fakeChatClient{responses: []*ollama.ChatResponse{nil}})
	access, _ := registerAndLogin(t, app, "alice")

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/spirit-types/", access, fiber.Map{
		"name": "Mezcal",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	id, _ := body["id"].(string)
	assert.NotEmpty(t, id)

	// Case-insensitive duplicate is rejected.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/spirit-types/", access, fiber.Map{
		"name": "mezcal",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodPut, "/api/v1/spirit-types/"+id, access, fiber.Map{
		"name": "Mezcal Joven",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Mezcal Joven", body["name"])

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/v1/spirit-types/"+id, access, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/spirit-types/"+id, access, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBottleEndpoints(t *testing.T) {
	app := setupTestApp(t, &fakeChatClient{responses: []*ollama.ChatResponse{nil}})
	access, _ := registerAndLogin(t, app, "alice")

	spiritTypes := doJSONList(t, app, "/api/v1/spirit-types/", access)
	if len(spiritTypes) == 0 {
		t.Fatal("expected seeded spirit types")
	}
	spiritTypeID, _ := spiritTypes[0]["id"].(string)

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/bottles/", access, fiber.Map{
		"name":           "Buffalo Trace",
		"brand":          "Buffalo Trace Distillery",
		"flavor_profile": "vanilla, caramel, oak",
		"capacity_ml":    750,
		"spirit_type_id": spiritTypeID,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	bottleID, _ := body["id"].(string)
	assert.NotEmpty(t, bottleID)

	// A spirit type the caller does not own fails validation.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/bottles/", access, fiber.Map{
		"name":           "Mystery Bottle",
		"spirit_type_id": "00000000-0000-0000-0000-000000000000",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	bottles := doJSONList(t, app, "/api/v1/bottles/", access)
	assert.Len(t, bottles, 1)

	// The list filter only matches the bottle's own spirit type.
	filtered := doJSONList(t, app, "/api/v1/bottles/?spirit_type_id="+spiritTypeID, access)
	assert.Len(t, filtered, 1)
	empty := doJSONList(t, app, "/api/v1/bottles/?spirit_type_id=no-such-id", access)
	assert.Empty(t, empty)

	// Partial update leaves untouched fields alone.
	resp, body = doJSON(t, app, http.MethodPut, "/api/v1/bottles/"+bottleID, access, fiber.Map{
		"name": "Buffalo Trace Single Barrel",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Buffalo Trace Single Barrel", body["name"])
	assert.Equal(t, "Buffalo Trace Distillery", body["brand"])

	// Another user cannot see the bottle.
	otherAccess, _ := registerAndLogin(t, app, "mallory")
	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/bottles/"+bottleID, otherAccess, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/v1/bottles/"+bottleID, access, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, app, http.MethodDelete, "/api/v1/bottles/"+bottleID, access, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRecipeEndpoints(t *testing.T) {
	app := setupTestApp(t, &fakeChatClient{responses: []*ollama.ChatResponse{nil}})
	access, _ := registerAndLogin(t, app, "alice")

	spiritTypes := doJSONList(t, app, "/api/v1/spirit-types/", access)
	if len(spiritTypes) == 0 {
		t.Fatal("expected seeded spirit types")
	}
	spiritTypeID, _ := spiritTypes[0]["id"].(string)

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/recipes/", access, fiber.Map{
		"name":         "House Sour",
		"instructions": "Shake everything with ice, strain into a coupe.",
		"ingredients": []fiber.Map{
			{"name": "Spirit", "quantity": 60, "unit": "ml"},
			{"name": "Lemon juice", "quantity": 25, "unit": "ml"},
			{"name": "Simple syrup", "quantity": 20, "unit": "ml"},
		},
		"spirit_type_ids": []string{spiritTypeID},
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	recipeID, _ := body["id"].(string)
	assert.NotEmpty(t, recipeID)
	ingredients, _ := body["ingredients"].([]interface{})
	assert.Len(t, ingredients, 3)

	// Referencing a spirit type the caller does not own fails validation.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/recipes/", access, fiber.Map{
		"name":            "Broken Recipe",
		"instructions":    "Stir.",
		"spirit_type_ids": []string{"not-owned-id"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/recipes/"+recipeID, access, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	linked, _ := body["spirit_types"].([]interface{})
	assert.Len(t, linked, 1)

	// Replace the recipe: new ingredient list and a different spirit type set,
	// persisted through the database and read back.
	resp, body = doJSON(t, app, http.MethodPost, "/api/v1/spirit-types/", access, fiber.Map{
		"name": "Amaro",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	secondSpiritTypeID, _ := body["id"].(string)

	resp, _ = doJSON(t, app, http.MethodPut, "/api/v1/recipes/"+recipeID, access, fiber.Map{
		"name":         "House Sour No. 2",
		"instructions": "Dry shake, then shake with ice and double strain.",
		"ingredients": []fiber.Map{
			{"name": "Spirit", "quantity": 50, "unit": "ml"},
			{"name": "Amaro", "quantity": 15, "unit": "ml"},
		},
		"spirit_type_ids": []string{spiritTypeID, secondSpiritTypeID},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/recipes/"+recipeID, access, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "House Sour No. 2", body["name"])
	updatedIngredients, _ := body["ingredients"].([]interface{})
	if assert.Len(t, updatedIngredients, 2) {
		amaro, _ := updatedIngredients[1].(map[string]interface{})
		assert.Equal(t, "Amaro", amaro["name"])
		assert.EqualValues(t, 15, amaro["quantity"])
	}
	updatedLinked, _ := body["spirit_types"].([]interface{})
	assert.Len(t, updatedLinked, 2)

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/v1/recipes/"+recipeID, access, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/recipes/"+recipeID, access, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBarcodeEndpoints(t *testing.T) {
	app := setupTestApp(t, &fakeChatClient{responses: []*ollama.ChatResponse{nil}})
	access, _ := registerAndLogin(t, app, "alice")

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/barcodes/5000267024001", access, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["found"])
	assert.NotEmpty(t, body["message"])

	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/barcodes/", access, fiber.Map{
		"barcode":          "5000267024001",
		"name":             "Johnnie Walker Black Label",
		"brand":            "Johnnie Walker",
		"flavor_profile":   "smoke, vanilla, dried fruit",
		"capacity_ml":      700,
		"spirit_type_name": "Whiskey",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// The registry is shared: a different user sees the entry.
	otherAccess, _ := registerAndLogin(t, app, "bob")
	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/barcodes/5000267024001", otherAccess, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["found"])
	data, _ := body["data"].(map[string]interface{})
	if assert.NotNil(t, data) {
		assert.Equal(t, "Johnnie Walker Black Label", data["name"])
		assert.Equal(t, "Whiskey", data["spirit_type_name"])
	}
}

func TestImportEndpoint(t *testing.T) {
	toolCall := &ollama.ChatResponse{
		Message: ollama.ResponseMessage{
			Role: "assistant",
			ToolCalls: []ollama.ToolCall{{
				Function: ollama.ToolCallFunction{
					Name: "import_bottle",
					Arguments: map[string]interface{}{
						"name":           "Espolòn Blanco",
						"brand":          "Espolòn",
						"flavor_profile": "agave, citrus, pepper",
						"capacity_ml":    float64(750),
						"spirit_type":    "Tequila",
					},
				},
			}},
		},
		Done: true,
	}
	app := setupTestApp(t, &fakeChatClient{responses: []*ollama.ChatResponse{toolCall}})
	access, _ := registerAndLogin(t, app, "alice")

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/bottles/import", access, fiber.Map{
		"image_base64": "aGVsbG8=",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Espolòn Blanco", body["name"])
	assert.Equal(t, "Tequila", body["spirit_type"])
	assert.EqualValues(t, 750, body["capacity_ml"])

	// A missing image is a request error, not a model failure.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/bottles/import", access, fiber.Map{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestImportEndpointModelFailureIsNotATransportError(t *testing.T) {
	noTool := &ollama.ChatResponse{
		Message: ollama.ResponseMessage{
			Role:    "assistant",
			Content: "I see a bottle of tequila on a wooden table.",
		},
		Done: true,
	}
	app := setupTestApp(t, &fakeChatClient{responses: []*ollama.ChatResponse{noTool}})
	access, _ := registerAndLogin(t, app, "alice")

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/bottles/import", access, fiber.Map{
		"image_base64": "aGVsbG8=",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["error"])
	assert.Equal(t, "I see a bottle of tequila on a wooden table.", body["llm_response"])
}
