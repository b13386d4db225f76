package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/zczlr12/comp0034-cw1i-zczlr12/internal/auth"
	"github.com/zczlr12/comp0034-cw1i-zczlr12/internal/db"
	"github.com/zczlr12/comp0034-cw1i-zczlr12/internal/model"
	"github.com/zczlr12/comp0034-cw1i-zczlr12/internal/store"
)

const testJWTSecret = "test-secret"

var aliceJSON = map[string]string{
	"username":   "alice",
	"password":   "pw123456",
	"first_name": "A",
	"last_name":  "L",
	"email":      "a@x.com",
}

// setupTestServer starts a test server with a registered user and returns the
// server, a valid token, and the user's id.
func setupTestServer(t *testing.T) (*httptest.Server, *sql.DB, string, int64) {
	t.Helper()
	database := db.NewTestDB(t)
	router := NewRouter(database, testJWTSecret, auth.DefaultTokenExpiry)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	resp := postJSON(t, server.URL+"/register", "", aliceJSON)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register failed: %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = postJSON(t, server.URL+"/login", "", map[string]string{
		"username": "alice",
		"password": "pw123456",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("login failed: %d", resp.StatusCode)
	}

	var login struct {
		UserID int64  `json:"user_id"`
		Token  string `json:"token"`
	}
	json.NewDecoder(resp.Body).Decode(&login)
	if login.Token == "" {
		t.Fatal("empty token from login")
	}

	return server, database, login.Token, login.UserID
}

// postJSON sends a POST request, attaching the token verbatim in the
// Authorization header when non-empty.
func postJSON(t *testing.T, url, token string, body any) *http.Response {
	t.Helper()
	return doJSON(t, "POST", url, token, body)
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, target any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
}

func TestRegisterThenConflict(t *testing.T) {
	database := db.NewTestDB(t)
	server := httptest.NewServer(NewRouter(database, testJWTSecret, auth.DefaultTokenExpiry))
	t.Cleanup(server.Close)

	resp := postJSON(t, server.URL+"/register", "", aliceJSON)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var body map[string]string
	decodeBody(t, resp, &body)
	if body["message"] != "Successfully registered." {
		t.Errorf("unexpected register message: %q", body["message"])
	}

	resp = postJSON(t, server.URL+"/register", "", aliceJSON)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for duplicate registration, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestRegisterValidationCollectsAllFields(t *testing.T) {
	database := db.NewTestDB(t)
	server := httptest.NewServer(NewRouter(database, testJWTSecret, auth.DefaultTokenExpiry))
	t.Cleanup(server.Close)

	resp := postJSON(t, server.URL+"/register", "", map[string]string{"username": "bob"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	var fe map[string][]string
	decodeBody(t, resp, &fe)
	for _, field := range []string{"password", "first_name", "last_name", "email"} {
		if len(fe[field]) == 0 {
			t.Errorf("expected a validation message for %q, got %v", field, fe)
		}
	}
	if len(fe["username"]) != 0 {
		t.Errorf("did not expect a validation message for username, got %v", fe["username"])
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	server, _, _, _ := setupTestServer(t)

	readFailure := func(body map[string]string) string { return body["message"] }

	// Wrong password for an existing user.
	resp := postJSON(t, server.URL+"/login", "", map[string]string{
		"username": "alice", "password": "wrong-password",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", resp.StatusCode)
	}
	var wrongPW map[string]string
	decodeBody(t, resp, &wrongPW)

	// Nonexistent user.
	resp = postJSON(t, server.URL+"/login", "", map[string]string{
		"username": "nobody", "password": "whatever1",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown user, got %d", resp.StatusCode)
	}
	var unknown map[string]string
	decodeBody(t, resp, &unknown)

	if readFailure(wrongPW) != readFailure(unknown) {
		t.Errorf("expected identical failure bodies, got %q vs %q", readFailure(wrongPW), readFailure(unknown))
	}
}

func TestItemCRUDFlow(t *testing.T) {
	server, _, token, _ := setupTestServer(t)

	// Create.
	resp := postJSON(t, server.URL+"/items", token, map[string]any{
		"name": "B1_8", "brand_number": 1, "item_number": 8,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 for create, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// List.
	resp, err := http.Get(server.URL + "/items")
	if err != nil {
		t.Fatalf("GET /items: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for list, got %d", resp.StatusCode)
	}
	var items []model.Item
	decodeBody(t, resp, &items)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	id := items[0].ID

	// Get returns the same field values that were created.
	resp, _ = http.Get(fmt.Sprintf("%s/items/%d", server.URL, id))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for get, got %d", resp.StatusCode)
	}
	var detail model.ItemDetail
	decodeBody(t, resp, &detail)
	if detail.Name != "B1_8" || detail.BrandNumber != 1 || detail.ItemNumber != 8 {
		t.Errorf("round-trip mismatch: %+v", detail)
	}
	if detail.Data == nil || len(detail.Data) != 0 {
		t.Errorf("expected empty data list, got %v", detail.Data)
	}

	// Patch a single field, the others keep their values.
	resp = doJSON(t, "PATCH", fmt.Sprintf("%s/items/%d", server.URL, id), token,
		map[string]any{"name": "Renamed"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for patch, got %d", resp.StatusCode)
	}
	var patchBody map[string]string
	decodeBody(t, resp, &patchBody)
	if want := fmt.Sprintf("Item with id %d updated.", id); patchBody["message"] != want {
		t.Errorf("expected message %q, got %q", want, patchBody["message"])
	}

	resp, _ = http.Get(fmt.Sprintf("%s/items/%d", server.URL, id))
	decodeBody(t, resp, &detail)
	if detail.Name != "Renamed" || detail.BrandNumber != 1 || detail.ItemNumber != 8 {
		t.Errorf("expected only name to change, got %+v", detail)
	}

	// Delete.
	resp = doJSON(t, "DELETE", fmt.Sprintf("%s/items/%d", server.URL, id), token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for delete, got %d", resp.StatusCode)
	}
	var deleteBody map[string]string
	decodeBody(t, resp, &deleteBody)
	if want := fmt.Sprintf("The item with id %d has been deleted", id); deleteBody["message"] != want {
		t.Errorf("expected message %q, got %q", want, deleteBody["message"])
	}

	resp, _ = http.Get(fmt.Sprintf("%s/items/%d", server.URL, id))
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestItemNestedDataAndCascade(t *testing.T) {
	server, database, token, _ := setupTestServer(t)
	ctx := context.Background()

	item, err := store.CreateItem(ctx, database, "B1_5", 1, 5)
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	date := time.Date(2014, 1, 8, 0, 0, 0, 0, time.UTC)
	store.CreateData(ctx, database, item.ID, date, 3, false)
	store.CreateData(ctx, database, item.ID, date.AddDate(0, 0, 7), 7, true)

	resp, _ := http.Get(fmt.Sprintf("%s/items/%d", server.URL, item.ID))
	var detail model.ItemDetail
	decodeBody(t, resp, &detail)
	if len(detail.Data) != 2 {
		t.Fatalf("expected 2 nested data records, got %d", len(detail.Data))
	}
	if detail.Data[0].Quantity != 3 || detail.Data[0].Promotion {
		t.Errorf("unexpected first data record: %+v", detail.Data[0])
	}

	resp = doJSON(t, "DELETE", fmt.Sprintf("%s/items/%d", server.URL, item.ID), token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for delete, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	data, err := store.ListItemData(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("ListItemData: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("expected no data rows after cascade delete, got %d", len(data))
	}
}

func TestDeleteItemNotFoundBody(t *testing.T) {
	server, _, token, _ := setupTestServer(t)

	resp := doJSON(t, "DELETE", server.URL+"/items/12345", token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	var body map[string]string
	decodeBody(t, resp, &body)
	if body["error"] != "404 Not Found: Item not found." {
		t.Errorf("unexpected 404 body: %v", body)
	}
}

func TestCreateItemValidation(t *testing.T) {
	server, _, token, _ := setupTestServer(t)

	resp := postJSON(t, server.URL+"/items", token, map[string]any{"name": "B1_1"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	var fe map[string][]string
	decodeBody(t, resp, &fe)
	if len(fe["brand_number"]) == 0 || len(fe["item_number"]) == 0 {
		t.Errorf("expected messages for both missing fields, got %v", fe)
	}
}

func TestMissingTokenMessage(t *testing.T) {
	server, _, _, _ := setupTestServer(t)

	resp := postJSON(t, server.URL+"/items", "", map[string]any{
		"name": "B1_1", "brand_number": 1, "item_number": 1,
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	var body map[string]string
	decodeBody(t, resp, &body)
	if body["message"] != "Authentication Token missing" {
		t.Errorf("unexpected 401 body: %v", body)
	}
}

func TestExpiredAndMalformedTokensRejected(t *testing.T) {
	server, _, _, userID := setupTestServer(t)

	expired, err := auth.GenerateToken(testJWTSecret, userID, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	for _, token := range []string{expired, "not-a-token"} {
		resp := postJSON(t, server.URL+"/items", token, map[string]any{
			"name": "B1_1", "brand_number": 1, "item_number": 1,
		})
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401 for token %q, got %d", token, resp.StatusCode)
		}
		resp.Body.Close()
	}
}

func TestCommentsFlow(t *testing.T) {
	server, _, token, userID := setupTestServer(t)

	// Empty list before any comments.
	resp, err := http.Get(server.URL + "/comments")
	if err != nil {
		t.Fatalf("GET /comments: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}
	var comments []model.Comment
	decodeBody(t, resp, &comments)
	if len(comments) != 0 {
		t.Fatalf("expected empty comment list, got %d", len(comments))
	}

	// Post a comment.
	resp = postJSON(t, server.URL+"/comments", token, map[string]any{
		"date":    time.Now().UTC().Format(time.RFC3339),
		"content": "great items",
		"user_id": userID,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for comment post, got %d", resp.StatusCode)
	}
	var comment model.Comment
	decodeBody(t, resp, &comment)
	if comment.Content != "great items" || comment.UserID != userID {
		t.Errorf("unexpected comment: %+v", comment)
	}

	// Without a token.
	resp = postJSON(t, server.URL+"/comments", "", map[string]any{
		"content": "anonymous", "user_id": userID,
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestHomePage(t *testing.T) {
	server, _, _, _ := setupTestServer(t)

	resp, err := http.Get(server.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	buf := new(bytes.Buffer)
	buf.ReadFrom(resp.Body)
	if buf.String() != "Hello World!" {
		t.Errorf("expected 'Hello World!', got %q", buf.String())
	}
}
