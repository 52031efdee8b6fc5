package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/adi8567/ballotlytic-wizard/internal/config"
	"github.com/adi8567/ballotlytic-wizard/internal/logging"
)

var hexIDPattern = regexp.MustCompile(`^0x[0-9a-f]{40}$`)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := config.Config{
		AppName:           "test",
		Port:              "0",
		VerifySuccessRate: 1,
	}
	app := fiber.New()
	if err := Setup(app, Deps{Cfg: cfg, Logger: logging.Discard()}); err != nil {
		t.Fatalf("setup routes: %v", err)
	}
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read %s %s response: %v", method, path, err)
	}
	decoded := map[string]any{}
	if len(payload) > 0 {
		_ = json.Unmarshal(payload, &decoded)
	}
	return resp.StatusCode, decoded
}

func TestVotingWorkflowEndToEnd(t *testing.T) {
	app := newTestApp(t)

	// Login opens a session with a verified identity and no wallet yet.
	status, body := doJSON(t, app, fiber.MethodPost, "/api/v1/auth/login", "", `{"email":"a@b.com","password":"x"}`)
	if status != http.StatusOK {
		t.Fatalf("login returned %d: %v", status, body)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("login returned no token: %v", body)
	}
	identity, _ := body["identity"].(map[string]any)
	if identity["email"] != "a@b.com" || identity["isVerified"] != true {
		t.Fatalf("unexpected identity: %v", identity)
	}
	if _, present := identity["walletAddress"]; present {
		t.Fatalf("wallet address assigned at login: %v", identity)
	}

	// Ballot submission is refused before selection and wallet connection.
	status, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/ballot/submit", token, "")
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 before preconditions, got %d", status)
	}

	// Connect the wallet.
	status, body = doJSON(t, app, fiber.MethodPost, "/api/v1/wallet/connect", token, "")
	if status != http.StatusOK {
		t.Fatalf("connect wallet returned %d: %v", status, body)
	}
	identity, _ = body["identity"].(map[string]any)
	address, _ := identity["walletAddress"].(string)
	if !hexIDPattern.MatchString(address) {
		t.Fatalf("wallet address %q does not match %s", address, hexIDPattern)
	}

	// Select and submit.
	status, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/ballot/select", token, `{"partyId":"party-1"}`)
	if status != http.StatusOK {
		t.Fatalf("select returned %d", status)
	}
	status, body = doJSON(t, app, fiber.MethodPost, "/api/v1/ballot/submit", token, "")
	if status != http.StatusOK {
		t.Fatalf("submit returned %d: %v", status, body)
	}
	if body["submitted"] != true {
		t.Fatalf("ballot not submitted: %v", body)
	}
	hash, _ := body["transactionHash"].(string)
	if !hexIDPattern.MatchString(hash) {
		t.Fatalf("transaction hash %q does not match %s", hash, hexIDPattern)
	}

	// A second submission without reset is a precondition violation.
	status, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/ballot/submit", token, "")
	if status != http.StatusConflict {
		t.Fatalf("expected 409 on resubmission, got %d", status)
	}

	// The recorded vote shows up in the public tally.
	status, body = doJSON(t, app, fiber.MethodGet, "/api/v1/results", "", "")
	if status != http.StatusOK {
		t.Fatalf("results returned %d", status)
	}
	tally, _ := body["tally"].(map[string]any)
	if tally["party-1"] != float64(1) {
		t.Fatalf("unexpected tally: %v", tally)
	}

	// Logout invalidates the session.
	status, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/auth/logout", token, "")
	if status != http.StatusOK {
		t.Fatalf("logout returned %d", status)
	}
	status, _ = doJSON(t, app, fiber.MethodGet, "/api/v1/me", token, "")
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", status)
	}
}

func TestDocumentWorkflowEndToEnd(t *testing.T) {
	app := newTestApp(t)

	status, body := doJSON(t, app, fiber.MethodPost, "/api/v1/auth/login", "", `{"email":"docs@b.com","password":"x"}`)
	if status != http.StatusOK {
		t.Fatalf("login returned %d", status)
	}
	token, _ := body["token"].(string)

	// The wallet starts with three placeholders.
	status, body = doJSON(t, app, fiber.MethodGet, "/api/v1/documents", token, "")
	if status != http.StatusOK {
		t.Fatalf("list documents returned %d", status)
	}
	docs, _ := body["documents"].([]any)
	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(docs))
	}

	// Verification of a placeholder is refused.
	status, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/documents/voter-id/verify", token, "")
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 verifying a placeholder, got %d", status)
	}

	// Upload then verify.
	status, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/documents/voter-id/upload", token, `{"filename":"id.pdf"}`)
	if status != http.StatusOK {
		t.Fatalf("upload returned %d", status)
	}
	status, body = doJSON(t, app, fiber.MethodPost, "/api/v1/documents/voter-id/verify", token, "")
	if status != http.StatusAccepted {
		t.Fatalf("verify returned %d: %v", status, body)
	}
	if body["status"] != "verifying" {
		t.Fatalf("expected verifying, got %v", body["status"])
	}

	// With a zero-latency always-succeed oracle the outcome settles quickly.
	deadline := time.Now().Add(2 * time.Second)
	for {
		status, body = doJSON(t, app, fiber.MethodGet, "/api/v1/documents", token, "")
		if status != http.StatusOK {
			t.Fatalf("list documents returned %d", status)
		}
		docs, _ = body["documents"].([]any)
		doc, _ := docs[0].(map[string]any)
		if doc["status"] == "verified" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("document never verified: %v", doc)
		}
		time.Sleep(5 * time.Millisecond)
	}

	// Delete returns the slot to a placeholder.
	status, body = doJSON(t, app, fiber.MethodDelete, "/api/v1/documents/voter-id", token, "")
	if status != http.StatusOK {
		t.Fatalf("delete returned %d", status)
	}
	if body["status"] != "pending" || body["filename"] != nil {
		t.Fatalf("expected empty placeholder, got %v", body)
	}

	// Unknown slot is a 404.
	status, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/documents/passport/verify", token, "")
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown slot, got %d", status)
	}
}

func TestPublicEndpointsRequireNoSession(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{
		"/api/v1/ping",
		"/api/v1/parties",
		"/api/v1/results",
		"/api/v1/trends/parties",
		"/api/v1/trends/timeline",
		"/api/v1/trends/topics",
		"/healthz",
	} {
		status, _ := doJSON(t, app, fiber.MethodGet, path, "", "")
		if status != http.StatusOK {
			t.Fatalf("GET %s returned %d", path, status)
		}
	}

	// Protected endpoints refuse anonymous callers.
	status, _ := doJSON(t, app, fiber.MethodGet, "/api/v1/documents", "", "")
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a session, got %d", status)
	}
}
