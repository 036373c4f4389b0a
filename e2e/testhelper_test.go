package e2e

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	"github.com/pdfcourier/api/internal/auth"
	"github.com/pdfcourier/api/internal/batch"
	"github.com/pdfcourier/api/internal/client"
	"github.com/pdfcourier/api/internal/config"
	"github.com/pdfcourier/api/internal/delivery"
	"github.com/pdfcourier/api/internal/handler"
	"github.com/pdfcourier/api/internal/middleware"
	"github.com/pdfcourier/api/internal/model"
	"github.com/pdfcourier/api/internal/registry"
	"github.com/pdfcourier/api/internal/service"
	"github.com/pdfcourier/api/internal/worker"
	ws "github.com/pdfcourier/api/internal/websocket"
)

const testJWTSecret = "test-secret-for-e2e"

// testApp holds all components needed for testing
type testApp struct {
	app    *fiber.App
	mailer *captureMailer
}

// captureMailer stands in for SMTP and records what would have been sent
type captureMailer struct {
	mu    sync.Mutex
	sends []client.ArchiveMail
}

func (m *captureMailer) SendArchive(ctx context.Context, mail *client.ArchiveMail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sends = append(m.sends, *mail)
	return nil
}

func (m *captureMailer) sent() []client.ArchiveMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]client.ArchiveMail, len(m.sends))
	copy(out, m.sends)
	return out
}

// newRenderBackend serves a fake renderer plus the artifacts it
// claims to produce. URLs containing "broken" are rejected.
func newRenderBackend(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/api/render", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			URL      string `json:"url"`
			FileName string `json:"fileName"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if strings.Contains(req.URL, "broken") {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": "navigation timeout"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"fileUrl": srv.URL + "/files/" + req.FileName,
		})
	})
	mux.HandleFunc("/files/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 e2e artifact"))
	})

	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// setupApp assembles the Fiber app the way main.go does, with the
// renderer pointed at a local backend and mail captured in-process.
// Share delivery is deliberately left unconfigured.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	validate := validator.New()

	hub := ws.NewHub()
	go hub.Run()

	jobRegistry := registry.New()

	backend := newRenderBackend(t)
	rendererClient := client.NewRenderClient(&config.RendererConfig{
		BaseURL: backend.URL,
		Timeout: 10,
	})
	fetcher := client.NewFetcher(&config.FetchConfig{Timeout: 10})
	scheduler := batch.NewScheduler(rendererClient, fetcher, &config.BatchConfig{Size: 5, PauseSeconds: 0})

	mailer := &captureMailer{}
	dispatcher := delivery.NewDispatcher()
	dispatcher.Register(model.StrategyEmail, delivery.NewMailBundle(mailer, &config.MailConfig{MaxAttachmentMB: 25}))

	convertWorker := worker.NewConvertWorker(jobRegistry, scheduler, dispatcher, hub, t.TempDir())
	convertService := service.NewConvertService(jobRegistry, convertWorker, dispatcher)
	convertHandler := handler.NewConvertHandler(convertService, validate)
	authHandler := handler.NewAuthHandler(testJWTSecret)

	authMiddleware := middleware.NewAuthMiddleware(testJWTSecret)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024,
	})

	// Base routes
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"timestamp": time.Now().Unix()})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"services": fiber.Map{
				"renderer": rendererClient.IsConfigured(),
				"storage":  false,
				"mail":     true,
				"auth":     true,
			},
		})
	})
	app.Get("/auth/verify", authHandler.Verify)

	// API routes (authenticated)
	api := app.Group("/api", authMiddleware.Authenticate())

	// Use very high rate limits so tests don't get blocked
	api.Post("/convert", rateLimiter.ConvertLimit(10000), convertHandler.Submit)
	api.Get("/convert/status/:jobId", convertHandler.Status)

	return &testApp{app: app, mailer: mailer}
}

// generateToken creates an HMAC JWT token for test requests.
func generateToken(t *testing.T) string {
	t.Helper()
	claims := auth.Claims{
		UserID: "test-user-123",
		Email:  "test@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer: "pdfcourier-api",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}
	return signed
}

// doRequest is a helper to perform HTTP requests against the test app.
func doRequest(app *fiber.App, method, path string, body string, headers map[string]string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != "" {
		bodyReader = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, path, bodyReader)
	if err != nil {
		return nil, err
	}

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return app.Test(req, -1)
}

// doAuthRequest performs an authenticated request.
func doAuthRequest(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, error) {
	t.Helper()
	token := generateToken(t)
	return doRequest(app, method, path, body, map[string]string{
		"Authorization": "Bearer " + token,
	})
}

// readBody reads and returns the response body as a string.
func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return string(b)
}

// parseJSON parses response body into a map.
func parseJSON(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	body := readBody(t, resp)
	var result map[string]interface{}
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, body)
	}
	return result
}

// assertStatus checks the HTTP status code.
func assertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("expected status %d, got %d", expected, resp.StatusCode)
	}
}

// waitForTerminal polls the status endpoint until the job reaches a
// terminal state or the deadline passes, and returns the last record.
func waitForTerminal(t *testing.T, app *fiber.App, jobID string) map[string]interface{} {
	t.Helper()

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := doAuthRequest(t, app, http.MethodGet, "/api/convert/status/"+jobID, "")
		if err != nil {
			t.Fatalf("status request failed: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status request returned %d", resp.StatusCode)
		}

		job := parseJSON(t, resp)
		if s, _ := job["status"].(string); s == "completed" || s == "failed" {
			return job
		}
		time.Sleep(20 * time.Millisecond)
	}

	t.Fatalf("job %s did not reach a terminal state in time", jobID)
	return nil
}
