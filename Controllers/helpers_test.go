package Controllers

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestUnhandledErrorsAreLogged(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	app := fiber.New()
	app.Get("/boom", func(ctx *fiber.Ctx) error {
		return respondError(ctx, errors.New("disk on fire"))
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}

	logged := buf.String()
	// The client sees a generic message; the detail lands in the server log
	if !strings.Contains(logged, "disk on fire") {
		t.Fatalf("expected the error detail in the log, got %q", logged)
	}
	if !strings.Contains(logged, "/boom") {
		t.Fatalf("expected the request path in the log, got %q", logged)
	}
}
