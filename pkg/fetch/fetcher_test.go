package fetch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"news-enricher/pkg/utils"
)

// testLogger returns a logger that discards output
func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// testClient returns an http.Client suitable for testing
func testClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second, // Generous timeout for tests
	}
}

// testFetcher returns a Fetcher with fast retry delays for testing
func testFetcher(maxAttempts int) *Fetcher {
	return NewFetcher(testClient(), "news-enricher-test", maxAttempts, 10*time.Millisecond, testLogger())
}

// mockServer creates an httptest.Server that returns status codes in sequence.
// Returns the server and an atomic counter tracking request attempts.
func mockServer(t *testing.T, statusCodes []int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	attemptCount := &atomic.Int32{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		idx := int(attemptCount.Add(1)) - 1
		if idx >= len(statusCodes) {
			idx = len(statusCodes) - 1 // repeat last status
		}
		w.WriteHeader(statusCodes[idx])
		if statusCodes[idx] < 300 {
			io.WriteString(w, body)
		}
	}))
	t.Cleanup(server.Close)
	return server, attemptCount
}

const articleHTML = `<html><head><title>Test Page</title></head><body><p>Hello.</p></body></html>`

func TestFetchDocument_Success(t *testing.T) {
	server, attempts := mockServer(t, []int{200}, articleHTML)

	doc, err := testFetcher(3).FetchDocument(context.Background(), server.URL)

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if doc == nil {
		t.Fatal("expected document, got nil")
	}
	if got := doc.Find("title").Text(); got != "Test Page" {
		t.Errorf("expected parsed title 'Test Page', got %q", got)
	}
	if attempts.Load() != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts.Load())
	}
}

func TestFetchDocument_TransientThenSuccess(t *testing.T) {
	// 500 → 500 → 200 (succeeds on 3rd attempt)
	server, attempts := mockServer(t, []int{500, 500, 200}, articleHTML)

	doc, err := testFetcher(3).FetchDocument(context.Background(), server.URL)

	if err != nil {
		t.Fatalf("expected no error after retries, got: %v", err)
	}
	if got := doc.Find("p").Text(); got != "Hello." {
		t.Errorf("expected parsed paragraph, got %q", got)
	}
	if attempts.Load() != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", attempts.Load())
	}
}

func TestFetchDocument_RetriesExhausted(t *testing.T) {
	server, attempts := mockServer(t, []int{500}, "")

	doc, err := testFetcher(3).FetchDocument(context.Background(), server.URL)

	if doc != nil {
		t.Error("expected nil document on exhaustion")
	}
	if !errors.Is(err, utils.ErrRetryFailed) {
		t.Errorf("expected ErrRetryFailed, got: %v", err)
	}
	if !errors.Is(err, utils.ErrServerHTTPError) {
		t.Errorf("expected wrapped ErrServerHTTPError, got: %v", err)
	}
	if attempts.Load() != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", attempts.Load())
	}
}

func TestFetchDocument_ClientErrorNotRetried(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
	}{
		{"404 Not Found", http.StatusNotFound},
		{"403 Forbidden", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, attempts := mockServer(t, []int{tt.statusCode}, "")

			_, err := testFetcher(3).FetchDocument(context.Background(), server.URL)

			if !errors.Is(err, utils.ErrClientHTTPError) {
				t.Errorf("expected ErrClientHTTPError, got: %v", err)
			}
			if errors.Is(err, utils.ErrRetryFailed) {
				t.Errorf("client error must not be wrapped as retry failure: %v", err)
			}
			if attempts.Load() != 1 {
				t.Errorf("expected 1 attempt (no retry), got %d", attempts.Load())
			}
		})
	}
}

func TestFetchDocument_TooManyRequestsRetried(t *testing.T) {
	// 429 is treated as transient despite being a 4xx
	server, attempts := mockServer(t, []int{429, 200}, articleHTML)

	_, err := testFetcher(3).FetchDocument(context.Background(), server.URL)

	if err != nil {
		t.Fatalf("expected success after 429 retry, got: %v", err)
	}
	if attempts.Load() != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts.Load())
	}
}

func TestFetchDocument_MalformedURL(t *testing.T) {
	_, err := testFetcher(3).FetchDocument(context.Background(), "http://bad url with spaces")

	if err == nil {
		t.Fatal("expected error for malformed URL")
	}
	if errors.Is(err, utils.ErrRetryFailed) {
		t.Errorf("malformed URL must fail without retries: %v", err)
	}
}

func TestFetchDocument_ConnectionErrorRetried(t *testing.T) {
	// Start and immediately close a server to get a refused connection
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := testFetcher(2).FetchDocument(context.Background(), url)

	if !errors.Is(err, utils.ErrRetryFailed) {
		t.Errorf("expected ErrRetryFailed after connection errors, got: %v", err)
	}
}

func TestFetchDocument_ContextCancelled(t *testing.T) {
	server, _ := mockServer(t, []int{500}, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testFetcher(3).FetchDocument(ctx, server.URL)

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got: %v", err)
	}
}
