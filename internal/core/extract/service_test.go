package extract_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"linkscraper/internal/core/extract"
)

// fullArticleHTML carries every extractable field.
const fullArticleHTML = `<!DOCTYPE html>
<html>
<head>
  <title>  Breaking News: Test Article  </title>
  <meta name="description" content="A test article description.">
</head>
<body>
  <nav>Navigation links</nav>
  <time datetime="2024-01-01T12:00:00Z">January 1st</time>
  <div class="article-content">
    <p>First paragraph of the article.</p>
    <p>Second paragraph that should be ignored.</p>
  </div>
</body>
</html>`

// notFoundHTML contains the not-found marker in mixed case alongside an
// otherwise valid document.
const notFoundHTML = `<!DOCTYPE html>
<html>
<head><title>Valid Looking Title</title></head>
<body>
  <div class="article-content"><p>Some content.</p></div>
  <p>recurso NO Encontrado</p>
</body>
</html>`

// bareHTML is a page that exists but has none of the extractable fields.
const bareHTML = `<!DOCTYPE html>
<html>
<head></head>
<body><p>Hello.</p></body>
</html>`

// noParagraphHTML has the article container but no paragraph inside it.
const noParagraphHTML = `<!DOCTYPE html>
<html>
<head><title>Container Only</title></head>
<body><div class="article-content"><span>no paragraphs</span></div></body>
</html>`

func newService(t *testing.T) *extract.Service {
	t.Helper()

	return extract.NewService(extract.Options{
		Timeout:        5 * time.Second,
		NotFoundMarker: "Recurso no encontrado",
	})
}

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchExtractsAllFields(t *testing.T) {
	srv := serve(t, http.StatusOK, fullArticleHTML)

	res := newService(t).Fetch(context.Background(), srv.URL)

	if !res.Success || !res.PageExists {
		t.Fatalf("expected success, got success=%v pageExists=%v error=%v", res.Success, res.PageExists, res.Error)
	}
	if res.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", res.StatusCode)
	}
	if res.Title == nil || *res.Title != "Breaking News: Test Article" {
		t.Errorf("Title = %v, want trimmed title", res.Title)
	}
	if res.Date == nil || *res.Date != "2024-01-01T12:00:00Z" {
		t.Errorf("Date = %v, want raw datetime attribute", res.Date)
	}
	if res.Content == nil || *res.Content != "First paragraph of the article." {
		t.Errorf("Content = %v, want first paragraph", res.Content)
	}
	if res.MetaDescription == nil || *res.MetaDescription != "A test article description." {
		t.Errorf("MetaDescription = %v", res.MetaDescription)
	}
	if res.ContentLength != len(fullArticleHTML) {
		t.Errorf("ContentLength = %d, want %d", res.ContentLength, len(fullArticleHTML))
	}
	if res.Error != nil {
		t.Errorf("Error = %v, want nil", *res.Error)
	}
}

func TestFetchDetectsNotFoundMarkerCaseInsensitive(t *testing.T) {
	srv := serve(t, http.StatusOK, notFoundHTML)

	res := newService(t).Fetch(context.Background(), srv.URL)

	if res.Success || res.PageExists {
		t.Fatalf("expected nonexistent page, got success=%v pageExists=%v", res.Success, res.PageExists)
	}
	if res.Error == nil {
		t.Fatal("expected error describing the marker")
	}
	// The marker check runs before field extraction.
	if res.Title != nil || res.Content != nil {
		t.Errorf("expected no fields extracted, got title=%v content=%v", res.Title, res.Content)
	}
}

func TestFetchNon2xxIsNetworkFailure(t *testing.T) {
	srv := serve(t, http.StatusNotFound, "gone")

	res := newService(t).Fetch(context.Background(), srv.URL)

	if res.Success || res.PageExists {
		t.Fatalf("expected failure, got success=%v pageExists=%v", res.Success, res.PageExists)
	}
	if res.Error == nil {
		t.Fatal("expected network error description")
	}
	if res.ContentLength != 0 {
		t.Errorf("ContentLength = %d, want 0 on failure", res.ContentLength)
	}
}

func TestFetchTransportFailure(t *testing.T) {
	srv := serve(t, http.StatusOK, bareHTML)
	srv.Close() // connection refused from here on

	res := newService(t).Fetch(context.Background(), srv.URL)

	if res.Success || res.PageExists {
		t.Fatalf("expected failure, got success=%v pageExists=%v", res.Success, res.PageExists)
	}
	if res.Error == nil {
		t.Fatal("expected network error description")
	}
}

func TestFetchMissingFieldsStillSucceeds(t *testing.T) {
	srv := serve(t, http.StatusOK, bareHTML)

	res := newService(t).Fetch(context.Background(), srv.URL)

	if !res.Success || !res.PageExists {
		t.Fatalf("expected success, got success=%v pageExists=%v", res.Success, res.PageExists)
	}
	if res.Title != nil || res.Date != nil || res.Content != nil || res.MetaDescription != nil {
		t.Errorf("expected all fields nil, got title=%v date=%v content=%v meta=%v",
			res.Title, res.Date, res.Content, res.MetaDescription)
	}
}

func TestFetchContainerWithoutParagraph(t *testing.T) {
	srv := serve(t, http.StatusOK, noParagraphHTML)

	res := newService(t).Fetch(context.Background(), srv.URL)

	if !res.Success {
		t.Fatalf("expected success, got error=%v", res.Error)
	}
	if res.Content != nil {
		t.Errorf("Content = %v, want nil when the container has no paragraph", *res.Content)
	}
}
