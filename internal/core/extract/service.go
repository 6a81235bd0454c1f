package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"linkscraper/internal/logger"
)

type Options struct {
	Timeout        time.Duration
	UserAgent      string
	NotFoundMarker string
}

type Service struct {
	log     *logger.Logger
	client  *http.Client
	profile HeaderProfile
	marker  string
}

func NewService(opts Options) *Service {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	profile := defaultProfile
	if opts.UserAgent != "" {
		profile.UserAgent = opts.UserAgent
	}
	marker := opts.NotFoundMarker
	if marker == "" {
		marker = "Recurso no encontrado"
	}
	return &Service{
		log:     logger.New("Extractor"),
		client:  &http.Client{Timeout: timeout},
		profile: profile,
		marker:  marker,
	}
}

// Fetch performs one GET against the URL and parses the document. All failure
// modes are encoded in the Result; this never returns an error.
func (s *Service) Fetch(ctx context.Context, url string) *Result {
	s.log.LogDebugf("fetch start %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return failure(url, fmt.Sprintf("network error: %v", err))
	}
	s.profile.apply(req)

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.LogWarnf("fetch failed %s: %v", url, err)
		return failure(url, fmt.Sprintf("network error: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.log.LogWarnf("fetch %s returned status %d", url, resp.StatusCode)
		return failure(url, fmt.Sprintf("network error: unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return failure(url, fmt.Sprintf("network error: reading body: %v", err))
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return failure(url, fmt.Sprintf("parse error: %v", err))
	}

	// Existence check comes before any field extraction and runs on every
	// fetch. The marker scan over visible text is authoritative, not the
	// HTTP status.
	if s.containsNotFoundMarker(doc) {
		s.log.LogWarnf("page %s does not exist: marker %q detected", url, s.marker)
		return failure(url, fmt.Sprintf("page does not exist: found marker %q", s.marker))
	}

	res := &Result{
		URL:             url,
		StatusCode:      resp.StatusCode,
		Title:           s.title(doc),
		Date:            s.date(doc),
		Content:         s.content(doc),
		MetaDescription: s.metaDescription(doc),
		ContentLength:   len(body),
		PageExists:      true,
		Success:         true,
	}
	s.log.LogDebugf("fetch complete %s status=%d bytes=%d", url, res.StatusCode, res.ContentLength)
	return res
}

func (s *Service) containsNotFoundMarker(doc *goquery.Document) bool {
	text := strings.TrimSpace(doc.Text())
	return strings.Contains(strings.ToLower(text), strings.ToLower(s.marker))
}

func (s *Service) title(doc *goquery.Document) *string {
	sel := doc.Find("title").First()
	if sel.Length() == 0 {
		return nil
	}
	t := strings.TrimSpace(sel.Text())
	return &t
}

// date returns the raw datetime attribute of the first <time> element that
// carries one. The value is unvalidated; parsing happens downstream.
func (s *Service) date(doc *goquery.Document) *string {
	sel := doc.Find("time[datetime]").First()
	if sel.Length() == 0 {
		return nil
	}
	v, ok := sel.Attr("datetime")
	if !ok {
		return nil
	}
	v = strings.TrimSpace(v)
	return &v
}

// content returns the text of the first paragraph inside the first
// div.article-content container.
func (s *Service) content(doc *goquery.Document) *string {
	container := doc.Find("div.article-content").First()
	if container.Length() == 0 {
		return nil
	}
	p := container.Find("p").First()
	if p.Length() == 0 {
		return nil
	}
	c := strings.TrimSpace(p.Text())
	return &c
}

func (s *Service) metaDescription(doc *goquery.Document) *string {
	sel := doc.Find(`meta[name="description"]`).First()
	if sel.Length() == 0 {
		return nil
	}
	v, ok := sel.Attr("content")
	if !ok {
		return nil
	}
	return &v
}
