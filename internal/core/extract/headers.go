package extract

import "net/http"

// HeaderProfile is the browser-like identification sent with every fetch.
type HeaderProfile struct {
	UserAgent      string
	Accept         string
	AcceptLanguage string
}

var defaultProfile = HeaderProfile{
	UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	Accept:         "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
	AcceptLanguage: "en-US,en;q=0.9",
}

func (p HeaderProfile) apply(req *http.Request) {
	req.Header.Set("User-Agent", p.UserAgent)
	req.Header.Set("Accept", p.Accept)
	req.Header.Set("Accept-Language", p.AcceptLanguage)
}
