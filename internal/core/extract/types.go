package extract

// Result is the outcome of fetching and parsing a single page. Every failure
// mode is encoded here; Fetch never returns an error.
type Result struct {
	URL             string
	StatusCode      int
	Title           *string
	Date            *string
	Content         *string
	MetaDescription *string
	ContentLength   int
	PageExists      bool
	Success         bool
	Error           *string
}

func failure(url, errMsg string) *Result {
	return &Result{URL: url, PageExists: false, Success: false, Error: &errMsg}
}
