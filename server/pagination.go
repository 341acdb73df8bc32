package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/qlpt/rental-portal/gateway"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// listQuery is the common part of list requests.
type listQuery struct {
	Page     int
	PageSize int
	Search   string
	Ordering string
}

func parseListQuery(r *http.Request) (listQuery, fieldErrors) {
	q := r.URL.Query()
	lq := listQuery{
		Page:     1,
		PageSize: defaultPageSize,
		Search:   strings.TrimSpace(q.Get("search")),
		Ordering: strings.TrimSpace(q.Get("ordering")),
	}
	fe := fieldErrors{}
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			fe.add("page", "A valid positive integer is required.")
		}
		lq.Page = n
	}
	if v := q.Get("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			fe.add("page_size", "A valid positive integer is required.")
		}
		lq.PageSize = min(n, maxPageSize)
	}
	if len(fe) > 0 {
		return lq, fe
	}
	return lq, nil
}

// paginate slices items into the requested page. ok is false when the page
// is past the end, which the API reports as 404 like any missing resource.
func paginate[T any](r *http.Request, items []T, lq listQuery) (page gateway.Page[T], ok bool) {
	total := len(items)
	start := (lq.Page - 1) * lq.PageSize
	if start > 0 && start >= total {
		return gateway.Page[T]{}, false
	}
	end := min(start+lq.PageSize, total)

	page = gateway.Page[T]{Count: total, Results: items[start:end]}
	if page.Results == nil {
		page.Results = []T{}
	}
	if end < total {
		next := pageURL(r, lq.Page+1)
		page.Next = &next
	}
	if lq.Page > 1 {
		prev := pageURL(r, lq.Page-1)
		page.Previous = &prev
	}
	return page, true
}

func pageURL(r *http.Request, n int) string {
	q := r.URL.Query()
	q.Set("page", strconv.Itoa(n))
	u := url.URL{Scheme: getScheme(r), Host: r.Host, Path: r.URL.Path, RawQuery: q.Encode()}
	return u.String()
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}

// ordering splits "-field" into the field and a descending flag.
func ordering(raw string) (field string, desc bool) {
	if strings.HasPrefix(raw, "-") {
		return raw[1:], true
	}
	return raw, false
}

func invalidPage(w http.ResponseWriter) {
	writeJSONError(w, "Invalid page.", http.StatusNotFound)
}

func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", r.PathValue("id"))
	}
	return id, nil
}
