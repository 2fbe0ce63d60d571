package api

import (
	"fmt"
	"net/http"
	"strconv"
)

const (
	defaultLimit = 100
	maxLimit     = 100
)

// listParams holds parsed skip/limit query values.
type listParams struct {
	Skip  int
	Limit int
}

// parseListParams extracts skip and limit from the query string, applying
// defaults and capping the limit.
func parseListParams(r *http.Request) listParams {
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	if skip < 0 {
		skip = 0
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return listParams{Skip: skip, Limit: limit}
}

// collectionResponse wraps a page of resources with navigation links.
type collectionResponse struct {
	Items interface{} `json:"items"`
	Links []Link      `json:"links"`
}

// collectionLinks builds self plus next/prev page links. A full page
// implies more may follow; skip > 0 implies a previous page exists.
func collectionLinks(r *http.Request, p listParams, count int) []Link {
	pageHref := func(skip int) string {
		u := *r.URL
		q := u.Query()
		q.Set("skip", strconv.Itoa(skip))
		q.Set("limit", strconv.Itoa(p.Limit))
		u.RawQuery = q.Encode()
		return baseURL(r) + u.RequestURI()
	}

	links := []Link{{Rel: "self", Href: fmt.Sprintf("%s%s", baseURL(r), r.URL.RequestURI()), Method: "GET"}}
	if count == p.Limit {
		links = append(links, Link{Rel: "next", Href: pageHref(p.Skip + p.Limit), Method: "GET"})
	}
	if p.Skip > 0 {
		prev := p.Skip - p.Limit
		if prev < 0 {
			prev = 0
		}
		links = append(links, Link{Rel: "prev", Href: pageHref(prev), Method: "GET"})
	}
	return links
}
