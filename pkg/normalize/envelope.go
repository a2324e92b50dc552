package normalize

import (
	"bytes"
	"encoding/json"
	"net/url"
	"sort"
	"strconv"
)

// Envelope is the upstream response wrapper {dados, links}.
type Envelope[T any] struct {
	Dados T     `json:"dados"`
	Links Links `json:"links"`
}

// Link is a pagination or self link.
type Link struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

// Links decodes both the list form [{rel, href}] and the object form {rel: href}.
type Links []Link

// UnmarshalJSON implements json.Unmarshaler.
func (l *Links) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, jsonNull) {
		*l = nil
		return nil
	}

	if b[0] == '{' {
		var m map[string]string
		if err := json.Unmarshal(b, &m); err != nil {
			return err
		}
		links := make(Links, 0, len(m))
		for rel, href := range m {
			links = append(links, Link{Rel: rel, Href: href})
		}
		sort.Slice(links, func(i, j int) bool { return links[i].Rel < links[j].Rel })
		*l = links
		return nil
	}

	var list []Link
	if err := json.Unmarshal(b, &list); err != nil {
		return err
	}
	*l = list
	return nil
}

// Href returns the href for rel, or "".
func (l Links) Href(rel string) string {
	for _, link := range l {
		if link.Rel == rel {
			return link.Href
		}
	}
	return ""
}

// TotalPages reads the page number of the "last" link. Defaults to 1.
func (l Links) TotalPages() int {
	href := l.Href("last")
	if href == "" {
		return 1
	}

	u, err := url.Parse(href)
	if err != nil {
		return 1
	}

	n, err := strconv.Atoi(u.Query().Get("pagina"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// TotalPages reads the page count from the envelope links.
func (e Envelope[T]) TotalPages() int {
	return e.Links.TotalPages()
}
