package handler

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/rezkam/quadrant/internal/domain"
)

// parseTaskQuery reads list filters from the query string:
//
//	completed=true|false  keyword=...  category=<id>
//	tag=a&tag=b           quadrant=1-4 sort=created|due|priority
func parseTaskQuery(v url.Values) (domain.TaskQuery, error) {
	q := domain.TaskQuery{
		Keyword:    v.Get("keyword"),
		CategoryID: v.Get("category"),
		Tags:       v["tag"],
	}

	if s := v.Get("completed"); s != "" {
		completed, err := strconv.ParseBool(s)
		if err != nil {
			return domain.TaskQuery{}, fmt.Errorf("invalid completed %q", s)
		}
		q.Completed = &completed
	}

	if s := v.Get("quadrant"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 4 {
			return domain.TaskQuery{}, fmt.Errorf("invalid quadrant %q", s)
		}
		q.Quadrant = n
	}

	switch s := domain.TaskSort(v.Get("sort")); s {
	case "", domain.SortByCreated, domain.SortByDue, domain.SortByPriority:
		q.Sort = s
	default:
		return domain.TaskQuery{}, fmt.Errorf("unknown sort %q", s)
	}

	return q, nil
}
