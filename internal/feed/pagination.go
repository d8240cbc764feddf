package feed

import (
	"strconv"

	"sortir/internal/domain"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
	// MaxPage bounds page so that the skip offset stays far from overflow.
	MaxPage = 10000
)

// Page is a validated page request.
type Page struct {
	Number int
	Limit  int
}

func (p Page) Skip() int64 {
	return int64(p.Number-1) * int64(p.Limit)
}

// ParsePage reads page and limit query values. Empty values take the
// defaults; anything outside 1 <= page <= MaxPage and 1 <= limit <= maxLimit
// is a validation error.
func ParsePage(rawPage, rawLimit string, defaultLimit, maxLimit int) (Page, error) {
	p := Page{Number: 1, Limit: defaultLimit}

	if rawPage != "" {
		n, err := strconv.Atoi(rawPage)
		if err != nil || n < 1 || n > MaxPage {
			return Page{}, domain.ErrValidationMeta("invalid pagination", map[string]string{
				"page": "must be an integer between 1 and " + strconv.Itoa(MaxPage),
			})
		}
		p.Number = n
	}

	if rawLimit != "" {
		n, err := strconv.Atoi(rawLimit)
		if err != nil || n < 1 || n > maxLimit {
			return Page{}, domain.ErrValidationMeta("invalid pagination", map[string]string{
				"limit": "must be an integer between 1 and " + strconv.Itoa(maxLimit),
			})
		}
		p.Limit = n
	}

	return p, nil
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

func NewPagination(p Page, total int64) Pagination {
	return newPagination(p, total, pagesFor(total, int64(p.Limit)))
}

func pagesFor(count, perPage int64) int {
	if perPage <= 0 {
		return 0
	}
	return int((count + perPage - 1) / perPage)
}

func newPagination(p Page, total int64, totalPages int) Pagination {
	return Pagination{
		Page:       p.Number,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    p.Number < totalPages,
		HasPrev:    p.Number > 1,
	}
}

// Quotas splits limit across n buckets; the first limit%n buckets get one extra.
func Quotas(limit, n int) []int {
	if n <= 0 {
		return nil
	}
	base, rem := limit/n, limit%n
	out := make([]int, n)
	for i := range out {
		out[i] = base
		if i < rem {
			out[i]++
		}
	}
	return out
}
