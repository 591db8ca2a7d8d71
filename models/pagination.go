package models

// Pagination describes one window over an ordered result set. Page numbers
// start at 1; a page outside 1..Pages is valid and simply holds no items.
type Pagination struct {
	Page    int   `json:"page" example:"1"`
	PerPage int   `json:"per_page" example:"9"`
	Total   int64 `json:"total" example:"20"`
	Pages   int   `json:"pages" example:"3"`
	HasPrev bool  `json:"has_prev"`
	HasNext bool  `json:"has_next"`
	PrevNum int   `json:"prev_num,omitempty"`
	NextNum int   `json:"next_num,omitempty"`
}

func NewPagination(page, perPage int, total int64) Pagination {
	p := Pagination{Page: page, PerPage: perPage, Total: total}
	if perPage > 0 && total > 0 {
		p.Pages = int((total + int64(perPage) - 1) / int64(perPage))
	}
	p.HasPrev = page > 1
	p.HasNext = page < p.Pages
	if p.HasPrev {
		p.PrevNum = page - 1
	}
	if p.HasNext {
		p.NextNum = page + 1
	}
	return p
}

// InRange reports whether the page can hold items.
func (p Pagination) InRange() bool {
	return p.Page >= 1 && p.Page <= p.Pages
}

// Offset is the number of rows skipped before this page.
func (p Pagination) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PerPage
}

// IterPages lists page numbers for navigation controls. A 0 marks a gap.
func (p Pagination) IterPages() []int {
	const leftEdge, leftCurrent, rightCurrent, rightEdge = 2, 2, 5, 2
	var out []int
	last := 0
	for num := 1; num <= p.Pages; num++ {
		if num <= leftEdge ||
			(num > p.Page-leftCurrent-1 && num < p.Page+rightCurrent) ||
			num > p.Pages-rightEdge {
			if last+1 != num {
				out = append(out, 0)
			}
			out = append(out, num)
			last = num
		}
	}
	return out
}

// NotePage is a page of notes with its pagination metadata.
type NotePage struct {
	Pagination
	Notes []Note `json:"notes"`
}

// EmptyNotePage returns a well-formed page with no items.
func EmptyNotePage(page, perPage int) NotePage {
	return NotePage{Pagination: NewPagination(page, perPage, 0), Notes: []Note{}}
}
