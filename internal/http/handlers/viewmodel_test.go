package handlers

import "testing"

func TestNewPagination(t *testing.T) {
	// Middle page: both links, 4 total pages for 35 rows of 10.
	p := NewPagination("/movies", "", 2, 10, 35)
	if p.TotalPages != 4 {
		t.Fatalf("TotalPages = %d", p.TotalPages)
	}
	if !p.HasPrev || !p.HasNext {
		t.Fatalf("expected both directions: %+v", p)
	}
	if p.PrevHref != "/movies?page=1&per_page=10" {
		t.Fatalf("PrevHref = %q", p.PrevHref)
	}
	if p.NextHref != "/movies?page=3&per_page=10" {
		t.Fatalf("NextHref = %q", p.NextHref)
	}

	// First page: no prev.
	p = NewPagination("/movies", "", 1, 10, 35)
	if p.HasPrev || p.PrevHref != "" {
		t.Fatalf("first page grew a prev link: %+v", p)
	}
	if !p.HasNext {
		t.Fatalf("first page lost its next link: %+v", p)
	}

	// Last page: no next.
	p = NewPagination("/movies", "", 4, 10, 35)
	if p.HasNext || p.NextHref != "" {
		t.Fatalf("last page grew a next link: %+v", p)
	}

	// Single page: no links at all.
	p = NewPagination("/movies", "", 1, 10, 7)
	if p.HasPrev || p.HasNext {
		t.Fatalf("single page grew links: %+v", p)
	}
}

func TestNewPaginationKeepsSearchTerm(t *testing.T) {
	p := NewPagination("/search", "the matrix", 2, 10, 25)
	want := "/search?page=3&per_page=10&search_string=the+matrix"
	if p.NextHref != want {
		t.Fatalf("NextHref = %q, want %q", p.NextHref, want)
	}
	if p.Search != "the matrix" {
		t.Fatalf("Search = %q", p.Search)
	}
}
