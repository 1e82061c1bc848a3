package pagination

import "testing"

func TestDefaults(t *testing.T) {
	tests := []struct {
		name         string
		in           PageRequest
		wantPage     int
		wantPageSize int
	}{
		{"empty", PageRequest{}, 1, DefaultPageSize},
		{"explicit", PageRequest{Page: 3, PageSize: 50}, 3, 50},
		{"oversized", PageRequest{Page: 1, PageSize: 500}, 1, MaxPageSize},
		{"negative", PageRequest{Page: -2, PageSize: -1}, 1, DefaultPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.in
			req.Defaults()
			if req.Page != tt.wantPage || req.PageSize != tt.wantPageSize {
				t.Errorf("got page=%d size=%d, want page=%d size=%d", req.Page, req.PageSize, tt.wantPage, tt.wantPageSize)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	if err := (PageRequest{Page: 1, PageSize: 100}).Validate(); err != nil {
		t.Errorf("expected valid request, got %v", err)
	}
	if err := (PageRequest{Page: 0, PageSize: 20}).Validate(); err == nil {
		t.Error("expected error for page 0")
	}
	if err := (PageRequest{Page: 1, PageSize: 101}).Validate(); err == nil {
		t.Error("expected error for page size above max")
	}
}

func TestNewPageResponse(t *testing.T) {
	resp := NewPageResponse[int](nil, PageRequest{Page: 2, PageSize: 20}, 41)
	if resp.Data == nil || len(resp.Data) != 0 {
		t.Errorf("expected empty non-nil data, got %#v", resp.Data)
	}
	if resp.TotalPages != 3 {
		t.Errorf("total pages = %d, want 3", resp.TotalPages)
	}
	if !resp.HasMore {
		t.Error("expected more pages after page 2 of 3")
	}

	last := NewPageResponse([]int{1}, PageRequest{Page: 3, PageSize: 20}, 41)
	if last.HasMore {
		t.Error("last page should not report more")
	}

	empty := NewPageResponse[int](nil, PageRequest{Page: 1, PageSize: 20}, 0)
	if empty.TotalPages != 0 || empty.HasMore {
		t.Errorf("unexpected empty page %+v", empty)
	}
}
