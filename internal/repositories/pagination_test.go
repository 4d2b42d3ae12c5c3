package repositories

import "testing"

func TestNewPageNormalises(t *testing.T) {
	cases := []struct {
		number, size int
		want         Page
	}{
		{1, 20, Page{Number: 1, Size: 20}},
		{0, 0, Page{Number: 1, Size: DefaultPageSize}},
		{-5, -1, Page{Number: 1, Size: DefaultPageSize}},
		{3, 7, Page{Number: 3, Size: 7}},
	}

	for _, tc := range cases {
		if got := NewPage(tc.number, tc.size); got != tc.want {
			t.Errorf("NewPage(%d, %d) = %+v, want %+v", tc.number, tc.size, got, tc.want)
		}
	}
}

func TestPageOffset(t *testing.T) {
	if got := NewPage(1, 20).Offset(); got != 0 {
		t.Fatalf("expected offset 0, got %d", got)
	}
	if got := NewPage(3, 10).Offset(); got != 20 {
		t.Fatalf("expected offset 20, got %d", got)
	}
}

func TestNewPagerRoundsUp(t *testing.T) {
	cases := []struct {
		count int64
		size  int
		total int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{41, 20, 3},
		{5, 2, 3},
	}

	for _, tc := range cases {
		pager := NewPager(NewPage(2, tc.size), tc.count)
		if pager.Total != tc.total {
			t.Errorf("NewPager(size=%d, count=%d).Total = %d, want %d", tc.size, tc.count, pager.Total, tc.total)
		}
		if pager.Current != 2 {
			t.Errorf("expected current page to be echoed, got %d", pager.Current)
		}
	}
}
