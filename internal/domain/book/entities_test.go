package book

import "testing"

func TestValidate_Bounds(t *testing.T) {
	cases := []struct {
		name      string
		total     int
		available int
		wantErr   bool
	}{
		{"all on shelf", 3, 3, false},
		{"some out", 3, 1, false},
		{"none left", 3, 0, false},
		{"negative", 3, -1, true},
		{"above total", 3, 4, true},
		{"zero copies", 0, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := Book{TotalCopies: tc.total, AvailableCopies: tc.available}
			err := b.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("want error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestBorrowCopy(t *testing.T) {
	b := Book{TotalCopies: 2, AvailableCopies: 2}

	if err := b.BorrowCopy(); err != nil {
		t.Fatalf("first borrow: %v", err)
	}
	if b.AvailableCopies != 1 {
		t.Fatalf("available = %d, want 1", b.AvailableCopies)
	}
	if err := b.BorrowCopy(); err != nil {
		t.Fatalf("second borrow: %v", err)
	}
	if b.AvailableCopies != 0 {
		t.Fatalf("available = %d, want 0", b.AvailableCopies)
	}

	// third attempt fails and does not mutate
	if err := b.BorrowCopy(); err != ErrNoCopiesAvailable {
		t.Fatalf("err = %v, want ErrNoCopiesAvailable", err)
	}
	if b.AvailableCopies != 0 {
		t.Fatalf("failed borrow mutated available to %d", b.AvailableCopies)
	}
}

func TestReturnCopy_CrossesZero(t *testing.T) {
	b := Book{TotalCopies: 2, AvailableCopies: 0}

	nowAvailable, err := b.ReturnCopy()
	if err != nil {
		t.Fatalf("return: %v", err)
	}
	if !nowAvailable {
		t.Fatalf("0->1 crossing not reported")
	}
	if b.AvailableCopies != 1 {
		t.Fatalf("available = %d, want 1", b.AvailableCopies)
	}

	nowAvailable, err = b.ReturnCopy()
	if err != nil {
		t.Fatalf("second return: %v", err)
	}
	if nowAvailable {
		t.Fatalf("1->2 must not report a crossing")
	}

	// shelf full: failure, no mutation
	if _, err := b.ReturnCopy(); err != ErrAllCopiesOnShelf {
		t.Fatalf("err = %v, want ErrAllCopiesOnShelf", err)
	}
	if b.AvailableCopies != 2 {
		t.Fatalf("failed return mutated available to %d", b.AvailableCopies)
	}
}

func TestIsAvailable(t *testing.T) {
	if (&Book{TotalCopies: 1, AvailableCopies: 0}).IsAvailable() {
		t.Fatal("zero available reported as available")
	}
	if !(&Book{TotalCopies: 1, AvailableCopies: 1}).IsAvailable() {
		t.Fatal("one available reported as unavailable")
	}
}

func TestAuthorFullName(t *testing.T) {
	a := Author{FirstName: "Ursula", LastName: "Le Guin"}
	if got := a.FullName(); got != "Ursula Le Guin" {
		t.Fatalf("FullName = %q", got)
	}
}
