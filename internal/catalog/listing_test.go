package catalog

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusAvailable, StatusSold, true},
		{StatusAvailable, StatusReserved, true},
		{StatusReserved, StatusSold, true},
		{StatusSold, StatusAvailable, false},
		{StatusSold, StatusSold, false},
		{StatusReserved, StatusAvailable, false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestFieldsValidate(t *testing.T) {
	valid := Fields{Title: "Bike", Description: "Good bike", Category: "Sports", PriceCents: 5000}

	t.Run("ok", func(t *testing.T) {
		f := valid
		if err := f.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.ImageURL != PlaceholderImage {
			t.Errorf("empty image should default to placeholder, got %q", f.ImageURL)
		}
	})

	t.Run("keeps provided image", func(t *testing.T) {
		f := valid
		f.ImageURL = "https://example.com/bike.jpg"
		if err := f.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.ImageURL != "https://example.com/bike.jpg" {
			t.Errorf("image overwritten: %q", f.ImageURL)
		}
	})

	t.Run("rejects bad input", func(t *testing.T) {
		for name, mutate := range map[string]func(*Fields){
			"empty title":       func(f *Fields) { f.Title = "" },
			"empty description": func(f *Fields) { f.Description = "" },
			"unknown category":  func(f *Fields) { f.Category = "Vehicles" },
			"negative price":    func(f *Fields) { f.PriceCents = -1 },
		} {
			f := valid
			mutate(&f)
			if err := f.Validate(); err != ErrInvalidInput {
				t.Errorf("%s: got %v, want ErrInvalidInput", name, err)
			}
		}
	})
}
