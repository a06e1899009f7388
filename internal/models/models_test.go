package models

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseMovieForm(t *testing.T) {
	tc := []struct {
		name    string
		title   string
		year    string
		want    MovieInput
		wantMsg string
	}{
		{name: "Valid", title: "Inception", year: "2010", want: MovieInput{Title: "Inception", PublishingYear: 2010}},
		{name: "Trims Fields", title: "  Dune  ", year: " 2021 ", want: MovieInput{Title: "Dune", PublishingYear: 2021}},
		{name: "Lower Bound", title: "Roundhay Garden Scene", year: "1888", want: MovieInput{Title: "Roundhay Garden Scene", PublishingYear: 1888}},
		{name: "Upper Bound", title: "Far Future", year: "3000", want: MovieInput{Title: "Far Future", PublishingYear: 3000}},
		{name: "Missing Title", title: "  ", year: "2010", wantMsg: MsgTitleAndYearRequired},
		{name: "Missing Year", title: "Inception", year: "", wantMsg: MsgTitleAndYearRequired},
		{name: "Non Numeric Year", title: "Inception", year: "abc", wantMsg: MsgYearNotNumber},
		{name: "Fractional Year", title: "Inception", year: "2010.5", wantMsg: MsgYearNotWhole},
		{name: "Too Early", title: "Inception", year: "1800", wantMsg: MsgYearOutOfRange},
		{name: "Too Late", title: "Inception", year: "3001", wantMsg: MsgYearOutOfRange},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMovieForm(tt.title, tt.year)
			if tt.wantMsg != "" {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				if verr.Message != tt.wantMsg {
					t.Errorf("expected message %q, got %q", tt.wantMsg, verr.Message)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestValidateRegistration(t *testing.T) {
	tc := []struct {
		name     string
		email    string
		password string
		wantMsg  string
	}{
		{name: "Valid", email: "a@b.co", password: "secret1"},
		{name: "No Email Format Check", email: "not-an-email", password: "secret1"},
		{name: "Missing Email", email: "", password: "secret1", wantMsg: MsgCredentialsRequired},
		{name: "Missing Password", email: "a@b.co", password: "", wantMsg: MsgCredentialsRequired},
		{name: "Short Password", email: "a@b.co", password: "12345", wantMsg: MsgPasswordTooShort},
		{name: "Short Multibyte Password", email: "a@b.co", password: "ééé", wantMsg: MsgPasswordTooShort},
		{name: "Multibyte Password", email: "a@b.co", password: "éééééé"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			creds, err := ValidateRegistration(tt.email, tt.password)
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if creds.Email != tt.email {
					t.Errorf("expected email %q, got %q", tt.email, creds.Email)
				}
				return
			}
			if err == nil || err.Error() != tt.wantMsg {
				t.Errorf("expected %q, got %v", tt.wantMsg, err)
			}
		})
	}
}

func TestPagination(t *testing.T) {
	t.Run("TotalPages", func(t *testing.T) {
		tc := []struct {
			total, limit, want int
		}{
			{0, 8, 1},
			{1, 8, 1},
			{8, 8, 1},
			{9, 8, 2},
			{17, 8, 3},
			{5, 0, 1},
		}
		for _, tt := range tc {
			if got := TotalPages(tt.total, tt.limit); got != tt.want {
				t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.limit, got, tt.want)
			}
		}
	})

	t.Run("ClampPage", func(t *testing.T) {
		if _, ok := ClampPage(0, 3); ok {
			t.Error("page 0 should be rejected")
		}
		if _, ok := ClampPage(4, 3); ok {
			t.Error("page beyond total should be rejected")
		}
		if p, ok := ClampPage(2, 3); !ok || p != 2 {
			t.Errorf("expected page 2 to be accepted, got %d %v", p, ok)
		}
	})
}

func TestPosterURL(t *testing.T) {
	tc := []struct {
		name, base, path, want string
	}{
		{name: "Empty", base: "http://localhost:3000", path: "", want: ""},
		{name: "Absolute", base: "http://localhost:3000", path: "https://cdn.example.com/p.jpg", want: "https://cdn.example.com/p.jpg"},
		{name: "Root Relative", base: "http://localhost:3000", path: "/uploads/p.jpg", want: "http://localhost:3000/uploads/p.jpg"},
		{name: "Trailing Slash Base", base: "http://localhost:3000/", path: "/uploads/p.jpg", want: "http://localhost:3000/uploads/p.jpg"},
		{name: "Bare Relative", base: "http://localhost:3000", path: "uploads/p.jpg", want: "http://localhost:3000/uploads/p.jpg"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := PosterURL(tt.base, tt.path); got != tt.want {
				t.Errorf("PosterURL(%q, %q) = %q, want %q", tt.base, tt.path, got, tt.want)
			}
		})
	}
}

func TestMovieJSON(t *testing.T) {
	t.Run("Underscore ID", func(t *testing.T) {
		var m Movie
		if err := json.Unmarshal([]byte(`{"_id":"abc123","title":"Dune","publishingYear":2021}`), &m); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if m.ID != "abc123" || m.Title != "Dune" || m.PublishingYear != 2021 {
			t.Errorf("unexpected movie: %+v", m)
		}
		if m.HasPoster() {
			t.Error("expected no poster")
		}
	})

	t.Run("Plain ID", func(t *testing.T) {
		var m Movie
		if err := json.Unmarshal([]byte(`{"id":"x1","title":"Heat","publishingYear":1995,"posterPath":"/uploads/heat.jpg"}`), &m); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if m.ID != "x1" || !m.HasPoster() {
			t.Errorf("unexpected movie: %+v", m)
		}
	})

	t.Run("User", func(t *testing.T) {
		var u User
		if err := json.Unmarshal([]byte(`{"id":"u1","email":"a@b.co"}`), &u); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if u.ID != "u1" || u.Email != "a@b.co" {
			t.Errorf("unexpected user: %+v", u)
		}
	})
}
