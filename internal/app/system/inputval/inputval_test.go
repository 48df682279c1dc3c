package inputval

import "testing"

func TestIsValidHTTPURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"http://example.com", true},
		{"https://example.com/path?query=1", true},
		{"http://localhost:8080", true},
		{"  https://shop.example.tw/p/1  ", true},

		{"", false},
		{"   ", false},
		{"ftp://example.com", false},
		{"mailto:user@example.com", false},
		{"example.com", false},
		{"//example.com", false},
		{"file:///etc/passwd", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := IsValidHTTPURL(tt.url); got != tt.want {
				t.Errorf("IsValidHTTPURL(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestIsValidObjectID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"507f1f77bcf86cd799439011", true},
		{"  507f1f77bcf86cd799439011  ", true},
		{"", false},
		{"507f1f77bcf86cd79943901", false},
		{"507f1f77bcf86cd79943901g", false},
		{"not-a-valid-id", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := IsValidObjectID(tt.id); got != tt.want {
				t.Errorf("IsValidObjectID(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	type input struct {
		Name  string `validate:"required,max=10" label:"Full name"`
		Email string `validate:"required,email" label:"Email address"`
		Link  string `validate:"omitempty,httpurl" label:"Link"`
		Ref   string `validate:"omitempty,objectid" label:"Reference"`
	}

	tests := []struct {
		name      string
		in        input
		wantFirst string
	}{
		{"valid", input{Name: "Jill", Email: "jill@example.com"}, ""},
		{"missing name", input{Email: "jill@example.com"}, "Full name is required."},
		{"name too long", input{Name: "VeryLongNameIndeed", Email: "jill@example.com"}, "Full name must be at most 10 characters."},
		{"bad email", input{Name: "Jill", Email: "nope"}, "A valid email address is required."},
		{"bad link", input{Name: "Jill", Email: "jill@example.com", Link: "example.com"}, "Link must be an http or https URL."},
		{"bad ref", input{Name: "Jill", Email: "jill@example.com", Ref: "x"}, "Reference is not a valid id."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(tt.in)
			if got := res.HasErrors(); got != (tt.wantFirst != "") {
				t.Fatalf("HasErrors() = %v, errors = %v", got, res.Errors)
			}
			if res.First() != tt.wantFirst {
				t.Errorf("First() = %q, want %q", res.First(), tt.wantFirst)
			}
		})
	}
}

func TestResult_All(t *testing.T) {
	r := &Result{}
	if r.All() != "" {
		t.Errorf("All() = %q, want empty", r.All())
	}
	r.Errors = []FieldError{{Message: "Error 1"}, {Message: "Error 2"}}
	if want := "Error 1; Error 2"; r.All() != want {
		t.Errorf("All() = %q, want %q", r.All(), want)
	}
	if r.First() != "Error 1" {
		t.Errorf("First() = %q", r.First())
	}
}
