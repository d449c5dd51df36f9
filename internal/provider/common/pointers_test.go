package common

import "testing"

func TestGetString(t *testing.T) {
	str := "hello"
	tests := []struct {
		name string
		ptr  *string
		want string
	}{
		{
			name: "non-nil pointer",
			ptr:  &str,
			want: "hello",
		},
		{
			name: "nil pointer",
			ptr:  nil,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetString(tt.ptr)
			if got != tt.want {
				t.Errorf("GetString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOptionalString(t *testing.T) {
	value := "A description"
	empty := ""

	if got := OptionalString(nil); got != nil {
		t.Errorf("OptionalString(nil) = %q, want nil", *got)
	}
	if got := OptionalString(&empty); got != nil {
		t.Errorf("OptionalString(\"\") = %q, want nil", *got)
	}

	got := OptionalString(&value)
	if got == nil || *got != value {
		t.Fatalf("OptionalString() = %v, want %q", got, value)
	}
	if got == &value {
		t.Error("OptionalString() should copy, not alias the input")
	}
}

func TestStringOr(t *testing.T) {
	name := "The Octocat"
	empty := ""

	tests := []struct {
		name string
		ptr  *string
		want string
	}{
		{name: "value", ptr: &name, want: "The Octocat"},
		{name: "empty", ptr: &empty, want: "fallback"},
		{name: "nil", ptr: nil, want: "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StringOr(tt.ptr, "fallback"); got != tt.want {
				t.Errorf("StringOr() = %q, want %q", got, tt.want)
			}
		})
	}
}
