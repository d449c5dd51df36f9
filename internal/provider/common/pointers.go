package common

func GetString(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}

// OptionalString maps the API's "missing or empty" to nil.
func OptionalString(ptr *string) *string {
	if ptr == nil || *ptr == "" {
		return nil
	}
	v := *ptr
	return &v
}

func StringOr(ptr *string, fallback string) string {
	if ptr == nil || *ptr == "" {
		return fallback
	}
	return *ptr
}
