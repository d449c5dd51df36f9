package common

import (
	"fmt"
	"strings"

	"github.com/johanforsgren/repobrowser/internal/domain"
)

// ParseRepository splits "owner/name" (a trailing ".git" or "/" is tolerated).
func ParseRepository(fullName string) (owner, name string, err error) {
	trimmed := strings.TrimSuffix(strings.TrimSuffix(strings.TrimSpace(fullName), "/"), ".git")
	parts := strings.Split(trimmed, "/")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: expected 'owner/name', got '%s'", ErrInvalidRepositoryFormat, fullName)
	}

	owner = parts[0]
	name = parts[1]
	if owner == "" || name == "" {
		return "", "", fmt.Errorf("%w: owner and name must be non-empty", ErrInvalidRepositoryFormat)
	}

	return owner, name, nil
}

// LanguageQuery builds the search qualifier used by the browse screen.
func LanguageQuery(language string) string {
	return "language:" + language
}

func FormatRepository(repo domain.RepositorySummary) string {
	return fmt.Sprintf("%s (%d stars)", repo.FullName(), repo.StarCount)
}
