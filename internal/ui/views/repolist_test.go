package views

import (
	"strings"
	"testing"

	"github.com/johanforsgren/repobrowser/internal/domain"
)

func strPtr(s string) *string { return &s }

func sampleRepos() []domain.RepositorySummary {
	return []domain.RepositorySummary{
		{ID: 1, Name: "grit", OwnerLogin: "mojombo", StarCount: 1, Description: strPtr("Grit is no longer maintained")},
		{ID: 2, Name: "hello-world", OwnerLogin: "octocat", StarCount: 42, Description: strPtr("My first\nrepository")},
		{ID: 3, Name: "spoon-knife", OwnerLogin: "octocat", StarCount: 7},
	}
}

func TestRepoListFilter(t *testing.T) {
	tests := []struct {
		filter string
		want   []string
	}{
		{"", []string{"grit", "hello-world", "spoon-knife"}},
		{"octocat", []string{"hello-world", "spoon-knife"}},
		{"MAINTAINED", []string{"grit"}},
		{"nothing-matches", nil},
	}

	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			m := NewRepoListView()
			m.SetSize(120, 30)
			m.SetRepositories(sampleRepos())

			m.ActivateFilter()
			m.filterInput.SetValue(tt.filter)
			m.ApplyFilter()

			var got []string
			for _, r := range m.Repositories() {
				got = append(got, r.Name)
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("filter %q: expected %v, got %v", tt.filter, tt.want, got)
			}
		})
	}
}

func TestRepoListSelectionClampedAfterShrink(t *testing.T) {
	m := NewRepoListView()
	m.SetSize(120, 30)
	m.SetRepositories(sampleRepos())
	m.table.SetCursor(2)

	m.SetRepositories(sampleRepos()[:1])

	selected := m.GetSelectedRepo()
	if selected == nil || selected.Name != "grit" {
		t.Errorf("expected selection to move to the last row, got %+v", selected)
	}
}

func TestRepoListSelectsFirstRowAfterEmptyLoad(t *testing.T) {
	m := NewRepoListView()
	m.SetSize(120, 30)
	m.SetRepositories(nil)

	m.SetRepositories(sampleRepos()[:2])

	selected := m.GetSelectedRepo()
	if selected == nil || selected.Name != "grit" {
		t.Errorf("expected first row to be selected, got %+v", selected)
	}
}

func TestRepoListMarksOwnRepositories(t *testing.T) {
	m := NewRepoListView()
	m.SetSize(120, 30)
	m.SetRepositories(sampleRepos())

	m.SetOwner("octocat")

	rows := m.table.Rows()
	if rows[0][0] != "" {
		t.Errorf("expected no marker for mojombo, got %q", rows[0][0])
	}
	if rows[1][0] != ownMarker || rows[2][0] != ownMarker {
		t.Error("expected markers for octocat repositories")
	}
	if rows[1][3] != "My first repository" {
		t.Errorf("expected description on one line, got %q", rows[1][3])
	}
}

func TestRepoListEmptyView(t *testing.T) {
	m := NewRepoListView()
	m.SetSize(80, 20)

	if !strings.Contains(m.View(), "No repositories loaded") {
		t.Error("expected empty placeholder")
	}
	if m.GetSelectedRepo() != nil {
		t.Error("expected no selection")
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly-10", 10, "exactly-10"},
		{"much-too-long-name", 10, "much-to..."},
		{"abcdef", 2, "ab"},
		{"ünïcödé-name", 8, "ünïcö..."},
	}

	for _, tt := range tests {
		if got := truncateString(tt.in, tt.maxLen); got != tt.want {
			t.Errorf("truncateString(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
		}
	}
}
