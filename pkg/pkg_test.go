package pkg

import (
	"os"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	expected := "raindoc"
	if Name != expected {
		t.Errorf("Expected Name to be %q, got %q", expected, Name)
	}
}

func TestDescription(t *testing.T) {
	if Description == "" {
		t.Error("Expected non-empty Description")
	}
}

func TestVersion(t *testing.T) {
	// Version is embedded from VERSION file in this package directory.
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("Failed to read VERSION file: %v", err)
	}

	expected := strings.TrimSpace(string(buf))
	if expected == "" {
		t.Fatal("VERSION file is empty")
	}

	if got := Version(); got != expected {
		t.Errorf("Expected Version to be %q, got %q", expected, got)
	}
}

func TestAuthor(t *testing.T) {
	if len(Author) == 0 {
		t.Fatal("Expected at least one author")
	}

	for _, a := range Author {
		if a.Name == "" || !strings.Contains(a.Email, "@") {
			t.Errorf("Invalid author entry %+v", a)
		}
	}
}
