package descriptions

import (
	"strings"
	"testing"
)

func TestGetToolDescription(t *testing.T) {
	for _, name := range GetAllToolNames() {
		desc := GetToolDescription(name)
		if strings.TrimSpace(desc) == "" {
			t.Errorf("tool %s has an empty description", name)
		}
	}

	if got := GetToolDescription("pdf_read_file"); got != "Tool description not available" {
		t.Errorf("unknown tool description = %q", got)
	}
}

func TestGetAllToolNames(t *testing.T) {
	want := []string{
		"project_extract_content",
		"project_extract_directory",
		"project_extract_file",
		"project_server_info",
	}
	got := GetAllToolNames()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("GetAllToolNames() = %v, want %v", got, want)
	}
}
