package descriptions

import "sort"

// Tool descriptions with practical examples and use cases

const (
	ProjectExtractFileDescription = `Extract a structured project record from one progress report (PDF or JSON content file).

**When to use:** You have a monthly infrastructure progress report and need its project name, sector, reporting month, location, progress percentages and cost figures as data.

**What you get:** A single record with project_id, the nine source fields (null when the report does not state them), status_flag and source_file, plus a one-line summary saying how many fields were found.

**Examples:**
• "Extract the project record from metro-march-2024.pdf"
• "What is the physical progress reported in highway-phase-iv.json?"

**How values are found:** Progress and cost figures are read from labeled table rows first ("Physical Progress", "Financial Progress", "Planned Cost", "Expenditure") and from the narrative text only when no table row supplied them. Text fields come from "Label: value" lines. Costs are in crore.

**Status flag:** DELAYED when physical progress is below 50%, COST_OVERRUN when expenditure exceeds the planned cost, both joined by " | ", otherwise ON_TRACK.

**Best practices:** Paths may be relative to the configured report directory. Files outside it are rejected.`

	ProjectExtractContentDescription = `Extract a structured project record from document content that was already decoded elsewhere.

**When to use:** Another tool or OCR step produced the report text and tables and you want the same record project_extract_file would return, without a file.

**Input format:** A JSON object string: {"text": "...", "tables": [[["Planned Cost", "Rs. 1,500 Crore"], ...], ...]}. Each table is a list of rows and each row a list of cells; a cell may be null. "tables" may be omitted.

**Examples:**
• "Extract the record from this text: {\"text\": \"Project Name: Ring Road\\nSector: Roads\"}"

**Best practices:** Keep table rows as the report lays them out with the label in the first cell. Content with no text and no tables is rejected.`

	ProjectExtractDirectoryDescription = `Extract project records from every PDF and JSON report in a directory.

**When to use:** Building a portfolio view across a month's reports, or checking which reports could not be read.

**What you get:** Records for every readable report, in file name order, and a list of files that failed to decode with the reason. A bad file never stops the batch.

**Examples:**
• "Extract all reports in the configured directory"
• "Process /reports/2024-03 and list the delayed projects"

**Best practices:** Only files directly inside the directory are read. Leave directory empty to use the configured report directory.`

	ProjectServerInfoDescription = `Get server information: version, configured report directory, supported input formats, extracted fields and the status flag vocabulary.

**When to use:** First call in a session, or to check where reports are read from.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	"project_extract_file":      ProjectExtractFileDescription,
	"project_extract_content":   ProjectExtractContentDescription,
	"project_extract_directory": ProjectExtractDirectoryDescription,
	"project_server_info":       ProjectServerInfoDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns every described tool name, sorted
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
