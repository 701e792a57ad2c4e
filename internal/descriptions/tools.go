package descriptions

import "sort"

// Tool descriptions with examples and use cases

const (
	FormVerifyDescription = `Read a filled-in exam form PDF and return the student's answers as a two-column table (Item, Resposta).

**When to use:** A student uploaded their answer sheet and you need their name, CPF and every answer in one place.

**What it returns:**
• Nome: the student's name, title-cased
• CPF: formatted as 000.000.000-00, or empty when the check digits are wrong
• Questão N: one row per question, in the order the fields appear in the form
  - multiple choice: the letter of the selected option
  - numeric: the number typed, with "," accepted as decimal separator
  - code: (valid, source) where valid tells whether the Python source parses

**Examples:**
• "Verify prova-ana.pdf from the uploads folder"
• Pass the PDF bytes as base64 in content when the file is not on disk

**Failures:** Documents that were printed to PDF instead of saved lose their form fields. The tool then returns guidance asking for the saved file, followed by the error.

**Best practices:** Use form_fields first when a form from a new template fails, to see which field names it carries.`

	FormFieldsDescription = `List the raw form fields of a PDF in document order.

**When to use:** Diagnosing a form that form_verify rejects, or checking the field names of a new exam template.

**Examples:**
• "Show the fields of template-2024.pdf"
• "Why does prova-joao.pdf say a required field is missing?"

**Output:** one line per field, name = value. Radio button values keep their leading "/". Fields with no value are shown as <absent>.`

	FormServerInfoDescription = `Get server information, available tools and the directory files are read from.

**When to use:** First call in a session, to learn where form PDFs must be placed and which output format is configured.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	"form_verify":      FormVerifyDescription,
	"form_fields":      FormFieldsDescription,
	"form_server_info": FormServerInfoDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns the names of all available tools, sorted
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
