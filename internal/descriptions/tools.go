package descriptions

import "sort"

// Tool names
const (
	ListTemplates  = "enrollment_list_templates"
	TemplateFields = "enrollment_template_fields"
	NewRecord      = "enrollment_new_record"
	Export         = "enrollment_export"
	MergeRecord    = "enrollment_merge_record"
	Extract        = "enrollment_extract"
)

// Tool descriptions with practical examples and use cases

const (
	ListTemplatesDescription = `List the enrollment templates the service can fill.

**When to use:** Before an export, to find the template id for an insurer and product.

**Modes:** familienversicherung (default) lists the statutory family insurance forms, zusatz the supplemental package, komplett both.

**Examples:**
• "Which family insurance forms are available?" → mode empty
• "Show the supplemental package templates" → mode "zusatz"`

	TemplateFieldsDescription = `List the form fields of a template and check the field mapping against them.

**When to use:** After an insurer publishes a new version of a form, or when exports report skipped fields.

**Result:** every field with its kind (text, checkbox, radio, choice), pages and radio options, followed by the mapping references that resolve to no field of the template.`

	NewRecordDescription = `Create an empty applicant record.

**Result:** a record with today's date and the membership start set to the first day of the month three months ahead. Fill it in, merge extraction results into it, then export it.`

	ExportDescription = `Fill a template with an applicant record and write the PDFs.

**When to use:** The record is complete enough to produce the enrollment form.

**Behavior:**
• A template holds a limited number of children; more children produce several documents (_Teil1, _Teil2, ...), each repeating the member and spouse
• Values whose field is missing from the template are skipped and reported, the rest of the document is still written
• Signature images are stamped into their boxes; a broken image only drops that signature

**Best practices:** Run enrollment_template_fields first when a template was replaced.`

	MergeRecordDescription = `Merge a partial record into a record.

**Rules:** top-level keys replace the current value; the spouse and package objects are merged key by key; children are merged by position and extra children are appended. Null values are ignored.

**Example:** payload {"kinder":[{"vorname":"Mia"}]} sets the first child's given name and keeps its other fields.`

	ExtractDescription = `Read an applicant's details from free text or a photo of a paper form.

**When to use:** The applicant sent an email, a scan or a photo instead of filling the form.

**Behavior:** the extraction service answers with a partial record which is merged into the given record (or a new one). Check the result before exporting.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	ListTemplates:  ListTemplatesDescription,
	TemplateFields: TemplateFieldsDescription,
	NewRecord:      NewRecordDescription,
	Export:         ExportDescription,
	MergeRecord:    MergeRecordDescription,
	Extract:        ExtractDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns all tool names, sorted
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
