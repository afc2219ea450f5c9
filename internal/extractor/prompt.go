package extractor

import (
	"encoding/json"
	"fmt"
	"strings"

	"docverify/internal/domain"
)

// ClassifyPrompt asks the model to name the document type in a single word.
const ClassifyPrompt = `Please analyze this image and determine what type of identity document it is.
Classify it as one of the following:
- passport: International travel document
- driver_license: State-issued driver's license
- ead_card: Employment Authorization Document (EAD) card

Only respond with one of these exact words: passport, driver_license, ead_card, or unknown`

// BuildExtractPrompt returns the field extraction prompt for a document type.
func BuildExtractPrompt(docType domain.DocumentType, fields []domain.FieldSpec) string {
	var list strings.Builder
	example := make(map[string]string, len(fields))
	for _, f := range fields {
		fmt.Fprintf(&list, "- %s: %s\n", f.Name, f.Description)
		example[f.Name] = "value"
	}
	exampleJSON, _ := json.MarshalIndent(example, "", "  ")

	return `Please extract the following information from this ` + strings.ReplaceAll(string(docType), "_", " ") + `:

` + list.String() + `
Name extraction:
1. If the document shows a complete name in one field, extract it as "full_name".
2. If the document shows first and last names in separate fields, extract them as "first_name" and "last_name".
3. A "SMITH, JOHN" style name goes into full_name unchanged.

General instructions:
- Extract ONLY what is visible on the document.
- Extract dates in the format shown on the document.
- Use null for fields that are not present.
- Do not split or combine fields yourself.

Example format:
` + string(exampleJSON) + `

Return only the JSON object, no additional text.`
}
