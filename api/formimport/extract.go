package formimport

import (
	"regexp"
	"strings"

	"google.golang.org/api/forms/v1"
)

// PersonalDataKeywords are matched as whole words, case-insensitively, against item titles and descriptions.
var PersonalDataKeywords = []string{
	"nama lengkap",
	"full name",
	"email",
	"e-mail",
	"nomor telepon",
	"no telepon",
	"nomor hp",
	"no hp",
	"no. hp",
	"phone number",
	"whatsapp",
	"alamat",
	"address",
	"nik",
	"nim",
	"tanggal lahir",
	"date of birth",
	"nomor rekening",
}

var keywordPatterns = compileKeywords(PersonalDataKeywords)

func compileKeywords(keywords []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(keywords))
	for i, kw := range keywords {
		patterns[i] = regexp.MustCompile(`(?i)(^|[^\pL\pN])` + regexp.QuoteMeta(kw) + `($|[^\pL\pN])`)
	}
	return patterns
}

// DetectKeywords returns the keywords found in any of texts, in list order, without duplicates.
func DetectKeywords(texts ...string) []string {
	found := []string{}
	for i, pattern := range keywordPatterns {
		for _, text := range texts {
			if pattern.MatchString(text) {
				found = append(found, PersonalDataKeywords[i])
				break
			}
		}
	}
	return found
}

type Extraction struct {
	FormID                       string   `json:"formId"`
	Title                        string   `json:"title"`
	Description                  string   `json:"description"`
	QuestionCount                int      `json:"questionCount"`
	ResponderURL                 string   `json:"responderUrl"`
	DetectedPersonalDataKeywords []string `json:"detectedPersonalDataKeywords"`
}

// Extract counts answerable questions: one per question item and one per row of a question group.
// Section headers, text, images and videos are not questions.
func Extract(form *forms.Form) Extraction {
	extraction := Extraction{
		FormID:                       form.FormId,
		ResponderURL:                 form.ResponderUri,
		DetectedPersonalDataKeywords: []string{},
	}

	if form.Info != nil {
		extraction.Title = strings.TrimSpace(form.Info.Title)
		if extraction.Title == "" {
			extraction.Title = strings.TrimSpace(form.Info.DocumentTitle)
		}
		extraction.Description = strings.TrimSpace(form.Info.Description)
	}

	var texts []string
	for _, item := range form.Items {
		if item == nil {
			continue
		}
		switch {
		case item.QuestionItem != nil:
			extraction.QuestionCount++
		case item.QuestionGroupItem != nil:
			extraction.QuestionCount += len(item.QuestionGroupItem.Questions)
		default:
			continue
		}
		texts = append(texts, item.Title, item.Description)
	}

	extraction.DetectedPersonalDataKeywords = DetectKeywords(texts...)
	return extraction
}
