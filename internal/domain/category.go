package domain

import (
	"strings"

	"github.com/fatih/camelcase"
)

// IssueCategory is the remediation strategy selected for an issue label.
type IssueCategory string

const (
	CategoryHardcodedSecret      IssueCategory = "hardcoded_secret"
	CategoryMissingAuthorization IssueCategory = "missing_authorization"
	CategorySQLInjection         IssueCategory = "sql_injection"
	CategoryXSS                  IssueCategory = "xss"
	CategoryUnclassified         IssueCategory = "unclassified"
)

// CategoryRule pairs a category with the lower-case substrings that select it.
type CategoryRule struct {
	Category IssueCategory `json:"category"`
	Keywords []string      `json:"keywords"`
}

// ClassificationOrder is evaluated top to bottom and the first match wins.
// Labels often mention several weaknesses ("sql injection in auth handler"),
// so order decides, not specificity.
var ClassificationOrder = []CategoryRule{
	{Category: CategoryHardcodedSecret, Keywords: []string{"hardcoded secret", "hardcoded"}},
	{Category: CategoryMissingAuthorization, Keywords: []string{"authorization", "auth"}},
	{Category: CategorySQLInjection, Keywords: []string{"sql injection"}},
	{Category: CategoryXSS, Keywords: []string{"xss", "cross-site scripting"}},
}

// ValidCategories enumerates every category, unclassified last.
var ValidCategories = []IssueCategory{
	CategoryHardcodedSecret,
	CategoryMissingAuthorization,
	CategorySQLInjection,
	CategoryXSS,
	CategoryUnclassified,
}

// Classify maps a free-text issue label to a category by case-insensitive
// substring match. Unrecognized labels yield CategoryUnclassified, never an
// error.
func Classify(issueType string) IssueCategory {
	cat, _ := match(strings.ToLower(issueType))
	return cat
}

func match(label string) (IssueCategory, string) {
	for _, rule := range ClassificationOrder {
		for _, kw := range rule.Keywords {
			if strings.Contains(label, kw) {
				return rule.Category, kw
			}
		}
	}
	return CategoryUnclassified, ""
}

// Explanation describes how a label was classified.
type Explanation struct {
	Label    string        `json:"label"`
	Category IssueCategory `json:"category"`
	Keyword  string        `json:"keyword,omitempty"`
	// SplitLabel and SplitCategory report what the camel-case split of an
	// unclassified label would match. They are hints for the caller and
	// never change Category.
	SplitLabel    string        `json:"split_label,omitempty"`
	SplitCategory IssueCategory `json:"split_category,omitempty"`
}

// Explain classifies issueType and reports the matching keyword.
func Explain(issueType string) Explanation {
	cat, kw := match(strings.ToLower(issueType))
	exp := Explanation{Label: issueType, Category: cat, Keyword: kw}
	if cat != CategoryUnclassified {
		return exp
	}

	split := splitCamelCase(issueType)
	if strings.EqualFold(split, issueType) {
		return exp
	}
	if splitCat, _ := match(strings.ToLower(split)); splitCat != CategoryUnclassified {
		exp.SplitLabel = split
		exp.SplitCategory = splitCat
	}
	return exp
}

// splitCamelCase turns "SqlInjection" into "Sql Injection". Runs of
// whitespace produced by the splitter are collapsed.
func splitCamelCase(s string) string {
	var words []string
	for _, w := range camelcase.Split(s) {
		if strings.TrimSpace(w) == "" {
			continue
		}
		words = append(words, w)
	}
	return strings.Join(words, " ")
}

// IsValidCategory reports whether name is a known category.
func IsValidCategory(name string) bool {
	for _, c := range ValidCategories {
		if string(c) == name {
			return true
		}
	}
	return false
}
