package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/tasuku43/gbc/internal/domain/branchname"
	"gopkg.in/yaml.v3"
)

type ValidationIssue struct {
	Kind    string
	Prefix  string
	Message string
}

type ValidationResult struct {
	Path   string
	Issues []ValidationIssue
}

const (
	IssueKindFile             = "gbc.yaml"
	IssueKindInvalidYAML      = "invalid yaml"
	IssueKindInvalidPrefix    = "invalid prefix"
	IssueKindDuplicatePrefix  = "duplicate prefix"
	IssueKindMultipleDefaults = "multiple defaults"
	IssueKindDateFormat       = "invalid date format"
	IssueKindType             = "wrong type"
	IssueKindUnknownKey       = "unknown key"
)

var knownKeys = map[string]struct{}{
	"version":         {},
	"branch_prefixes": {},
	"date_format":     {},
	"custom_git_name": {},
	"auto_checkout":   {},
}

// Validate reports every problem in gbc.yaml instead of stopping at the
// first one like Load does.
func Validate(rootDir string) (ValidationResult, error) {
	if strings.TrimSpace(rootDir) == "" {
		return ValidationResult{}, fmt.Errorf("root directory is required")
	}
	path := Path(rootDir)
	data, err := os.ReadFile(path)
	if err != nil {
		return ValidationResult{
			Path:   path,
			Issues: []ValidationIssue{issue(IssueKindFile, "", err.Error())},
		}, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return ValidationResult{
			Path:   path,
			Issues: []ValidationIssue{issue(IssueKindInvalidYAML, "", err.Error())},
		}, nil
	}
	return ValidationResult{Path: path, Issues: validateRoot(unwrapDocument(&doc))}, nil
}

func unwrapDocument(node *yaml.Node) *yaml.Node {
	if node == nil {
		return node
	}
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		return node.Content[0]
	}
	return node
}

func validateRoot(root *yaml.Node) []ValidationIssue {
	if root == nil || root.Kind != yaml.MappingNode {
		return []ValidationIssue{issue(IssueKindType, "", "top level must be a mapping")}
	}
	var issues []ValidationIssue
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i]
		value := root.Content[i+1]
		if key == nil || value == nil {
			continue
		}
		switch key.Value {
		case "branch_prefixes":
			issues = append(issues, validatePrefixList(value)...)
		case "date_format":
			if _, err := branchname.ParseDateFormat(value.Value); err != nil {
				issues = append(issues, issue(IssueKindDateFormat, "", err.Error()))
			}
		case "auto_checkout":
			var b bool
			if value.Kind != yaml.ScalarNode || value.Decode(&b) != nil {
				issues = append(issues, issue(IssueKindType, "", "auto_checkout must be true or false"))
			}
		case "custom_git_name":
			if value.Kind != yaml.ScalarNode {
				issues = append(issues, issue(IssueKindType, "", "custom_git_name must be a string"))
			}
		default:
			if _, ok := knownKeys[key.Value]; !ok {
				issues = append(issues, issue(IssueKindUnknownKey, "", key.Value))
			}
		}
	}
	return issues
}

func validatePrefixList(node *yaml.Node) []ValidationIssue {
	if node.Kind != yaml.SequenceNode {
		return []ValidationIssue{issue(IssueKindType, "", "branch_prefixes must be a list")}
	}
	var issues []ValidationIssue
	seen := make(map[string]struct{})
	defaults := 0
	for _, entry := range node.Content {
		var p BranchPrefix
		if entry.Kind != yaml.MappingNode || entry.Decode(&p) != nil {
			issues = append(issues, issue(IssueKindType, "", "prefix entry must be a mapping with prefix, description, default"))
			continue
		}
		name := strings.TrimSpace(p.Prefix)
		if err := ValidatePrefix(name); err != nil {
			issues = append(issues, issue(IssueKindInvalidPrefix, name, err.Error()))
		}
		if name != "" {
			if _, ok := seen[name]; ok {
				issues = append(issues, issue(IssueKindDuplicatePrefix, name, "prefix is listed more than once"))
			}
			seen[name] = struct{}{}
		}
		if p.IsDefault {
			defaults++
		}
	}
	if defaults > 1 {
		issues = append(issues, issue(IssueKindMultipleDefaults, "", fmt.Sprintf("%d prefixes are marked default", defaults)))
	}
	return issues
}

func issue(kind, prefix, message string) ValidationIssue {
	return ValidationIssue{
		Kind:    kind,
		Prefix:  strings.TrimSpace(prefix),
		Message: strings.TrimSpace(message),
	}
}
