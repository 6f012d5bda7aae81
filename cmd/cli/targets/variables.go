package targets

import (
	"fmt"
	"strings"
)

const (
	packageVariableNameConstant             = "package"
	testsVariableNameConstant               = "tests"
	variableAssignmentSeparatorConstant     = "="
	variableFormatErrorTemplateConstant     = "template variables must be in key=value format: %s"
	variableEmptyKeyErrorTemplateConstant   = "template variable key cannot be empty (%s)"
	variableUnknownKeyErrorTemplateConstant = "unknown template variable %q (supported: %s, %s)"
)

func parseVariableAssignments(assignments []string) (map[string]string, error) {
	if len(assignments) == 0 {
		return nil, nil
	}

	result := make(map[string]string, len(assignments))
	for _, assignment := range assignments {
		trimmed := strings.TrimSpace(assignment)
		if len(trimmed) == 0 {
			continue
		}
		parts := strings.SplitN(trimmed, variableAssignmentSeparatorConstant, 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf(variableFormatErrorTemplateConstant, assignment)
		}
		key := strings.TrimSpace(parts[0])
		value := parts[1]
		if len(key) == 0 {
			return nil, fmt.Errorf(variableEmptyKeyErrorTemplateConstant, assignment)
		}
		if key != packageVariableNameConstant && key != testsVariableNameConstant {
			return nil, fmt.Errorf(variableUnknownKeyErrorTemplateConstant, key, packageVariableNameConstant, testsVariableNameConstant)
		}
		result[key] = value
	}

	if len(result) == 0 {
		return nil, nil
	}
	return result, nil
}
