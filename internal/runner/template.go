package runner

import (
	"bytes"
	"strings"
	"text/template"
)

const stepTemplateNameConstant = "step"

// TemplateData exposes the values step declarations may reference.
type TemplateData struct {
	Interpreter string
	Root        string
	Package     string
	Tests       string
	Target      string
}

func renderTemplateValue(rawTemplate string, data TemplateData) (string, error) {
	trimmed := strings.TrimSpace(rawTemplate)
	if len(trimmed) == 0 {
		return "", nil
	}

	parsedTemplate, parseError := template.New(stepTemplateNameConstant).Option("missingkey=error").Parse(trimmed)
	if parseError != nil {
		return "", parseError
	}

	var buffer bytes.Buffer
	if executeError := parsedTemplate.Execute(&buffer, data); executeError != nil {
		return "", executeError
	}
	return buffer.String(), nil
}

// renderArguments renders every argument against the template data, dropping
// arguments whose rendered form is empty so optional variables can erase
// their position from the argv.
func renderArguments(arguments []string, data TemplateData) ([]string, error) {
	rendered := make([]string, 0, len(arguments))
	for argumentIndex := range arguments {
		renderedArgument, renderError := renderTemplateValue(arguments[argumentIndex], data)
		if renderError != nil {
			return nil, renderError
		}
		trimmedArgument := strings.TrimSpace(renderedArgument)
		if len(trimmedArgument) == 0 {
			continue
		}
		rendered = append(rendered, trimmedArgument)
	}
	return rendered, nil
}
