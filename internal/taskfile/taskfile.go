package taskfile

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	taskfileLoadErrorTemplateConstant            = "failed to load taskfile: %w"
	taskfileParseErrorTemplateConstant           = "failed to parse taskfile: %w"
	taskfilePathRequiredMessageConstant          = "taskfile path must be provided"
	taskfileEmptyTargetsMessageConstant          = "taskfile must declare at least one target"
	taskfileTargetNameMissingMessageConstant     = "taskfile target missing name"
	taskfileTargetsSequenceMessageConstant       = "targets block must be defined as a sequence of targets"
	targetEmptyStepsMessageTemplateConstant      = "target %q must declare at least one step"
	stepKindCountMessageTemplateConstant         = "target %q step %d must declare exactly one of run, prune, or remove"
	stepEmptyValuesMessageTemplateConstant       = "target %q step %d %s resolved to no values"
	stepWorkingDirectoryMessageTemplateConstant  = "target %q step %d working_directory applies only to run steps"
	stepEntriesMessageTemplateConstant           = "%s entries must be strings"
	stepTypeMessageTemplateConstant              = "%s must be a string or list of strings"
	duplicateTargetErrorMessageTemplateConstant  = "duplicate target %q declared"
	runStepKeyConstant                           = "run"
	pruneStepKeyConstant                         = "prune"
	removeStepKeyConstant                        = "remove"
	defaultTaskfileNameStringConstant            = "pyx.yaml"
	defaultPackageDirectoryNameStringConstant    = "c4psycopg"
	defaultTestsDirectoryNameStringConstant      = "tests"
)

// DefaultFileName is the declaration file searched for upward from the invocation directory.
const DefaultFileName = defaultTaskfileNameStringConstant

// Fallback template variables used when neither the taskfile nor the configuration declares them.
const (
	DefaultPackageDirectory = defaultPackageDirectoryNameStringConstant
	DefaultTestsDirectory   = defaultTestsDirectoryNameStringConstant
)

// StepKind identifies supported step kinds.
type StepKind string

// Supported step kinds.
const (
	StepKindRun    StepKind = StepKind(runStepKeyConstant)
	StepKindPrune  StepKind = StepKind(pruneStepKeyConstant)
	StepKindRemove StepKind = StepKind(removeStepKeyConstant)
)

// Taskfile describes the declared targets plus shared template variables.
type Taskfile struct {
	PackageDirectory string
	TestsDirectory   string
	Targets          []TargetDefinition
}

// TargetDefinition associates a target name with its ordered steps.
type TargetDefinition struct {
	Name        string
	Description string
	Steps       []StepDefinition
}

// StepDefinition carries exactly one step kind with its arguments.
type StepDefinition struct {
	Kind             StepKind
	Arguments        []string
	WorkingDirectory string
}

type taskfileDocument struct {
	Package string          `yaml:"package"`
	Tests   string          `yaml:"tests"`
	Targets []targetWrapper `yaml:"targets"`
}

type targetWrapper struct {
	Target targetDocument `yaml:"target"`
}

type targetDocument struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []stepDocument `yaml:"steps"`
}

type stepDocument struct {
	Run              any    `yaml:"run"`
	Prune            any    `yaml:"prune"`
	Remove           any    `yaml:"remove"`
	WorkingDirectory string `yaml:"working_directory"`
}

// DuplicateTargetError reports a target name declared more than once.
type DuplicateTargetError struct {
	Name string
}

// Error describes the duplicate declaration.
func (duplicateError DuplicateTargetError) Error() string {
	return fmt.Sprintf(duplicateTargetErrorMessageTemplateConstant, duplicateError.Name)
}

// Load reads the taskfile from disk and performs basic validation.
func Load(filePath string) (Taskfile, error) {
	trimmedPath := strings.TrimSpace(filePath)
	if len(trimmedPath) == 0 {
		return Taskfile{}, errors.New(taskfilePathRequiredMessageConstant)
	}

	contentBytes, readError := os.ReadFile(trimmedPath)
	if readError != nil {
		return Taskfile{}, fmt.Errorf(taskfileLoadErrorTemplateConstant, readError)
	}

	return Parse(contentBytes)
}

// Parse validates an in-memory taskfile declaration.
func Parse(contentBytes []byte) (Taskfile, error) {
	var document taskfileDocument
	if unmarshalError := yaml.Unmarshal(contentBytes, &document); unmarshalError != nil {
		return Taskfile{}, fmt.Errorf(taskfileParseErrorTemplateConstant, unmarshalError)
	}

	if sequenceError := ensureTargetsSequence(contentBytes); sequenceError != nil {
		return Taskfile{}, fmt.Errorf(taskfileParseErrorTemplateConstant, sequenceError)
	}

	if len(document.Targets) == 0 {
		return Taskfile{}, errors.New(taskfileEmptyTargetsMessageConstant)
	}

	parsed := Taskfile{
		PackageDirectory: strings.TrimSpace(document.Package),
		TestsDirectory:   strings.TrimSpace(document.Tests),
		Targets:          make([]TargetDefinition, 0, len(document.Targets)),
	}

	declaredNames := make(map[string]struct{}, len(document.Targets))
	for targetIndex := range document.Targets {
		rawTarget := document.Targets[targetIndex].Target

		targetName := strings.TrimSpace(rawTarget.Name)
		if len(targetName) == 0 {
			return Taskfile{}, errors.New(taskfileTargetNameMissingMessageConstant)
		}
		if _, nameExists := declaredNames[targetName]; nameExists {
			return Taskfile{}, DuplicateTargetError{Name: targetName}
		}
		declaredNames[targetName] = struct{}{}

		if len(rawTarget.Steps) == 0 {
			return Taskfile{}, fmt.Errorf(targetEmptyStepsMessageTemplateConstant, targetName)
		}

		steps := make([]StepDefinition, 0, len(rawTarget.Steps))
		for stepIndex := range rawTarget.Steps {
			step, stepError := buildStepDefinition(targetName, stepIndex, rawTarget.Steps[stepIndex])
			if stepError != nil {
				return Taskfile{}, stepError
			}
			steps = append(steps, step)
		}

		parsed.Targets = append(parsed.Targets, TargetDefinition{
			Name:        targetName,
			Description: strings.TrimSpace(rawTarget.Description),
			Steps:       steps,
		})
	}

	return parsed, nil
}

// FindTarget returns the declaration matching the exact target name.
func (taskfileDefinition Taskfile) FindTarget(targetName string) (TargetDefinition, bool) {
	for targetIndex := range taskfileDefinition.Targets {
		if taskfileDefinition.Targets[targetIndex].Name == targetName {
			return taskfileDefinition.Targets[targetIndex], true
		}
	}
	return TargetDefinition{}, false
}

// TargetNames lists declared target names in declaration order.
func (taskfileDefinition Taskfile) TargetNames() []string {
	targetNames := make([]string, 0, len(taskfileDefinition.Targets))
	for targetIndex := range taskfileDefinition.Targets {
		targetNames = append(targetNames, taskfileDefinition.Targets[targetIndex].Name)
	}
	return targetNames
}

func buildStepDefinition(targetName string, stepIndex int, document stepDocument) (StepDefinition, error) {
	declaredKinds := 0
	if document.Run != nil {
		declaredKinds++
	}
	if document.Prune != nil {
		declaredKinds++
	}
	if document.Remove != nil {
		declaredKinds++
	}
	if declaredKinds != 1 {
		return StepDefinition{}, fmt.Errorf(stepKindCountMessageTemplateConstant, targetName, stepIndex+1)
	}

	trimmedWorkingDirectory := strings.TrimSpace(document.WorkingDirectory)

	stepKind := StepKindRun
	rawArguments := document.Run
	argumentDescriptor := runStepKeyConstant
	switch {
	case document.Prune != nil:
		stepKind = StepKindPrune
		rawArguments = document.Prune
		argumentDescriptor = pruneStepKeyConstant
	case document.Remove != nil:
		stepKind = StepKindRemove
		rawArguments = document.Remove
		argumentDescriptor = removeStepKeyConstant
	}

	if stepKind != StepKindRun && len(trimmedWorkingDirectory) > 0 {
		return StepDefinition{}, fmt.Errorf(stepWorkingDirectoryMessageTemplateConstant, targetName, stepIndex+1)
	}

	arguments, argumentsError := parseStepArguments(rawArguments, argumentDescriptor)
	if argumentsError != nil {
		return StepDefinition{}, argumentsError
	}
	if len(arguments) == 0 {
		return StepDefinition{}, fmt.Errorf(stepEmptyValuesMessageTemplateConstant, targetName, stepIndex+1, argumentDescriptor)
	}

	return StepDefinition{
		Kind:             stepKind,
		Arguments:        arguments,
		WorkingDirectory: trimmedWorkingDirectory,
	}, nil
}

func parseStepArguments(raw any, descriptor string) ([]string, error) {
	if raw == nil {
		return nil, nil
	}

	switch typed := raw.(type) {
	case []string:
		return sanitizeStepArguments(typed), nil
	case []any:
		values := make([]string, 0, len(typed))
		for entryIndex := range typed {
			entry := typed[entryIndex]
			value, ok := entry.(string)
			if !ok {
				return nil, fmt.Errorf(stepEntriesMessageTemplateConstant, descriptor)
			}
			values = append(values, value)
		}
		return sanitizeStepArguments(values), nil
	case string:
		return sanitizeStepArguments(strings.Fields(typed)), nil
	default:
		return nil, fmt.Errorf(stepTypeMessageTemplateConstant, descriptor)
	}
}

func sanitizeStepArguments(arguments []string) []string {
	sanitized := make([]string, 0, len(arguments))
	for argumentIndex := range arguments {
		argument := strings.TrimSpace(arguments[argumentIndex])
		if argument == "" {
			continue
		}
		sanitized = append(sanitized, argument)
	}
	if len(sanitized) == 0 {
		return nil
	}
	return sanitized
}

func ensureTargetsSequence(contentBytes []byte) error {
	var targetsWrapper struct {
		Targets yaml.Node `yaml:"targets"`
	}

	if unmarshalError := yaml.Unmarshal(contentBytes, &targetsWrapper); unmarshalError != nil {
		return unmarshalError
	}

	if targetsWrapper.Targets.Kind == 0 {
		return nil
	}

	switch targetsWrapper.Targets.Kind {
	case yaml.SequenceNode:
		return nil
	default:
		return errors.New(taskfileTargetsSequenceMessageConstant)
	}
}
