package modgen

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by Creator.Create matches exactly one of
// these with errors.Is.
var (
	ErrInvalidParams     = errors.New("invalid module parameters")
	ErrUnknownModuleType = errors.New("unknown module type")
	ErrPathConflict      = errors.New("module path already exists")
	ErrMaterialize       = errors.New("creating module directory failed")
	ErrTemplateClone     = errors.New("template clone failed")
	ErrMetadata          = errors.New("writing module metadata failed")
	ErrRemoteCreation    = errors.New("remote repository creation failed")
	ErrInitialPush       = errors.New("initial push failed")
)

// Step names a stage of the scaffolding pipeline.
type Step string

const (
	StepValidate      Step = "validate"
	StepResolve       Step = "resolve"
	StepMaterialize   Step = "materialize"
	StepWriteMetadata Step = "write-metadata"
	StepProvision     Step = "provision"
)

// StepError carries the module, the failed step, the error kind and the
// collaborator's error. Both Kind and Err are reachable through errors.Is
// and errors.As.
type StepError struct {
	Module string
	Step   Step
	Kind   error
	Err    error
}

func (e *StepError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("module %s: %s: %v", e.Module, e.Step, e.Kind)
	}
	return fmt.Sprintf("module %s: %s: %v: %v", e.Module, e.Step, e.Kind, e.Err)
}

func (e *StepError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func stepError(module string, step Step, kind, err error) *StepError {
	return &StepError{Module: module, Step: step, Kind: kind, Err: err}
}
