package installer

import "fmt"

// Stage names a pipeline step for error reporting.
type Stage string

const (
	StagePrepare  Stage = "prepare"
	StagePlatform Stage = "platform"
	StageVersion  Stage = "version"
	StageDownload Stage = "download"
	StageVerify   Stage = "verify"
	StageExtract  Stage = "extract"
	StageInstall  Stage = "install"
)

// StageError wraps the fatal error of one stage. Classification by the caller
// goes through errors.Is on the wrapped error.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func stageErr(stage Stage, err error) error {
	return &StageError{Stage: stage, Err: err}
}
