// Package errors provides standardized error types for the deployctl tool.
//
// Every failure in the provisioning pipeline maps to a DeployError with a
// Step code identifying which part of the procedure failed. The pipeline is
// terminal on first failure, so the step code plus the wrapped cause is the
// complete diagnostic an operator gets.
//
// # Step Codes
//
// Pipeline steps:
//
//	errors.StepCertStaging     // staging certificate acquisition failed
//	errors.StepCertProduction  // production certificate acquisition failed
//	errors.StepConfigWrite     // writing the nginx site document failed
//	errors.StepRestart         // restarting the service set failed
//	errors.StepVerify          // post-restart health verification failed
//
// Non-pipeline codes:
//
//	errors.StepConfig      // deploy configuration invalid or unreadable
//	errors.StepValidation  // input validation failed
//	errors.StepExec        // an external command could not be run
//
// # Usage
//
// Wrapping an underlying error with step context:
//
//	return errors.Step(errors.StepCertStaging, "certbot staging run failed", err)
//
// Checking which step failed:
//
//	var derr *errors.DeployError
//	if errors.As(err, &derr) && derr.Code == errors.StepCertStaging {
//	    // staging failed, production was never attempted
//	}
package errors

import (
	"errors"
	"fmt"
)

// StepCode identifies the pipeline step or error category.
type StepCode string

// Step codes for the provisioning pipeline and its surroundings.
const (
	StepCertStaging    StepCode = "CERT_STAGING"
	StepCertProduction StepCode = "CERT_PRODUCTION"
	StepConfigWrite    StepCode = "CONFIG_WRITE"
	StepRestart        StepCode = "RESTART"
	StepVerify         StepCode = "VERIFY"
	StepConfig         StepCode = "CONFIG"
	StepValidation     StepCode = "VALIDATION"
	StepExec           StepCode = "EXEC"
)

// DeployError represents a structured error with context about which part
// of the provisioning procedure failed.
type DeployError struct {
	Code    StepCode // Failing step or category
	Message string   // Human-readable message
	Domain  string   // Domain being provisioned (if applicable)
	Err     error    // Underlying error (if any)
}

// Error implements the error interface.
func (e *DeployError) Error() string {
	if e.Domain != "" && e.Err != nil {
		return fmt.Sprintf("%s %s: %s: %v", e.Code, e.Domain, e.Message, e.Err)
	}
	if e.Domain != "" {
		return fmt.Sprintf("%s %s: %s", e.Code, e.Domain, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error chain traversal.
func (e *DeployError) Unwrap() error {
	return e.Err
}

// Is reports whether target matches this error. Comparison is by step code,
// so sentinel errors match any DeployError from the same step.
func (e *DeployError) Is(target error) bool {
	t, ok := target.(*DeployError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Sentinel errors for the pipeline's failure taxonomy.
// Use these with errors.Is() to identify the failing step.
var (
	// ErrCertStaging indicates the staging certificate run failed.
	ErrCertStaging = &DeployError{Code: StepCertStaging, Message: "staging certificate acquisition failed"}

	// ErrCertProduction indicates the production certificate run failed.
	ErrCertProduction = &DeployError{Code: StepCertProduction, Message: "production certificate acquisition failed"}

	// ErrConfigWrite indicates the nginx site document could not be written.
	ErrConfigWrite = &DeployError{Code: StepConfigWrite, Message: "site configuration write failed"}

	// ErrRestart indicates the service set failed to restart.
	ErrRestart = &DeployError{Code: StepRestart, Message: "service restart failed"}

	// ErrVerify indicates the post-restart health probe failed.
	ErrVerify = &DeployError{Code: StepVerify, Message: "post-restart verification failed"}

	// ErrCertbotNotInstalled indicates certbot is not on PATH.
	ErrCertbotNotInstalled = &DeployError{Code: StepExec, Message: "certbot not installed"}

	// ErrComposeNotInstalled indicates no docker compose binary was found.
	ErrComposeNotInstalled = &DeployError{Code: StepExec, Message: "docker compose not installed"}

	// ErrConfigInvalid indicates the deploy configuration is invalid.
	ErrConfigInvalid = &DeployError{Code: StepConfig, Message: "invalid configuration"}
)

// Step creates an error with the given step code, message, and cause.
func Step(code StepCode, msg string, err error) error {
	return &DeployError{
		Code:    code,
		Message: msg,
		Err:     err,
	}
}

// StepDomain creates an error carrying domain context in addition to the
// step code and cause.
func StepDomain(code StepCode, domain, msg string, err error) error {
	return &DeployError{
		Code:    code,
		Message: msg,
		Domain:  domain,
		Err:     err,
	}
}

// Validation creates a validation error with a custom message.
func Validation(msg string) error {
	return &DeployError{
		Code:    StepValidation,
		Message: msg,
	}
}

// Is reports whether any error in err's chain matches target.
// This is a re-export of errors.Is for convenience.
var Is = errors.Is

// As finds the first error in err's chain that matches target.
// This is a re-export of errors.As for convenience.
var As = errors.As
