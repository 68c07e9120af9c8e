// Package validator provides the issue model shared by registry validation.
//
// Manifest and category checks produce a [Result] per file; the registry
// merges them under each file's path and either fails the load with
// [Result.Err] or hands the whole result to a [Reporter] for the validate
// command.
//
// # Basic Usage
//
//	result := &validator.Result{}
//	if name == "" {
//		result.AddError("/name", "is required", name)
//	}
//
//	if err := result.Err(); err != nil {
//		return err
//	}
package validator
