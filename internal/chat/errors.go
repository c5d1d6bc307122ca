package chat

import "errors"

var (
	ErrSetupIncomplete    = errors.New("setup incomplete")
	ErrDuplicateMessage   = errors.New("duplicate message")
	ErrProjectsDisabled   = errors.New("projects are not enabled")
	ErrProjectNotFound    = errors.New("project not found")
	ErrNoCurrentProject   = errors.New("no current project")
	ErrInvalidProjectName = errors.New("invalid project name")
	ErrEmptyFile          = errors.New("empty file")
)
