package response

const (
	MessageSuccess      = "Success"
	DefaultErrorMessage = "Something went wrong"

	// Error codes carried in Resp.ErrorCode.
	CodeOK           = 0
	CodeBadRequest   = 1
	CodeUnauthorized = 401
	CodeNotFound     = 404
	CodeInternal     = 500
)
