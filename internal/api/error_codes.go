// internal/api/error_codes.go
package api

// API 错误码定义
const (
	// 通用错误
	ErrCodeInvalidRequest = "INVALID_REQUEST"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeInternalError  = "INTERNAL_ERROR"
	ErrCodeRateLimited    = "RATE_LIMITED"

	// 会话相关错误
	ErrCodeSessionNotFound  = "SESSION_NOT_FOUND"
	ErrCodeInvalidStep      = "INVALID_STEP"
	ErrCodeStepBlocked      = "STEP_BLOCKED"
	ErrCodeValidationFailed = "VALIDATION_FAILED"

	// 项目数据相关错误
	ErrCodeProjectNotFound = "PROJECT_NOT_FOUND"
	ErrCodeCourseNotFound  = "COURSE_NOT_FOUND"
	ErrCodeSaveFailed      = "SAVE_FAILED"
	ErrCodeLoadFailed      = "LOAD_FAILED"

	// 情景生成相关错误
	ErrCodeGenerationFailed = "GENERATION_FAILED"
	ErrCodeInvalidOption    = "INVALID_OPTION"
	ErrCodeScreenNotFound   = "SCREEN_NOT_FOUND"
	ErrCodeEmptyInstruction = "EMPTY_INSTRUCTION"

	// 导出相关错误
	ErrCodeExportFailed     = "EXPORT_FAILED"
	ErrCodeIncompleteForm   = "INCOMPLETE_FORM"
	ErrCodeExportNotAllowed = "EXPORT_NOT_ALLOWED"

	// LLM 服务相关错误
	ErrCodeLLMNotReady     = "LLM_NOT_READY"
	ErrCodeLLMRequestError = "LLM_REQUEST_ERROR"
	ErrCodeConfigError     = "CONFIG_ERROR"
)
