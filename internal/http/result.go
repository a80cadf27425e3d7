package httpapi

// Result 统一响应信封：{success, message, data}
// 失败时 error 只携带规则名或脱敏后的原因
type Result[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func Ok[T any](message string, data T) Result[T] {
	if message == "" {
		message = "ok"
	}
	return Result[T]{Success: true, Message: message, Data: data}
}

func Fail(message string) Result[any] {
	return Result[any]{Success: false, Message: message}
}

func FailWith(message, errDetail string) Result[any] {
	return Result[any]{Success: false, Message: message, Error: errDetail}
}
