package serverutils

type ResponseBody struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

func SuccessResponse(message string, data interface{}) ResponseBody {
	return ResponseBody{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func ErrorResponseBody(message string, errs interface{}) ResponseBody {
	return ResponseBody{
		Success: false,
		Message: message,
		Errors:  errs,
	}
}
