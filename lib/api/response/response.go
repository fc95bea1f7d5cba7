package response

import "festreg/lib/clock"

// Response is the uniform JSON envelope. Failures carry the user-visible
// message in the "error" field, which the dashboard surfaces as a toast.
type Response struct {
	Data      interface{} `json:"data,omitempty"`
	Success   bool        `json:"success"`
	Error     string      `json:"error,omitempty"`
	Timestamp string      `json:"timestamp"`
}

func Ok(data interface{}) Response {
	return Response{
		Data:      data,
		Success:   true,
		Timestamp: clock.Now(),
	}
}

func Error(message string) Response {
	return Response{
		Success:   false,
		Error:     message,
		Timestamp: clock.Now(),
	}
}
