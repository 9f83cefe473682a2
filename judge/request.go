package judge

import "encoding/json"

type SubmissionRequest struct {
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	Code     string `json:"code"`
}

type RegistrationRequest struct {
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
}

type Visitor struct {
	ID       int    `json:"id"`
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
}

type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type welcomeBody struct {
	Message string `json:"message"`
}
