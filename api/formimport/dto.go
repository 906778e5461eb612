package formimport

import "time"

type AuthenticateBody struct {
	Code string `json:"code" validate:"required"`
}

type PickBody struct {
	Query string `json:"query"`
}

type AuthURLResponse struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

type TokenResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	Expiry      time.Time `json:"expiry"`
}

type PickResponse struct {
	FormID *string `json:"formId"`
}
