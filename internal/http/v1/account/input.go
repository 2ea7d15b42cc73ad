package account

// CredentialsBody is the email and password of a local account.
type CredentialsBody struct {
	Email    string `json:"email"    format:"email" maxLength:"254"             required:"true" doc:"Email address" example:"jo@example.com"`
	Password string `json:"password" minLength:"8"  maxLength:"72"              required:"true" doc:"Password"      example:"correct-horse-battery"`
}

// RegisterInput for POST /auth/register
type RegisterInput struct {
	Body CredentialsBody
}

// LoginInput for POST /auth/login
type LoginInput struct {
	Body CredentialsBody
}
