package dto

type SignupDTO struct {
	Name            string `json:"name" validate:"required,min=2,max=150"`
	Email           string `json:"email" validate:"required,custom_email,max=255"`
	Password        string `json:"password" validate:"required,min=8,max=72,password_strength"`
	ReEnterPassword string `json:"reEnterPassword" validate:"required,eqfield=Password"`
}

type LoginDTO struct {
	Email    string `json:"email" validate:"required,custom_email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type ForgotPasswordDTO struct {
	Email string `json:"email" validate:"required,custom_email"`
}

type ResetPasswordDTO struct {
	Token       string `json:"token" validate:"required,uuid4"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=72,password_strength"`
}

type AuthResponseDTO struct {
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
	User         UserPublicDTO `json:"user"`
}
