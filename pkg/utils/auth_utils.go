package utils

import (
	"fmt"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("не удалось хешировать пароль: %w", err)
	}
	return string(bytes), nil
}

func ComparePasswords(hashedPassword string, plainPassword string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
}

// Оценка пароля по пятибалльной шкале: заглавная, строчная, цифра, спецсимвол, длина от 10.
var passwordChecks = []*regexp.Regexp{
	regexp.MustCompile(`[A-Z]`),
	regexp.MustCompile(`[a-z]`),
	regexp.MustCompile(`\d`),
	regexp.MustCompile(`[^\w]`),
}

const (
	PasswordWeak   = "weak"
	PasswordFair   = "fair"
	PasswordGood   = "good"
	PasswordStrong = "strong"
)

type PasswordStrength struct {
	Score int    `json:"score"`
	Label string `json:"label"`
}

func EvaluatePassword(password string) PasswordStrength {
	if password == "" {
		return PasswordStrength{Score: 0, Label: PasswordWeak}
	}
	score := 0
	for _, re := range passwordChecks {
		if re.MatchString(password) {
			score++
		}
	}
	if len(password) >= 10 {
		score++
	}

	switch {
	case score >= 4:
		return PasswordStrength{Score: score, Label: PasswordStrong}
	case score == 3:
		return PasswordStrength{Score: score, Label: PasswordGood}
	case score == 2:
		return PasswordStrength{Score: score, Label: PasswordFair}
	default:
		return PasswordStrength{Score: score, Label: PasswordWeak}
	}
}
