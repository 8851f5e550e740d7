// Package psswd хэширует пароли юзеров через bcrypt.
package psswd

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

type PasswordHash string

func (p PasswordHash) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %s", err.Error())
	}
	return string(bytes), nil
}

// ComparePassword сверяет пароль с хэшем. Важно для логина: на неверный пароль сервис
// отвечает так же, как на неизвестный юзернейм.
func (p PasswordHash) ComparePassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
