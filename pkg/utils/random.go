package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateToken создает уникальный токен сессии для транспортного слоя.
// НЕ используется внутри симуляции: там вся случайность идет через rng.Stream,
// иначе ломается воспроизводимость.
func GenerateToken() string {
	b := make([]byte, 8) // 16 символов hex
	if _, err := rand.Read(b); err != nil {
		panic("failed to generate session token: " + err.Error())
	}
	return hex.EncodeToString(b)
}
