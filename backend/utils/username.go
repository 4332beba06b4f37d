package utils

import "strings"

// UsernameFromEmail выводит базовое имя пользователя из локальной части
// email: строчные буквы, цифры, точки и подчеркивания, остальное отбрасывается
func UsernameFromEmail(email string) string {
	local := strings.ToLower(strings.SplitN(email, "@", 2)[0])

	var b strings.Builder
	for _, r := range local {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_':
			b.WriteRune(r)
		}
	}

	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}
