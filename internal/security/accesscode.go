package security

import (
	"crypto/rand"
	"io"
)

const (
	AccessCodeLength   = 6
	accessCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Наибольшее кратное длине алфавита, не превышающее 256. Байты выше отбрасываются,
// иначе первые символы алфавита выпадали бы чаще.
const accessCodeByteLimit = 256 - 256%len(accessCodeAlphabet)

// NewAccessCode генерирует код доступа к приватной комнате из криптостойкого источника.
func NewAccessCode() string {
	return accessCodeFrom(rand.Reader)
}

func accessCodeFrom(r io.Reader) string {
	out := make([]byte, 0, AccessCodeLength)
	buf := make([]byte, AccessCodeLength*2)
	for len(out) < AccessCodeLength {
		if _, err := io.ReadFull(r, buf); err != nil {
			// crypto/rand.Reader не возвращает ошибок, до сюда доходит только битый источник
			panic("security: read random bytes: " + err.Error())
		}
		for _, b := range buf {
			if int(b) >= accessCodeByteLimit {
				continue
			}
			out = append(out, accessCodeAlphabet[int(b)%len(accessCodeAlphabet)])
			if len(out) == AccessCodeLength {
				break
			}
		}
	}
	return string(out)
}

// IsAccessCode проверяет формат: 6 символов из [A-Z0-9].
func IsAccessCode(s string) bool {
	if len(s) != AccessCodeLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
