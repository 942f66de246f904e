package application

import (
	"strings"
	"unicode"

	"github.com/oksasatya/shamba-farm/pkg/apperr"
)

const (
	minPasswordLength = 8
	// bcrypt rejects longer inputs.
	maxPasswordBytes = 72
)

var commonPasswords = map[string]struct{}{}

func init() {
	for _, p := range strings.Fields(`
		password password1 password12 password123 passw0rd p@ssword p@ssw0rd
		12345678 123456789 1234567890 87654321 11111111 00000000 12341234
		qwerty qwerty123 qwertyuiop asdfghjkl zxcvbnm 1q2w3e4r 1qaz2wsx
		abc12345 abcd1234 iloveyou sunshine princess football baseball
		welcome welcome1 letmein letmein1 monkey dragon master superman
		trustno1 whatever starwars computer michelle jennifer shadow
		freedom internet samsung liverpool chelsea arsenal manchester
		admin123 administrator changeme secret123 default guest1234
		farmer123 shamba123 kenya2024 nairobi123 mombasa1 harvest1
	`) {
		commonPasswords[p] = struct{}{}
	}
}

// checkNewPassword applies the password policy to every path that sets a
// password. confirm is compared when requireConfirm is set or when it is non-empty.
func checkNewPassword(username, password, confirm string, requireConfirm bool) error {
	fields := map[string]string{}
	if password == "" {
		fields["password"] = "this field is required"
	} else if msgs := passwordProblems(username, password); len(msgs) > 0 {
		fields["password"] = strings.Join(msgs, " ")
	}
	switch {
	case requireConfirm && confirm == "":
		fields["confirm_password"] = "this field is required"
	case (requireConfirm || confirm != "") && confirm != password:
		fields["confirm_password"] = "passwords don't match"
	}
	return apperr.Validation(fields)
}

func passwordProblems(username, password string) []string {
	var out []string
	if len([]rune(password)) < minPasswordLength {
		out = append(out, "This password is too short. It must contain at least 8 characters.")
	}
	if len(password) > maxPasswordBytes {
		out = append(out, "This password is too long. It must contain at most 72 bytes.")
	}
	if isAllDigits(password) {
		out = append(out, "This password is entirely numeric.")
	}
	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		out = append(out, "This password is too common.")
	}
	u, p := strings.ToLower(strings.TrimSpace(username)), strings.ToLower(password)
	if u != "" && (p == u || strings.Contains(p, u)) {
		out = append(out, "The password is too similar to the username.")
	}
	return out
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
