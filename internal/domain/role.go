package domain

import (
	"fmt"
	"strings"
)

// Role описывает роль пользователя. Нулевое значение означает студента.
type Role uint8

const (
	RoleStudent Role = iota
	RoleTeacher
)

func (r Role) String() string {
	switch r {
	case RoleStudent:
		return "STUDENT"
	case RoleTeacher:
		return "TEACHER"
	default:
		return fmt.Sprintf("Role(%d)", uint8(r))
	}
}

func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleTeacher
}

// ParseRole разбирает "STUDENT" / "TEACHER" без учета регистра.
func ParseRole(s string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "STUDENT":
		return RoleStudent, nil
	case "TEACHER":
		return RoleTeacher, nil
	default:
		return RoleStudent, NewValidationError("role", fmt.Sprintf("unknown role %q, expected STUDENT or TEACHER", s))
	}
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid role value %d", uint8(r))
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
