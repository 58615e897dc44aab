package domain

import "github.com/GoArmGo/CohortApp/internal/model"

// UserPatch описывает частичное изменение пользователя.
// Хранилище применяет только заданные поля.
type UserPatch struct {
	Email        Optional[string]
	PasswordHash Optional[string]
	Role         Optional[Role]
	CohortID     Optional[int64]
	Specialism   Optional[string]

	FirstName      Optional[string]
	LastName       Optional[string]
	Bio            Optional[string]
	GithubUsername Optional[string]
	Username       Optional[string]
	ProfilePicture Optional[string]
	Mobile         Optional[string]
}

// UserColumns возвращает изменяемые колонки таблицы users.
func (p UserPatch) UserColumns() map[string]any {
	cols := map[string]any{}
	setColumn(cols, "email", p.Email)
	setColumn(cols, "password", p.PasswordHash)
	if role, ok := p.Role.Get(); ok {
		cols["role"] = role.String()
	}
	setColumn(cols, "cohort_id", p.CohortID)
	setColumn(cols, "specialism", p.Specialism)
	return cols
}

// ProfileColumns возвращает изменяемые колонки таблицы profiles.
func (p UserPatch) ProfileColumns() map[string]any {
	cols := map[string]any{}
	setColumn(cols, "first_name", p.FirstName)
	setColumn(cols, "last_name", p.LastName)
	setColumn(cols, "bio", p.Bio)
	setColumn(cols, "github_username", p.GithubUsername)
	setColumn(cols, "username", p.Username)
	setColumn(cols, "profile_picture", p.ProfilePicture)
	setColumn(cols, "mobile", p.Mobile)
	return cols
}

func (p UserPatch) IsEmpty() bool {
	return len(p.UserColumns()) == 0 && len(p.ProfileColumns()) == 0
}

// ApplyTo применяет патч к записи в памяти.
// Отсутствующий профиль создается.
func (p UserPatch) ApplyTo(rec *model.User) {
	if v, ok := p.Email.Get(); ok {
		rec.Email = v
	}
	if v, ok := p.PasswordHash.Get(); ok {
		rec.Password = v
	}
	if v, ok := p.Role.Get(); ok {
		rec.Role = v.String()
	}
	if v, ok := p.CohortID.Get(); ok {
		rec.CohortID = &v
	}
	if v, ok := p.Specialism.Get(); ok {
		rec.Specialism = v
	}

	if len(p.ProfileColumns()) == 0 {
		return
	}
	if rec.Profile == nil {
		rec.Profile = &model.Profile{UserID: rec.ID}
	}
	prof := rec.Profile
	applyString(&prof.FirstName, p.FirstName)
	applyString(&prof.LastName, p.LastName)
	applyString(&prof.Bio, p.Bio)
	applyString(&prof.GithubUsername, p.GithubUsername)
	applyString(&prof.Username, p.Username)
	applyString(&prof.ProfilePicture, p.ProfilePicture)
	applyString(&prof.Mobile, p.Mobile)
}

func setColumn[T any](cols map[string]any, name string, o Optional[T]) {
	if v, ok := o.Get(); ok {
		cols[name] = v
	}
}

func applyString(dst *string, o Optional[string]) {
	if v, ok := o.Get(); ok {
		*dst = v
	}
}

// ProfileChanges содержит изменения профиля, присланные клиентом.
// Пустая строка означает "не менять", а не "очистить".
type ProfileChanges struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Bio       string `json:"bio"`
	GithubURL string `json:"githubUrl"`
	Username  string `json:"username"`
	Mobile    string `json:"mobile"`
	Password  string `json:"password"`
}

// Validate проверяет только переданные поля.
func (c ProfileChanges) Validate() error {
	if c.Password != "" {
		if err := ValidatePassword(c.Password); err != nil {
			return err
		}
	}
	if c.Email != "" {
		if err := ValidateEmail(c.Email); err != nil {
			return err
		}
	}
	return nil
}

// Patch переводит изменения в патч. Пароль сюда не попадает:
// его хеш выставляет вызывающий код.
func (c ProfileChanges) Patch() UserPatch {
	return UserPatch{
		Email:          NonEmpty(c.Email),
		FirstName:      NonEmpty(c.FirstName),
		LastName:       NonEmpty(c.LastName),
		Bio:            NonEmpty(c.Bio),
		GithubUsername: NonEmpty(c.GithubURL),
		Username:       NonEmpty(c.Username),
		Mobile:         NonEmpty(c.Mobile),
	}
}
