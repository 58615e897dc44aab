package domain

import (
	"strings"
	"time"

	"github.com/GoArmGo/CohortApp/internal/model"
)

// Cohort описывает учебный поток с датами начала и окончания.
type Cohort struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	StartDate time.Time      `json:"startDate"`
	EndDate   time.Time      `json:"endDate"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Users     []CohortMember `json:"users"`
}

// CohortMember: участник потока в ответах API.
type CohortMember struct {
	ID         int64         `json:"id"`
	Role       Role          `json:"role"`
	Email      string        `json:"email"`
	Specialism string        `json:"specialism"`
	Profile    MemberProfile `json:"profile"`
}

type MemberProfile struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Bio            string `json:"bio"`
	GithubUsername string `json:"githubUsername"`
}

func CohortFromRecord(rec *model.Cohort) *Cohort {
	if rec == nil {
		return nil
	}
	c := &Cohort{
		ID:        rec.ID,
		Name:      rec.Name,
		StartDate: rec.StartDate,
		EndDate:   rec.EndDate,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
		Users:     make([]CohortMember, 0, len(rec.Users)),
	}
	for i := range rec.Users {
		u := FromRecord(&rec.Users[i])
		c.Users = append(c.Users, CohortMember{
			ID:         u.ID,
			Role:       u.Role,
			Email:      u.Email,
			Specialism: u.Specialism,
			Profile: MemberProfile{
				FirstName:      u.FirstName,
				LastName:       u.LastName,
				Bio:            u.Bio,
				GithubUsername: u.GithubUsername,
			},
		})
	}
	return c
}

// CohortInput: тело запроса на создание или изменение потока.
// Даты принимаются как "2006-01-02" или RFC3339.
type CohortInput struct {
	Name      string `json:"name"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// Record проверяет обязательные поля и собирает запись для создания.
func (in CohortInput) Record() (*model.Cohort, error) {
	if strings.TrimSpace(in.Name) == "" || in.StartDate == "" || in.EndDate == "" {
		return nil, NewValidationError("cohort", "Missing required information")
	}
	start, err := ParseDate("startDate", in.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := ParseDate("endDate", in.EndDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, NewValidationError("endDate", "endDate must not be before startDate")
	}
	return &model.Cohort{Name: in.Name, StartDate: start, EndDate: end}, nil
}

// Patch строит частичное изменение из непустых полей.
func (in CohortInput) Patch() (CohortPatch, error) {
	var p CohortPatch
	if in.Name == "" && in.StartDate == "" && in.EndDate == "" {
		return p, NewValidationError("cohort", "Missing required information in request body.")
	}
	p.Name = NonEmpty(in.Name)
	if in.StartDate != "" {
		start, err := ParseDate("startDate", in.StartDate)
		if err != nil {
			return p, err
		}
		p.StartDate = Some(start)
	}
	if in.EndDate != "" {
		end, err := ParseDate("endDate", in.EndDate)
		if err != nil {
			return p, err
		}
		p.EndDate = Some(end)
	}
	return p, nil
}

// CohortPatch описывает частичное изменение потока.
type CohortPatch struct {
	Name      Optional[string]
	StartDate Optional[time.Time]
	EndDate   Optional[time.Time]
}

func (p CohortPatch) Columns() map[string]any {
	cols := map[string]any{}
	setColumn(cols, "name", p.Name)
	setColumn(cols, "start_date", p.StartDate)
	setColumn(cols, "end_date", p.EndDate)
	return cols
}

func (p CohortPatch) ApplyTo(rec *model.Cohort) {
	applyString(&rec.Name, p.Name)
	if v, ok := p.StartDate.Get(); ok {
		rec.StartDate = v
	}
	if v, ok := p.EndDate.Get(); ok {
		rec.EndDate = v
	}
}

// ParseDate разбирает дату в формате "2006-01-02" или RFC3339.
func ParseDate(field, value string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, NewValidationError(field, "date must be YYYY-MM-DD or RFC3339")
	}
	return t, nil
}
