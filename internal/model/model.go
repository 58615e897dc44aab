// Package model описывает записи в том виде, в каком они хранятся в бд.
// Доменный слой маппит их в свои структуры и обратно.
package model

import "time"

// User соответствует таблице users.
type User struct {
	ID         int64     `gorm:"primaryKey"`
	Email      string    `gorm:"size:255;uniqueIndex;not null"`
	Password   string    `gorm:"size:255;not null"`
	Role       string    `gorm:"size:16;not null;default:STUDENT"`
	Specialism string    `gorm:"size:255;not null;default:Software Developer"`
	CohortID   *int64    `gorm:"index"`
	Profile    *Profile  `gorm:"constraint:OnDelete:CASCADE"`
	Cohorts    []Cohort  `gorm:"many2many:cohort_users"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

// Profile соответствует таблице profiles, один к одному с users.
type Profile struct {
	ID             int64  `gorm:"primaryKey"`
	UserID         int64  `gorm:"uniqueIndex;not null"`
	FirstName      string `gorm:"size:255;not null;default:''"`
	LastName       string `gorm:"size:255;not null;default:''"`
	Bio            string `gorm:"type:text;not null;default:''"`
	GithubUsername string `gorm:"size:255;not null;default:''"`
	Username       string `gorm:"size:255;not null;default:''"`
	ProfilePicture string `gorm:"type:text;not null;default:''"`
	Mobile         string `gorm:"size:64;not null;default:''"`
}

func (Profile) TableName() string {
	return "profiles"
}

// Cohort соответствует таблице cohorts.
type Cohort struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"size:255;not null"`
	StartDate time.Time `gorm:"not null"`
	EndDate   time.Time `gorm:"not null"`
	Users     []User    `gorm:"many2many:cohort_users"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Cohort) TableName() string {
	return "cohorts"
}

// Post соответствует таблице posts.
type Post struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"index;not null"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Post) TableName() string {
	return "posts"
}

// Comment соответствует таблице comments.
type Comment struct {
	ID        int64     `gorm:"primaryKey"`
	PostID    int64     `gorm:"index;not null"`
	Post      *Post     `gorm:"constraint:OnDelete:CASCADE"`
	UserID    int64     `gorm:"index;not null"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Comment) TableName() string {
	return "comments"
}

// UserWhere задает уникальный ключ для поиска одного пользователя.
// Используется ровно одно из полей.
type UserWhere struct {
	ID    int64
	Email string
}

// UserFilter задает условия выборки нескольких пользователей.
// Пустой фильтр возвращает всех.
type UserFilter struct {
	FirstNameContains string
}

// PostFilter задает условия выборки постов.
type PostFilter struct {
	UserID int64
}

// CohortUser соответствует строке связующей таблицы cohort_users (потоки N–N пользователи).
type CohortUser struct {
	CohortID int64 `gorm:"primaryKey"`
	UserID   int64 `gorm:"primaryKey"`
}

func (CohortUser) TableName() string {
	return "cohort_users"
}
