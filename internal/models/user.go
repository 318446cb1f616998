package models

type User struct {
	ID        string `json:"id" db:"id"`
	Username  string `json:"username" db:"username"`
	Password  string `json:"-" db:"password"` // Never return password in JSON
	CreatedAt int64  `json:"created_at" db:"created_at"`
}
