package domain

import "time"

// Principal — аутентифицированный пользователь запроса. Email нужен для
// сопоставления с грантами: получатель гранта идентифицируется по
// контактному адресу.
type Principal struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type User struct {
	ID        int64     `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Name      string    `json:"name" db:"name"`
	Lastname  string    `json:"lastname" db:"lastname"`
	CountryID *int64    `json:"country_id,omitempty" db:"country_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
