package domain

// Справочные данные: страны, цвета папок, типы доступа.

type Country struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type Color struct {
	ID      int64  `json:"id" db:"id"`
	Name    string `json:"name" db:"name"`
	HexCode string `json:"hex_code" db:"hex_code"`
}

type AccessType struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
