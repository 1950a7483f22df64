package domain

type ColorScheme struct {
	Name      string `json:"name"`
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

type User struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Hash         string      `json:"passwordHash"`
	BusinessName string      `json:"businessName"`
	AnswerHash   string      `json:"securityAnswerHash"`
	ColorScheme  ColorScheme `json:"colorScheme"`
	CreatedAt    string      `json:"createdAt"`
}
