package models

// RegisterRequest - модель запроса регистрации пользователя, уходит на сервер
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest - модель запроса аутентификации пользователя
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User - модель профиля пользователя, приходит с сервера
type User struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Wallet   *Wallet `json:"wallet,omitempty"`
}

// AuthResponse - модель ответа регистрации и аутентификации
type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
