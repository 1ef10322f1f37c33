package utils

const (
	UserIDKey    contextKey = "user_id"
	UserEmailKey contextKey = "email"
)

const RoleAdmin = "admin"
