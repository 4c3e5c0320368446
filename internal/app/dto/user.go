package dto

import domainuser "lendme/internal/domain/user"

type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func MapUser(u *domainuser.User) User {
	return User{ID: u.ID, Name: u.Name, Email: u.Email}
}

func MapUsers(users []*domainuser.User) []User {
	result := make([]User, 0, len(users))
	for _, u := range users {
		result = append(result, MapUser(u))
	}
	return result
}
