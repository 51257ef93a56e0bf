package response

import "github.com/eventhub-io/eventhub/internal/domain"

type AuthResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}
