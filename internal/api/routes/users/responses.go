package users

type LoginResponse struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName,omitempty"`
}

// MeResponse is the user record minus the password hash.
type MeResponse struct {
	ID                int64    `json:"id"`
	Username          string   `json:"username"`
	Email             string   `json:"email"`
	FirstName         string   `json:"firstName"`
	LastName          string   `json:"lastName,omitempty"`
	FavoriteRecipeIDs []string `json:"favoriteRecipeIds"`
}
