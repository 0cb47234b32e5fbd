package domain

// Principal is the authenticated caller of a request.
type Principal struct {
	AccountID string `json:"account_id"`
	Role      Role   `json:"role"`
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
