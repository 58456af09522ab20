package domain

// Ключи локально сохраняемых данных сессии.
// Sentinel-набор, который страж сессии очищает при истечении срока действия.
const (
	SessionKeyToken          = "token"
	SessionKeyTokenExpiry    = "token_expiry"
	SessionKeyUserID         = "user_id"
	SessionKeyRestaurantName = "restaurant_name"
	SessionKeyBranchID       = "branch_id"
	SessionKeyBranchName     = "branch_name"
)

// SessionKeys перечисляет все ключи сессии в стабильном порядке.
func SessionKeys() []string {
	return []string{
		SessionKeyToken,
		SessionKeyTokenExpiry,
		SessionKeyUserID,
		SessionKeyRestaurantName,
		SessionKeyBranchID,
		SessionKeyBranchName,
	}
}
