package entities

const (
	RoleAdmin = "admin"
	RoleOwner = "user"
)

// User is a business owner account. Each owner runs exactly one business,
// whose id is the owner's tenant schema.
type User struct {
	ID            int    `json:"id"`
	Username      string `json:"username"`
	PasswordHash  string `json:"-"`
	Role          string `json:"role"`
	SchemaName    string `json:"schema_name"`
	IsActive      bool   `json:"is_active"`
	WAEnabled     bool   `json:"wa_enabled"`
	TelegramToken string `json:"-"`
	DailyLimit    int    `json:"daily_limit"`   // 0 = unlimited
	MonthlyLimit  int    `json:"monthly_limit"` // 0 = unlimited
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// BusinessID is "" until the tenant schema has been provisioned.
func (u User) BusinessID() string { return u.SchemaName }

// CanRunBot reports whether inbound messages for the business may be answered.
func (u User) CanRunBot() bool { return u.IsActive && u.SchemaName != "" }
