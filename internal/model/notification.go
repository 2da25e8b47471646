package model

// NotificationSettings are the alert toggles of the settings page
type NotificationSettings struct {
	Trades    bool `json:"trades"`
	Profits   bool `json:"profits"`
	Losses    bool `json:"losses"`
	BotStatus bool `json:"botStatus"`
	Email     bool `json:"email"`
	Telegram  bool `json:"telegram"`
}

// NotificationSettingsUpdate changes only the fields that are present
type NotificationSettingsUpdate struct {
	Trades    *bool `json:"trades"`
	Profits   *bool `json:"profits"`
	Losses    *bool `json:"losses"`
	BotStatus *bool `json:"botStatus"`
	Email     *bool `json:"email"`
	Telegram  *bool `json:"telegram"`
}

// Apply copies the present fields of u onto s
func (u *NotificationSettingsUpdate) Apply(s *NotificationSettings) {
	set := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	set(&s.Trades, u.Trades)
	set(&s.Profits, u.Profits)
	set(&s.Losses, u.Losses)
	set(&s.BotStatus, u.BotStatus)
	set(&s.Email, u.Email)
	set(&s.Telegram, u.Telegram)
}
