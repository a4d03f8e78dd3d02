package models

// Contact is one entry of the session's address book.
//
// DisplayName is the name saved on the phone, PushName the name the contact
// chose for themselves and ShortName the first name WhatsApp derives.
type Contact struct {
	DisplayName string `json:"name"`
	PushName    string `json:"pushname"`
	ShortName   string `json:"shortName"`
	EndpointID  string `json:"id"`
}

// Matches reports whether name equals one of the contact's names exactly.
func (c Contact) Matches(name string) bool {
	if name == "" {
		return false
	}
	return c.DisplayName == name || c.PushName == name || c.ShortName == name
}

type ResolvedRecipient struct {
	Name       string `json:"name"`
	EndpointID string `json:"endpoint"`
}
