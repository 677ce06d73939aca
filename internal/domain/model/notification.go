package model

// Channel represents the notification delivery channel.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelWhatsApp Channel = "whatsapp"
	ChannelTelegram Channel = "telegram" // Internal team alert, not sent to the registrant.
)

// Welcome is the data every channel needs to greet a new registrant.
type Welcome struct {
	Name    string
	Email   string
	Phone   string
	Company string
	Niches  []string
}
