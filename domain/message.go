package domain

type Provider string

const (
	ProviderFCM  Provider = "firebase_fcm"
	ProviderAPNS Provider = "apns"
)

type Message struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type SendOptions struct {
	Data     map[string]string `json:"data,omitempty"`
	Badge    *int              `json:"badge,omitempty"`
	Sound    string            `json:"sound,omitempty"`
	Platform Platform          `json:"platform,omitempty"`
	// APNSToken overrides the target for the APNs fallback when the device
	// registered a native token next to its FCM one.
	APNSToken string `json:"apnsToken,omitempty"`
}

const DefaultSound = "default"

func (o SendOptions) SoundOrDefault() string {
	if o.Sound == "" {
		return DefaultSound
	}
	return o.Sound
}
