package buckaroo

// Setting keys as stored per payment service provider.
const (
	WebsiteKeyLiveProperty  = "buckaroowebsitekeylive"
	WebsiteKeyTestProperty  = "buckaroowebsitekeytest"
	SecretKeyLiveProperty   = "buckaroosecretkeylive"
	SecretKeyTestProperty   = "buckaroosecretkeytest"
	PushContentTypeProperty = "buckaroopushcontenttype"
	HashMethodProperty      = "buckaroohashmethod"
)

// Credentials are the read-only settings of one payment method.
type Credentials struct {
	WebsiteKey      string
	SecretKey       string
	HashMethod      HashMethod
	PushContentType PushContentType
	WebhookURL      string
}

func (c Credentials) keys() Keys {
	return Keys{WebsiteKey: c.WebsiteKey, SecretKey: c.SecretKey}
}
