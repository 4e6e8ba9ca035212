package expopush

// PushMessage is a single Expo push notification.
type PushMessage struct {
	To    string                 `json:"to"` // Expo push token (ExponentPushToken[...])
	Title string                 `json:"title,omitempty"`
	Body  string                 `json:"body"`
	Data  map[string]interface{} `json:"data,omitempty"`
	Sound string                 `json:"sound,omitempty"`
}

// pushResponse is the Expo push API response envelope.
type pushResponse struct {
	Data []struct {
		Status  string `json:"status"` // "ok" or "error"
		Message string `json:"message"`
	} `json:"data"`
	Errors []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}
