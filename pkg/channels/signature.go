package channels

import (
	"net/url"

	"github.com/twilio/twilio-go/client"
)

// SignatureHeader carries the provider's webhook signature.
const SignatureHeader = "X-Twilio-Signature"

// ValidateSignature reports whether signature matches a form-encoded webhook
// posted to fullURL. Twilio never repeats a parameter, so only the first value
// of each key is signed.
func ValidateSignature(authToken, fullURL string, params url.Values, signature string) bool {
	if signature == "" {
		return false
	}
	flat := make(map[string]string, len(params))
	for k := range params {
		flat[k] = params.Get(k)
	}
	v := client.NewRequestValidator(authToken)
	return v.Validate(fullURL, flat, signature)
}

// ValidateBodySignature checks a JSON webhook. fullURL must carry the
// bodySHA256 query parameter the provider adds for non-form bodies.
func ValidateBodySignature(authToken, fullURL string, body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	v := client.NewRequestValidator(authToken)
	return v.ValidateBody(fullURL, body, signature)
}
