package gateway

import (
	"io"
	"mime"
	"net/http"
	"slices"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/tinyland-inc/replybridge/pkg/bus"
)

const maxBodyBytes = 1 << 20

func isJSON(r *http.Request) bool {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return ct == "application/json"
}

func readJSON(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, &ValidationError{Field: "body", Reason: err.Error()}
	}
	if !gjson.ValidBytes(data) {
		return nil, &ValidationError{Field: "body", Reason: "invalid JSON"}
	}
	return data, nil
}

func parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return &ValidationError{Field: "body", Reason: err.Error()}
	}
	return nil
}

// jsonString returns the value at path when it is a non-empty JSON string.
func jsonString(data []byte, path string) string {
	v := gjson.GetBytes(data, path)
	if v.Type != gjson.String {
		return ""
	}
	return v.String()
}

// parseInbound reads the provider webhook fields From and Body.
func parseInbound(w http.ResponseWriter, r *http.Request) (bus.InboundMessage, error) {
	var msg bus.InboundMessage

	if isJSON(r) {
		data, err := readJSON(w, r)
		if err != nil {
			return msg, err
		}
		msg.SenderID = jsonString(data, "From")
		msg.Content = jsonString(data, "Body")
		msg.MessageID = jsonString(data, "MessageSid")
	} else {
		if err := parseForm(w, r); err != nil {
			return msg, err
		}
		msg.SenderID = r.PostForm.Get("From")
		msg.Content = r.PostForm.Get("Body")
		msg.MessageID = r.PostForm.Get("MessageSid")
		if name := r.PostForm.Get("ProfileName"); name != "" {
			msg.Metadata = map[string]string{"profile_name": name}
		}
	}

	if msg.SenderID == "" {
		return msg, &ValidationError{Field: "From", Reason: "required"}
	}
	if msg.Content == "" {
		return msg, &ValidationError{Field: "Body", Reason: "required"}
	}
	return msg, nil
}

// parseBroadcast reads numbers and message. numbers must be a list; an empty
// list is accepted and yields no sends.
func parseBroadcast(w http.ResponseWriter, r *http.Request) (bus.BroadcastRequest, error) {
	var req bus.BroadcastRequest

	if isJSON(r) {
		data, err := readJSON(w, r)
		if err != nil {
			return req, err
		}
		numbers := gjson.GetBytes(data, "numbers")
		if !numbers.IsArray() {
			return req, &ValidationError{Field: "numbers", Reason: "must be a list"}
		}
		req.Recipients = []string{}
		for _, n := range numbers.Array() {
			if n.Type != gjson.String && n.Type != gjson.Number {
				return req, &ValidationError{Field: "numbers", Reason: "entries must be strings"}
			}
			req.Recipients = append(req.Recipients, strings.TrimSpace(n.String()))
		}
		req.Message = jsonString(data, "message")
	} else {
		if err := parseForm(w, r); err != nil {
			return req, err
		}
		// A single plain "numbers" field is a string, not a list; a repeated
		// key or the "numbers[]" form is a list.
		plain, bracketed := r.PostForm["numbers"], r.PostForm["numbers[]"]
		if len(bracketed) == 0 && len(plain) < 2 {
			return req, &ValidationError{Field: "numbers", Reason: "must be a list"}
		}
		req.Recipients = make([]string, 0, len(plain)+len(bracketed))
		for _, n := range slices.Concat(plain, bracketed) {
			req.Recipients = append(req.Recipients, strings.TrimSpace(n))
		}
		req.Message = r.PostForm.Get("message")
	}

	if req.Message == "" {
		return req, &ValidationError{Field: "message", Reason: "required"}
	}
	return req, nil
}
