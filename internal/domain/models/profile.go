package models

import (
	"bytes"
	"encoding/json"
)

// ================================================================================
// Wire Payloads
// ================================================================================

// Envelope is the top-level shape of every portal response: a JSON object
// whose js field carries the actual payload.
type Envelope struct {
	Js json.RawMessage `json:"js"`
}

// HasJs reports whether the response carried a js payload at all.
func (e *Envelope) HasJs() bool {
	return len(bytes.TrimSpace(e.Js)) > 0
}

// JsIsArray reports whether js is a JSON array. Portals answer a rejected
// handshake with an empty array instead of an object.
func (e *Envelope) JsIsArray() bool {
	trimmed := bytes.TrimSpace(e.Js)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// HandshakePayload is the js object of a successful handshake. Server
// implementations disagree on the field name, so both spellings are accepted.
type HandshakePayload struct {
	Token  string `json:"token"`
	Random string `json:"random"`
}

// SessionToken returns whichever token spelling the server used.
func (h *HandshakePayload) SessionToken() string {
	if h.Token != "" {
		return h.Token
	}
	return h.Random
}

// ProfilePayload is the js object of a get_profile response.
type ProfilePayload struct {
	Status   StatusCode `json:"status"`
	Msg      string     `json:"msg"`
	BlockMsg string     `json:"block_msg"`

	Login             string `json:"login"`
	Fname             string `json:"fname"`
	Fio               string `json:"fio"`
	Phone             string `json:"phone"`
	Account           string `json:"account"`
	ExpireBillingDate string `json:"expire_billing_date"`
	ExpiryDate        string `json:"expirydate"`
}

// HasProfileFields reports whether any account-identifying field is present.
// Their presence marks an authorized response regardless of the status code,
// unless a conflict message overrides it.
func (p *ProfilePayload) HasProfileFields() bool {
	return p.Login != "" || p.Fname != "" || p.Fio != "" ||
		p.ExpireBillingDate != "" || p.ExpiryDate != ""
}

// DisplayName returns the best available account name.
func (p *ProfilePayload) DisplayName() string {
	if p.Fio != "" {
		return p.Fio
	}
	return p.Fname
}

// ProfileInfo extracts the optional account fields for the outcome.
func (p *ProfilePayload) ProfileInfo() *ProfileInfo {
	if !p.HasProfileFields() && p.Phone == "" && p.Account == "" {
		return nil
	}
	expiry := p.ExpireBillingDate
	if expiry == "" {
		expiry = p.ExpiryDate
	}
	return &ProfileInfo{
		Login:   p.Login,
		Name:    p.DisplayName(),
		Phone:   p.Phone,
		Account: p.Account,
		Expiry:  expiry,
	}
}
