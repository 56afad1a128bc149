// nexus-sms - SMS gateway test bench
// Copyright (C) 2026  nexus contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package sms holds the wire types exchanged between the test client and the
// mock gateway, the webhook payload helpers, and the outbound JSON sender.
package sms

// Status values carried in acknowledgements and gateway responses.
const (
	StatusSuccess = "success"
	StatusError   = "error"

	// DLRStatusDelivered is the only delivery status the mock gateway reports.
	DLRStatusDelivered = "1"
)

// Ack is the body returned to a gateway for every accepted webhook.
//
//	{"status":"success"}
type Ack struct {
	Status string `json:"status"`
}

// MOMessage is a mobile-originated message as the gateway delivers it to a
// client's /mo webhook.
type MOMessage struct {
	ShortID   string `json:"short_id"`
	From      string `json:"from"`
	Text      string `json:"text"`
	Provider  string `json:"provider"`
	Keyword   string `json:"keyword"`
	MessageID string `json:"message_id"`
	Language  string `json:"language"`
}

// MTRequest is the body a client POSTs to the gateway's /mt endpoint.
type MTRequest struct {
	Account  string `json:"account"`
	Username string `json:"username"`
	Password string `json:"password"`
	ShortID  string `json:"short_id"`
	To       string `json:"to"`
	Text     string `json:"text"`
	Provider string `json:"provider"`
	Keyword  string `json:"keyword"`
	Price    string `json:"price"`
	ExtID    string `json:"ext_id"`
	DlrURL   string `json:"dlr_url"`
}

// MissingParams reports whether any field the gateway requires is empty.
func (r MTRequest) MissingParams() bool {
	return r.Keyword == "" || r.Text == "" || r.Price == "" ||
		r.Provider == "" || r.ShortID == "" || r.To == ""
}

// MTResponse is the gateway's answer to an MT request.
type MTResponse struct {
	MsgID     string `json:"msg_id,omitempty"`
	Status    string `json:"status"`
	ErrorCode string `json:"error_code,omitempty"`
	ErrorDesc string `json:"error_desc,omitempty"`
}

// MTDlr is the delivery receipt the gateway POSTs to an MT's dlr_url.
type MTDlr struct {
	Mobile  string `json:"mobile"`
	ShortID string `json:"short_id"`
	MsgID   string `json:"msgId"`
	ExtID   string `json:"ext_id"`
	Status  string `json:"status"`
	Price   string `json:"price"`
}
