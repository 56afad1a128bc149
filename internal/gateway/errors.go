// nexus-sms - SMS gateway test bench
// Copyright (C) 2026  nexus contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package gateway

import "errors"

// Validation errors for incoming MT requests.
var (
	ErrMissingParams  = errors.New("mandatory parameter(s) missing")
	ErrInvalidRequest = errors.New("unreadable request body")
)
