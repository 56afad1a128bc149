// nexus-sms - SMS gateway test bench
// Copyright (C) 2026  nexus contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package sms

import "errors"

// ErrUnexpectedStatus is returned when an outbound call answers with a
// non-2xx status.
var ErrUnexpectedStatus = errors.New("unexpected response status")
