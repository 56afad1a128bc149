// nexus-sms - SMS gateway test bench
// Copyright (C) 2026  nexus contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package config

import "errors"

// Configuration errors returned by LoadClient and Validate.
var (
	ErrMissingMTURL    = errors.New("mt_url is not configured")
	ErrInvalidMTURL    = errors.New("mt_url must be an absolute http(s) URL")
	ErrInvalidLogLevel = errors.New("invalid log level")
)
