/*
Copyright © 2024 Alexandre Pires

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package auth

import (
	"errors"
)

type AuthConfig struct {
	SecretKey      string `json:"secret_key" yaml:"secret_key"`
	ExpirationTime int    `json:"expiration_time,omitempty" yaml:"expiration_time,omitempty"`
}

var ErrMissingSecret = errors.New("secret key is required")

var authConfig AuthConfig

// Init configures token signing. ExpirationTime is in hours and defaults to 24.
func Init(config AuthConfig) error {
	if len(config.SecretKey) == 0 {
		return ErrMissingSecret
	}

	if config.ExpirationTime <= 0 {
		config.ExpirationTime = 24
	}

	authConfig = config
	return nil
}

// Enabled reports whether a secret key was configured.
func Enabled() bool {
	return len(authConfig.SecretKey) > 0
}

// Reset drops the configured secret, disabling token checks.
func Reset() {
	authConfig = AuthConfig{}
}
